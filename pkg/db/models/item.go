package models

import (
	"time"

	"github.com/skeldnet/cosmetics-backend/pkg/enums"
	"github.com/skeldnet/cosmetics-backend/pkg/types"
)

// Item is a single cosmetic asset. The string id is client-supplied and
// stable; AmongUsID is server-assigned, strictly increasing across all
// items regardless of type.
type Item struct {
	ID        string             `gorm:"column:id;primaryKey" json:"id"`
	Name      string             `gorm:"column:name;not null" json:"name"`
	AmongUsID int64              `gorm:"column:among_us_id;uniqueIndex;not null" json:"amongUsId"`
	Type      enums.ItemType     `gorm:"column:type;type:text;not null" json:"type"`
	Resource  types.ItemResource `gorm:"column:resource;type:jsonb;serializer:json" json:"resource"`
	Thumbnail string             `gorm:"column:thumbnail" json:"thumbnail"`
	Author    string             `gorm:"column:author" json:"author"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Item) TableName() string {
	return "items"
}
