package models

import (
	"time"

	dbtypes "github.com/skeldnet/cosmetics-backend/pkg/db/types"
)

// Bundle is a named, priced grouping of item references offered for sale.
// Items holds ids, not rows; the join happens at read time.
type Bundle struct {
	ID          string              `gorm:"column:id;primaryKey" json:"id"`
	Name        string              `gorm:"column:name;not null" json:"name"`
	KeyArtURL   string              `gorm:"column:key_art_url;not null" json:"keyArtUrl"`
	Color       string              `gorm:"column:color;not null" json:"color"`
	Items       dbtypes.StringArray `gorm:"column:items;type:text[];not null" json:"items"`
	PriceUsd    int64               `gorm:"column:price_usd;not null" json:"priceUsd"`
	Description string              `gorm:"column:description;not null" json:"description"`
	ForSale     bool                `gorm:"column:for_sale;not null;default:false" json:"forSale"`
	Recurring   *bool               `gorm:"column:recurring" json:"recurring,omitempty"`
	DiscordRole *string             `gorm:"column:discord_role" json:"discordRole,omitempty"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Bundle) TableName() string {
	return "bundles"
}
