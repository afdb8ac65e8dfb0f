package models

import (
	"github.com/skeldnet/cosmetics-backend/pkg/types"
)

// TimeFinalizedSentinel marks a purchase the vendor has not yet confirmed.
const TimeFinalizedSentinel int64 = -1

// Purchase is a transaction record. Cost, Recurring and DiscordRole are
// copied from the bundle at initiation time and never re-read. Finalized
// flips false to true exactly once, via a successful vendor finalize call.
type Purchase struct {
	ID            string           `gorm:"column:id;primaryKey" json:"id"`
	BundleID      string           `gorm:"column:bundle_id;not null" json:"bundleId"`
	Cost          int64            `gorm:"column:cost;not null" json:"cost"`
	Purchaser     string           `gorm:"column:purchaser;index;not null" json:"purchaser"`
	TimeCreated   int64            `gorm:"column:time_created;not null" json:"timeCreated"`
	TimeFinalized int64            `gorm:"column:time_finalized;not null;default:-1" json:"timeFinalized"`
	Finalized     bool             `gorm:"column:finalized;not null;default:false" json:"finalized"`
	Recurring     *bool            `gorm:"column:recurring" json:"recurring,omitempty"`
	DiscordRole   *string          `gorm:"column:discord_role" json:"discordRole,omitempty"`
	VendorData    types.VendorData `gorm:"column:vendor_data;type:jsonb;serializer:json" json:"vendorData"`
}

func (Purchase) TableName() string {
	return "purchases"
}
