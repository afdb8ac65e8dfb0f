package types

import "github.com/skeldnet/cosmetics-backend/pkg/enums"

// VendorData is the tagged payment-vendor variant stored on a purchase.
// Name is the discriminant; only the fields belonging to the named vendor
// are populated. Consumers must switch on Name exhaustively and treat any
// unmatched tag as an unsupported vendor, never as a no-op.
type VendorData struct {
	Name enums.VendorName `json:"name"`

	// STEAM
	OrderID string `json:"orderId,omitempty"`
	TransID string `json:"transId,omitempty"`
	UserID  string `json:"userId,omitempty"`

	// PLAY_STORE
	TransactionID string `json:"transactionId,omitempty"`

	// FREE: why the bundle was granted without payment
	Note string `json:"note,omitempty"`
}

// ItemResource locates the downloadable asset for an item.
type ItemResource struct {
	URL string `json:"url"`
	ID  int64  `json:"id"`
}
