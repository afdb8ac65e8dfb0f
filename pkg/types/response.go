package types

// Every response body carries ok so clients can branch without inspecting
// the HTTP status.
type SuccessEnvelope struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type ErrorEnvelope struct {
	OK     bool `json:"ok"`
	Cause  any  `json:"cause"`
	Detail any  `json:"detail,omitempty"`
}

// PurchaseCreatedEnvelope is the one success payload that does not nest
// under data; the game client reads purchaseId off the top level.
type PurchaseCreatedEnvelope struct {
	OK         bool   `json:"ok"`
	PurchaseID string `json:"purchaseId"`
}
