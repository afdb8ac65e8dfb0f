package enums

import (
	"fmt"
	"strings"
)

// ItemType is the closed set of cosmetic variants the game renders.
type ItemType string

const (
	ItemTypeHat   ItemType = "HAT"
	ItemTypePet   ItemType = "PET"
	ItemTypeSkin  ItemType = "SKIN"
	ItemTypeModel ItemType = "MODEL"
)

func ParseItemType(raw string) (ItemType, error) {
	switch ItemType(strings.ToUpper(strings.TrimSpace(raw))) {
	case ItemTypeHat:
		return ItemTypeHat, nil
	case ItemTypePet:
		return ItemTypePet, nil
	case ItemTypeSkin:
		return ItemTypeSkin, nil
	case ItemTypeModel:
		return ItemTypeModel, nil
	default:
		return "", fmt.Errorf("unknown item type %q", raw)
	}
}

// VendorName discriminates the payment-vendor variant on a purchase.
type VendorName string

const (
	VendorSteam     VendorName = "STEAM"
	VendorPlayStore VendorName = "PLAY_STORE"
	VendorFree      VendorName = "FREE"
)

func ParseVendorName(raw string) (VendorName, error) {
	switch VendorName(strings.ToUpper(strings.TrimSpace(raw))) {
	case VendorSteam:
		return VendorSteam, nil
	case VendorPlayStore:
		return VendorPlayStore, nil
	case VendorFree:
		return VendorFree, nil
	default:
		return "", fmt.Errorf("unknown vendor %q", raw)
	}
}
