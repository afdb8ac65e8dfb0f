package accounts

// Perk strings granted by the account service and checked on authorized
// writes and reads.
const (
	PerkItemCreate          = "cosmetic.item.create"
	PerkItemUpdate          = "cosmetic.item.update"
	PerkBundleCreate        = "cosmetic.bundle.create"
	PerkBundleUpdate        = "cosmetic.bundle.update"
	PerkPurchaseUpdate      = "cosmetic.purchase.update"
	PerkPurchaseGetAll      = "cosmetic.purchase.get.all"
	PerkPurchaseFinaliseAll = "cosmetic.purchase.finalise.all"
)
