package purchases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skeldnet/cosmetics-backend/pkg/accounts"
	"github.com/skeldnet/cosmetics-backend/pkg/db/models"
	"github.com/skeldnet/cosmetics-backend/pkg/enums"
	pkgerrors "github.com/skeldnet/cosmetics-backend/pkg/errors"
	"github.com/skeldnet/cosmetics-backend/pkg/logger"
	"github.com/skeldnet/cosmetics-backend/pkg/steam"
	"github.com/skeldnet/cosmetics-backend/pkg/types"
)

// BundleSource provides the bundle read the purchase flow needs.
type BundleSource interface {
	FindByID(ctx context.Context, id string) (*models.Bundle, error)
}

// VendorGateway is the slice of the Steam client the engine drives.
type VendorGateway interface {
	InitTxn(ctx context.Context, p steam.InitTxnParams) (*steam.TxnRefs, error)
	FinalizeTxn(ctx context.Context, orderID string) error
	GetUserAgreementInfo(ctx context.Context, steamID string) (*steam.AgreementStatus, error)
}

// Service drives the purchase lifecycle: absent -> pending -> finalized.
type Service interface {
	Create(ctx context.Context, input CreateInput) (string, error)
	Finalize(ctx context.Context, purchaseID string, actor *accounts.Profile) error
	Get(ctx context.Context, purchaseID string, actor *accounts.Profile) (*models.Purchase, error)
	ListForUser(ctx context.Context, actor *accounts.Profile) ([]models.Purchase, error)
	Update(ctx context.Context, purchaseID string, input UpdateInput) error
	AgreementStatus(ctx context.Context, purchaseID string, actor *accounts.Profile) (*steam.AgreementStatus, error)
	AgreementStatusForSteamID(ctx context.Context, steamID string) (*steam.AgreementStatus, error)
}

// CreateInput describes a purchase initiation by an authenticated buyer.
type CreateInput struct {
	BundleID    string
	SteamUserID string
	Buyer       *accounts.Profile
}

// UpdateInput is the permitted partial mutation of a purchase record. It is
// deliberately unrestricted with respect to finalized; holders of the
// update perk can repair records directly.
type UpdateInput struct {
	Cost          *int64
	Purchaser     *string
	TimeCreated   *int64
	TimeFinalized *int64
	Finalized     *bool
	Recurring     *bool
	DiscordRole   *string
}

type service struct {
	repo    Repository
	bundles BundleSource
	vendor  VendorGateway
	logg    *logger.Logger

	newOrderID func() (string, error)
	now        func() time.Time
}

// NewService builds the purchase engine with its collaborators.
func NewService(repo Repository, bundles BundleSource, vendor VendorGateway, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("purchases repository required")
	}
	if bundles == nil {
		return nil, fmt.Errorf("bundle source required")
	}
	if vendor == nil {
		return nil, fmt.Errorf("vendor gateway required")
	}
	return &service{
		repo:       repo,
		bundles:    bundles,
		vendor:     vendor,
		logg:       logg,
		newOrderID: steam.NewOrderID,
		now:        time.Now,
	}, nil
}

// Create initiates a purchase. The vendor call is the linearization point:
// nothing is persisted until the vendor has accepted the order, so a vendor
// failure leaves no local trace.
func (s *service) Create(ctx context.Context, input CreateInput) (string, error) {
	if strings.TrimSpace(input.SteamUserID) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "Error: Missing userId")
	}

	bundle, err := s.bundles.FindByID(ctx, input.BundleID)
	if err == gorm.ErrRecordNotFound {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "Bundle does not exist")
	}
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bundle")
	}

	orderID, err := s.newOrderID()
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order id")
	}

	recurring := bundle.Recurring != nil && *bundle.Recurring

	refs, err := s.vendor.InitTxn(ctx, steam.InitTxnParams{
		OrderID:     orderID,
		SteamID:     input.SteamUserID,
		ItemID:      bundle.ID,
		AmountCents: bundle.PriceUsd,
		Description: bundle.Description,
		Recurring:   recurring,
	})
	if err != nil {
		return "", err
	}

	purchase := &models.Purchase{
		ID:            strings.ReplaceAll(uuid.NewString(), "-", ""),
		BundleID:      bundle.ID,
		Cost:          bundle.PriceUsd,
		Purchaser:     input.Buyer.ClientID,
		TimeCreated:   s.now().UnixMilli(),
		TimeFinalized: models.TimeFinalizedSentinel,
		Finalized:     false,
		Recurring:     bundle.Recurring,
		DiscordRole:   bundle.DiscordRole,
		VendorData: types.VendorData{
			Name:    enums.VendorSteam,
			OrderID: refs.OrderID,
			TransID: refs.TransID,
			UserID:  input.SteamUserID,
		},
	}

	if err := s.repo.Insert(ctx, purchase); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("Internal Server Error: failed to add purchase to database %v", err))
	}

	if s.logg != nil {
		logCtx := s.logg.WithPurchaseID(ctx, purchase.ID)
		s.logg.Info(logCtx, "purchase.initiated")
	}

	return purchase.ID, nil
}

// Finalize confirms a pending purchase with its vendor. Only the purchaser
// or a holder of the finalise-all perk may do this. Already-finalized
// purchases return success without a second vendor call.
func (s *service) Finalize(ctx context.Context, purchaseID string, actor *accounts.Profile) error {
	purchase, err := s.load(ctx, purchaseID)
	if err != nil {
		return err
	}

	if purchase.Purchaser != actor.ClientID && !actor.HasPerk(accounts.PerkPurchaseFinaliseAll) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "You were not the purchaser")
	}

	if purchase.Finalized {
		return nil
	}

	switch purchase.VendorData.Name {
	case enums.VendorSteam:
		if err := s.vendor.FinalizeTxn(ctx, purchase.VendorData.OrderID); err != nil {
			return err
		}

		purchase.Finalized = true
		purchase.TimeFinalized = s.now().UnixMilli()

		if err := s.repo.Replace(ctx, purchase); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("Internal Server Error: failed to update purchase in database %v", err))
		}

		if s.logg != nil {
			logCtx := s.logg.WithPurchaseID(ctx, purchase.ID)
			s.logg.Info(logCtx, "purchase.finalized")
		}
		return nil
	case enums.VendorPlayStore, enums.VendorFree:
		return pkgerrors.New(pkgerrors.CodeUnsupportedVendor, fmt.Sprintf("No finalise procedure for vendor %q", purchase.VendorData.Name))
	default:
		return pkgerrors.New(pkgerrors.CodeUnsupportedVendor, fmt.Sprintf("No finalise procedure for vendor %q", purchase.VendorData.Name))
	}
}

func (s *service) Get(ctx context.Context, purchaseID string, actor *accounts.Profile) (*models.Purchase, error) {
	purchase, err := s.load(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrPerk(purchase, actor, accounts.PerkPurchaseGetAll); err != nil {
		return nil, err
	}
	return purchase, nil
}

func (s *service) ListForUser(ctx context.Context, actor *accounts.Profile) ([]models.Purchase, error) {
	found, err := s.repo.ListByPurchaser(ctx, actor.ClientID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchases")
	}
	return found, nil
}

// Update merge-writes the supplied fields. Perk gating happens at the
// route; absent ids are reported rather than silently ignored.
func (s *service) Update(ctx context.Context, purchaseID string, input UpdateInput) error {
	updates := input.toUpdates()
	if len(updates) == 0 {
		return nil
	}

	affected, err := s.repo.Update(ctx, purchaseID, updates)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("Internal Server Error: failed to update purchase in database %v", err))
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Purchase does not exist")
	}
	return nil
}

// AgreementStatus projects the vendor-side recurring agreement backing a
// purchase. Same visibility rule as Get.
func (s *service) AgreementStatus(ctx context.Context, purchaseID string, actor *accounts.Profile) (*steam.AgreementStatus, error) {
	purchase, err := s.load(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrPerk(purchase, actor, accounts.PerkPurchaseGetAll); err != nil {
		return nil, err
	}

	if purchase.VendorData.Name != enums.VendorSteam {
		return nil, pkgerrors.New(pkgerrors.CodeUnsupportedVendor, fmt.Sprintf("No vendor agreement for vendor %q", purchase.VendorData.Name))
	}

	return s.vendor.GetUserAgreementInfo(ctx, purchase.VendorData.UserID)
}

func (s *service) AgreementStatusForSteamID(ctx context.Context, steamID string) (*steam.AgreementStatus, error) {
	if strings.TrimSpace(steamID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Error: Missing userId")
	}
	return s.vendor.GetUserAgreementInfo(ctx, steamID)
}

func (s *service) load(ctx context.Context, purchaseID string) (*models.Purchase, error) {
	purchase, err := s.repo.FindByID(ctx, purchaseID)
	if err == gorm.ErrRecordNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Purchase does not exist")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase")
	}
	return purchase, nil
}

func requireOwnerOrPerk(purchase *models.Purchase, actor *accounts.Profile, perk string) error {
	if purchase.Purchaser == actor.ClientID || actor.HasPerk(perk) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "You were not the purchaser")
}

func (u UpdateInput) toUpdates() map[string]any {
	updates := map[string]any{}
	if u.Cost != nil {
		updates["cost"] = *u.Cost
	}
	if u.Purchaser != nil {
		updates["purchaser"] = *u.Purchaser
	}
	if u.TimeCreated != nil {
		updates["time_created"] = *u.TimeCreated
	}
	if u.TimeFinalized != nil {
		updates["time_finalized"] = *u.TimeFinalized
	}
	if u.Finalized != nil {
		updates["finalized"] = *u.Finalized
	}
	if u.Recurring != nil {
		updates["recurring"] = *u.Recurring
	}
	if u.DiscordRole != nil {
		updates["discord_role"] = *u.DiscordRole
	}
	return updates
}
