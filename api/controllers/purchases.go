package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skeldnet/cosmetics-backend/api/middleware"
	"github.com/skeldnet/cosmetics-backend/api/responses"
	"github.com/skeldnet/cosmetics-backend/api/validators"
	"github.com/skeldnet/cosmetics-backend/internal/entitlements"
	"github.com/skeldnet/cosmetics-backend/internal/purchases"
	"github.com/skeldnet/cosmetics-backend/pkg/accounts"
	pkgerrors "github.com/skeldnet/cosmetics-backend/pkg/errors"
	"github.com/skeldnet/cosmetics-backend/pkg/logger"
	"github.com/skeldnet/cosmetics-backend/pkg/types"
)

type createPurchasePayload struct {
	UserID string `json:"userId"`
}

type updatePurchasePayload struct {
	Cost          *int64  `json:"cost" validate:"omitempty,gte=0"`
	Purchaser     *string `json:"purchaser" validate:"omitempty,min=1"`
	TimeCreated   *int64  `json:"timeCreated"`
	TimeFinalized *int64  `json:"timeFinalized"`
	Finalized     *bool   `json:"finalized"`
	Recurring     *bool   `json:"recurring"`
	DiscordRole   *string `json:"discordRole"`
}

// PurchaseCreate initiates a Steam purchase of a bundle for the caller.
func PurchaseCreate(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchases service unavailable"))
			return
		}

		buyer := middleware.UserFromContext(ctx)
		if buyer == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Authentication error: Missing authorization header"))
			return
		}

		var payload createPurchasePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		purchaseID, err := svc.Create(ctx, purchases.CreateInput{
			BundleID:    normalizeID(chi.URLParam(r, "id")),
			SteamUserID: payload.UserID,
			Buyer:       buyer,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteEnvelope(w, http.StatusOK, types.PurchaseCreatedEnvelope{OK: true, PurchaseID: purchaseID})
	}
}

// PurchaseFinalize confirms a pending purchase with its vendor.
func PurchaseFinalize(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchases service unavailable"))
			return
		}

		actor := middleware.UserFromContext(ctx)
		if actor == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Authentication error: Missing authorization header"))
			return
		}

		if err := svc.Finalize(ctx, normalizeID(chi.URLParam(r, "id")), actor); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, nil)
	}
}

// PurchaseGet returns one purchase, visible to its owner or auditors.
func PurchaseGet(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchases service unavailable"))
			return
		}

		actor := middleware.UserFromContext(ctx)
		if actor == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Authentication error: Missing authorization header"))
			return
		}

		purchase, err := svc.Get(ctx, normalizeID(chi.URLParam(r, "id")), actor)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, purchase)
	}
}

// PurchaseList returns every purchase of the caller, pending included.
func PurchaseList(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchases service unavailable"))
			return
		}

		actor := middleware.UserFromContext(ctx)
		if actor == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Authentication error: Missing authorization header"))
			return
		}

		listed, err := svc.ListForUser(ctx, actor)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, listed)
	}
}

// PurchaseUpdate merge-writes purchase fields; the update perk gates the
// route.
func PurchaseUpdate(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchases service unavailable"))
			return
		}

		var payload updatePurchasePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		err := svc.Update(ctx, normalizeID(chi.URLParam(r, "id")), purchases.UpdateInput{
			Cost:          payload.Cost,
			Purchaser:     payload.Purchaser,
			TimeCreated:   payload.TimeCreated,
			TimeFinalized: payload.TimeFinalized,
			Finalized:     payload.Finalized,
			Recurring:     payload.Recurring,
			DiscordRole:   payload.DiscordRole,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, nil)
	}
}

// PurchaseVendorStatus projects the vendor agreement behind a purchase.
func PurchaseVendorStatus(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchases service unavailable"))
			return
		}

		actor := middleware.UserFromContext(ctx)
		if actor == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Authentication error: Missing authorization header"))
			return
		}

		status, err := svc.AgreementStatus(ctx, normalizeID(chi.URLParam(r, "id")), actor)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, status)
	}
}

// PurchaseUserTier projects the vendor agreement for a raw steam id.
func PurchaseUserTier(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchases service unavailable"))
			return
		}

		status, err := svc.AgreementStatusForSteamID(ctx, chi.URLParam(r, "user"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, status)
	}
}

// UserItems returns the item records a user owns through finalized
// purchases. Callers see themselves; auditors see anyone.
func UserItems(svc entitlements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "entitlements service unavailable"))
			return
		}

		actor := middleware.UserFromContext(ctx)
		if actor == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Authentication error: Missing authorization header"))
			return
		}

		target := normalizeID(chi.URLParam(r, "user"))
		if target != normalizeID(actor.ClientID) && !actor.HasPerk(accounts.PerkPurchaseGetAll) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "You may only view your own items"))
			return
		}

		owned, err := svc.OwnedItems(ctx, target)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, owned)
	}
}
