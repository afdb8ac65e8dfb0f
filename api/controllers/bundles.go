package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skeldnet/cosmetics-backend/api/responses"
	"github.com/skeldnet/cosmetics-backend/api/validators"
	"github.com/skeldnet/cosmetics-backend/internal/bundles"
	pkgerrors "github.com/skeldnet/cosmetics-backend/pkg/errors"
	"github.com/skeldnet/cosmetics-backend/pkg/logger"
)

type createBundlePayload struct {
	Name        string   `json:"name" validate:"required,min=1"`
	KeyArtURL   string   `json:"keyArtUrl" validate:"required,url"`
	Color       string   `json:"color" validate:"required,hexcolor"`
	Items       []string `json:"items" validate:"required,min=1"`
	PriceUsd    int64    `json:"priceUsd" validate:"gte=0"`
	Description string   `json:"description" validate:"required,min=1"`
	ForSale     bool     `json:"forSale"`
	Recurring   *bool    `json:"recurring"`
	DiscordRole *string  `json:"discordRole"`
}

type updateBundlePayload struct {
	Name        *string   `json:"name" validate:"omitempty,min=1"`
	KeyArtURL   *string   `json:"keyArtUrl" validate:"omitempty,url"`
	Color       *string   `json:"color" validate:"omitempty,hexcolor"`
	Items       *[]string `json:"items" validate:"omitempty,min=1"`
	PriceUsd    *int64    `json:"priceUsd" validate:"omitempty,gte=0"`
	Description *string   `json:"description" validate:"omitempty,min=1"`
	ForSale     *bool     `json:"forSale"`
	Recurring   *bool     `json:"recurring"`
	DiscordRole *string   `json:"discordRole"`
}

// BundleList returns the for-sale storefront listing with items expanded.
func BundleList(svc bundles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bundles service unavailable"))
			return
		}

		listed, err := svc.ListForSale(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, listed)
	}
}

// BundleGet returns a single bundle by id, hidden ones included.
func BundleGet(svc bundles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bundles service unavailable"))
			return
		}

		bundle, err := svc.Get(ctx, normalizeID(chi.URLParam(r, "id")))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, bundle)
	}
}

// BundleCreate inserts a bundle under the caller-supplied id.
func BundleCreate(svc bundles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bundles service unavailable"))
			return
		}

		var payload createBundlePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		bundle, err := svc.Create(ctx, bundles.CreateBundleInput{
			ID:          normalizeID(chi.URLParam(r, "id")),
			Name:        payload.Name,
			KeyArtURL:   payload.KeyArtURL,
			Color:       payload.Color,
			Items:       payload.Items,
			PriceUsd:    payload.PriceUsd,
			Description: payload.Description,
			ForSale:     payload.ForSale,
			Recurring:   payload.Recurring,
			DiscordRole: payload.DiscordRole,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, bundle)
	}
}

// BundleUpdate merge-writes the supplied fields onto an existing bundle.
func BundleUpdate(svc bundles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bundles service unavailable"))
			return
		}

		var payload updateBundlePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		err := svc.Update(ctx, normalizeID(chi.URLParam(r, "id")), bundles.UpdateBundleInput{
			Name:        payload.Name,
			KeyArtURL:   payload.KeyArtURL,
			Color:       payload.Color,
			Items:       payload.Items,
			PriceUsd:    payload.PriceUsd,
			Description: payload.Description,
			ForSale:     payload.ForSale,
			Recurring:   payload.Recurring,
			DiscordRole: payload.DiscordRole,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, nil)
	}
}
