package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/skeldnet/cosmetics-backend/api/responses"
	"github.com/skeldnet/cosmetics-backend/api/validators"
	"github.com/skeldnet/cosmetics-backend/internal/items"
	"github.com/skeldnet/cosmetics-backend/pkg/enums"
	pkgerrors "github.com/skeldnet/cosmetics-backend/pkg/errors"
	"github.com/skeldnet/cosmetics-backend/pkg/logger"
	"github.com/skeldnet/cosmetics-backend/pkg/types"
)

type itemResourcePayload struct {
	URL string `json:"url" validate:"required,url"`
	ID  int64  `json:"id" validate:"required"`
}

type createItemPayload struct {
	Name      string              `json:"name" validate:"required,min=1"`
	Type      string              `json:"type" validate:"required,oneof=HAT PET SKIN MODEL"`
	Resource  itemResourcePayload `json:"resource" validate:"required"`
	Thumbnail string              `json:"thumbnail" validate:"required,url"`
	Author    string              `json:"author" validate:"required,min=1"`
}

type updateItemPayload struct {
	Name      *string              `json:"name" validate:"omitempty,min=1"`
	Type      *string              `json:"type" validate:"omitempty,oneof=HAT PET SKIN MODEL"`
	Resource  *itemResourcePayload `json:"resource"`
	Thumbnail *string              `json:"thumbnail" validate:"omitempty,url"`
	Author    *string              `json:"author" validate:"omitempty,min=1"`
}

// ItemGet returns a single item by its catalog document id.
func ItemGet(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}

		item, err := svc.Get(ctx, normalizeID(chi.URLParam(r, "id")))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// ItemGetByAmongUsID looks an item up by its in-game numeric id.
func ItemGetByAmongUsID(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}

		raw := chi.URLParam(r, "amongUsId")
		amongUsID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("Invalid amongUsId: %s", raw)))
			return
		}

		item, err := svc.GetByAmongUsID(ctx, amongUsID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// ItemCreate inserts an item under the caller-supplied id.
func ItemCreate(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}

		var payload createItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		itemType, err := enums.ParseItemType(payload.Type)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item type"))
			return
		}

		item, err := svc.Create(ctx, items.CreateItemInput{
			ID:   normalizeID(chi.URLParam(r, "id")),
			Name: payload.Name,
			Type: itemType,
			Resource: types.ItemResource{
				URL: payload.Resource.URL,
				ID:  payload.Resource.ID,
			},
			Thumbnail: payload.Thumbnail,
			Author:    payload.Author,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// ItemUpdate merge-writes the supplied fields onto an existing item.
func ItemUpdate(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "items service unavailable"))
			return
		}

		var payload updateItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := items.UpdateItemInput{
			Name:      payload.Name,
			Thumbnail: payload.Thumbnail,
			Author:    payload.Author,
		}
		if payload.Type != nil {
			itemType, err := enums.ParseItemType(*payload.Type)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item type"))
				return
			}
			input.Type = &itemType
		}
		if payload.Resource != nil {
			input.Resource = &types.ItemResource{
				URL: payload.Resource.URL,
				ID:  payload.Resource.ID,
			}
		}

		if err := svc.Update(ctx, normalizeID(chi.URLParam(r, "id")), input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, nil)
	}
}

// normalizeID strips dashes so uuid path params match stored ids regardless
// of how the client formats them.
func normalizeID(id string) string {
	return strings.ReplaceAll(strings.TrimSpace(id), "-", "")
}
