package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/skeldnet/cosmetics-backend/pkg/errors"
)

type samplePayload struct {
	Name  string  `json:"name" validate:"required,min=1"`
	Kind  string  `json:"kind" validate:"required,oneof=HAT PET"`
	Color *string `json:"color" validate:"omitempty,hexcolor"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Top Hat","kind":"HAT"}`))

	var payload samplePayload
	if err := DecodeJSONBody(req, &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Name != "Top Hat" || payload.Kind != "HAT" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestDecodeJSONBodyIgnoresUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Top Hat","kind":"HAT","extra":true}`))

	var payload samplePayload
	if err := DecodeJSONBody(req, &payload); err != nil {
		t.Fatalf("unknown fields should be tolerated, got %v", err)
	}
}

func TestDecodeJSONBodyMalformedJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestDecodeJSONBodyMissingRequiredField(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"kind":"HAT"}`))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if details["name"] != "is required" {
		t.Fatalf("unexpected details: %v", details)
	}
}

func TestDecodeJSONBodyRejectsBadEnum(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x","kind":"CAR"}`))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	details := typed.Details().(map[string]string)
	if details["kind"] != "must be one of HAT PET" {
		t.Fatalf("unexpected message: %q", details["kind"])
	}
}

func TestDecodeJSONBodyRejectsBadHexColor(t *testing.T) {
	color := "notacolor"
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x","kind":"PET","color":"`+color+`"}`))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected validation error, got %v", err)
	}
	details := typed.Details().(map[string]string)
	if details["color"] != "must be a hex color" {
		t.Fatalf("unexpected message: %q", details["color"])
	}
}
