package dbtypes

import (
	"testing"
)

func TestStringArrayRoundTrip(t *testing.T) {
	arr := StringArray{"tophat", "crewpet"}

	value, err := arr.Value()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "{tophat,crewpet}" {
		t.Fatalf("unexpected literal %q", value)
	}

	var scanned StringArray
	if err := scanned.Scan(value); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scanned) != 2 || scanned[0] != "tophat" || scanned[1] != "crewpet" {
		t.Fatalf("unexpected result %v", scanned)
	}
}

func TestStringArrayScanQuotedElements(t *testing.T) {
	var arr StringArray
	if err := arr.Scan(`{"tophat","crew pet"}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if arr[1] != "crew pet" {
		t.Fatalf("quotes not trimmed: %v", arr)
	}
}

func TestStringArrayScanEmpty(t *testing.T) {
	var arr StringArray
	if err := arr.Scan("{}"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(arr) != 0 {
		t.Fatalf("expected empty array, got %v", arr)
	}

	if err := arr.Scan(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(arr) != 0 {
		t.Fatalf("expected empty array from nil, got %v", arr)
	}
}

func TestStringArrayValueEmpty(t *testing.T) {
	value, err := StringArray{}.Value()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "{}" {
		t.Fatalf("unexpected literal %q", value)
	}
}

func TestStringArrayScanRejectsUnknownType(t *testing.T) {
	var arr StringArray
	if err := arr.Scan(42); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}
