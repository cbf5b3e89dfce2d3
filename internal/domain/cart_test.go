package domain

import (
	"errors"
	"testing"
)

func TestNormalizeOptions(t *testing.T) {
	got, err := NormalizeOptions([]SelectedOption{
		{Name: " Weight ", Value: " 250g "},
		{Name: "Grind", Value: ""},
		{Name: "Weight", Value: "500g"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got["Weight"] != "500g" {
		t.Fatalf("unexpected normalization: %v", got)
	}
}

func TestNormalizeOptionsEmptyInputs(t *testing.T) {
	for _, opts := range [][]SelectedOption{nil, {}, {{Name: "Grind", Value: "  "}}} {
		got, err := NormalizeOptions(opts)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Fatalf("expected nil map, got %v", got)
		}
	}
}

func TestNormalizeOptionsRejectsNamelessValue(t *testing.T) {
	_, err := NormalizeOptions([]SelectedOption{{Name: " ", Value: "250g"}})
	if !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
}

func TestCatalogReferenceMatches(t *testing.T) {
	line := LineItem{
		ProductID: "P1",
		VariantID: "V1",
		Options:   map[string]string{"Weight": "250g"},
	}

	cases := []struct {
		name string
		ref  CatalogReference
		want bool
	}{
		{"identical", CatalogReference{ProductID: "P1", VariantID: "V1", Options: map[string]string{"Weight": "250g"}}, true},
		{"different product", CatalogReference{ProductID: "P2", VariantID: "V1", Options: map[string]string{"Weight": "250g"}}, false},
		{"different variant", CatalogReference{ProductID: "P1", VariantID: "V2", Options: map[string]string{"Weight": "250g"}}, false},
		{"missing variant", CatalogReference{ProductID: "P1", Options: map[string]string{"Weight": "250g"}}, false},
		{"different option value", CatalogReference{ProductID: "P1", VariantID: "V1", Options: map[string]string{"Weight": "500g"}}, false},
		{"extra option", CatalogReference{ProductID: "P1", VariantID: "V1", Options: map[string]string{"Weight": "250g", "Grind": "fine"}}, false},
		{"no options", CatalogReference{ProductID: "P1", VariantID: "V1"}, false},
	}
	for _, tc := range cases {
		if got := tc.ref.Matches(line); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
