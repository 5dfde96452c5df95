package memory

import (
	"context"
	"testing"

	"dukapos/backend/internal/domain"
)

func TestListProductsQueryMatchesBarcodeWithPadding(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	exact, err := s.ListProducts(ctx, domain.ProductFilter{Query: "6161100000011"})
	if err != nil {
		t.Fatalf("list by barcode: %v", err)
	}
	if len(exact) != 1 || exact[0].Barcode != "6161100000011" {
		t.Fatalf("expected exactly the barcode match, got %d products", len(exact))
	}

	padded, err := s.ListProducts(ctx, domain.ProductFilter{Query: "  6161100000011  "})
	if err != nil {
		t.Fatalf("list by padded barcode: %v", err)
	}
	if len(padded) != 1 || padded[0].ID != exact[0].ID {
		t.Fatalf("expected padded query to match the same product, got %d products", len(padded))
	}
}

func TestListProductsQueryMatchesNameCaseInsensitive(t *testing.T) {
	s := NewSeeded()

	products, err := s.ListProducts(context.Background(), domain.ProductFilter{Query: "  sugar "})
	if err != nil {
		t.Fatalf("list by name: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected one sugar product, got %d", len(products))
	}
}
