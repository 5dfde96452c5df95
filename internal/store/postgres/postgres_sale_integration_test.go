package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"dukapos/backend/internal/domain"
	"dukapos/backend/internal/store"
)

func TestCreateSaleDecrementsStockAndSnapshotsPrices(t *testing.T) {
	databaseURL := os.Getenv("DUKAPOS_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set DUKAPOS_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	stamp := time.Now().UnixNano()
	productID := fmt.Sprintf("prod-sale-it-%d", stamp)
	saleID := fmt.Sprintf("sale-it-%d", stamp)

	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM sales WHERE product_id = $1`, productID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, productID)
	})

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO products (
			id, name, barcode, description, unit, category_id, supplier_id,
			buying_price_cents, selling_price_cents, stock, created_at, updated_at
		)
		VALUES ($1, 'Sale IT Product', null, '', 'pcs', null, null, 5000, 8000, 10, now(), now())
	`, productID); err != nil {
		t.Fatalf("insert product: %v", err)
	}

	created, err := s.CreateSale(ctx, domain.Sale{
		ID:            saleID,
		ProductID:     productID,
		Qty:           3,
		PaymentMethod: "Cash",
		SoldBy:        "it-runner",
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}
	if created.TotalCents != 24000 {
		t.Fatalf("expected total 24000, got %d", created.TotalCents)
	}
	if created.ProfitCents != 9000 {
		t.Fatalf("expected profit 9000, got %d", created.ProfitCents)
	}
	if created.ProductName != "Sale IT Product" {
		t.Fatalf("expected product name snapshot, got %q", created.ProductName)
	}

	var stock int
	if err := s.db.QueryRowContext(ctx, `
		SELECT stock FROM products WHERE id = $1
	`, productID).Scan(&stock); err != nil {
		t.Fatalf("query stock: %v", err)
	}
	if stock != 7 {
		t.Fatalf("expected stock 7 after sale, got %d", stock)
	}

	// Overselling is rejected and leaves stock untouched.
	_, err = s.CreateSale(ctx, domain.Sale{
		ID:            saleID + "-over",
		ProductID:     productID,
		Qty:           100,
		PaymentMethod: "Cash",
		SoldBy:        "it-runner",
		CreatedAt:     time.Now().UTC(),
	})
	if !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	if err := s.db.QueryRowContext(ctx, `
		SELECT stock FROM products WHERE id = $1
	`, productID).Scan(&stock); err != nil {
		t.Fatalf("query stock: %v", err)
	}
	if stock != 7 {
		t.Fatalf("expected stock unchanged at 7, got %d", stock)
	}
}
