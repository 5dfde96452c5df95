package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"dukapos/backend/internal/domain"
	"dukapos/backend/internal/report"
	"dukapos/backend/internal/store"
	"dukapos/backend/internal/xid"
)

const (
	dashboardCacheKey = "report:dashboard"
	dashboardCacheTTL = 30 * time.Second
)

// RecordSale validates the request against configured payment methods and
// delegates the stock check, decrement and price snapshot to the store in
// one atomic operation.
func (s *Service) RecordSale(ctx context.Context, req domain.SaleRequest) (domain.Sale, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return domain.Sale{}, fmt.Errorf("actor required")
	}

	req.ProductID = strings.TrimSpace(req.ProductID)
	req.PaymentMethod = strings.TrimSpace(req.PaymentMethod)
	if req.ProductID == "" || req.Qty < 1 || req.PaymentMethod == "" {
		return domain.Sale{}, store.ErrInvalidInput
	}

	methods, err := s.settings.PaymentMethods(ctx)
	if err != nil {
		return domain.Sale{}, err
	}
	valid := false
	for _, method := range methods {
		if strings.EqualFold(method, req.PaymentMethod) {
			req.PaymentMethod = method
			valid = true
			break
		}
	}
	if !valid {
		return domain.Sale{}, fmt.Errorf("payment method %q not accepted: %w", req.PaymentMethod, store.ErrInvalidInput)
	}

	sale := domain.Sale{
		ID:              xid.New("sale"),
		ProductID:       req.ProductID,
		Qty:             req.Qty,
		PaymentMethod:   req.PaymentMethod,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerContact: strings.TrimSpace(req.CustomerContact),
		SoldBy:          actor.Username,
		CreatedAt:       time.Now().UTC(),
	}

	created, err := s.repo.CreateSale(ctx, sale)
	if err != nil {
		return domain.Sale{}, err
	}

	s.appendHistory(ctx, created.ProductID, domain.HistorySold, fmt.Sprintf("qty=%d,sale=%s", created.Qty, created.ID))
	s.logAudit(ctx, "sale_record", "sale", created.ID, fmt.Sprintf("product=%s,qty=%d,total=%d", created.ProductID, created.Qty, created.TotalCents))
	s.invalidateDashboard(ctx)

	return *created, nil
}

func (s *Service) ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error) {
	return s.repo.ListSales(ctx, filter)
}

func (s *Service) ExportSalesCSV(ctx context.Context, filter domain.SaleFilter) ([]byte, error) {
	sales, err := s.repo.ListSales(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "product_id", "product_name", "qty", "payment_method", "unit_price_cents", "total_cents", "profit_cents", "sold_by", "created_at"}); err != nil {
		return nil, err
	}
	for _, sale := range sales {
		record := []string{
			sale.ID, sale.ProductID, sale.ProductName,
			strconv.Itoa(sale.Qty), sale.PaymentMethod,
			strconv.FormatInt(sale.UnitPriceCents, 10),
			strconv.FormatInt(sale.TotalCents, 10),
			strconv.FormatInt(sale.ProfitCents, 10),
			sale.SoldBy, sale.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Dashboard composes the reporting aggregates, serving a short-lived cached
// copy when one exists. Mutations drop the cached report.
func (s *Service) Dashboard(ctx context.Context) (domain.DashboardReport, error) {
	if cached, ok, err := s.cache.Get(ctx, dashboardCacheKey); err == nil && ok {
		var rep domain.DashboardReport
		if err := json.Unmarshal([]byte(cached), &rep); err == nil {
			return rep, nil
		}
	}

	sales, err := s.repo.ListSales(ctx, domain.SaleFilter{})
	if err != nil {
		return domain.DashboardReport{}, err
	}
	orders, err := s.repo.ListSupplierOrders(ctx, "")
	if err != nil {
		return domain.DashboardReport{}, err
	}
	suppliers, err := s.repo.ListSuppliers(ctx)
	if err != nil {
		return domain.DashboardReport{}, err
	}
	products, err := s.repo.ListProducts(ctx, domain.ProductFilter{})
	if err != nil {
		return domain.DashboardReport{}, err
	}
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return domain.DashboardReport{}, err
	}
	threshold, err := s.settings.LowStockThreshold(ctx)
	if err != nil {
		return domain.DashboardReport{}, err
	}

	rep := report.Build(time.Now(), sales, orders, suppliers, products, len(users), threshold)

	if payload, err := json.Marshal(rep); err == nil {
		if err := s.cache.Set(ctx, dashboardCacheKey, string(payload), dashboardCacheTTL); err != nil {
			log.Printf("[service] WARN: failed to cache dashboard report: %v", err)
		}
	}

	return rep, nil
}

func (s *Service) invalidateDashboard(ctx context.Context) {
	if err := s.cache.Delete(ctx, dashboardCacheKey); err != nil {
		log.Printf("[service] WARN: failed to invalidate dashboard cache: %v", err)
	}
}
