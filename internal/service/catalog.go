package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"dukapos/backend/internal/domain"
	"dukapos/backend/internal/store"
	"dukapos/backend/internal/xid"
)

func (s *Service) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx, filter)
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	product, err := s.repo.GetProduct(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Product{}, err
	}
	return *product, nil
}

func (s *Service) GetProductByBarcode(ctx context.Context, barcode string) (domain.Product, error) {
	product, err := s.repo.GetProductByBarcode(ctx, strings.TrimSpace(barcode))
	if err != nil {
		return domain.Product{}, err
	}
	return *product, nil
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.Product{}, fmt.Errorf("admin role required")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Barcode = strings.TrimSpace(req.Barcode)
	if req.Name == "" {
		return domain.Product{}, store.ErrInvalidInput
	}
	if req.BuyingPriceCents < 0 || req.SellingPriceCents < 0 || req.Stock < 0 {
		return domain.Product{}, store.ErrInvalidInput
	}

	product := domain.Product{
		ID:                xid.New("prod"),
		Name:              req.Name,
		Barcode:           req.Barcode,
		Description:       strings.TrimSpace(req.Description),
		Unit:              strings.TrimSpace(req.Unit),
		CategoryID:        strings.TrimSpace(req.CategoryID),
		SupplierID:        strings.TrimSpace(req.SupplierID),
		BuyingPriceCents:  req.BuyingPriceCents,
		SellingPriceCents: req.SellingPriceCents,
		Stock:             req.Stock,
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}

	s.appendHistory(ctx, created.ID, domain.HistoryCreated, fmt.Sprintf("stock=%d,selling=%d", created.Stock, created.SellingPriceCents))
	s.logAudit(ctx, "product_create", "product", created.ID, fmt.Sprintf("name=%s,selling=%d,stock=%d", created.Name, created.SellingPriceCents, created.Stock))
	s.invalidateDashboard(ctx)

	return *created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, req domain.ProductUpdateRequest) (domain.Product, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.Product{}, fmt.Errorf("admin role required")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Product{}, store.ErrInvalidInput
	}

	existing, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Product{}, store.ErrInvalidInput
		}
		updated.Name = name
	}
	if req.Barcode != nil {
		updated.Barcode = strings.TrimSpace(*req.Barcode)
	}
	if req.Description != nil {
		updated.Description = strings.TrimSpace(*req.Description)
	}
	if req.Unit != nil {
		updated.Unit = strings.TrimSpace(*req.Unit)
	}
	if req.CategoryID != nil {
		updated.CategoryID = strings.TrimSpace(*req.CategoryID)
	}
	if req.SupplierID != nil {
		updated.SupplierID = strings.TrimSpace(*req.SupplierID)
	}
	if req.BuyingPriceCents != nil {
		if *req.BuyingPriceCents < 0 {
			return domain.Product{}, store.ErrInvalidInput
		}
		updated.BuyingPriceCents = *req.BuyingPriceCents
	}
	if req.SellingPriceCents != nil {
		if *req.SellingPriceCents < 0 {
			return domain.Product{}, store.ErrInvalidInput
		}
		updated.SellingPriceCents = *req.SellingPriceCents
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return domain.Product{}, store.ErrInvalidInput
		}
		updated.Stock = *req.Stock
	}

	saved, err := s.repo.UpdateProduct(ctx, updated)
	if err != nil {
		return domain.Product{}, err
	}

	if existing.SellingPriceCents != saved.SellingPriceCents || existing.BuyingPriceCents != saved.BuyingPriceCents {
		s.appendHistory(ctx, saved.ID, domain.HistoryPriceChanged,
			fmt.Sprintf("buying=%d->%d,selling=%d->%d", existing.BuyingPriceCents, saved.BuyingPriceCents, existing.SellingPriceCents, saved.SellingPriceCents))
	}
	if existing.Stock != saved.Stock {
		s.appendHistory(ctx, saved.ID, domain.HistoryStockAdjusted, fmt.Sprintf("stock=%d->%d", existing.Stock, saved.Stock))
	}

	s.logAudit(ctx, "product_update", "product", saved.ID, fmt.Sprintf("selling=%d,stock=%d", saved.SellingPriceCents, saved.Stock))
	s.invalidateDashboard(ctx)

	return *saved, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return fmt.Errorf("admin role required")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return store.ErrInvalidInput
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.appendHistory(ctx, id, domain.HistoryDeleted, "")
	s.logAudit(ctx, "product_delete", "product", id, "")
	s.invalidateDashboard(ctx)
	return nil
}

func (s *Service) BulkProducts(ctx context.Context, req domain.ProductBulkRequest) (domain.ProductBulkResponse, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.ProductBulkResponse{}, fmt.Errorf("admin role required")
	}

	if len(req.ProductIDs) == 0 {
		return domain.ProductBulkResponse{}, store.ErrInvalidInput
	}
	ids := make([]string, 0, len(req.ProductIDs))
	for _, id := range req.ProductIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return domain.ProductBulkResponse{}, store.ErrInvalidInput
		}
		ids = append(ids, id)
	}

	affected, err := s.repo.BulkProducts(ctx, req.Action, ids, req.Stock, req.PriceCents)
	if err != nil {
		return domain.ProductBulkResponse{}, err
	}

	s.logAudit(ctx, "product_bulk_"+req.Action, "product", "", fmt.Sprintf("count=%d", affected))
	s.invalidateDashboard(ctx)
	return domain.ProductBulkResponse{Action: req.Action, Affected: affected}, nil
}

func (s *Service) ListProductHistory(ctx context.Context, productID string) ([]domain.ProductHistory, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, store.ErrInvalidInput
	}
	return s.repo.ListProductHistory(ctx, productID)
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, name string) (domain.Category, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.Category{}, fmt.Errorf("admin role required")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, store.ErrInvalidInput
	}

	created, err := s.repo.CreateCategory(ctx, domain.Category{ID: xid.New("cat"), Name: name})
	if err != nil {
		return domain.Category{}, err
	}
	s.logAudit(ctx, "category_create", "category", created.ID, fmt.Sprintf("name=%s", created.Name))
	return *created, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return fmt.Errorf("admin role required")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return store.ErrInvalidInput
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, "category_delete", "category", id, "")
	return nil
}

var productExportHeader = []string{"id", "name", "barcode", "unit", "category_id", "supplier_id", "buying_price_cents", "selling_price_cents", "stock"}

// ExportProductsCSV writes the catalog out in the same column layout
// ImportProductsCSV accepts.
func (s *Service) ExportProductsCSV(ctx context.Context) ([]byte, error) {
	products, err := s.repo.ListProducts(ctx, domain.ProductFilter{})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(productExportHeader); err != nil {
		return nil, err
	}
	for _, p := range products {
		record := []string{
			p.ID, p.Name, p.Barcode, p.Unit, p.CategoryID, p.SupplierID,
			strconv.FormatInt(p.BuyingPriceCents, 10),
			strconv.FormatInt(p.SellingPriceCents, 10),
			strconv.Itoa(p.Stock),
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

// ImportProductsCSV reads rows in the export layout and creates products.
// Rows that fail validation are skipped and reported, not fatal; the id
// column is ignored so exports can be re-imported into a fresh database.
func (s *Service) ImportProductsCSV(ctx context.Context, r io.Reader) (domain.ProductImportResult, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.ProductImportResult{}, fmt.Errorf("admin role required")
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(productExportHeader)

	header, err := reader.Read()
	if err != nil {
		return domain.ProductImportResult{}, store.ErrInvalidInput
	}
	if len(header) == 0 || strings.TrimSpace(header[0]) != "id" {
		return domain.ProductImportResult{}, store.ErrInvalidInput
	}

	result := domain.ProductImportResult{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		buying, err1 := strconv.ParseInt(strings.TrimSpace(record[6]), 10, 64)
		selling, err2 := strconv.ParseInt(strings.TrimSpace(record[7]), 10, 64)
		stock, err3 := strconv.Atoi(strings.TrimSpace(record[8]))
		if err1 != nil || err2 != nil || err3 != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: bad numeric field", line))
			continue
		}

		_, err = s.CreateProduct(ctx, domain.ProductCreateRequest{
			Name:              record[1],
			Barcode:           record[2],
			Unit:              record[3],
			CategoryID:        record[4],
			SupplierID:        record[5],
			BuyingPriceCents:  buying,
			SellingPriceCents: selling,
			Stock:             stock,
		})
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		result.Imported++
	}

	s.logAudit(ctx, "product_import", "product", "", fmt.Sprintf("imported=%d,skipped=%d", result.Imported, result.Skipped))
	return result, nil
}
