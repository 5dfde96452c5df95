package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dukapos/backend/internal/domain"
	"dukapos/backend/internal/store"
	"dukapos/backend/internal/xid"
)

func (s *Service) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}

func (s *Service) GetSupplier(ctx context.Context, id string) (domain.Supplier, error) {
	supplier, err := s.repo.GetSupplier(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Supplier{}, err
	}
	return *supplier, nil
}

func (s *Service) CreateSupplier(ctx context.Context, req domain.SupplierCreateRequest) (domain.Supplier, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.Supplier{}, fmt.Errorf("admin role required")
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return domain.Supplier{}, store.ErrInvalidInput
	}

	supplier := domain.Supplier{
		ID:        xid.New("sup"),
		Name:      req.Name,
		Company:   strings.TrimSpace(req.Company),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
		Notes:     strings.TrimSpace(req.Notes),
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.repo.CreateSupplier(ctx, supplier)
	if err != nil {
		return domain.Supplier{}, err
	}
	s.logAudit(ctx, "supplier_create", "supplier", created.ID, fmt.Sprintf("name=%s", created.Name))
	return *created, nil
}

func (s *Service) UpdateSupplier(ctx context.Context, id string, req domain.SupplierUpdateRequest) (domain.Supplier, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.Supplier{}, fmt.Errorf("admin role required")
	}

	existing, err := s.repo.GetSupplier(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Supplier{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Supplier{}, store.ErrInvalidInput
		}
		updated.Name = name
	}
	if req.Company != nil {
		updated.Company = strings.TrimSpace(*req.Company)
	}
	if req.Email != nil {
		updated.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		updated.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		updated.Address = strings.TrimSpace(*req.Address)
	}
	if req.Notes != nil {
		updated.Notes = strings.TrimSpace(*req.Notes)
	}

	saved, err := s.repo.UpdateSupplier(ctx, updated)
	if err != nil {
		return domain.Supplier{}, err
	}
	s.logAudit(ctx, "supplier_update", "supplier", saved.ID, fmt.Sprintf("name=%s", saved.Name))
	return *saved, nil
}

func (s *Service) DeleteSupplier(ctx context.Context, id string) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return fmt.Errorf("admin role required")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return store.ErrInvalidInput
	}
	if err := s.repo.DeleteSupplier(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, "supplier_delete", "supplier", id, "")
	return nil
}

func (s *Service) CreateSupplierOrder(ctx context.Context, req domain.SupplierOrderCreateRequest) (domain.SupplierOrder, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.SupplierOrder{}, fmt.Errorf("admin role required")
	}

	req.SupplierID = strings.TrimSpace(req.SupplierID)
	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.SupplierID == "" || req.ProductID == "" || req.Qty < 1 || req.CostCents < 0 {
		return domain.SupplierOrder{}, store.ErrInvalidInput
	}
	if _, err := s.repo.GetProduct(ctx, req.ProductID); err != nil {
		return domain.SupplierOrder{}, err
	}

	order := domain.SupplierOrder{
		ID:         xid.New("ord"),
		SupplierID: req.SupplierID,
		ProductID:  req.ProductID,
		Qty:        req.Qty,
		CostCents:  req.CostCents,
		Status:     domain.OrderStatusPending,
		OrderDate:  time.Now().UTC(),
	}

	created, err := s.repo.CreateSupplierOrder(ctx, order)
	if err != nil {
		return domain.SupplierOrder{}, err
	}
	s.logAudit(ctx, "supplier_order_create", "supplier_order", created.ID, fmt.Sprintf("supplier=%s,product=%s,qty=%d,cost=%d", created.SupplierID, created.ProductID, created.Qty, created.CostCents))
	s.invalidateDashboard(ctx)
	return *created, nil
}

func (s *Service) ListSupplierOrders(ctx context.Context, supplierID string) ([]domain.SupplierOrder, error) {
	return s.repo.ListSupplierOrders(ctx, strings.TrimSpace(supplierID))
}

// MarkOrderDelivered transitions a pending order to delivered and restocks
// the ordered product.
func (s *Service) MarkOrderDelivered(ctx context.Context, id string, deliveredAt *time.Time) (domain.SupplierOrder, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.SupplierOrder{}, fmt.Errorf("admin role required")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return domain.SupplierOrder{}, store.ErrInvalidInput
	}

	updated, err := s.repo.UpdateSupplierOrderStatus(ctx, id, domain.OrderStatusDelivered, deliveredAt)
	if err != nil {
		return domain.SupplierOrder{}, err
	}

	s.appendHistory(ctx, updated.ProductID, domain.HistoryStockAdjusted, fmt.Sprintf("delivery=%s,qty=+%d", updated.ID, updated.Qty))
	s.logAudit(ctx, "supplier_order_delivered", "supplier_order", updated.ID, fmt.Sprintf("qty=%d,cost=%d", updated.Qty, updated.CostCents))
	s.invalidateDashboard(ctx)
	return *updated, nil
}

func (s *Service) CancelOrder(ctx context.Context, id string) (domain.SupplierOrder, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.SupplierOrder{}, fmt.Errorf("admin role required")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return domain.SupplierOrder{}, store.ErrInvalidInput
	}

	updated, err := s.repo.UpdateSupplierOrderStatus(ctx, id, domain.OrderStatusCancelled, nil)
	if err != nil {
		return domain.SupplierOrder{}, err
	}
	s.logAudit(ctx, "supplier_order_cancelled", "supplier_order", updated.ID, "")
	s.invalidateDashboard(ctx)
	return *updated, nil
}
