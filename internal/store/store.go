// Package store defines the persistence contract shared by the in-memory
// and Postgres backends.
package store

import (
	"context"
	"errors"
	"time"

	"dukapos/backend/internal/domain"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidInput      = errors.New("invalid input")
)

// Repository is the full persistence surface. Implementations must make
// CreateSale and BulkProducts atomic: either every row mutation lands or
// none do.
type Repository interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	BulkProducts(ctx context.Context, action string, ids []string, stock *int, priceCents *int64) (int, error)

	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, category domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	// CreateSale checks stock, decrements it, and persists the sale in one
	// atomic step. The passed sale carries ID, ProductID, Qty, PaymentMethod,
	// customer fields, SoldBy and CreatedAt; the store fills the price
	// snapshot fields from the product row it locks.
	CreateSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error)
	ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error)

	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
	GetSupplier(ctx context.Context, id string) (*domain.Supplier, error)
	CreateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error)
	UpdateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error

	CreateSupplierOrder(ctx context.Context, order domain.SupplierOrder) (*domain.SupplierOrder, error)
	ListSupplierOrders(ctx context.Context, supplierID string) ([]domain.SupplierOrder, error)
	UpdateSupplierOrderStatus(ctx context.Context, id, status string, deliveredAt *time.Time) (*domain.SupplierOrder, error)

	AppendProductHistory(ctx context.Context, entry domain.ProductHistory) error
	ListProductHistory(ctx context.Context, productID string) ([]domain.ProductHistory, error)

	CreateAuditLog(ctx context.Context, entry domain.AuditLog) error
	ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditLog, error)

	GetSetting(ctx context.Context, key string) (*domain.Setting, error)
	UpsertSetting(ctx context.Context, setting domain.Setting) error

	CreateUser(ctx context.Context, user domain.UserAccount) error
	GetUser(ctx context.Context, username string) (*domain.UserAccount, error)
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username, hashed string) error
	UpdateUserRole(ctx context.Context, username, role string) error
	DeleteUser(ctx context.Context, username string) error
}
