package memory

import (
	"context"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"dukapos/backend/internal/domain"
	"dukapos/backend/internal/store"
	"dukapos/backend/internal/xid"
)

type Store struct {
	mu              sync.RWMutex
	products        map[string]domain.Product
	categories      map[string]domain.Category
	suppliers       map[string]domain.Supplier
	supplierOrders  map[string]domain.SupplierOrder
	salesByID       map[string]domain.Sale
	historyByProd   map[string][]domain.ProductHistory
	auditLogs       []domain.AuditLog
	settings        map[string]string
	usersByUsername map[string]domain.UserAccount
}

// seedUsers builds the initial in-memory user accounts for dev/demo mode.
// Credentials are read from SEED_ADMIN_PASSWORD and SEED_STAFF_PASSWORD
// environment variables. If unset, hardcoded dev defaults are used with a
// warning printed to stdout. These credentials are never used in production
// (the backend uses PostgreSQL when DATABASE_URL is set).
func seedUsers() map[string]domain.UserAccount {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	staffPwd := envOr("SEED_STAFF_PASSWORD", "staff123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_STAFF_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD and SEED_STAFF_PASSWORD to override.")
	}

	now := time.Now().UTC()
	users := map[string]domain.UserAccount{}
	for _, u := range []struct {
		username string
		password string
		role     string
	}{
		{"admin", adminPwd, domain.RoleAdmin},
		{"staff", staffPwd, domain.RoleStaff},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memory-store] failed to hash seed password for %s: %v", u.username, err)
		}
		users[u.username] = domain.UserAccount{
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		}
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func NewSeeded() *Store {
	now := time.Now().UTC()

	categories := []domain.Category{
		{ID: "cat-grocery", Name: "Grocery"},
		{ID: "cat-dairy", Name: "Dairy"},
		{ID: "cat-bakery", Name: "Bakery"},
		{ID: "cat-beverage", Name: "Beverage"},
		{ID: "cat-household", Name: "Household"},
	}

	suppliers := []domain.Supplier{
		{ID: "sup-wholesale", Name: "Jane Wambui", Company: "Wambui Wholesalers", Phone: "+254700111222", CreatedAt: now},
		{ID: "sup-dairy", Name: "Peter Otieno", Company: "Lakeview Dairy", Phone: "+254700333444", CreatedAt: now},
	}

	products := []domain.Product{
		{ID: "prod-sugar-1kg", Name: "Sugar 1kg", Barcode: "6161100000011", Unit: "pcs", CategoryID: "cat-grocery", SupplierID: "sup-wholesale", BuyingPriceCents: 13500, SellingPriceCents: 16500, Stock: 40},
		{ID: "prod-maize-2kg", Name: "Maize Flour 2kg", Barcode: "6161100000028", Unit: "pcs", CategoryID: "cat-grocery", SupplierID: "sup-wholesale", BuyingPriceCents: 14000, SellingPriceCents: 17900, Stock: 60},
		{ID: "prod-milk-500ml", Name: "Fresh Milk 500ml", Barcode: "6161100000035", Unit: "pcs", CategoryID: "cat-dairy", SupplierID: "sup-dairy", BuyingPriceCents: 5000, SellingPriceCents: 6500, Stock: 80},
		{ID: "prod-bread-400g", Name: "White Bread 400g", Barcode: "6161100000042", Unit: "pcs", CategoryID: "cat-bakery", SupplierID: "sup-wholesale", BuyingPriceCents: 5500, SellingPriceCents: 7000, Stock: 30},
		{ID: "prod-oil-1l", Name: "Cooking Oil 1L", Barcode: "6161100000059", Unit: "pcs", CategoryID: "cat-grocery", SupplierID: "sup-wholesale", BuyingPriceCents: 28000, SellingPriceCents: 33000, Stock: 25},
		{ID: "prod-tea-250g", Name: "Tea Leaves 250g", Barcode: "6161100000066", Unit: "pcs", CategoryID: "cat-beverage", SupplierID: "sup-wholesale", BuyingPriceCents: 9500, SellingPriceCents: 12000, Stock: 35},
		{ID: "prod-soap-bar", Name: "Laundry Soap Bar", Barcode: "6161100000073", Unit: "pcs", CategoryID: "cat-household", SupplierID: "sup-wholesale", BuyingPriceCents: 7000, SellingPriceCents: 9000, Stock: 50},
		{ID: "prod-soda-500ml", Name: "Soda 500ml", Barcode: "6161100000080", Unit: "pcs", CategoryID: "cat-beverage", SupplierID: "sup-wholesale", BuyingPriceCents: 4500, SellingPriceCents: 6000, Stock: 70},
	}

	productMap := make(map[string]domain.Product, len(products))
	for _, p := range products {
		p.CreatedAt = now
		p.UpdatedAt = now
		productMap[p.ID] = p
	}
	categoryMap := make(map[string]domain.Category, len(categories))
	for _, c := range categories {
		categoryMap[c.ID] = c
	}
	supplierMap := make(map[string]domain.Supplier, len(suppliers))
	for _, s := range suppliers {
		supplierMap[s.ID] = s
	}

	return &Store{
		products:        productMap,
		categories:      categoryMap,
		suppliers:       supplierMap,
		supplierOrders:  make(map[string]domain.SupplierOrder),
		salesByID:       make(map[string]domain.Sale),
		historyByProd:   make(map[string][]domain.ProductHistory),
		auditLogs:       make([]domain.AuditLog, 0, 128),
		settings:        make(map[string]string),
		usersByUsername: seedUsers(),
	}
}

func (s *Store) ListProducts(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trimmed := strings.TrimSpace(filter.Query)
	query := strings.ToLower(trimmed)
	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if filter.CategoryID != "" && p.CategoryID != filter.CategoryID {
			continue
		}
		if filter.SupplierID != "" && p.SupplierID != filter.SupplierID {
			continue
		}
		if filter.LowStockAt > 0 && p.Stock >= filter.LowStockAt {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) && p.Barcode != trimmed {
			continue
		}
		products = append(products, p)
	}

	slices.SortFunc(products, func(a, b domain.Product) int {
		if a.CategoryID == b.CategoryID {
			return cmpString(a.Name, b.Name)
		}
		return cmpString(a.CategoryID, b.CategoryID)
	})

	return products, nil
}

func (s *Store) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, exists := s.products[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyProduct := product
	return &copyProduct, nil
}

func (s *Store) GetProductByBarcode(_ context.Context, barcode string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if barcode == "" {
		return nil, store.ErrNotFound
	}
	for _, p := range s.products {
		if p.Barcode == barcode {
			copyProduct := p
			return &copyProduct, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == "" || product.Name == "" {
		return nil, store.ErrInvalidInput
	}
	if product.BuyingPriceCents < 0 || product.SellingPriceCents < 0 || product.Stock < 0 {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.products[product.ID]; exists {
		return nil, store.ErrInvalidInput
	}
	if product.Barcode != "" {
		for _, p := range s.products {
			if p.Barcode == product.Barcode {
				return nil, store.ErrInvalidInput
			}
		}
	}

	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = product.CreatedAt
	s.products[product.ID] = product
	created := product
	return &created, nil
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == "" || product.Name == "" {
		return nil, store.ErrInvalidInput
	}
	if product.BuyingPriceCents < 0 || product.SellingPriceCents < 0 || product.Stock < 0 {
		return nil, store.ErrInvalidInput
	}
	existing, exists := s.products[product.ID]
	if !exists {
		return nil, store.ErrNotFound
	}
	if product.Barcode != "" {
		for id, p := range s.products {
			if id != product.ID && p.Barcode == product.Barcode {
				return nil, store.ErrInvalidInput
			}
		}
	}

	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now().UTC()
	s.products[product.ID] = product
	updated := product
	return &updated, nil
}

func (s *Store) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *Store) BulkProducts(_ context.Context, action string, ids []string, stock *int, priceCents *int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(ids) == 0 {
		return 0, store.ErrInvalidInput
	}
	// Validate everything before the first mutation so the batch stays atomic.
	switch action {
	case domain.BulkActionDelete:
	case domain.BulkActionSetStock:
		if stock == nil || *stock < 0 {
			return 0, store.ErrInvalidInput
		}
	case domain.BulkActionSetPrice:
		if priceCents == nil || *priceCents < 0 {
			return 0, store.ErrInvalidInput
		}
	default:
		return 0, store.ErrInvalidInput
	}
	for _, id := range ids {
		if _, exists := s.products[id]; !exists {
			return 0, fmt.Errorf("product %s: %w", id, store.ErrNotFound)
		}
	}

	now := time.Now().UTC()
	for _, id := range ids {
		switch action {
		case domain.BulkActionDelete:
			delete(s.products, id)
		case domain.BulkActionSetStock:
			p := s.products[id]
			p.Stock = *stock
			p.UpdatedAt = now
			s.products[id] = p
		case domain.BulkActionSetPrice:
			p := s.products[id]
			p.SellingPriceCents = *priceCents
			p.UpdatedAt = now
			s.products[id] = p
		}
	}
	return len(ids), nil
}

func (s *Store) ListCategories(_ context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		categories = append(categories, c)
	}
	slices.SortFunc(categories, func(a, b domain.Category) int {
		return cmpString(a.Name, b.Name)
	})
	return categories, nil
}

func (s *Store) CreateCategory(_ context.Context, category domain.Category) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if category.ID == "" || category.Name == "" {
		return nil, store.ErrInvalidInput
	}
	for _, c := range s.categories {
		if strings.EqualFold(c.Name, category.Name) {
			return nil, store.ErrInvalidInput
		}
	}
	s.categories[category.ID] = category
	created := category
	return &created, nil
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.categories[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

func (s *Store) CreateSale(_ context.Context, sale domain.Sale) (*domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sale.ProductID == "" || sale.Qty < 1 {
		return nil, store.ErrInvalidInput
	}
	product, exists := s.products[sale.ProductID]
	if !exists {
		return nil, store.ErrNotFound
	}
	if product.Stock < sale.Qty {
		return nil, store.ErrInsufficientStock
	}

	product.Stock -= sale.Qty
	product.UpdatedAt = time.Now().UTC()
	s.products[sale.ProductID] = product

	if sale.ID == "" {
		sale.ID = xid.New("sale")
	}
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now().UTC()
	}
	sale.ProductName = product.Name
	sale.UnitPriceCents = product.SellingPriceCents
	sale.TotalCents = product.SellingPriceCents * int64(sale.Qty)
	sale.ProfitCents = (product.SellingPriceCents - product.BuyingPriceCents) * int64(sale.Qty)

	s.salesByID[sale.ID] = sale
	created := sale
	return &created, nil
}

func (s *Store) ListSales(_ context.Context, filter domain.SaleFilter) ([]domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Sale, 0, len(s.salesByID))
	for _, sale := range s.salesByID {
		if !filter.From.IsZero() && sale.CreatedAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !sale.CreatedAt.Before(filter.To) {
			continue
		}
		if filter.PaymentMethod != "" && sale.PaymentMethod != filter.PaymentMethod {
			continue
		}
		if filter.ProductID != "" && sale.ProductID != filter.ProductID {
			continue
		}
		result = append(result, sale)
	}

	slices.SortFunc(result, func(a, b domain.Sale) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})
	return result, nil
}

func (s *Store) ListSuppliers(_ context.Context) ([]domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	suppliers := make([]domain.Supplier, 0, len(s.suppliers))
	for _, supplier := range s.suppliers {
		suppliers = append(suppliers, supplier)
	}
	slices.SortFunc(suppliers, func(a, b domain.Supplier) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(a.Name, b.Name)
		}
		if a.CreatedAt.Before(b.CreatedAt) {
			return -1
		}
		return 1
	})
	return suppliers, nil
}

func (s *Store) GetSupplier(_ context.Context, id string) (*domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	supplier, exists := s.suppliers[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copySupplier := supplier
	return &copySupplier, nil
}

func (s *Store) CreateSupplier(_ context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	supplier.Name = strings.TrimSpace(supplier.Name)
	if supplier.Name == "" {
		return nil, store.ErrInvalidInput
	}
	if supplier.ID == "" {
		supplier.ID = xid.New("sup")
	}
	if supplier.CreatedAt.IsZero() {
		supplier.CreatedAt = time.Now().UTC()
	}

	s.suppliers[supplier.ID] = supplier
	copySupplier := supplier
	return &copySupplier, nil
}

func (s *Store) UpdateSupplier(_ context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.suppliers[supplier.ID]
	if !exists {
		return nil, store.ErrNotFound
	}
	if strings.TrimSpace(supplier.Name) == "" {
		return nil, store.ErrInvalidInput
	}
	supplier.CreatedAt = existing.CreatedAt
	s.suppliers[supplier.ID] = supplier
	updated := supplier
	return &updated, nil
}

func (s *Store) DeleteSupplier(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.suppliers[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.suppliers, id)
	return nil
}

func (s *Store) CreateSupplierOrder(_ context.Context, order domain.SupplierOrder) (*domain.SupplierOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order.SupplierID == "" || order.ProductID == "" || order.Qty < 1 || order.CostCents < 0 {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.suppliers[order.SupplierID]; !exists {
		return nil, store.ErrNotFound
	}
	if order.ID == "" {
		order.ID = xid.New("ord")
	}
	if order.OrderDate.IsZero() {
		order.OrderDate = time.Now().UTC()
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}

	s.supplierOrders[order.ID] = order
	created := order
	return &created, nil
}

func (s *Store) ListSupplierOrders(_ context.Context, supplierID string) ([]domain.SupplierOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.SupplierOrder, 0, len(s.supplierOrders))
	for _, order := range s.supplierOrders {
		if supplierID != "" && order.SupplierID != supplierID {
			continue
		}
		result = append(result, order)
	}
	slices.SortFunc(result, func(a, b domain.SupplierOrder) int {
		if a.OrderDate.Equal(b.OrderDate) {
			return cmpString(b.ID, a.ID)
		}
		if a.OrderDate.After(b.OrderDate) {
			return -1
		}
		return 1
	})
	return result, nil
}

func (s *Store) UpdateSupplierOrderStatus(_ context.Context, id, status string, deliveredAt *time.Time) (*domain.SupplierOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, exists := s.supplierOrders[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	if order.Status != domain.OrderStatusPending {
		return nil, store.ErrInvalidInput
	}
	switch status {
	case domain.OrderStatusDelivered:
		at := time.Now().UTC()
		if deliveredAt != nil {
			at = deliveredAt.UTC()
		}
		order.Status = domain.OrderStatusDelivered
		order.DeliveryDate = &at
		// Delivered goods land back in stock when the product still exists.
		if product, ok := s.products[order.ProductID]; ok {
			product.Stock += order.Qty
			product.UpdatedAt = at
			s.products[order.ProductID] = product
		}
	case domain.OrderStatusCancelled:
		order.Status = domain.OrderStatusCancelled
	default:
		return nil, store.ErrInvalidInput
	}

	s.supplierOrders[id] = order
	updated := order
	return &updated, nil
}

func (s *Store) AppendProductHistory(_ context.Context, entry domain.ProductHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = xid.New("hist")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.historyByProd[entry.ProductID] = append(s.historyByProd[entry.ProductID], entry)
	return nil
}

func (s *Store) ListProductHistory(_ context.Context, productID string) ([]domain.ProductHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.historyByProd[productID]
	if len(history) == 0 {
		return []domain.ProductHistory{}, nil
	}

	result := make([]domain.ProductHistory, len(history))
	copy(result, history)
	slices.SortFunc(result, func(a, b domain.ProductHistory) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})
	return result, nil
}

func (s *Store) CreateAuditLog(_ context.Context, entry domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.auditLogs = append(s.auditLogs, entry)
	return nil
}

func (s *Store) ListAuditLogs(_ context.Context, limit int) ([]domain.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.AuditLog, len(s.auditLogs))
	copy(result, s.auditLogs)
	slices.SortFunc(result, func(a, b domain.AuditLog) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) GetSetting(_ context.Context, key string) (*domain.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, exists := s.settings[key]
	if !exists {
		return nil, store.ErrNotFound
	}
	return &domain.Setting{Key: key, Value: value}, nil
}

func (s *Store) UpsertSetting(_ context.Context, setting domain.Setting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if setting.Key == "" {
		return store.ErrInvalidInput
	}
	s.settings[setting.Key] = setting.Value
	return nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" || strings.TrimSpace(user.Password) == "" {
		return store.ErrInvalidInput
	}
	if _, exists := s.usersByUsername[username]; exists {
		return store.ErrInvalidInput
	}
	user.Username = username
	if user.Role == "" {
		user.Role = domain.RoleStaff
	}
	if !domain.ValidRole(user.Role) {
		return store.ErrInvalidInput
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.Active = true
	s.usersByUsername[user.Username] = user
	return nil
}

func (s *Store) GetUser(_ context.Context, username string) (*domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.usersByUsername[strings.ToLower(strings.TrimSpace(username))]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyUser := user
	return &copyUser, nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.UserAccount, 0, len(s.usersByUsername))
	for _, user := range s.usersByUsername {
		users = append(users, user)
	}
	slices.SortFunc(users, func(a, b domain.UserAccount) int {
		return cmpString(a.Username, b.Username)
	})
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, hashed string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.TrimSpace(hashed) == "" {
		return store.ErrInvalidInput
	}
	user, exists := s.usersByUsername[username]
	if !exists {
		return store.ErrNotFound
	}
	user.Password = hashed
	s.usersByUsername[username] = user
	return nil
}

func (s *Store) UpdateUserRole(_ context.Context, username string, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username = strings.ToLower(strings.TrimSpace(username))
	if !domain.ValidRole(role) {
		return store.ErrInvalidInput
	}
	user, exists := s.usersByUsername[username]
	if !exists {
		return store.ErrNotFound
	}
	user.Role = role
	s.usersByUsername[username] = user
	return nil
}

func (s *Store) DeleteUser(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username = strings.ToLower(strings.TrimSpace(username))
	if _, exists := s.usersByUsername[username]; !exists {
		return store.ErrNotFound
	}
	delete(s.usersByUsername, username)
	return nil
}

func cmpString(a string, b string) int {
	if a == b {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}
