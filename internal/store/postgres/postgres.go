package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"dukapos/backend/internal/domain"
	"dukapos/backend/internal/store"
	"dukapos/backend/internal/xid"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	query := `
		SELECT id, name, barcode, description, unit, category_id, supplier_id,
			buying_price_cents, selling_price_cents, stock, created_at, updated_at
		FROM products
		WHERE ($1 = '' OR category_id = $1)
			AND ($2 = '' OR supplier_id = $2)
			AND ($3 = '' OR name ILIKE '%' || $3 || '%' OR barcode = $3)
	`
	if filter.LowStockAt > 0 {
		query += fmt.Sprintf(` AND stock < %d`, filter.LowStockAt)
	}
	query += ` ORDER BY category_id, name`

	rows, err := s.db.QueryContext(ctx, query, filter.CategoryID, filter.SupplierID, strings.TrimSpace(filter.Query))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 128)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, barcode, description, unit, category_id, supplier_id,
			buying_price_cents, selling_price_cents, stock, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) GetProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	if barcode == "" {
		return nil, store.ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, barcode, description, unit, category_id, supplier_id,
			buying_price_cents, selling_price_cents, stock, created_at, updated_at
		FROM products
		WHERE barcode = $1
	`, barcode)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.ID == "" || product.Name == "" {
		return nil, store.ErrInvalidInput
	}
	if product.BuyingPriceCents < 0 || product.SellingPriceCents < 0 || product.Stock < 0 {
		return nil, store.ErrInvalidInput
	}

	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = product.CreatedAt
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (
			id, name, barcode, description, unit, category_id, supplier_id,
			buying_price_cents, selling_price_cents, stock, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, product.ID, product.Name, nullIfEmpty(product.Barcode), product.Description, product.Unit,
		nullIfEmpty(product.CategoryID), nullIfEmpty(product.SupplierID),
		product.BuyingPriceCents, product.SellingPriceCents, product.Stock, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidInput
		}
		return nil, err
	}

	created := product
	return &created, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.ID == "" || product.Name == "" {
		return nil, store.ErrInvalidInput
	}
	if product.BuyingPriceCents < 0 || product.SellingPriceCents < 0 || product.Stock < 0 {
		return nil, store.ErrInvalidInput
	}

	product.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, barcode = $3, description = $4, unit = $5, category_id = $6,
			supplier_id = $7, buying_price_cents = $8, selling_price_cents = $9,
			stock = $10, updated_at = $11
		WHERE id = $1
	`, product.ID, product.Name, nullIfEmpty(product.Barcode), product.Description, product.Unit,
		nullIfEmpty(product.CategoryID), nullIfEmpty(product.SupplierID),
		product.BuyingPriceCents, product.SellingPriceCents, product.Stock, product.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidInput
		}
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	updated := product
	return &updated, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) BulkProducts(ctx context.Context, action string, ids []string, stock *int, priceCents *int64) (int, error) {
	if len(ids) == 0 {
		return 0, store.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var existing int
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM products WHERE id = ANY($1)`, ids).Scan(&existing); err != nil {
		return 0, err
	}
	if existing != len(ids) {
		return 0, store.ErrNotFound
	}

	var res sql.Result
	switch action {
	case domain.BulkActionDelete:
		res, err = tx.ExecContext(ctx, `DELETE FROM products WHERE id = ANY($1)`, ids)
	case domain.BulkActionSetStock:
		if stock == nil || *stock < 0 {
			return 0, store.ErrInvalidInput
		}
		res, err = tx.ExecContext(ctx, `UPDATE products SET stock = $2, updated_at = now() WHERE id = ANY($1)`, ids, *stock)
	case domain.BulkActionSetPrice:
		if priceCents == nil || *priceCents < 0 {
			return 0, store.ErrInvalidInput
		}
		res, err = tx.ExecContext(ctx, `UPDATE products SET selling_price_cents = $2, updated_at = now() WHERE id = ANY($1)`, ids, *priceCents)
	default:
		return 0, store.ErrInvalidInput
	}
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(affected), nil
}

func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]domain.Category, 0, 16)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Store) CreateCategory(ctx context.Context, category domain.Category) (*domain.Category, error) {
	if category.ID == "" || category.Name == "" {
		return nil, store.ErrInvalidInput
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO categories (id, name) VALUES ($1,$2)`, category.ID, category.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidInput
		}
		return nil, err
	}
	created := category
	return &created, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CreateSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error) {
	if sale.ProductID == "" || sale.Qty < 1 {
		return nil, store.ErrInvalidInput
	}
	if sale.ID == "" {
		sale.ID = xid.New("sale")
	}
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var name string
	var buying, selling int64
	var stock int
	err = tx.QueryRowContext(ctx, `
		SELECT name, buying_price_cents, selling_price_cents, stock
		FROM products
		WHERE id = $1
		FOR UPDATE
	`, sale.ProductID).Scan(&name, &buying, &selling, &stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	if stock < sale.Qty {
		return nil, store.ErrInsufficientStock
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE products
		SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2
	`, sale.ProductID, sale.Qty)
	if err != nil {
		return nil, err
	}

	sale.ProductName = name
	sale.UnitPriceCents = selling
	sale.TotalCents = selling * int64(sale.Qty)
	sale.ProfitCents = (selling - buying) * int64(sale.Qty)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (
			id, product_id, product_name, qty, payment_method, unit_price_cents,
			total_cents, profit_cents, customer_name, customer_contact, sold_by, created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, sale.ID, sale.ProductID, sale.ProductName, sale.Qty, sale.PaymentMethod,
		sale.UnitPriceCents, sale.TotalCents, sale.ProfitCents,
		sale.CustomerName, sale.CustomerContact, sale.SoldBy, sale.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	created := sale
	return &created, nil
}

func (s *Store) ListSales(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_id, product_name, qty, payment_method, unit_price_cents,
			total_cents, profit_cents, customer_name, customer_contact, sold_by, created_at
		FROM sales
		WHERE ($1::timestamptz IS NULL OR created_at >= $1)
			AND ($2::timestamptz IS NULL OR created_at < $2)
			AND ($3 = '' OR payment_method = $3)
			AND ($4 = '' OR product_id = $4)
		ORDER BY created_at DESC, id DESC
	`, nullTimeValue(filter.From), nullTimeValue(filter.To), filter.PaymentMethod, filter.ProductID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]domain.Sale, 0, 128)
	for rows.Next() {
		var sale domain.Sale
		if err := rows.Scan(&sale.ID, &sale.ProductID, &sale.ProductName, &sale.Qty, &sale.PaymentMethod,
			&sale.UnitPriceCents, &sale.TotalCents, &sale.ProfitCents,
			&sale.CustomerName, &sale.CustomerContact, &sale.SoldBy, &sale.CreatedAt); err != nil {
			return nil, err
		}
		sale.CreatedAt = sale.CreatedAt.UTC()
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sales, nil
}

func (s *Store) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, company, email, phone, address, notes, created_at
		FROM suppliers
		ORDER BY created_at, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suppliers := make([]domain.Supplier, 0, 32)
	for rows.Next() {
		supplier, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, supplier)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (s *Store) GetSupplier(ctx context.Context, id string) (*domain.Supplier, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, company, email, phone, address, notes, created_at
		FROM suppliers
		WHERE id = $1
	`, id)
	supplier, err := scanSupplier(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

func (s *Store) CreateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
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

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO suppliers (id, name, company, email, phone, address, notes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, supplier.ID, supplier.Name, supplier.Company, supplier.Email, supplier.Phone, supplier.Address, supplier.Notes, supplier.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidInput
		}
		return nil, err
	}
	created := supplier
	return &created, nil
}

func (s *Store) UpdateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	if strings.TrimSpace(supplier.Name) == "" {
		return nil, store.ErrInvalidInput
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE suppliers
		SET name = $2, company = $3, email = $4, phone = $5, address = $6, notes = $7
		WHERE id = $1
	`, supplier.ID, supplier.Name, supplier.Company, supplier.Email, supplier.Phone, supplier.Address, supplier.Notes)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	updated := supplier
	return &updated, nil
}

func (s *Store) DeleteSupplier(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CreateSupplierOrder(ctx context.Context, order domain.SupplierOrder) (*domain.SupplierOrder, error) {
	if order.SupplierID == "" || order.ProductID == "" || order.Qty < 1 || order.CostCents < 0 {
		return nil, store.ErrInvalidInput
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

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO supplier_orders (id, supplier_id, product_id, qty, cost_cents, status, order_date, delivery_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, order.ID, order.SupplierID, order.ProductID, order.Qty, order.CostCents, order.Status, order.OrderDate, nullTime(order.DeliveryDate))
	if err != nil {
		return nil, err
	}
	created := order
	return &created, nil
}

func (s *Store) ListSupplierOrders(ctx context.Context, supplierID string) ([]domain.SupplierOrder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, supplier_id, product_id, qty, cost_cents, status, order_date, delivery_date
		FROM supplier_orders
		WHERE ($1 = '' OR supplier_id = $1)
		ORDER BY order_date DESC, id DESC
	`, supplierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.SupplierOrder, 0, 64)
	for rows.Next() {
		var order domain.SupplierOrder
		var delivery sql.NullTime
		if err := rows.Scan(&order.ID, &order.SupplierID, &order.ProductID, &order.Qty, &order.CostCents, &order.Status, &order.OrderDate, &delivery); err != nil {
			return nil, err
		}
		order.OrderDate = order.OrderDate.UTC()
		if delivery.Valid {
			at := delivery.Time.UTC()
			order.DeliveryDate = &at
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) UpdateSupplierOrderStatus(ctx context.Context, id, status string, deliveredAt *time.Time) (*domain.SupplierOrder, error) {
	if status != domain.OrderStatusDelivered && status != domain.OrderStatusCancelled {
		return nil, store.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var order domain.SupplierOrder
	var delivery sql.NullTime
	err = tx.QueryRowContext(ctx, `
		SELECT id, supplier_id, product_id, qty, cost_cents, status, order_date, delivery_date
		FROM supplier_orders
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&order.ID, &order.SupplierID, &order.ProductID, &order.Qty, &order.CostCents, &order.Status, &order.OrderDate, &delivery)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
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
		_, err = tx.ExecContext(ctx, `
			UPDATE supplier_orders SET status = $2, delivery_date = $3 WHERE id = $1
		`, id, status, at)
		if err != nil {
			return nil, err
		}
		// Restock the ordered product if it still exists.
		_, err = tx.ExecContext(ctx, `
			UPDATE products SET stock = stock + $2, updated_at = now() WHERE id = $1
		`, order.ProductID, order.Qty)
		if err != nil {
			return nil, err
		}
		order.Status = status
		order.DeliveryDate = &at
	case domain.OrderStatusCancelled:
		_, err = tx.ExecContext(ctx, `
			UPDATE supplier_orders SET status = $2 WHERE id = $1
		`, id, status)
		if err != nil {
			return nil, err
		}
		order.Status = status
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	order.OrderDate = order.OrderDate.UTC()
	return &order, nil
}

func (s *Store) AppendProductHistory(ctx context.Context, entry domain.ProductHistory) error {
	if entry.ID == "" {
		entry.ID = xid.New("hist")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO product_history (id, product_id, action, detail, actor, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, entry.ID, entry.ProductID, entry.Action, entry.Detail, entry.Actor, entry.CreatedAt)
	return err
}

func (s *Store) ListProductHistory(ctx context.Context, productID string) ([]domain.ProductHistory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_id, action, detail, actor, created_at
		FROM product_history
		WHERE product_id = $1
		ORDER BY created_at DESC, id DESC
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]domain.ProductHistory, 0, 32)
	for rows.Next() {
		var entry domain.ProductHistory
		if err := rows.Scan(&entry.ID, &entry.ProductID, &entry.Action, &entry.Detail, &entry.Actor, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.CreatedAt = entry.CreatedAt.UTC()
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return history, nil
}

func (s *Store) CreateAuditLog(ctx context.Context, entry domain.AuditLog) error {
	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, username, role, action, entity_type, entity_id, detail, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, entry.ID, entry.Username, entry.Role, entry.Action, entry.EntityType, entry.EntityID, entry.Detail, entry.CreatedAt)
	return err
}

func (s *Store) ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	if limit < 1 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, role, action, entity_type, entity_id, detail, created_at
		FROM audit_logs
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]domain.AuditLog, 0, limit)
	for rows.Next() {
		var entry domain.AuditLog
		if err := rows.Scan(&entry.ID, &entry.Username, &entry.Role, &entry.Action, &entry.EntityType, &entry.EntityID, &entry.Detail, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.CreatedAt = entry.CreatedAt.UTC()
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *Store) GetSetting(ctx context.Context, key string) (*domain.Setting, error) {
	var setting domain.Setting
	err := s.db.QueryRowContext(ctx, `
		SELECT key, value FROM settings WHERE key = $1
	`, key).Scan(&setting.Key, &setting.Value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &setting, nil
}

func (s *Store) UpsertSetting(ctx context.Context, setting domain.Setting) error {
	if setting.Key == "" {
		return store.ErrInvalidInput
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1,$2,now())
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, setting.Key, setting.Value)
	return err
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" || strings.TrimSpace(user.Password) == "" {
		return store.ErrInvalidInput
	}
	if user.Role == "" {
		user.Role = domain.RoleStaff
	}
	if !domain.ValidRole(user.Role) {
		return store.ErrInvalidInput
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password, role, active, created_at)
		VALUES ($1,$2,$3,true,$4)
	`, username, user.Password, user.Role, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrInvalidInput
		}
		return err
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, username string) (*domain.UserAccount, error) {
	var user domain.UserAccount
	err := s.db.QueryRowContext(ctx, `
		SELECT username, password, role, active, created_at
		FROM users
		WHERE username = $1
	`, strings.ToLower(strings.TrimSpace(username))).Scan(&user.Username, &user.Password, &user.Role, &user.Active, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return &user, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, password, role, active, created_at
		FROM users
		ORDER BY username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.UserAccount, 0, 16)
	for rows.Next() {
		var user domain.UserAccount
		if err := rows.Scan(&user.Username, &user.Password, &user.Role, &user.Active, &user.CreatedAt); err != nil {
			return nil, err
		}
		user.CreatedAt = user.CreatedAt.UTC()
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, hashed string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.TrimSpace(hashed) == "" {
		return store.ErrInvalidInput
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET password = $2 WHERE username = $1
	`, username, hashed)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) UpdateUserRole(ctx context.Context, username string, role string) error {
	if !domain.ValidRole(role) {
		return store.ErrInvalidInput
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET role = $2 WHERE username = $1
	`, strings.ToLower(strings.TrimSpace(username)), role)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, username string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM users WHERE username = $1
	`, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	var barcode, categoryID, supplierID sql.NullString
	err := row.Scan(&p.ID, &p.Name, &barcode, &p.Description, &p.Unit, &categoryID, &supplierID,
		&p.BuyingPriceCents, &p.SellingPriceCents, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Product{}, err
	}
	if barcode.Valid {
		p.Barcode = barcode.String
	}
	if categoryID.Valid {
		p.CategoryID = categoryID.String
	}
	if supplierID.Valid {
		p.SupplierID = supplierID.String
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func scanSupplier(row rowScanner) (domain.Supplier, error) {
	var supplier domain.Supplier
	err := row.Scan(&supplier.ID, &supplier.Name, &supplier.Company, &supplier.Email,
		&supplier.Phone, &supplier.Address, &supplier.Notes, &supplier.CreatedAt)
	if err != nil {
		return domain.Supplier{}, err
	}
	supplier.CreatedAt = supplier.CreatedAt.UTC()
	return supplier, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func nullIfEmpty(val string) any {
	if val == "" {
		return nil
	}
	return val
}

func nullTime(val *time.Time) any {
	if val == nil {
		return nil
	}
	return *val
}

func nullTimeValue(val time.Time) any {
	if val.IsZero() {
		return nil
	}
	return val
}
