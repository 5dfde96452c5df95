package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dukapos/backend/internal/domain"
	"dukapos/backend/internal/service"
	"dukapos/backend/internal/store/memory"
)

// newTestAPI builds a full API with an in-memory store, real AuthManager and
// real Service so handler tests exercise the complete request path.
func newTestAPI(t *testing.T) *API {
	t.Helper()

	repo := memory.NewSeeded()
	svc := service.New(repo, nil, nil)
	auth := NewAuthManager("test-secret-key", time.Hour, repo)

	return New(svc, auth, "*")
}

func loginAs(t *testing.T, handler http.Handler, username, password string) string {
	t.Helper()

	payload, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login as %s failed: %d %s", username, rec.Code, rec.Body.String())
	}

	var resp domain.LoginResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.AccessToken
}

func fetchCSRFToken(t *testing.T, handler http.Handler) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/csrf-token", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("csrf token fetch failed: %d %s", rec.Code, rec.Body.String())
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode csrf body: %v", err)
	}
	if body["csrf_token"] == "" {
		t.Fatalf("expected csrf_token in response")
	}
	return body["csrf_token"]
}

// doJSON issues an authenticated JSON request with a valid CSRF token and
// returns the recorder.
func doJSON(t *testing.T, handler http.Handler, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if method != http.MethodGet {
		req.Header.Set("X-CSRF-Token", fetchCSRFToken(t, handler))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["ok"] != true {
		t.Fatalf("expected ok:true, got %v", body["ok"])
	}
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	payload, _ := json.Marshal(map[string]string{
		"username": "admin",
		"password": "wrongpassword",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestHandleLogin_RateLimit(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	// The loginLimiter allows 5 attempts per minute.
	// Fire 6 requests from the same "IP" (httptest uses RemoteAddr "192.0.2.1:1234").
	payload, _ := json.Marshal(map[string]string{
		"username": "admin",
		"password": "badpass",
	})

	var lastCode int
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		lastCode = rec.Code
	}

	if lastCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after 6 attempts, got %d", lastCode)
	}
}

func TestHandleProducts_RequiresAuth(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHandleProducts_ListWithToken(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAs(t, handler, "admin", "admin123")

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/products", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["products"] == nil {
		t.Fatalf("expected products key in response, got %v", body)
	}
}

func TestHandleProducts_CreateRequiresAdmin(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	staffToken := loginAs(t, handler, "staff", "staff123")

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/products", staffToken, map[string]any{
		"name":                "Rice 1kg",
		"buying_price_cents":  9000,
		"selling_price_cents": 12000,
		"stock":               10,
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff create, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestHandleProducts_CreateAndFetch(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAs(t, handler, "admin", "admin123")

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/products", token, map[string]any{
		"name":                "Rice 1kg",
		"unit":                "bag",
		"buying_price_cents":  9000,
		"selling_price_cents": 12000,
		"stock":               10,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var created struct {
		Product domain.Product `json:"product"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode created product: %v", err)
	}
	if created.Product.ID == "" {
		t.Fatalf("expected product id to be assigned")
	}

	fetch := doJSON(t, handler, http.MethodGet, "/api/v1/products/"+created.Product.ID, token, nil)
	if fetch.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching product, got %d (body: %s)", fetch.Code, fetch.Body.String())
	}
}

func TestHandleProducts_BarcodeLookup(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAs(t, handler, "staff", "staff123")

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/products?barcode=6161100000011", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	missing := doJSON(t, handler, http.MethodGet, "/api/v1/products?barcode=0000000000000", token, nil)
	if missing.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown barcode, got %d", missing.Code)
	}
}

func TestHandleSales_RecordAndList(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAs(t, handler, "staff", "staff123")

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/sales", token, map[string]any{
		"product_id":     "prod-sugar-1kg",
		"qty":            2,
		"payment_method": "Cash",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var created struct {
		Sale domain.Sale `json:"sale"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode sale: %v", err)
	}
	if created.Sale.TotalCents != 2*16500 {
		t.Fatalf("expected total %d, got %d", 2*16500, created.Sale.TotalCents)
	}
	if created.Sale.SoldBy != "staff" {
		t.Fatalf("expected sold_by staff, got %s", created.Sale.SoldBy)
	}

	list := doJSON(t, handler, http.MethodGet, "/api/v1/sales", token, nil)
	if list.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", list.Code, list.Body.String())
	}
}

func TestHandleSales_InsufficientStockConflict(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAs(t, handler, "staff", "staff123")

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/sales", token, map[string]any{
		"product_id":     "prod-sugar-1kg",
		"qty":            100000,
		"payment_method": "Cash",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestHandleSales_RejectsUnknownPaymentMethod(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAs(t, handler, "staff", "staff123")

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/sales", token, map[string]any{
		"product_id":     "prod-sugar-1kg",
		"qty":            1,
		"payment_method": "Barter",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestHandleSalesExport_ReturnsCSV(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAs(t, handler, "staff", "staff123")

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/sales", token, map[string]any{
		"product_id":     "prod-bread-400g",
		"qty":            1,
		"payment_method": "Mpesa",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed sale failed: %d %s", rec.Code, rec.Body.String())
	}

	export := doJSON(t, handler, http.MethodGet, "/api/v1/sales/export", token, nil)
	if export.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", export.Code, export.Body.String())
	}
	if ct := export.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("expected text/csv content type, got %s", ct)
	}
	if !strings.Contains(export.Body.String(), "prod-bread-400g") {
		t.Fatalf("expected exported sale row, got %s", export.Body.String())
	}
}

func TestHandleSuppliers_OrderLifecycle(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAs(t, handler, "admin", "admin123")

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/suppliers/sup-wholesale/orders", token, map[string]any{
		"product_id": "prod-sugar-1kg",
		"qty":        20,
		"cost_cents": 250000,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var created struct {
		Order domain.SupplierOrder `json:"order"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if created.Order.Status != domain.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", created.Order.Status)
	}

	deliver := doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/v1/supplier-orders/%s/deliver", created.Order.ID), token, map[string]any{})
	if deliver.Code != http.StatusOK {
		t.Fatalf("expected 200 delivering, got %d (body: %s)", deliver.Code, deliver.Body.String())
	}

	var delivered struct {
		Order domain.SupplierOrder `json:"order"`
	}
	if err := json.NewDecoder(deliver.Body).Decode(&delivered); err != nil {
		t.Fatalf("decode delivered order: %v", err)
	}
	if delivered.Order.Status != domain.OrderStatusDelivered {
		t.Fatalf("expected delivered status, got %s", delivered.Order.Status)
	}

	// Delivering twice is rejected: only pending orders transition.
	again := doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/v1/supplier-orders/%s/deliver", created.Order.ID), token, map[string]any{})
	if again.Code == http.StatusOK {
		t.Fatalf("expected second delivery to fail, got 200")
	}
}

func TestHandleSupplierOrders_StaffForbidden(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	staffToken := loginAs(t, handler, "staff", "staff123")

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/suppliers/sup-wholesale/orders", staffToken, map[string]any{
		"product_id": "prod-sugar-1kg",
		"qty":        5,
		"cost_cents": 60000,
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestHandleDashboard_ReturnsReport(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := loginAs(t, handler, "staff", "staff123")

	sale := doJSON(t, handler, http.MethodPost, "/api/v1/sales", token, map[string]any{
		"product_id":     "prod-milk-500ml",
		"qty":            3,
		"payment_method": "Cash",
	})
	if sale.Code != http.StatusCreated {
		t.Fatalf("seed sale failed: %d %s", sale.Code, sale.Body.String())
	}

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/reports/dashboard", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var report domain.DashboardReport
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.TotalSales != 1 {
		t.Fatalf("expected 1 sale in report, got %d", report.TotalSales)
	}
	if len(report.BestSellers) == 0 {
		t.Fatalf("expected best sellers in report")
	}
}

func TestHandleSettings_UpdateRequiresAdmin(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	staffToken := loginAs(t, handler, "staff", "staff123")
	adminToken := loginAs(t, handler, "admin", "admin123")

	denied := doJSON(t, handler, http.MethodPut, "/api/v1/settings", staffToken, map[string]string{
		"key":   "low_stock_threshold",
		"value": "10",
	})
	if denied.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff, got %d (body: %s)", denied.Code, denied.Body.String())
	}

	allowed := doJSON(t, handler, http.MethodPut, "/api/v1/settings", adminToken, map[string]string{
		"key":   "low_stock_threshold",
		"value": "10",
	})
	if allowed.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d (body: %s)", allowed.Code, allowed.Body.String())
	}
}

func TestHandleSignup_DisabledSettingBlocks(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	adminToken := loginAs(t, handler, "admin", "admin123")

	off := doJSON(t, handler, http.MethodPut, "/api/v1/settings", adminToken, map[string]string{
		"key":   "signup_enabled",
		"value": "no",
	})
	if off.Code != http.StatusOK {
		t.Fatalf("disable signup failed: %d %s", off.Code, off.Body.String())
	}

	payload, _ := json.Marshal(map[string]string{
		"username": "walkin",
		"password": "longenough",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 with signup disabled, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestHandleUsers_AdminOnly(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	staffToken := loginAs(t, handler, "staff", "staff123")
	adminToken := loginAs(t, handler, "admin", "admin123")

	denied := doJSON(t, handler, http.MethodGet, "/api/v1/users", staffToken, nil)
	if denied.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff, got %d", denied.Code)
	}

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/users", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var body struct {
		Users []domain.UserView `json:"users"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode users: %v", err)
	}
	if len(body.Users) < 2 {
		t.Fatalf("expected seeded users, got %d", len(body.Users))
	}
}

func TestHandleUsers_RoleChangeGuardsLastAdmin(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	adminToken := loginAs(t, handler, "admin", "admin123")

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/users/admin/role", adminToken, map[string]string{
		"role": "staff",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 demoting the last admin, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestHandleAuditLogs_RecordsMutations(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	adminToken := loginAs(t, handler, "admin", "admin123")

	created := doJSON(t, handler, http.MethodPost, "/api/v1/categories", adminToken, map[string]string{
		"name": "Snacks",
	})
	if created.Code != http.StatusCreated {
		t.Fatalf("create category failed: %d %s", created.Code, created.Body.String())
	}

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/audit-logs", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var body struct {
		Logs []domain.AuditLog `json:"logs"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode logs: %v", err)
	}
	found := false
	for _, entry := range body.Logs {
		if entry.Action == "category_create" && entry.Username == "admin" {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected category_create audit entry, got %+v", body.Logs)
	}
}

func TestHandleProductBulk_SetStock(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	adminToken := loginAs(t, handler, "admin", "admin123")

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/products/bulk", adminToken, map[string]any{
		"action":      "set_stock",
		"product_ids": []string{"prod-sugar-1kg", "prod-bread-400g"},
		"stock":       99,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var resp domain.ProductBulkResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode bulk response: %v", err)
	}
	if resp.Affected != 2 {
		t.Fatalf("expected 2 affected products, got %d", resp.Affected)
	}

	fetch := doJSON(t, handler, http.MethodGet, "/api/v1/products/prod-sugar-1kg", adminToken, nil)
	var body struct {
		Product domain.Product `json:"product"`
	}
	if err := json.NewDecoder(fetch.Body).Decode(&body); err != nil {
		t.Fatalf("decode product: %v", err)
	}
	if body.Product.Stock != 99 {
		t.Fatalf("expected stock 99, got %d", body.Product.Stock)
	}
}
