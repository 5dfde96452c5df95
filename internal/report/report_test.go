package report

import (
	"testing"
	"time"

	"dukapos/backend/internal/domain"
)

func saleAt(productID, name string, qty int, totalCents, profitCents int64, at time.Time) domain.Sale {
	return domain.Sale{
		ID:          "sale-" + productID + at.Format("20060102150405"),
		ProductID:   productID,
		ProductName: name,
		Qty:         qty,
		TotalCents:  totalCents,
		ProfitCents: profitCents,
		CreatedAt:   at,
	}
}

func TestMonthlyTrendGroupsAndSorts(t *testing.T) {
	jan := time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)
	feb := time.Date(2026, time.February, 3, 12, 0, 0, 0, time.UTC)

	sales := []domain.Sale{
		saleAt("p1", "Sugar 1kg", 1, 10000, 2000, feb),
		saleAt("p2", "Tea Leaves 250g", 1, 10000, 2500, jan),
		saleAt("p1", "Sugar 1kg", 2, 15000, 3000, jan),
	}

	trend := MonthlyTrend(sales)
	if len(trend) != 2 {
		t.Fatalf("expected 2 months, got %d", len(trend))
	}
	if trend[0].Month != "2026-01" || trend[1].Month != "2026-02" {
		t.Fatalf("months not ascending: %s, %s", trend[0].Month, trend[1].Month)
	}
	if trend[0].RevenueCents != 25000 {
		t.Fatalf("expected january revenue 25000, got %d", trend[0].RevenueCents)
	}
	if trend[0].Sales != 2 {
		t.Fatalf("expected 2 january sales, got %d", trend[0].Sales)
	}
}

func TestBestSellersTopFiveStableTie(t *testing.T) {
	at := time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)
	sales := make([]domain.Sale, 0, 8)
	for i, id := range []string{"p1", "p2", "p3", "p4", "p5", "p6"} {
		sales = append(sales, saleAt(id, "Product "+id, 10-i, int64(1000*(10-i)), 100, at))
	}
	// p7 ties with p5 on qty but appears later.
	sales = append(sales, saleAt("p7", "Product p7", 6, 6000, 100, at))

	best := BestSellers(sales)
	if len(best) != 5 {
		t.Fatalf("expected top 5, got %d", len(best))
	}
	if best[0].ProductID != "p1" || best[0].QtySold != 10 {
		t.Fatalf("unexpected leader: %+v", best[0])
	}
	if best[4].ProductID != "p5" {
		t.Fatalf("tie should keep first-seen product, got %s", best[4].ProductID)
	}
}

func TestPaymentBreakdown(t *testing.T) {
	at := time.Now().UTC()
	sales := []domain.Sale{
		{ID: "s1", PaymentMethod: "Cash", TotalCents: 10000, CreatedAt: at},
		{ID: "s2", PaymentMethod: "Mpesa", TotalCents: 20000, CreatedAt: at},
		{ID: "s3", PaymentMethod: "Cash", TotalCents: 5000, CreatedAt: at},
	}

	stats := PaymentBreakdown(sales)
	if len(stats) != 2 {
		t.Fatalf("expected 2 methods, got %d", len(stats))
	}
	if stats[0].Method != "Cash" || stats[0].Sales != 2 || stats[0].RevenueCents != 15000 {
		t.Fatalf("unexpected cash stats: %+v", stats[0])
	}
}

func TestExpensesAndOutstanding(t *testing.T) {
	delivered := time.Date(2026, time.April, 5, 0, 0, 0, 0, time.UTC)
	suppliers := []domain.Supplier{
		{ID: "sup-a", Name: "Wambui Wholesalers"},
		{ID: "sup-b", Name: "Lakeview Dairy"},
	}
	orders := []domain.SupplierOrder{
		{ID: "o1", SupplierID: "sup-a", CostCents: 20000, Status: domain.OrderStatusDelivered, DeliveryDate: &delivered},
		{ID: "o2", SupplierID: "sup-b", CostCents: 30000, Status: domain.OrderStatusPending},
		{ID: "o3", SupplierID: "sup-a", CostCents: 9999, Status: domain.OrderStatusCancelled},
	}

	if got := ExpensesCents(orders); got != 20000 {
		t.Fatalf("expected expenses 20000, got %d", got)
	}

	outstanding := Outstanding(orders, suppliers)
	if len(outstanding) != 1 {
		t.Fatalf("expected one supplier outstanding, got %d", len(outstanding))
	}
	if outstanding[0].SupplierID != "sup-b" || outstanding[0].AmountCents != 30000 {
		t.Fatalf("unexpected outstanding entry: %+v", outstanding[0])
	}
	if outstanding[0].SupplierName != "Lakeview Dairy" {
		t.Fatalf("expected supplier name resolved, got %q", outstanding[0].SupplierName)
	}
}

func TestPerformanceOnTimeCountsSameDayOnly(t *testing.T) {
	ordered := time.Date(2026, time.May, 1, 10, 0, 0, 0, time.UTC)
	sameDay := ordered.Add(-2 * time.Hour)
	lateDay := ordered.AddDate(0, 0, 3)

	suppliers := []domain.Supplier{{ID: "sup-a", Name: "Wambui Wholesalers"}}
	orders := []domain.SupplierOrder{
		{ID: "o1", SupplierID: "sup-a", Qty: 5, OrderDate: ordered, Status: domain.OrderStatusDelivered, DeliveryDate: &sameDay},
		{ID: "o2", SupplierID: "sup-a", Qty: 7, OrderDate: ordered, Status: domain.OrderStatusDelivered, DeliveryDate: &lateDay},
		{ID: "o3", SupplierID: "sup-a", Qty: 4, OrderDate: ordered, Status: domain.OrderStatusPending},
	}

	perf := Performance(orders, suppliers)
	if len(perf) != 1 {
		t.Fatalf("expected one supplier, got %d", len(perf))
	}
	entry := perf[0]
	if entry.TotalOrders != 3 || entry.Delivered != 2 || entry.OnTime != 1 {
		t.Fatalf("unexpected performance: %+v", entry)
	}
	if entry.TotalSupplied != 16 {
		t.Fatalf("expected 16 units supplied across all orders, got %d", entry.TotalSupplied)
	}
	if entry.OnTimePercent != 50 {
		t.Fatalf("expected 50%% on time, got %d", entry.OnTimePercent)
	}
}

func TestPerformanceZeroPercentWithoutDeliveries(t *testing.T) {
	ordered := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	suppliers := []domain.Supplier{{ID: "sup-a", Name: "Wambui Wholesalers"}}
	orders := []domain.SupplierOrder{
		{ID: "o1", SupplierID: "sup-a", Qty: 12, OrderDate: ordered, Status: domain.OrderStatusPending},
	}

	perf := Performance(orders, suppliers)
	if len(perf) != 1 {
		t.Fatalf("expected one supplier, got %d", len(perf))
	}
	if perf[0].OnTimePercent != 0 || perf[0].TotalSupplied != 12 {
		t.Fatalf("unexpected performance: %+v", perf[0])
	}
}

func TestCashFlowNetsDeliveredExpenses(t *testing.T) {
	jan := time.Date(2026, time.January, 8, 0, 0, 0, 0, time.UTC)
	sales := []domain.Sale{saleAt("p1", "Sugar 1kg", 2, 50000, 10000, jan)}
	orders := []domain.SupplierOrder{
		{ID: "o1", SupplierID: "sup-a", CostCents: 20000, Status: domain.OrderStatusDelivered, OrderDate: jan, DeliveryDate: &jan},
		{ID: "o2", SupplierID: "sup-a", CostCents: 99999, Status: domain.OrderStatusPending, OrderDate: jan},
	}

	flow := CashFlow(sales, orders)
	if len(flow) != 1 {
		t.Fatalf("expected one month, got %d", len(flow))
	}
	if flow[0].RevenueCents != 50000 || flow[0].ExpensesCents != 20000 || flow[0].NetCents != 30000 {
		t.Fatalf("unexpected cash flow: %+v", flow[0])
	}
}

func TestCashFlowChargesOrderMonthAndFollowsSalesMonths(t *testing.T) {
	jan := time.Date(2026, time.January, 8, 0, 0, 0, 0, time.UTC)
	feb := jan.AddDate(0, 1, 0)
	sales := []domain.Sale{saleAt("p1", "Sugar 1kg", 2, 50000, 10000, jan)}
	// Ordered in January, delivered in February: the cost charges January.
	orders := []domain.SupplierOrder{
		{ID: "o1", SupplierID: "sup-a", CostCents: 20000, Status: domain.OrderStatusDelivered, OrderDate: jan, DeliveryDate: &feb},
	}

	flow := CashFlow(sales, orders)
	if len(flow) != 1 {
		t.Fatalf("expected one month, got %d", len(flow))
	}
	if flow[0].Month != "2026-01" {
		t.Fatalf("expected 2026-01, got %s", flow[0].Month)
	}
	if flow[0].ExpensesCents != 20000 || flow[0].NetCents != 30000 {
		t.Fatalf("unexpected cash flow: %+v", flow[0])
	}
}

func TestLowStockOrdering(t *testing.T) {
	products := []domain.Product{
		{ID: "p1", Name: "Sugar 1kg", Stock: 2},
		{ID: "p2", Name: "Tea Leaves 250g", Stock: 10},
		{ID: "p3", Name: "Bread 400g", Stock: 0},
	}

	low := LowStock(products, 5)
	if len(low) != 2 {
		t.Fatalf("expected 2 low-stock products, got %d", len(low))
	}
	if low[0].ID != "p3" || low[1].ID != "p1" {
		t.Fatalf("expected lowest stock first, got %s then %s", low[0].ID, low[1].ID)
	}
}

func TestBuildTotals(t *testing.T) {
	at := time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)
	sales := []domain.Sale{
		saleAt("p1", "Sugar 1kg", 1, 16500, 3000, at),
		saleAt("p2", "Tea Leaves 250g", 2, 24000, 5000, at),
	}
	orders := []domain.SupplierOrder{
		{ID: "o1", SupplierID: "sup-a", CostCents: 12000, Status: domain.OrderStatusDelivered, OrderDate: at, DeliveryDate: &at},
	}
	products := []domain.Product{
		{ID: "p1", Name: "Sugar 1kg", SellingPriceCents: 16500, Stock: 4},
		{ID: "p2", Name: "Tea Leaves 250g", SellingPriceCents: 12000, Stock: 10},
	}

	rep := Build(at, sales, orders, nil, products, 3, 5)
	if rep.TotalSales != 2 {
		t.Fatalf("expected 2 sales, got %d", rep.TotalSales)
	}
	if rep.TotalRevenueCents != 40500 || rep.TotalProfitCents != 8000 {
		t.Fatalf("unexpected totals: revenue %d profit %d", rep.TotalRevenueCents, rep.TotalProfitCents)
	}
	if rep.TotalExpensesCents != 12000 {
		t.Fatalf("expected expenses 12000, got %d", rep.TotalExpensesCents)
	}
	if rep.TotalProducts != 2 || rep.TotalUsers != 3 {
		t.Fatalf("unexpected counts: products %d users %d", rep.TotalProducts, rep.TotalUsers)
	}
	if rep.InventoryValueCents != 186000 {
		t.Fatalf("expected inventory value 186000, got %d", rep.InventoryValueCents)
	}
}
