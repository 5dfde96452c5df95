// Package report computes dashboard aggregates from sales, supplier orders
// and catalog snapshots. Everything here is pure so the service layer can
// cache the composed report without re-reading the store.
package report

import (
	"slices"
	"time"

	"dukapos/backend/internal/domain"
)

const topSellerLimit = 5

// BestSellers returns the top products by quantity sold. Ties keep the
// product that first appeared in the sales feed.
func BestSellers(sales []domain.Sale) []domain.BestSeller {
	byProduct := map[string]*domain.BestSeller{}
	order := make([]string, 0, 16)
	for _, sale := range sales {
		entry := byProduct[sale.ProductID]
		if entry == nil {
			entry = &domain.BestSeller{ProductID: sale.ProductID, ProductName: sale.ProductName}
			byProduct[sale.ProductID] = entry
			order = append(order, sale.ProductID)
		}
		entry.QtySold += sale.Qty
		entry.TotalCents += sale.TotalCents
	}

	result := make([]domain.BestSeller, 0, len(order))
	for _, id := range order {
		result = append(result, *byProduct[id])
	}
	slices.SortStableFunc(result, func(a, b domain.BestSeller) int {
		return b.QtySold - a.QtySold
	})
	if len(result) > topSellerLimit {
		result = result[:topSellerLimit]
	}
	return result
}

// MonthlyTrend groups revenue, profit and sale counts by calendar month,
// sorted ascending by "YYYY-MM" key.
func MonthlyTrend(sales []domain.Sale) []domain.MonthlyRevenue {
	byMonth := map[string]*domain.MonthlyRevenue{}
	for _, sale := range sales {
		month := monthKey(sale.CreatedAt)
		entry := byMonth[month]
		if entry == nil {
			entry = &domain.MonthlyRevenue{Month: month}
			byMonth[month] = entry
		}
		entry.RevenueCents += sale.TotalCents
		entry.ProfitCents += sale.ProfitCents
		entry.Sales++
	}

	result := make([]domain.MonthlyRevenue, 0, len(byMonth))
	for _, entry := range byMonth {
		result = append(result, *entry)
	}
	slices.SortFunc(result, func(a, b domain.MonthlyRevenue) int {
		return cmpString(a.Month, b.Month)
	})
	return result
}

func PaymentBreakdown(sales []domain.Sale) []domain.PaymentMethodStat {
	byMethod := map[string]*domain.PaymentMethodStat{}
	for _, sale := range sales {
		entry := byMethod[sale.PaymentMethod]
		if entry == nil {
			entry = &domain.PaymentMethodStat{Method: sale.PaymentMethod}
			byMethod[sale.PaymentMethod] = entry
		}
		entry.Sales++
		entry.RevenueCents += sale.TotalCents
	}

	result := make([]domain.PaymentMethodStat, 0, len(byMethod))
	for _, entry := range byMethod {
		result = append(result, *entry)
	}
	slices.SortFunc(result, func(a, b domain.PaymentMethodStat) int {
		return cmpString(a.Method, b.Method)
	})
	return result
}

// ExpensesCents sums the cost of delivered supplier orders. Pending and
// cancelled orders are not money spent yet.
func ExpensesCents(orders []domain.SupplierOrder) int64 {
	var total int64
	for _, order := range orders {
		if order.Status == domain.OrderStatusDelivered {
			total += order.CostCents
		}
	}
	return total
}

// Outstanding sums undelivered pending order costs per supplier. Suppliers
// with nothing outstanding are omitted.
func Outstanding(orders []domain.SupplierOrder, suppliers []domain.Supplier) []domain.SupplierOutstanding {
	names := supplierNames(suppliers)
	bySupplier := map[string]int64{}
	for _, order := range orders {
		if order.Status != domain.OrderStatusPending {
			continue
		}
		bySupplier[order.SupplierID] += order.CostCents
	}

	result := make([]domain.SupplierOutstanding, 0, len(bySupplier))
	for id, amount := range bySupplier {
		if amount == 0 {
			continue
		}
		result = append(result, domain.SupplierOutstanding{
			SupplierID:   id,
			SupplierName: names[id],
			AmountCents:  amount,
		})
	}
	slices.SortFunc(result, func(a, b domain.SupplierOutstanding) int {
		return cmpString(a.SupplierID, b.SupplierID)
	})
	return result
}

// deliveredOnTime is the on-time predicate for supplier scoring. It compares
// the delivery date against the order date, which counts same-day delivery
// and nothing else. Kept in one place until the scoring window is revisited.
func deliveredOnTime(order domain.SupplierOrder) bool {
	if order.DeliveryDate == nil {
		return false
	}
	return !order.DeliveryDate.After(order.OrderDate)
}

// Performance scores each supplier by total quantity supplied across all
// orders and the share of delivered orders that arrived on time, as an
// integer percentage. A supplier with no delivered orders scores zero.
func Performance(orders []domain.SupplierOrder, suppliers []domain.Supplier) []domain.SupplierPerformance {
	names := supplierNames(suppliers)
	bySupplier := map[string]*domain.SupplierPerformance{}
	keys := make([]string, 0, len(suppliers))
	for _, order := range orders {
		entry := bySupplier[order.SupplierID]
		if entry == nil {
			entry = &domain.SupplierPerformance{
				SupplierID:   order.SupplierID,
				SupplierName: names[order.SupplierID],
			}
			bySupplier[order.SupplierID] = entry
			keys = append(keys, order.SupplierID)
		}
		entry.TotalOrders++
		entry.TotalSupplied += order.Qty
		if order.Status != domain.OrderStatusDelivered {
			continue
		}
		entry.Delivered++
		if deliveredOnTime(order) {
			entry.OnTime++
		}
	}

	result := make([]domain.SupplierPerformance, 0, len(keys))
	for _, id := range keys {
		entry := bySupplier[id]
		if entry.Delivered > 0 {
			entry.OnTimePercent = entry.OnTime * 100 / entry.Delivered
		}
		result = append(result, *entry)
	}
	slices.SortFunc(result, func(a, b domain.SupplierPerformance) int {
		return cmpString(a.SupplierID, b.SupplierID)
	})
	return result
}

// CashFlow nets monthly sales revenue against delivered order expenses.
// Expenses charge the month the order was placed, and rows exist only for
// months that saw sales.
func CashFlow(sales []domain.Sale, orders []domain.SupplierOrder) []domain.MonthlyCashFlow {
	byMonth := map[string]*domain.MonthlyCashFlow{}
	for _, sale := range sales {
		key := monthKey(sale.CreatedAt)
		entry := byMonth[key]
		if entry == nil {
			entry = &domain.MonthlyCashFlow{Month: key}
			byMonth[key] = entry
		}
		entry.RevenueCents += sale.TotalCents
	}
	for _, order := range orders {
		if order.Status != domain.OrderStatusDelivered {
			continue
		}
		if entry := byMonth[monthKey(order.OrderDate)]; entry != nil {
			entry.ExpensesCents += order.CostCents
		}
	}

	result := make([]domain.MonthlyCashFlow, 0, len(byMonth))
	for _, entry := range byMonth {
		entry.NetCents = entry.RevenueCents - entry.ExpensesCents
		result = append(result, *entry)
	}
	slices.SortFunc(result, func(a, b domain.MonthlyCashFlow) int {
		return cmpString(a.Month, b.Month)
	})
	return result
}

// LowStock returns products whose stock sits below the threshold, lowest first.
func LowStock(products []domain.Product, threshold int) []domain.Product {
	result := make([]domain.Product, 0, 8)
	for _, p := range products {
		if p.Stock < threshold {
			result = append(result, p)
		}
	}
	slices.SortFunc(result, func(a, b domain.Product) int {
		if a.Stock == b.Stock {
			return cmpString(a.Name, b.Name)
		}
		return a.Stock - b.Stock
	})
	return result
}

// Build composes the full dashboard report from raw store reads.
func Build(now time.Time, sales []domain.Sale, orders []domain.SupplierOrder, suppliers []domain.Supplier, products []domain.Product, userCount int, lowStockThreshold int) domain.DashboardReport {
	var revenue, profit int64
	for _, sale := range sales {
		revenue += sale.TotalCents
		profit += sale.ProfitCents
	}
	var inventoryValue int64
	for _, p := range products {
		inventoryValue += p.SellingPriceCents * int64(p.Stock)
	}

	return domain.DashboardReport{
		GeneratedAt:         now.UTC().Format(time.RFC3339),
		TotalSales:          len(sales),
		TotalProducts:       len(products),
		TotalUsers:          userCount,
		TotalRevenueCents:   revenue,
		TotalProfitCents:    profit,
		TotalExpensesCents:  ExpensesCents(orders),
		InventoryValueCents: inventoryValue,
		BestSellers:         BestSellers(sales),
		MonthlyTrend:        MonthlyTrend(sales),
		PaymentBreakdown:    PaymentBreakdown(sales),
		Outstanding:         Outstanding(orders, suppliers),
		SupplierPerformance: Performance(orders, suppliers),
		CashFlow:            CashFlow(sales, orders),
		LowStock:            LowStock(products, lowStockThreshold),
	}
}

func supplierNames(suppliers []domain.Supplier) map[string]string {
	names := make(map[string]string, len(suppliers))
	for _, s := range suppliers {
		names[s.ID] = s.Name
	}
	return names
}

func monthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
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
