package services

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"secure-shop/models"
)

// topProductsLimit caps the top-products breakdown.
const topProductsLimit = 5

// KPI is the dashboard headline summary.
type KPI struct {
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalOrders   int64   `json:"totalOrders"`
	TotalProducts int64   `json:"totalProducts"`
}

// MonthlySales is one calendar-month revenue bucket. Only months with at
// least one order appear.
type MonthlySales struct {
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	Sales  float64 `json:"sales"`
	Orders int     `json:"orders"`
}

// ProductSales aggregates units and revenue for one product name.
type ProductSales struct {
	ProductName string  `json:"productName"`
	TotalSold   int     `json:"totalSold"`
	Revenue     float64 `json:"revenue"`
}

// CategorySales attributes line-item revenue to a current catalog category.
type CategorySales struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

// Summary bundles the four dashboard queries.
type Summary struct {
	KPI           KPI             `json:"kpi"`
	MonthlySales  []MonthlySales  `json:"monthlySales"`
	TopProducts   []ProductSales  `json:"topProducts"`
	CategorySales []CategorySales `json:"categorySales"`
}

// AnalyticsService derives dashboard summaries from the accumulated order
// history plus the current catalog snapshot. It is read-only: every call
// recomputes from the full history, with no caching or incremental state.
type AnalyticsService struct {
	products ProductStore
	orders   OrderStore
}

// NewAnalyticsService wires the analytics engine to its stores.
func NewAnalyticsService(products ProductStore, orders OrderStore) *AnalyticsService {
	return &AnalyticsService{products: products, orders: orders}
}

// Summary computes the KPI block, monthly sales series, top products, and
// category sales. The order-history and catalog loads run concurrently; the
// derived aggregations are pure functions of the loaded snapshots.
func (s *AnalyticsService) Summary(ctx context.Context) (*Summary, error) {
	var (
		orders       []models.Order
		products     []models.Product
		productCount int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.orders.FindAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.products.FindAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		productCount, err = s.products.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Summary{
		KPI:           computeKPI(orders, productCount),
		MonthlySales:  computeMonthlySales(orders),
		TopProducts:   computeTopProducts(orders),
		CategorySales: computeCategorySales(orders, products),
	}, nil
}

func computeKPI(orders []models.Order, productCount int64) KPI {
	var revenue float64
	for _, order := range orders {
		revenue += order.OrderTotal
	}
	return KPI{
		TotalRevenue:  revenue,
		TotalOrders:   int64(len(orders)),
		TotalProducts: productCount,
	}
}

// computeMonthlySales groups orders by the calendar year and month of their
// timestamp, ascending. Months without orders are not gap-filled.
func computeMonthlySales(orders []models.Order) []MonthlySales {
	type yearMonth struct {
		year  int
		month int
	}
	buckets := make(map[yearMonth]*MonthlySales)
	for _, order := range orders {
		key := yearMonth{year: order.Timestamp.Year(), month: int(order.Timestamp.Month())}
		bucket, ok := buckets[key]
		if !ok {
			bucket = &MonthlySales{Year: key.year, Month: key.month}
			buckets[key] = bucket
		}
		bucket.Sales += order.OrderTotal
		bucket.Orders++
	}

	series := make([]MonthlySales, 0, len(buckets))
	for _, bucket := range buckets {
		series = append(series, *bucket)
	}
	sort.Slice(series, func(i, j int) bool {
		if series[i].Year != series[j].Year {
			return series[i].Year < series[j].Year
		}
		return series[i].Month < series[j].Month
	})
	return series
}

// computeTopProducts flattens all line items, groups by snapshotted product
// name, and returns at most the top five by revenue. Equal-revenue entries
// keep first-seen order; nothing stronger is promised for ties.
func computeTopProducts(orders []models.Order) []ProductSales {
	index := make(map[string]int)
	var ranked []ProductSales
	for _, order := range orders {
		for _, item := range order.Items {
			i, ok := index[item.ProductName]
			if !ok {
				i = len(ranked)
				index[item.ProductName] = i
				ranked = append(ranked, ProductSales{ProductName: item.ProductName})
			}
			ranked[i].TotalSold += item.Quantity
			ranked[i].Revenue += item.Price * float64(item.Quantity)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Revenue > ranked[j].Revenue
	})
	if len(ranked) > topProductsLimit {
		ranked = ranked[:topProductsLimit]
	}
	return ranked
}

// computeCategorySales attributes each line item's revenue to the current
// category of its product, looked up by the stable product id carried in the
// snapshot. Lines whose product no longer exists in the catalog are dropped.
// The result is sorted by category name for a deterministic payload.
func computeCategorySales(orders []models.Order, products []models.Product) []CategorySales {
	categoryByID := make(map[primitive.ObjectID]string, len(products))
	for _, p := range products {
		categoryByID[p.ID] = p.Category
	}

	totals := make(map[string]float64)
	for _, order := range orders {
		for _, item := range order.Items {
			category, ok := categoryByID[item.ProductID]
			if !ok {
				continue
			}
			totals[category] += item.Price * float64(item.Quantity)
		}
	}

	breakdown := make([]CategorySales, 0, len(totals))
	for category, value := range totals {
		breakdown = append(breakdown, CategorySales{Category: category, Value: value})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Category < breakdown[j].Category
	})
	return breakdown
}
