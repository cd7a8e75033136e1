package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"secure-shop/models"
	"secure-shop/services"
)

func line(productID primitive.ObjectID, name string, price float64, qty int) models.OrderItem {
	return models.OrderItem{ProductID: productID, ProductName: name, Price: price, Quantity: qty}
}

func TestSummary_MonthlySalesExample(t *testing.T) {
	f := newFixture(t)
	march := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	april := time.Date(2024, time.April, 9, 12, 0, 0, 0, time.UTC)
	f.addOrder(50, march)
	f.addOrder(70, march.Add(72*time.Hour))
	f.addOrder(20, april)

	summary, err := f.dash.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 140.0, summary.KPI.TotalRevenue)
	assert.Equal(t, int64(3), summary.KPI.TotalOrders)

	require.Len(t, summary.MonthlySales, 2)
	assert.Equal(t, services.MonthlySales{Year: 2024, Month: 3, Sales: 120, Orders: 2}, summary.MonthlySales[0])
	assert.Equal(t, services.MonthlySales{Year: 2024, Month: 4, Sales: 20, Orders: 1}, summary.MonthlySales[1])
}

func TestSummary_MonthlyBucketsSumToRevenue(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC)
	totals := []float64{12.5, 80, 7.25, 300, 41}
	for i, total := range totals {
		f.addOrder(total, base.AddDate(0, i%3, i))
	}

	summary, err := f.dash.Summary(context.Background())
	require.NoError(t, err)

	var bucketSum float64
	for _, bucket := range summary.MonthlySales {
		bucketSum += bucket.Sales
	}
	assert.InDelta(t, summary.KPI.TotalRevenue, bucketSum, 1e-9)

	// Series is ordered ascending by year, then month.
	for i := 1; i < len(summary.MonthlySales); i++ {
		prev, cur := summary.MonthlySales[i-1], summary.MonthlySales[i]
		assert.True(t, prev.Year < cur.Year || (prev.Year == cur.Year && prev.Month < cur.Month))
	}
}

func TestSummary_TopProductsCapAndOrdering(t *testing.T) {
	f := newFixture(t)
	ts := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	// Seven products with distinct revenue; only the top five may appear.
	for i := 1; i <= 7; i++ {
		name := fmt.Sprintf("P%d", i)
		f.addOrder(float64(10*i), ts, line(primitive.NewObjectID(), name, float64(10*i), 1))
	}

	summary, err := f.dash.Summary(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.TopProducts, 5)
	assert.Equal(t, "P7", summary.TopProducts[0].ProductName)
	assert.Equal(t, 70.0, summary.TopProducts[0].Revenue)
	for i := 1; i < len(summary.TopProducts); i++ {
		assert.GreaterOrEqual(t, summary.TopProducts[i-1].Revenue, summary.TopProducts[i].Revenue)
	}
}

func TestSummary_TopProductsAggregateAcrossOrders(t *testing.T) {
	f := newFixture(t)
	ts := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	id := primitive.NewObjectID()
	f.addOrder(30, ts, line(id, "Laptop", 10, 3))
	f.addOrder(20, ts.Add(time.Hour), line(id, "Laptop", 10, 2))

	summary, err := f.dash.Summary(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.TopProducts, 1)
	assert.Equal(t, 5, summary.TopProducts[0].TotalSold)
	assert.Equal(t, 50.0, summary.TopProducts[0].Revenue)
}

func TestSummary_CategorySalesUsesCurrentCatalog(t *testing.T) {
	f := newFixture(t)
	ts := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	laptopID := f.addProduct(t, "Laptop", 1000, 5, "Electronics")
	deskID := f.addProduct(t, "Desk", 200, 5, "Furniture")
	goneID := primitive.NewObjectID() // never in the catalog

	f.addOrder(1000, ts, line(laptopID, "Laptop", 1000, 1))
	f.addOrder(400, ts, line(deskID, "Desk", 200, 2))
	f.addOrder(50, ts, line(goneID, "Vanished", 50, 1))

	summary, err := f.dash.Summary(context.Background())
	require.NoError(t, err)

	// The line for the vanished product is dropped from the breakdown.
	require.Len(t, summary.CategorySales, 2)
	assert.Equal(t, services.CategorySales{Category: "Electronics", Value: 1000}, summary.CategorySales[0])
	assert.Equal(t, services.CategorySales{Category: "Furniture", Value: 400}, summary.CategorySales[1])

	// Attribution follows the product's *current* category.
	desk, err := f.store.FindByID(context.Background(), deskID)
	require.NoError(t, err)
	desk.Category = "Office"
	require.NoError(t, f.store.Update(context.Background(), desk))

	summary, err = f.dash.Summary(context.Background())
	require.NoError(t, err)
	electronics, found := findCategory(summary.CategorySales, "Electronics")
	require.True(t, found)
	assert.Equal(t, 1000.0, electronics.Value)
	office, found := findCategory(summary.CategorySales, "Office")
	require.True(t, found)
	assert.Equal(t, 400.0, office.Value)
	_, found = findCategory(summary.CategorySales, "Furniture")
	assert.False(t, found)
}

func TestSummary_KPIProductCountFromCatalog(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "A", 1, 1, "X")
	f.addProduct(t, "B", 1, 1, "X")
	f.addProduct(t, "C", 1, 1, "Y")

	summary, err := f.dash.Summary(context.Background())
	require.NoError(t, err)

	// Distinct product count comes from the catalog, not from orders.
	assert.Equal(t, int64(3), summary.KPI.TotalProducts)
	assert.Equal(t, int64(0), summary.KPI.TotalOrders)
}

func TestSummary_EmptyHistory(t *testing.T) {
	f := newFixture(t)

	summary, err := f.dash.Summary(context.Background())
	require.NoError(t, err)

	assert.Zero(t, summary.KPI.TotalRevenue)
	assert.Empty(t, summary.MonthlySales)
	assert.Empty(t, summary.TopProducts)
	assert.Empty(t, summary.CategorySales)
}

func findCategory(breakdown []services.CategorySales, category string) (services.CategorySales, bool) {
	for _, c := range breakdown {
		if c.Category == category {
			return c, true
		}
	}
	return services.CategorySales{}, false
}
