package orders

import (
	"testing"

	"github.com/vivek-vk7/AgroSustain/models"

	"github.com/stretchr/testify/require"
)

func item(price float64, qty int) models.OrderItem {
	return models.OrderItem{Price: price, Quantity: qty}
}

func TestComputePricesBasket(t *testing.T) {
	// 3 units of a $30 item
	prices := ComputePrices([]models.OrderItem{item(30, 3)})

	require.Equal(t, 90.0, prices.ItemsPrice)
	require.Equal(t, 10.0, prices.ShippingPrice)
	require.Equal(t, 13.5, prices.TaxPrice)
	require.Equal(t, 113.5, prices.TotalPrice)
}

func TestComputePricesShippingBoundary(t *testing.T) {
	// Free shipping kicks in strictly above 100, not at 100.
	at := ComputePrices([]models.OrderItem{item(100, 1)})
	require.Equal(t, 100.0, at.ItemsPrice)
	require.Equal(t, 10.0, at.ShippingPrice)

	above := ComputePrices([]models.OrderItem{item(100.01, 1)})
	require.Equal(t, 100.01, above.ItemsPrice)
	require.Equal(t, 0.0, above.ShippingPrice)
}

func TestComputePricesTaxRounding(t *testing.T) {
	// 0.15 * 33.33 = 4.9995, rounds to 5.00
	prices := ComputePrices([]models.OrderItem{item(33.33, 1)})
	require.Equal(t, 5.0, prices.TaxPrice)
	require.Equal(t, 48.33, prices.TotalPrice)
}

func TestComputePricesMultipleItems(t *testing.T) {
	prices := ComputePrices([]models.OrderItem{
		item(12.5, 2),
		item(7.25, 4),
		item(3.25, 1),
	})

	require.Equal(t, 57.25, prices.ItemsPrice)
	require.Equal(t, 10.0, prices.ShippingPrice)
	require.Equal(t, 8.59, prices.TaxPrice)
	require.Equal(t, 75.84, prices.TotalPrice)
}

// The stored breakdown must be reproducible from the order's own
// snapshot, regardless of later catalog price changes.
func TestPriceBreakdownRoundTrip(t *testing.T) {
	snapshot := []models.OrderItem{
		item(19.99, 3),
		item(45.0, 1),
	}

	stored := ComputePrices(snapshot)

	// Simulate a later catalog price change: the snapshot is what it
	// is, recomputation only ever sees the frozen copies.
	recomputed := ComputePrices(snapshot)

	require.Equal(t, stored, recomputed)
	require.Equal(t, stored.TotalPrice,
		round2(stored.ItemsPrice+stored.ShippingPrice+stored.TaxPrice))
}

func TestComputePricesEmpty(t *testing.T) {
	// Empty carts are rejected before pricing, but the function itself
	// degrades to the flat fee plus zero tax.
	prices := ComputePrices(nil)
	require.Equal(t, 0.0, prices.ItemsPrice)
	require.Equal(t, 10.0, prices.ShippingPrice)
	require.Equal(t, 0.0, prices.TaxPrice)
	require.Equal(t, 10.0, prices.TotalPrice)
}
