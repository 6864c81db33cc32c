package orders

import (
	"testing"

	"github.com/vivek-vk7/AgroSustain/models"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestShortStockItem(t *testing.T) {
	apples := primitive.NewObjectID()
	pears := primitive.NewObjectID()
	stock := map[primitive.ObjectID]int{apples: 5, pears: 2}

	_, short := shortStockItem([]models.OrderItem{
		{Product: apples, Name: "Apples", Quantity: 5},
		{Product: pears, Name: "Pears", Quantity: 2},
	}, stock)
	require.False(t, short)

	item, short := shortStockItem([]models.OrderItem{
		{Product: apples, Name: "Apples", Quantity: 3},
		{Product: pears, Name: "Pears", Quantity: 3},
	}, stock)
	require.True(t, short)
	require.Equal(t, "Pears", item.Name)
}

func TestShortStockItemCumulative(t *testing.T) {
	apples := primitive.NewObjectID()
	stock := map[primitive.ObjectID]int{apples: 5}

	// Two lines for the same product must be checked against the
	// combined quantity, not each in isolation.
	item, short := shortStockItem([]models.OrderItem{
		{Product: apples, Name: "Apples", Quantity: 3},
		{Product: apples, Name: "Apples", Quantity: 3},
	}, stock)
	require.True(t, short)
	require.Equal(t, "Apples", item.Name)

	_, short = shortStockItem([]models.OrderItem{
		{Product: apples, Name: "Apples", Quantity: 3},
		{Product: apples, Name: "Apples", Quantity: 2},
	}, stock)
	require.False(t, short)
}

func TestShortStockItemUnknownProduct(t *testing.T) {
	item, short := shortStockItem([]models.OrderItem{
		{Product: primitive.NewObjectID(), Name: "Ghost", Quantity: 1},
	}, map[primitive.ObjectID]int{})
	require.True(t, short)
	require.Equal(t, "Ghost", item.Name)
}
