package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/vivek-vk7/AgroSustain/db"
	"github.com/vivek-vk7/AgroSustain/models"
	"github.com/vivek-vk7/AgroSustain/mq"
	"github.com/vivek-vk7/AgroSustain/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type orderInput struct {
	OrderItems []struct {
		Product  string `json:"product"`
		Quantity int    `json:"qty"`
	} `json:"orderItems"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
}

// shortStockItem returns the first item whose requested quantity,
// combined with earlier items for the same product, exceeds the stock
// seen at snapshot time.
func shortStockItem(items []models.OrderItem, stock map[primitive.ObjectID]int) (models.OrderItem, bool) {
	remaining := make(map[primitive.ObjectID]int, len(stock))
	for id, n := range stock {
		remaining[id] = n
	}
	for _, item := range items {
		remaining[item.Product] -= item.Quantity
		if remaining[item.Product] < 0 {
			return item, true
		}
	}
	return models.OrderItem{}, false
}

// CreateOrder freezes the cart into an immutable snapshot with a
// server-computed price breakdown. Client-supplied prices are ignored.
func CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user := utils.GetUserFromRequest(r)

	var input orderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if len(input.OrderItems) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "No order items")
		return
	}
	if input.ShippingAddress.Address == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Shipping address is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	// Resolve each requested item against the live catalog into a
	// frozen snapshot.
	items := make([]models.OrderItem, 0, len(input.OrderItems))
	stock := make(map[primitive.ObjectID]int, len(input.OrderItems))
	for _, requested := range input.OrderItems {
		if requested.Quantity <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Quantity must be positive")
			return
		}

		productID, err := primitive.ObjectIDFromHex(requested.Product)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid product ID")
			return
		}

		var product models.Product
		if err := db.ProductCollection.FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
			if err == mongo.ErrNoDocuments {
				utils.RespondWithError(w, http.StatusNotFound, fmt.Sprintf("Product %s not found", requested.Product))
				return
			}
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch product")
			return
		}

		items = append(items, models.OrderItem{
			Product:  product.ID,
			Name:     product.Name,
			Image:    product.Image,
			Price:    product.Price,
			Quantity: requested.Quantity,
		})
		stock[product.ID] = product.CountInStock
	}

	// Reject against the stock seen at snapshot time before touching
	// any count, so a doomed order does not decrement its early items.
	if short, ok := shortStockItem(items, stock); ok {
		utils.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("Insufficient stock for %s", short.Name))
		return
	}

	// Decrement stock per item with a guarded single-document update,
	// so a concurrent order cannot drive a count negative.
	for _, item := range items {
		filter := bson.M{"_id": item.Product, "countInStock": bson.M{"$gte": item.Quantity}}
		update := bson.M{"$inc": bson.M{"countInStock": -item.Quantity}}
		result, err := db.ProductCollection.UpdateOne(ctx, filter, update)
		if err != nil || result.ModifiedCount == 0 {
			utils.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("Insufficient stock for %s", item.Name))
			return
		}
	}

	prices := ComputePrices(items)

	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "Stripe/Card"
	}

	order := models.Order{
		ID:              primitive.NewObjectID(),
		OrderID:         uuid.NewString(),
		User:            user.ID,
		OrderItems:      items,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   paymentMethod,
		ItemsPrice:      prices.ItemsPrice,
		ShippingPrice:   prices.ShippingPrice,
		TaxPrice:        prices.TaxPrice,
		TotalPrice:      prices.TotalPrice,
		CreatedAt:       time.Now(),
	}

	if _, err := db.OrderCollection.InsertOne(ctx, order); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	mq.Emit("order-created", models.Index{
		EntityType: "order",
		Method:     "POST",
		EntityId:   order.ID.Hex(),
	})

	utils.RespondWithJSON(w, http.StatusCreated, order)
}

// GetMyOrders lists the purchasing identity's own orders.
func GetMyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user := utils.GetUserFromRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := db.OrderCollection.Find(ctx, bson.M{"user": user.ID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode orders")
		return
	}
	if len(orders) == 0 {
		orders = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, orders)
}

// GetOrder fetches a single order. Readable by the purchasing user, an
// admin, or a proposer whose product appears in it.
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user := utils.GetUserFromRequest(r)

	order, ok := loadOrderForReader(w, r, ps.ByName("id"), user)
	if !ok {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, order)
}

// GetProposerOrders lists orders containing any of the caller's own
// products.
func GetProposerOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user := utils.GetUserFromRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productIDs, err := ownedProductIDs(ctx, user.ID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	if len(productIDs) == 0 {
		utils.RespondWithJSON(w, http.StatusOK, []models.Order{})
		return
	}

	cursor, err := db.OrderCollection.Find(ctx, bson.M{"orderItems.product": bson.M{"$in": productIDs}})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode orders")
		return
	}
	if len(orders) == 0 {
		orders = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, orders)
}

// MarkPaid sets the paid flag once. Re-marking a paid order is a
// no-op success.
func MarkPaid(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user := utils.GetUserFromRequest(r)

	orderID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch order")
		return
	}

	if order.User != user.ID && user.Role != models.RoleAdmin {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized to update this order")
		return
	}

	if !order.IsPaid {
		now := time.Now()
		update := bson.M{"$set": bson.M{"isPaid": true, "paidAt": now}}
		if _, err := db.OrderCollection.UpdateOne(ctx, bson.M{"_id": orderID, "isPaid": false}, update); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update order")
			return
		}
		order.IsPaid = true
		order.PaidAt = &now

		mq.Emit("order-paid", models.Index{
			EntityType: "order",
			Method:     "PUT",
			EntityId:   orderID.Hex(),
		})
	}

	utils.RespondWithJSON(w, http.StatusOK, order)
}

// MarkDelivered sets the delivered flag once. Allowed for an admin or
// a proposer with a product in the order.
func MarkDelivered(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user := utils.GetUserFromRequest(r)

	orderID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch order")
		return
	}

	if user.Role != models.RoleAdmin {
		owned, err := proposerOwnsItem(ctx, user.ID, &order)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to verify ownership")
			return
		}
		if !owned {
			utils.RespondWithError(w, http.StatusForbidden, "Not authorized to update this order")
			return
		}
	}

	if !order.IsDelivered {
		now := time.Now()
		update := bson.M{"$set": bson.M{"isDelivered": true, "deliveredAt": now}}
		if _, err := db.OrderCollection.UpdateOne(ctx, bson.M{"_id": orderID, "isDelivered": false}, update); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update order")
			return
		}
		order.IsDelivered = true
		order.DeliveredAt = &now

		mq.Emit("order-delivered", models.Index{
			EntityType: "order",
			Method:     "PUT",
			EntityId:   orderID.Hex(),
		})
	}

	utils.RespondWithJSON(w, http.StatusOK, order)
}

// loadOrderForReader loads an order and enforces the read-access rule:
// purchasing user, admin, or proposer with an item in the order. Writes
// the error response itself and reports success via ok.
func loadOrderForReader(w http.ResponseWriter, r *http.Request, id string, user *models.User) (*models.Order, bool) {
	orderID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid order ID")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Order not found")
			return nil, false
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch order")
		return nil, false
	}

	if order.User == user.ID || user.Role == models.RoleAdmin {
		return &order, true
	}

	owned, err := proposerOwnsItem(ctx, user.ID, &order)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to verify ownership")
		return nil, false
	}
	if !owned {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized to view this order")
		return nil, false
	}
	return &order, true
}

func ownedProductIDs(ctx context.Context, owner primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := db.ProductCollection.Find(ctx, bson.M{"user": owner})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func proposerOwnsItem(ctx context.Context, owner primitive.ObjectID, order *models.Order) (bool, error) {
	itemIDs := make([]primitive.ObjectID, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		itemIDs = append(itemIDs, item.Product)
	}

	count, err := db.ProductCollection.CountDocuments(ctx, bson.M{
		"_id":  bson.M{"$in": itemIDs},
		"user": owner,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
