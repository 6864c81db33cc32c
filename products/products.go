package products

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/vivek-vk7/AgroSustain/db"
	"github.com/vivek-vk7/AgroSustain/models"
	"github.com/vivek-vk7/AgroSustain/mq"
	"github.com/vivek-vk7/AgroSustain/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type productInput struct {
	Name         string  `json:"name"`
	Image        string  `json:"image"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Location     string  `json:"location"`
	Price        float64 `json:"price"`
	CountInStock int     `json:"countInStock"`
}

func (in *productInput) validate() string {
	switch {
	case in.Name == "":
		return "Name is required"
	case in.Description == "":
		return "Description is required"
	case in.Category == "":
		return "Category is required"
	case in.Price < 0:
		return "Price cannot be negative"
	case in.CountInStock < 0:
		return "Stock count cannot be negative"
	}
	return ""
}

// CreateProduct lists a new product. The approval flag always starts
// false; only an administrator decision flips it.
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user := utils.GetUserFromRequest(r)

	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if msg := input.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	now := time.Now()
	product := models.Product{
		ID:           primitive.NewObjectID(),
		User:         user.ID,
		Name:         input.Name,
		Image:        input.Image,
		Description:  input.Description,
		Category:     input.Category,
		Location:     input.Location,
		Price:        input.Price,
		CountInStock: input.CountInStock,
		IsApproved:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.ProductCollection.InsertOne(ctx, product); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	mq.Emit("product-created", models.Index{
		EntityType: "product",
		Method:     "POST",
		EntityId:   product.ID.Hex(),
	})

	utils.RespondWithJSON(w, http.StatusCreated, product)
}

// EditProduct updates the listed fields on an owned product. Admins may
// edit any product. The approval flag is untouched here.
func EditProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user := utils.GetUserFromRequest(r)

	productID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if msg := input.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch product")
		return
	}

	if product.User != user.ID && user.Role != models.RoleAdmin {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized to update this product")
		return
	}

	update := bson.M{"$set": bson.M{
		"name":         input.Name,
		"image":        input.Image,
		"description":  input.Description,
		"category":     input.Category,
		"location":     input.Location,
		"price":        input.Price,
		"countInStock": input.CountInStock,
		"updatedAt":    time.Now(),
	}}

	if _, err := db.ProductCollection.UpdateOne(ctx, bson.M{"_id": productID}, update); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	if err := db.ProductCollection.FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch product")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, product)
}

func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user := utils.GetUserFromRequest(r)

	productID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch product")
		return
	}

	if product.User != user.ID && user.Role != models.RoleAdmin {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized to delete this product")
		return
	}

	if _, err := db.ProductCollection.DeleteOne(ctx, bson.M{"_id": productID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	mq.Emit("product-deleted", models.Index{
		EntityType: "product",
		Method:     "DELETE",
		EntityId:   productID.Hex(),
	})

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Product removed"})
}
