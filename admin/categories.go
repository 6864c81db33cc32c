package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/vivek-vk7/AgroSustain/db"
	"github.com/vivek-vk7/AgroSustain/models"
	"github.com/vivek-vk7/AgroSustain/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func GetCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := db.CategoryCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode categories")
		return
	}
	if len(categories) == 0 {
		categories = []models.Category{}
	}

	utils.RespondWithJSON(w, http.StatusOK, categories)
}

// AddCategory creates a category with a unique name.
func AddCategory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Category name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err := db.CategoryCollection.FindOne(ctx, bson.M{"name": name}).Err()
	if err == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Category already exists")
		return
	} else if err != mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	category := models.Category{
		ID:   primitive.NewObjectID(),
		Name: name,
	}
	if _, err := db.CategoryCollection.InsertOne(ctx, category); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, category)
}

// DeleteCategory removes a category. Products referencing the name are
// left untouched; the reference is by name with no integrity check.
func DeleteCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	categoryID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := db.CategoryCollection.DeleteOne(ctx, bson.M{"_id": categoryID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete category")
		return
	}
	if result.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Category removed"})
}
