package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/vivek-vk7/AgroSustain/approval"
	"github.com/vivek-vk7/AgroSustain/db"
	"github.com/vivek-vk7/AgroSustain/models"
	"github.com/vivek-vk7/AgroSustain/mq"
	"github.com/vivek-vk7/AgroSustain/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetPendingProducts lists catalog items awaiting a decision.
func GetPendingProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := db.ProductCollection.Find(ctx, approval.PendingFilter())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	defer cursor.Close(ctx)

	var items []models.Product
	if err := cursor.All(ctx, &items); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode products")
		return
	}
	if len(items) == 0 {
		items = []models.Product{}
	}

	utils.RespondWithJSON(w, http.StatusOK, items)
}

// ApproveProduct flips a product's approval flag per the request body.
// Idempotent overwrite.
func ApproveProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	decideItem(w, r, ps, db.ProductCollection, "product")
}

// GetPendingEducation lists articles awaiting a decision.
func GetPendingEducation(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := db.EducationCollection.Find(ctx, approval.PendingFilter())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch content")
		return
	}
	defer cursor.Close(ctx)

	var items []models.EducationalContent
	if err := cursor.All(ctx, &items); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode content")
		return
	}
	if len(items) == 0 {
		items = []models.EducationalContent{}
	}

	utils.RespondWithJSON(w, http.StatusOK, items)
}

// ApproveEducation flips an article's approval flag per the request
// body.
func ApproveEducation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	decideItem(w, r, ps, db.EducationCollection, "education")
}

// decideItem holds the shared moderation transition for products and
// education: load, overwrite the flag, save, emit.
func decideItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params, coll *mongo.Collection, entityType string) {
	itemID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	var input struct {
		IsApproved bool `json:"isApproved"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"isApproved": approval.DecideItem(input.IsApproved),
		"updatedAt":  time.Now(),
	}}
	result, err := coll.UpdateOne(ctx, bson.M{"_id": itemID}, update)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update")
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Not found")
		return
	}

	invalidateStatsCache()

	method := "approve"
	if !input.IsApproved {
		method = "reject"
	}
	mq.Emit(entityType+"-"+method+"d", models.Index{
		EntityType: entityType,
		Method:     "PUT",
		EntityId:   itemID.Hex(),
	})

	var doc bson.M
	if err := coll.FindOne(ctx, bson.M{"_id": itemID}).Decode(&doc); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch updated document")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, doc)
}
