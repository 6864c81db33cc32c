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

// GetUsers lists users for moderation, optionally filtered by proposer
// status (?status=pending).
func GetUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		if !approval.ValidStatus(status) {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid status")
			return
		}
		filter["proposerStatus"] = status
		filter["role"] = bson.M{"$in": []string{models.RoleFarmer, models.RoleExpert}}
	}

	cursor, err := db.UserCollection.Find(ctx, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode users")
		return
	}
	if len(users) == 0 {
		users = []models.User{}
	}

	utils.RespondWithJSON(w, http.StatusOK, users)
}

// UpdateProposerStatus applies an administrator decision to a user.
// Re-applying the same decision overwrites and succeeds.
func UpdateProposerStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}

	if err := approval.DecideUser(&user, input.Status); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	update := bson.M{"$set": bson.M{
		"proposerStatus": user.ProposerStatus,
		"updatedAt":      time.Now(),
	}}
	if _, err := db.UserCollection.UpdateOne(ctx, bson.M{"_id": userID}, update); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	invalidateStatsCache()

	mq.Emit("user-status-changed", models.Index{
		EntityType: "user",
		Method:     "PUT",
		EntityId:   userID.Hex(),
		ItemType:   user.ProposerStatus,
	})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"_id":            user.ID,
		"name":           user.Name,
		"email":          user.Email,
		"role":           user.Role,
		"proposerStatus": user.ProposerStatus,
	})
}
