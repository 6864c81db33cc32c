package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/vivek-vk7/AgroSustain/db"
	"github.com/vivek-vk7/AgroSustain/models"
	"github.com/vivek-vk7/AgroSustain/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// updateProfileError maps a profile write failure to a response. The
// users collection carries a unique index on email, so a duplicate-key
// error here means the requested address belongs to another account.
func updateProfileError(err error) (int, string) {
	if mongo.IsDuplicateKeyError(err) {
		return http.StatusConflict, "Email already in use"
	}
	return http.StatusInternalServerError, "Failed to update profile"
}

func GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user := utils.GetUserFromRequest(r)
	if user == nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, models.UserSummary{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		ProposerStatus: user.ProposerStatus,
		Location:       user.Location,
	})
}

// UpdateProfile lets the identity owner change profile fields. Role and
// proposer status are never writable here; approval only moves through
// the admin endpoints.
func UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user := utils.GetUserFromRequest(r)
	if user == nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Location string `json:"location"`
		Phone    string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if input.Name != "" {
		set["name"] = input.Name
	}
	if input.Email != "" {
		set["email"] = utils.NormalizeEmail(input.Email)
	}
	if input.Location != "" {
		set["location"] = input.Location
	}
	if input.Phone != "" {
		set["phone"] = input.Phone
	}
	if input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to process password")
			return
		}
		set["password"] = string(hashed)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := db.UserCollection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": set})
	if err != nil {
		code, msg := updateProfileError(err)
		utils.RespondWithError(w, code, msg)
		return
	}
	if result.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	var updated models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"_id": user.ID}).Decode(&updated); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	token, err := GenerateToken(&updated)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, models.UserSummary{
		ID:             updated.ID,
		Name:           updated.Name,
		Email:          updated.Email,
		Role:           updated.Role,
		ProposerStatus: updated.ProposerStatus,
		Location:       updated.Location,
		Token:          token,
	})
}
