package education

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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetContentList is the public education listing; approved articles
// only, newest first.
func GetContentList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := approval.PublicFilter()
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := db.EducationCollection.Find(ctx, filter, findOptions)
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

func GetContent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	contentID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid content ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var content models.EducationalContent
	if err := db.EducationCollection.FindOne(ctx, bson.M{"_id": contentID}).Decode(&content); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Content not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch content")
		return
	}

	if !content.IsApproved && !approval.CanViewUnapproved(utils.GetUserFromRequest(r), content.User) {
		utils.RespondWithError(w, http.StatusNotFound, "Content not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, content)
}

// GetMyContent lists the author's own articles in every state.
func GetMyContent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user := utils.GetUserFromRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := db.EducationCollection.Find(ctx, approval.OwnerFilter(user.ID))
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

// CreateContent publishes a new article awaiting moderation.
func CreateContent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user := utils.GetUserFromRequest(r)

	var input struct {
		Title       string `json:"title"`
		Content     string `json:"content"`
		ResourceURL string `json:"resourceUrl"`
		Category    string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if input.Title == "" || input.Content == "" || input.Category == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	now := time.Now()
	content := models.EducationalContent{
		ID:          primitive.NewObjectID(),
		User:        user.ID,
		AuthorName:  user.Name,
		Title:       input.Title,
		Content:     input.Content,
		ResourceURL: input.ResourceURL,
		Category:    input.Category,
		IsApproved:  false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.EducationCollection.InsertOne(ctx, content); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create content")
		return
	}

	mq.Emit("education-created", models.Index{
		EntityType: "education",
		Method:     "POST",
		EntityId:   content.ID.Hex(),
	})

	utils.RespondWithJSON(w, http.StatusCreated, content)
}

func DeleteContent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user := utils.GetUserFromRequest(r)

	contentID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid content ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var content models.EducationalContent
	if err := db.EducationCollection.FindOne(ctx, bson.M{"_id": contentID}).Decode(&content); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Content not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch content")
		return
	}

	if content.User != user.ID && user.Role != models.RoleAdmin {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized to delete this content")
		return
	}

	if _, err := db.EducationCollection.DeleteOne(ctx, bson.M{"_id": contentID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete content")
		return
	}

	mq.Emit("education-deleted", models.Index{
		EntityType: "education",
		Method:     "DELETE",
		EntityId:   contentID.Hex(),
	})

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Content removed"})
}
