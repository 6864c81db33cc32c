package admin

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/vivek-vk7/AgroSustain/approval"
	"github.com/vivek-vk7/AgroSustain/db"
	"github.com/vivek-vk7/AgroSustain/models"
	"github.com/vivek-vk7/AgroSustain/rdx"
	"github.com/vivek-vk7/AgroSustain/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const statsCacheKey = "admin:stats"

type platformStats struct {
	Users            int64 `json:"users"`
	Products         int64 `json:"products"`
	Orders           int64 `json:"orders"`
	Education        int64 `json:"education"`
	PendingProducts  int64 `json:"pendingProducts"`
	PendingEducation int64 `json:"pendingEducation"`
	PendingProposers int64 `json:"pendingProposers"`
}

// invalidateStatsCache drops the cached dashboard counts after a
// decision changes a pending queue. Best effort; the cache expires on
// its own within a minute anyway.
func invalidateStatsCache() {
	if err := rdx.RdxDel(statsCacheKey); err != nil {
		log.Printf("Stats cache evict failed: %v", err)
	}
}

// GetPlatformStats returns entity counts for the admin dashboard,
// cached in Redis for a minute.
func GetPlatformStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if cached, err := rdx.RdxGet(statsCacheKey); err == nil && cached != "" {
		var stats platformStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			utils.RespondWithJSON(w, http.StatusOK, stats)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var stats platformStats
	var err error
	if stats.Users, err = db.UserCollection.CountDocuments(ctx, bson.M{}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to count users")
		return
	}
	if stats.Products, err = db.ProductCollection.CountDocuments(ctx, bson.M{}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to count products")
		return
	}
	if stats.Orders, err = db.OrderCollection.CountDocuments(ctx, bson.M{}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to count orders")
		return
	}
	if stats.Education, err = db.EducationCollection.CountDocuments(ctx, bson.M{}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to count education")
		return
	}
	if stats.PendingProducts, err = db.ProductCollection.CountDocuments(ctx, approval.PendingFilter()); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to count pending products")
		return
	}
	if stats.PendingEducation, err = db.EducationCollection.CountDocuments(ctx, approval.PendingFilter()); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to count pending education")
		return
	}
	pendingProposers := bson.M{
		"role":           bson.M{"$in": []string{models.RoleFarmer, models.RoleExpert}},
		"proposerStatus": models.StatusPending,
	}
	if stats.PendingProposers, err = db.UserCollection.CountDocuments(ctx, pendingProposers); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to count pending proposers")
		return
	}

	if data, err := json.Marshal(stats); err == nil {
		if err := rdx.SetWithExpiry(statsCacheKey, string(data), time.Minute); err != nil {
			log.Printf("Stats cache write failed: %v", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, stats)
}
