package products

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/vivek-vk7/AgroSustain/db"
	"github.com/vivek-vk7/AgroSustain/models"
	"github.com/vivek-vk7/AgroSustain/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const productPicDir = "static/productpic"

// UploadProductImage stores a product photo and a thumbnail, then
// points the product's image field at it. Owner or admin only.
func UploadProductImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user := utils.GetUserFromRequest(r)

	productID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
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

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	if !utils.ValidateImageFileType(w, header) {
		return
	}

	if err := utils.EnsureDir(productPicDir); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}

	filename, err := utils.SaveFile(file, header, productPicDir)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}

	if err := utils.SaveThumbnail(productPicDir, filename); err != nil {
		log.Printf("Thumbnail generation failed for %s: %v", filename, err)
	}

	imagePath := "/static/productpic/" + filename
	update := bson.M{"$set": bson.M{"image": imagePath, "updatedAt": time.Now()}}
	if _, err := db.ProductCollection.UpdateOne(ctx, bson.M{"_id": productID}, update); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"image": imagePath})
}
