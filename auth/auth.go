package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/vivek-vk7/AgroSustain/db"
	"github.com/vivek-vk7/AgroSustain/globals"
	"github.com/vivek-vk7/AgroSustain/models"
	"github.com/vivek-vk7/AgroSustain/rdx"
	"github.com/vivek-vk7/AgroSustain/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/vivek-vk7/AgroSustain/middleware"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 30 * 24 * time.Hour // 30 days

// GenerateToken issues a signed HS256 token binding the identity id.
func GenerateToken(user *models.User) (string, error) {
	claims := &middleware.Claims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

func Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
		Location string `json:"location"`
		Phone    string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if input.Name == "" || input.Email == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	role := normalizeRole(input.Role)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	email := utils.NormalizeEmail(input.Email)
	err := db.UserCollection.FindOne(ctx, bson.M{"email": email}).Err()
	if err == nil {
		utils.RespondWithError(w, http.StatusConflict, "User already exists")
		return
	} else if err != mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash password for %s: %v", email, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to process password")
		return
	}

	now := time.Now()
	user := models.User{
		ID:             primitive.NewObjectID(),
		Name:           input.Name,
		Email:          email,
		Password:       string(hashedPassword),
		Role:           role,
		ProposerStatus: models.StatusPending,
		Location:       input.Location,
		Phone:          input.Phone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := db.UserCollection.InsertOne(ctx, user); err != nil {
		// The unique email index closes the race left open by the
		// pre-check above.
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusConflict, "User already exists")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	token, err := GenerateToken(&user)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, models.UserSummary{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		ProposerStatus: user.ProposerStatus,
		Location:       user.Location,
		Token:          token,
	})
}

func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if input.Email == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Same message for unknown email and wrong password.
	var storedUser models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"email": utils.NormalizeEmail(input.Email)}).Decode(&storedUser)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedUser.Password), []byte(input.Password)); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := GenerateToken(&storedUser)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	if err := rdx.RdxHset("tokki", storedUser.ID.Hex(), token); err != nil {
		log.Printf("Redis token cache failed: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, models.UserSummary{
		ID:             storedUser.ID,
		Name:           storedUser.Name,
		Email:          storedUser.Email,
		Role:           storedUser.Role,
		ProposerStatus: storedUser.ProposerStatus,
		Location:       storedUser.Location,
		Token:          token,
	})
}

// Logout drops the cached session token stored at login. The JWT itself
// stays valid until expiry; this only clears the server-side cache.
func Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user := utils.GetUserFromRequest(r)
	if user == nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	if _, err := rdx.RdxHdel("tokki", user.ID.Hex()); err != nil {
		log.Printf("Redis token evict failed: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// normalizeRole maps the registration role to a stored one. "proposer"
// survives from older clients as an alias for farmer; admin cannot be
// self-assigned.
func normalizeRole(role string) string {
	switch role {
	case models.RoleFarmer, models.RoleExpert:
		return role
	case "proposer":
		return models.RoleFarmer
	default:
		return models.RoleUser
	}
}
