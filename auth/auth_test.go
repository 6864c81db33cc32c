package auth

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/vivek-vk7/AgroSustain/middleware"
	"github.com/vivek-vk7/AgroSustain/models"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestGenerateTokenRoundTrip(t *testing.T) {
	user := &models.User{
		ID:   primitive.NewObjectID(),
		Role: models.RoleFarmer,
	}

	token, err := GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := middleware.ValidateJWT("Bearer " + token)
	require.NoError(t, err)
	require.Equal(t, user.ID.Hex(), claims.UserID)
	require.Equal(t, models.RoleFarmer, claims.Role)

	// 30-day expiry, give or take the test's own runtime.
	remaining := time.Until(claims.ExpiresAt.Time)
	require.Greater(t, remaining, 29*24*time.Hour)
	require.LessOrEqual(t, remaining, 30*24*time.Hour)
}

func TestValidateJWTRejectsTampered(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}

	token, err := GenerateToken(user)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = middleware.ValidateJWT("Bearer " + tampered)
	require.Error(t, err)

	_, err = middleware.ValidateJWT("")
	require.Error(t, err)
}

func TestUpdateProfileErrorDuplicateEmail(t *testing.T) {
	// Code 11000 is what the unique email index raises when a profile
	// update tries to claim another account's address.
	dup := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000}},
	}

	code, msg := updateProfileError(dup)
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, "Email already in use", msg)

	code, _ = updateProfileError(errors.New("connection reset"))
	require.Equal(t, http.StatusInternalServerError, code)

	// The same classification guards the register insert.
	require.True(t, mongo.IsDuplicateKeyError(dup))
}

func TestNormalizeRole(t *testing.T) {
	require.Equal(t, models.RoleFarmer, normalizeRole("farmer"))
	require.Equal(t, models.RoleExpert, normalizeRole("expert"))
	require.Equal(t, models.RoleFarmer, normalizeRole("proposer"))

	// Admin cannot be self-assigned at registration.
	require.Equal(t, models.RoleUser, normalizeRole("admin"))
	require.Equal(t, models.RoleUser, normalizeRole(""))
	require.Equal(t, models.RoleUser, normalizeRole("buyer"))
}
