package approval

import (
	"testing"

	"github.com/vivek-vk7/AgroSustain/models"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidStatus(t *testing.T) {
	require.True(t, ValidStatus(models.StatusPending))
	require.True(t, ValidStatus(models.StatusApproved))
	require.True(t, ValidStatus(models.StatusRejected))

	require.False(t, ValidStatus(""))
	require.False(t, ValidStatus("Approved"))
	require.False(t, ValidStatus("banned"))
}

func TestDecideUser(t *testing.T) {
	user := &models.User{Role: models.RoleFarmer, ProposerStatus: models.StatusPending}

	require.NoError(t, DecideUser(user, models.StatusApproved))
	require.Equal(t, models.StatusApproved, user.ProposerStatus)

	// A decision can be reversed by a later one.
	require.NoError(t, DecideUser(user, models.StatusRejected))
	require.Equal(t, models.StatusRejected, user.ProposerStatus)
}

func TestDecideUserIdempotent(t *testing.T) {
	user := &models.User{Role: models.RoleExpert, ProposerStatus: models.StatusPending}

	require.NoError(t, DecideUser(user, models.StatusApproved))
	require.NoError(t, DecideUser(user, models.StatusApproved))
	require.Equal(t, models.StatusApproved, user.ProposerStatus)
}

func TestDecideUserInvalidStatus(t *testing.T) {
	user := &models.User{Role: models.RoleFarmer, ProposerStatus: models.StatusPending}

	err := DecideUser(user, "maybe")
	require.ErrorIs(t, err, ErrInvalidStatus)
	require.Equal(t, models.StatusPending, user.ProposerStatus)
}

func TestDecideItemIdempotent(t *testing.T) {
	require.True(t, DecideItem(true))
	require.True(t, DecideItem(DecideItem(true)))
	require.False(t, DecideItem(false))
}

func TestCanViewUnapproved(t *testing.T) {
	owner := primitive.NewObjectID()

	require.False(t, CanViewUnapproved(nil, owner))
	require.False(t, CanViewUnapproved(&models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}, owner))
	require.False(t, CanViewUnapproved(&models.User{ID: primitive.NewObjectID(), Role: models.RoleFarmer}, owner))

	require.True(t, CanViewUnapproved(&models.User{ID: owner, Role: models.RoleFarmer}, owner))
	require.True(t, CanViewUnapproved(&models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}, owner))
}

func TestFilters(t *testing.T) {
	require.Equal(t, bson.M{"isApproved": true}, PublicFilter())
	require.Equal(t, bson.M{"isApproved": false}, PendingFilter())

	owner := primitive.NewObjectID()
	require.Equal(t, bson.M{"user": owner}, OwnerFilter(owner))
}
