package middleware

import (
	"errors"
	"testing"

	"github.com/vivek-vk7/AgroSustain/models"

	"github.com/stretchr/testify/require"
)

func TestCheckRole(t *testing.T) {
	farmer := &models.User{Role: models.RoleFarmer}
	buyer := &models.User{Role: models.RoleUser}
	admin := &models.User{Role: models.RoleAdmin}

	require.NoError(t, CheckRole(farmer, models.RoleFarmer, models.RoleExpert))
	require.ErrorIs(t, CheckRole(buyer, models.RoleFarmer, models.RoleExpert), ErrForbidden)

	// Admin passes any role gate, including the empty admin-only set.
	require.NoError(t, CheckRole(admin, models.RoleFarmer))
	require.NoError(t, CheckRole(admin))
	require.ErrorIs(t, CheckRole(farmer), ErrForbidden)

	require.ErrorIs(t, CheckRole(nil, models.RoleFarmer), ErrForbidden)
}

func TestCheckApprovedProposer(t *testing.T) {
	approved := &models.User{Role: models.RoleFarmer, ProposerStatus: models.StatusApproved}
	require.NoError(t, CheckApprovedProposer(approved))

	admin := &models.User{Role: models.RoleAdmin}
	require.NoError(t, CheckApprovedProposer(admin))

	buyer := &models.User{Role: models.RoleUser}
	require.ErrorIs(t, CheckApprovedProposer(buyer), ErrForbidden)

	require.ErrorIs(t, CheckApprovedProposer(nil), ErrForbidden)
}

// A freshly registered proposer starts pending and is gated until an
// administrator approves; the error carries the current status so the
// caller can render pending and rejected differently.
func TestCheckApprovedProposerGated(t *testing.T) {
	pending := &models.User{Role: models.RoleFarmer, ProposerStatus: models.StatusPending}
	err := CheckApprovedProposer(pending)
	require.Error(t, err)

	var gated *NotYetApprovedError
	require.True(t, errors.As(err, &gated))
	require.Equal(t, models.StatusPending, gated.Status)

	rejected := &models.User{Role: models.RoleExpert, ProposerStatus: models.StatusRejected}
	err = CheckApprovedProposer(rejected)
	require.True(t, errors.As(err, &gated))
	require.Equal(t, models.StatusRejected, gated.Status)

	// Once approved, the same identity passes.
	pending.ProposerStatus = models.StatusApproved
	require.NoError(t, CheckApprovedProposer(pending))
}
