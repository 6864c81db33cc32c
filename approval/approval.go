// Package approval holds the moderation state machine shared by users,
// products, and educational content. Decisions come only from
// administrators; re-applying a decision overwrites the state with no
// error.
package approval

import (
	"errors"

	"github.com/vivek-vk7/AgroSustain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrInvalidStatus = errors.New("invalid approval status")

// ValidStatus reports whether s is one of pending, approved, rejected.
func ValidStatus(s string) bool {
	switch s {
	case models.StatusPending, models.StatusApproved, models.StatusRejected:
		return true
	}
	return false
}

// DecideUser applies an administrator decision to a proposer status.
// The transition is a plain overwrite, so repeating a decision is
// idempotent.
func DecideUser(user *models.User, status string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}
	user.ProposerStatus = status
	return nil
}

// DecideItem applies an administrator decision to an item approval
// flag and reports the resulting flag. Overwrite semantics, same as
// DecideUser.
func DecideItem(approved bool) bool {
	return approved
}

// PublicFilter selects items visible to buyers: approved ones only.
func PublicFilter() bson.M {
	return bson.M{"isApproved": true}
}

// OwnerFilter selects a proposer's own submissions in every state.
func OwnerFilter(owner primitive.ObjectID) bson.M {
	return bson.M{"user": owner}
}

// CanViewUnapproved reports whether the acting identity may read an
// item that is not approved: its owner or an administrator. Anonymous
// callers see approved items only.
func CanViewUnapproved(user *models.User, owner primitive.ObjectID) bool {
	if user == nil {
		return false
	}
	return user.Role == models.RoleAdmin || user.ID == owner
}

// PendingFilter selects items awaiting a decision.
func PendingFilter() bson.M {
	return bson.M{"isApproved": false}
}
