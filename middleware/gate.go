package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/vivek-vk7/AgroSustain/models"
	"github.com/vivek-vk7/AgroSustain/utils"

	"github.com/julienschmidt/httprouter"
)

var ErrForbidden = errors.New("forbidden")

// NotYetApprovedError is returned when a proposer is gated pending
// moderation. It carries the current status so callers can distinguish
// "pending" from "rejected".
type NotYetApprovedError struct {
	Status string
}

func (e *NotYetApprovedError) Error() string {
	return fmt.Sprintf("proposer not approved: status %s", e.Status)
}

// CheckRole verifies the acting identity against a required role set.
// Admins always pass.
func CheckRole(user *models.User, roles ...string) error {
	if user == nil {
		return ErrForbidden
	}
	if user.Role == models.RoleAdmin {
		return nil
	}
	for _, role := range roles {
		if user.Role == role {
			return nil
		}
	}
	return ErrForbidden
}

// CheckApprovedProposer verifies that a farmer or expert has been
// approved by an administrator. Admins bypass the check.
func CheckApprovedProposer(user *models.User) error {
	if user == nil {
		return ErrForbidden
	}
	if user.Role == models.RoleAdmin {
		return nil
	}
	if !user.IsProposer() {
		return ErrForbidden
	}
	if user.ProposerStatus != models.StatusApproved {
		return &NotYetApprovedError{Status: user.ProposerStatus}
	}
	return nil
}

// RequireRoles gates a handler behind a role set. Must run inside
// Authenticate.
func RequireRoles(next httprouter.Handle, roles ...string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		user := utils.GetUserFromRequest(r)
		if err := CheckRole(user, roles...); err != nil {
			utils.RespondWithError(w, http.StatusForbidden, "Not authorized for this action")
			return
		}
		next(w, r, ps)
	}
}

// RequireApprovedProposer gates a handler behind proposer approval.
// The pending/rejected status is included in the response body.
func RequireApprovedProposer(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		user := utils.GetUserFromRequest(r)
		err := CheckApprovedProposer(user)
		if err == nil {
			next(w, r, ps)
			return
		}

		var gated *NotYetApprovedError
		if errors.As(err, &gated) {
			utils.RespondWithJSON(w, http.StatusForbidden, utils.M{
				"message":        "Your proposer account has not been approved",
				"proposerStatus": gated.Status,
			})
			return
		}
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized as a proposer")
	}
}
