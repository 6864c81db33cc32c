package utils

import (
	"net/http"

	"github.com/vivek-vk7/AgroSustain/globals"
	"github.com/vivek-vk7/AgroSustain/models"
)

// GetUserFromRequest returns the acting identity resolved by the
// authentication middleware, or nil on unauthenticated requests.
func GetUserFromRequest(r *http.Request) *models.User {
	user, ok := r.Context().Value(globals.UserKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
