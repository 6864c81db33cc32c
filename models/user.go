package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles
const (
	RoleUser   = "user"
	RoleFarmer = "farmer"
	RoleExpert = "expert"
	RoleAdmin  = "admin"
)

// Proposer approval statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type User struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name"`
	Email          string             `json:"email" bson:"email"`
	Password       string             `json:"-" bson:"password"`
	Role           string             `json:"role" bson:"role"`
	ProposerStatus string             `json:"proposerStatus" bson:"proposerStatus"`
	Location       string             `json:"location,omitempty" bson:"location,omitempty"`
	Phone          string             `json:"phone,omitempty" bson:"phone,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// IsProposer reports whether the user's role is one that lists
// products or publishes content once approved.
func (u *User) IsProposer() bool {
	return u.Role == RoleFarmer || u.Role == RoleExpert
}

// UserSummary is what auth endpoints return; never includes the
// password hash.
type UserSummary struct {
	ID             primitive.ObjectID `json:"_id"`
	Name           string             `json:"name"`
	Email          string             `json:"email"`
	Role           string             `json:"role"`
	ProposerStatus string             `json:"proposerStatus"`
	Location       string             `json:"location,omitempty"`
	Token          string             `json:"token,omitempty"`
}
