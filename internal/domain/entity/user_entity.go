package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the account lifecycle state.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// User is the aggregate root for the user domain.
// Password always holds a bcrypt hash, never plaintext; it is excluded
// from JSON so the stored hash never leaks into API responses.
type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username         string             `bson:"username" json:"username"`
	Email            string             `bson:"email" json:"email"`
	Password         string             `bson:"password" json:"-"`
	FullName         string             `bson:"full_name" json:"fullName"`
	Bio              string             `bson:"bio,omitempty" json:"bio,omitempty"`
	ProfilePicture   string             `bson:"profile_picture,omitempty" json:"profilePicture,omitempty"`
	Status           Status             `bson:"status" json:"status"`
	RegistrationDate time.Time          `bson:"registration_date" json:"registrationDate"`
}

// ProfileUpdate is the partial field set a profile update may carry.
// The password is deliberately not representable here; password changes
// go through their own mutation path so hashing happens exactly once.
type ProfileUpdate struct {
	Username string
	Email    string
	FullName string
	Bio      string
}

// Empty reports whether the update carries no fields at all.
func (p ProfileUpdate) Empty() bool {
	return p.Username == "" && p.Email == "" && p.FullName == "" && p.Bio == ""
}
