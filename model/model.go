package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a document in the users collection. Password never serializes to
// JSON; Email is additionally stripped by Public for responses about anyone
// other than the caller.
type User struct {
	ID           primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name         string               `json:"name" bson:"name"`
	Username     string               `json:"username" bson:"username"`
	Email        string               `json:"email,omitempty" bson:"email"`
	Password     string               `json:"-" bson:"password"`
	Bio          string               `json:"bio" bson:"bio"`
	Location     string               `json:"location" bson:"location"`
	Website      string               `json:"website" bson:"website"`
	ProfileImage string               `json:"profileImage" bson:"profileImage"`
	CoverImage   string               `json:"coverImage" bson:"coverImage"`
	Followers    []primitive.ObjectID `json:"followers" bson:"followers"`
	Following    []primitive.ObjectID `json:"following" bson:"following"`
	CreatedAt    time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// Public returns a copy safe to show to other users.
func (u *User) Public() *User {
	pub := *u
	pub.Email = ""
	pub.Password = ""
	return &pub
}

// IsFollowing reports whether id is in the user's following list.
func (u *User) IsFollowing(id primitive.ObjectID) bool {
	for _, f := range u.Following {
		if f == id {
			return true
		}
	}
	return false
}

// ProfileUpdate carries the recognized fields for a partial profile update.
// Nil means "leave unchanged".
type ProfileUpdate struct {
	Name     *string `json:"name"`
	Bio      *string `json:"bio"`
	Location *string `json:"location"`
	Website  *string `json:"website"`
}
