package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Owner is the public subset of a user embedded in expanded tweet responses.
type Owner struct {
	ID           primitive.ObjectID `json:"id"`
	Name         string             `json:"name"`
	Username     string             `json:"username"`
	ProfileImage string             `json:"profileImage"`
}

// Owner projects the user down to the fields embedded in tweet responses.
func (u *User) Owner() *Owner {
	return &Owner{
		ID:           u.ID,
		Name:         u.Name,
		Username:     u.Username,
		ProfileImage: u.ProfileImage,
	}
}
