package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxTweetLength bounds tweet and reply content.
const MaxTweetLength = 280

// Tweet is a document in the tweets collection. Likes and Retweets are sets
// kept in most-recent-first order. ReplyTo is set iff IsReply is true.
type Tweet struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID   `json:"user" bson:"user"`
	Content   string               `json:"content" bson:"content"`
	Image     string               `json:"image,omitempty" bson:"image,omitempty"`
	Likes     []primitive.ObjectID `json:"likes" bson:"likes"`
	Retweets  []primitive.ObjectID `json:"retweets" bson:"retweets"`
	ReplyTo   *primitive.ObjectID  `json:"replyTo,omitempty" bson:"replyTo,omitempty"`
	IsReply   bool                 `json:"isReply" bson:"isReply"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// IsLikedBy reports whether id is in the likes list.
func (t *Tweet) IsLikedBy(id primitive.ObjectID) bool {
	return containsID(t.Likes, id)
}

// IsRetweetedBy reports whether id is in the retweets list.
func (t *Tweet) IsRetweetedBy(id primitive.ObjectID) bool {
	return containsID(t.Retweets, id)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// TweetResponse is a tweet with its user reference (and, for replies shown in
// the timeline, its parent tweet) expanded. ReplyToID always carries the raw
// parent id for replies; ReplyTo is only set when the parent was expanded.
type TweetResponse struct {
	ID        primitive.ObjectID   `json:"id"`
	User      *Owner               `json:"user"`
	Content   string               `json:"content"`
	Image     string               `json:"image,omitempty"`
	Likes     []primitive.ObjectID `json:"likes"`
	Retweets  []primitive.ObjectID `json:"retweets"`
	ReplyToID *primitive.ObjectID  `json:"replyToId,omitempty"`
	ReplyTo   *TweetResponse       `json:"replyTo,omitempty"`
	IsReply   bool                 `json:"isReply"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}
