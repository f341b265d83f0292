package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"twitter-clone/model"
)

// Expander resolves the user and parent-tweet references of a page of tweets
// with batched $in lookups: one query for parent tweets, one for every user
// touched by the page (owners and parent owners together).
type Expander struct {
	users  UserRepository
	tweets TweetRepository
}

func NewExpander(users UserRepository, tweets TweetRepository) *Expander {
	return &Expander{users: users, tweets: tweets}
}

// Tweet expands a single tweet.
func (e *Expander) Tweet(ctx context.Context, tweet *model.Tweet, withParent bool) (*model.TweetResponse, error) {
	expanded, err := e.Tweets(ctx, []model.Tweet{*tweet}, withParent)
	if err != nil {
		return nil, err
	}
	return &expanded[0], nil
}

// Tweets expands a page of tweets. When withParent is set, reply parents are
// fetched and expanded one level deep.
func (e *Expander) Tweets(ctx context.Context, tweets []model.Tweet, withParent bool) ([]model.TweetResponse, error) {
	parentsByID := map[primitive.ObjectID]model.Tweet{}
	if withParent {
		parentIDs := collectIDs(tweets, func(t model.Tweet) (primitive.ObjectID, bool) {
			if t.ReplyTo == nil {
				return primitive.NilObjectID, false
			}
			return *t.ReplyTo, true
		})
		parents, err := e.tweets.GetByIDs(ctx, parentIDs)
		if err != nil {
			return nil, err
		}
		for _, p := range parents {
			parentsByID[p.ID] = p
		}
	}

	userIDs := collectIDs(tweets, func(t model.Tweet) (primitive.ObjectID, bool) {
		return t.UserID, true
	})
	for _, p := range parentsByID {
		userIDs = appendUniqueID(userIDs, p.UserID)
	}

	users, err := e.users.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	ownersByID := map[primitive.ObjectID]*model.Owner{}
	for i := range users {
		ownersByID[users[i].ID] = users[i].Owner()
	}

	out := make([]model.TweetResponse, 0, len(tweets))
	for _, t := range tweets {
		resp := toResponse(t, ownersByID)
		if withParent && t.ReplyTo != nil {
			if parent, ok := parentsByID[*t.ReplyTo]; ok {
				parentResp := toResponse(parent, ownersByID)
				resp.ReplyTo = &parentResp
			}
		}
		out = append(out, resp)
	}
	return out, nil
}

func toResponse(t model.Tweet, owners map[primitive.ObjectID]*model.Owner) model.TweetResponse {
	return model.TweetResponse{
		ID:        t.ID,
		User:      owners[t.UserID],
		Content:   t.Content,
		Image:     t.Image,
		Likes:     t.Likes,
		Retweets:  t.Retweets,
		ReplyToID: t.ReplyTo,
		IsReply:   t.IsReply,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func collectIDs(tweets []model.Tweet, pick func(model.Tweet) (primitive.ObjectID, bool)) []primitive.ObjectID {
	ids := []primitive.ObjectID{}
	for _, t := range tweets {
		id, ok := pick(t)
		if !ok {
			continue
		}
		ids = appendUniqueID(ids, id)
	}
	return ids
}

func appendUniqueID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}
