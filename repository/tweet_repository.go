package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"twitter-clone/model"
)

// TimelinePageSize is the fixed number of tweets per timeline page.
const TimelinePageSize = 10

// maxTimelinePage bounds the page number so the skip offset stays well inside
// int64 for any parseable query value.
const maxTimelinePage = 1 << 31

// TweetRepository wraps all queries against the tweets collection. Lookups
// return (nil, nil) when no document matches.
type TweetRepository interface {
	Create(ctx context.Context, tweet *model.Tweet) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Tweet, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Tweet, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Timeline(ctx context.Context, userID primitive.ObjectID, following []primitive.ObjectID, page int64) ([]model.Tweet, error)
	Replies(ctx context.Context, parentID primitive.ObjectID) ([]model.Tweet, error)
	ByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Tweet, error)
	Search(ctx context.Context, query string, limit int64) ([]model.Tweet, error)
	AddLike(ctx context.Context, tweetID, userID primitive.ObjectID) error
	RemoveLike(ctx context.Context, tweetID, userID primitive.ObjectID) error
	AddRetweet(ctx context.Context, tweetID, userID primitive.ObjectID) error
	RemoveRetweet(ctx context.Context, tweetID, userID primitive.ObjectID) error
}

type tweetRepository struct {
	col *mongo.Collection
}

func NewTweetRepository(col *mongo.Collection) TweetRepository {
	return &tweetRepository{col: col}
}

func (r *tweetRepository) Create(ctx context.Context, tweet *model.Tweet) error {
	now := time.Now().UTC()
	tweet.ID = primitive.NewObjectID()
	tweet.CreatedAt = now
	tweet.UpdatedAt = now
	if tweet.Likes == nil {
		tweet.Likes = []primitive.ObjectID{}
	}
	if tweet.Retweets == nil {
		tweet.Retweets = []primitive.ObjectID{}
	}

	if _, err := r.col.InsertOne(ctx, tweet); err != nil {
		return fmt.Errorf("insert tweet failed: %w", err)
	}
	return nil
}

func (r *tweetRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Tweet, error) {
	var tweet model.Tweet
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&tweet)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query tweet failed: %w", err)
	}
	return &tweet, nil
}

func (r *tweetRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Tweet, error) {
	if len(ids) == 0 {
		return []model.Tweet{}, nil
	}
	cursor, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("query tweets by ids failed: %w", err)
	}
	return decodeTweets(ctx, cursor)
}

func (r *tweetRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete tweet failed: %w", err)
	}
	return nil
}

// Timeline returns the page of non-reply tweets authored by the user, by
// anyone the user follows, or retweeted by the user, newest first. Pages are
// 1-indexed.
func (r *tweetRepository) Timeline(ctx context.Context, userID primitive.ObjectID, following []primitive.ObjectID, page int64) ([]model.Tweet, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(timelineSkip(page)).
		SetLimit(TimelinePageSize)

	cursor, err := r.col.Find(ctx, timelineFilter(userID, following), opts)
	if err != nil {
		return nil, fmt.Errorf("query timeline failed: %w", err)
	}
	return decodeTweets(ctx, cursor)
}

// timelineSkip converts a 1-indexed page into a cursor offset. Pages outside
// [1, maxTimelinePage] are clamped so the offset is never negative.
func timelineSkip(page int64) int64 {
	if page < 1 {
		page = 1
	}
	if page > maxTimelinePage {
		page = maxTimelinePage
	}
	return (page - 1) * TimelinePageSize
}

func timelineFilter(userID primitive.ObjectID, following []primitive.ObjectID) bson.M {
	authors := append([]primitive.ObjectID{userID}, following...)
	return bson.M{
		"isReply": false,
		"$or": bson.A{
			bson.M{"user": bson.M{"$in": authors}},
			bson.M{"retweets": userID},
		},
	}
}

func (r *tweetRepository) Replies(ctx context.Context, parentID primitive.ObjectID) ([]model.Tweet, error) {
	filter := bson.M{"replyTo": parentID, "isReply": true}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query replies failed: %w", err)
	}
	return decodeTweets(ctx, cursor)
}

func (r *tweetRepository) ByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Tweet, error) {
	filter := bson.M{"user": userID, "isReply": false}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query user tweets failed: %w", err)
	}
	return decodeTweets(ctx, cursor)
}

func (r *tweetRepository) Search(ctx context.Context, query string, limit int64) ([]model.Tweet, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.col.Find(ctx, bson.M{"content": pattern}, opts)
	if err != nil {
		return nil, fmt.Errorf("search tweets failed: %w", err)
	}
	return decodeTweets(ctx, cursor)
}

// AddLike prepends userID to the likes list. The filter guards against a
// second insertion, keeping set semantics at the update level.
func (r *tweetRepository) AddLike(ctx context.Context, tweetID, userID primitive.ObjectID) error {
	return r.prepend(ctx, tweetID, userID, "likes")
}

func (r *tweetRepository) RemoveLike(ctx context.Context, tweetID, userID primitive.ObjectID) error {
	return r.pull(ctx, tweetID, userID, "likes")
}

func (r *tweetRepository) AddRetweet(ctx context.Context, tweetID, userID primitive.ObjectID) error {
	return r.prepend(ctx, tweetID, userID, "retweets")
}

func (r *tweetRepository) RemoveRetweet(ctx context.Context, tweetID, userID primitive.ObjectID) error {
	return r.pull(ctx, tweetID, userID, "retweets")
}

func (r *tweetRepository) prepend(ctx context.Context, tweetID, userID primitive.ObjectID, field string) error {
	_, err := r.col.UpdateOne(ctx, prependFilter(tweetID, userID, field), prependUpdate(userID, field))
	if err != nil {
		return fmt.Errorf("add %s failed: %w", field, err)
	}
	return nil
}

func (r *tweetRepository) pull(ctx context.Context, tweetID, userID primitive.ObjectID, field string) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": tweetID}, pullUpdate(userID, field))
	if err != nil {
		return fmt.Errorf("remove %s failed: %w", field, err)
	}
	return nil
}

// prependFilter only matches when userID is absent from the field, so a
// concurrent or repeated add cannot insert the id twice.
func prependFilter(tweetID, userID primitive.ObjectID, field string) bson.M {
	return bson.M{"_id": tweetID, field: bson.M{"$ne": userID}}
}

func prependUpdate(userID primitive.ObjectID, field string) bson.M {
	return bson.M{
		"$push": bson.M{field: bson.M{"$each": bson.A{userID}, "$position": 0}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
}

func pullUpdate(userID primitive.ObjectID, field string) bson.M {
	return bson.M{
		"$pull": bson.M{field: userID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
}

func decodeTweets(ctx context.Context, cursor *mongo.Cursor) ([]model.Tweet, error) {
	tweets := []model.Tweet{}
	if err := cursor.All(ctx, &tweets); err != nil {
		return nil, fmt.Errorf("decode tweets failed: %w", err)
	}
	return tweets, nil
}
