package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UsersCollection  = "users"
	TweetsCollection = "tweets"
)

// Connect opens a client, verifies the connection with a ping and returns a
// handle to the named database.
func Connect(ctx context.Context, uri, name string) (*mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo failed: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo failed: %w", err)
	}
	return client.Database(name), nil
}

// Users returns the users collection.
func Users(database *mongo.Database) *mongo.Collection {
	return database.Collection(UsersCollection)
}

// Tweets returns the tweets collection.
func Tweets(database *mongo.Database) *mongo.Collection {
	return database.Collection(TweetsCollection)
}

// EnsureIndexes creates the indexes the query layer relies on: unique
// username and email on users, and the sort/filter indexes for timeline and
// reply listings.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	_, err := Users(database).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes failed: %w", err)
	}

	_, err = Tweets(database).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "replyTo", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create tweet indexes failed: %w", err)
	}
	return nil
}
