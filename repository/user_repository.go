package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"twitter-clone/model"
)

var (
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateEmail    = errors.New("email already registered")
)

const suggestionLimit = 5

// UserRepository wraps all queries against the users collection. Lookups
// return (nil, nil) when no document matches.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update model.ProfileUpdate) (*model.User, error)
	SetImage(ctx context.Context, id primitive.ObjectID, field, path string) (*model.User, error)
	Follow(ctx context.Context, userID, targetID primitive.ObjectID) error
	Unfollow(ctx context.Context, userID, targetID primitive.ObjectID) error
	Suggestions(ctx context.Context, exclude []primitive.ObjectID) ([]model.User, error)
	Search(ctx context.Context, query string, limit int64) ([]model.User, error)
}

type userRepository struct {
	col *mongo.Collection
}

func NewUserRepository(col *mongo.Collection) UserRepository {
	return &userRepository{col: col}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Followers == nil {
		user.Followers = []primitive.ObjectID{}
	}
	if user.Following == nil {
		user.Following = []primitive.ObjectID{}
	}

	if _, err := r.col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateKeyError(err)
		}
		return fmt.Errorf("insert user failed: %w", err)
	}
	return nil
}

// duplicateKeyError maps a unique-index violation to the sentinel for the
// colliding field. Duplicate-key messages name the index, e.g. "email_1".
func duplicateKeyError(err error) error {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if strings.Contains(e.Message, "email") {
				return ErrDuplicateEmail
			}
		}
	}
	return ErrDuplicateUsername
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	err := r.col.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user failed: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.User, error) {
	if len(ids) == 0 {
		return []model.User{}, nil
	}
	cursor, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("query users by ids failed: %w", err)
	}
	var users []model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users failed: %w", err)
	}
	return users, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, update model.ProfileUpdate) (*model.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.Website != nil {
		set["website"] = *update.Website
	}
	return r.findOneAndSet(ctx, id, set)
}

func (r *userRepository) SetImage(ctx context.Context, id primitive.ObjectID, field, path string) (*model.User, error) {
	return r.findOneAndSet(ctx, id, bson.M{field: path, "updatedAt": time.Now().UTC()})
}

func (r *userRepository) findOneAndSet(ctx context.Context, id primitive.ObjectID, set bson.M) (*model.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user model.User
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update user failed: %w", err)
	}
	return &user, nil
}

// Follow adds target to the caller's following list and the caller to the
// target's followers list. The two writes are independent; a failure between
// them leaves the relationship half-applied.
func (r *userRepository) Follow(ctx context.Context, userID, targetID primitive.ObjectID) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": userID}, addToSetUpdate("following", targetID))
	if err != nil {
		return fmt.Errorf("add following failed: %w", err)
	}
	_, err = r.col.UpdateOne(ctx, bson.M{"_id": targetID}, addToSetUpdate("followers", userID))
	if err != nil {
		return fmt.Errorf("add follower failed: %w", err)
	}
	return nil
}

func (r *userRepository) Unfollow(ctx context.Context, userID, targetID primitive.ObjectID) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": userID}, pullIDUpdate("following", targetID))
	if err != nil {
		return fmt.Errorf("remove following failed: %w", err)
	}
	_, err = r.col.UpdateOne(ctx, bson.M{"_id": targetID}, pullIDUpdate("followers", userID))
	if err != nil {
		return fmt.Errorf("remove follower failed: %w", err)
	}
	return nil
}

// addToSetUpdate keeps the list a set: inserting an id that is already
// present leaves the document unchanged.
func addToSetUpdate(field string, id primitive.ObjectID) bson.M {
	return bson.M{"$addToSet": bson.M{field: id}}
}

func pullIDUpdate(field string, id primitive.ObjectID) bson.M {
	return bson.M{"$pull": bson.M{field: id}}
}

func (r *userRepository) Suggestions(ctx context.Context, exclude []primitive.ObjectID) ([]model.User, error) {
	opts := options.Find().SetLimit(suggestionLimit)
	cursor, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$nin": exclude}}, opts)
	if err != nil {
		return nil, fmt.Errorf("query suggestions failed: %w", err)
	}
	var users []model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode suggestions failed: %w", err)
	}
	return users, nil
}

func (r *userRepository) Search(ctx context.Context, query string, limit int64) ([]model.User, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"name": pattern},
		bson.M{"username": pattern},
	}}
	cursor, err := r.col.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("search users failed: %w", err)
	}
	var users []model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode user search failed: %w", err)
	}
	return users, nil
}
