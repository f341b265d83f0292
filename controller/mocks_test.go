package controller

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"twitter-clone/model"
)

type mockUserRepo struct {
	createFn        func(ctx context.Context, user *model.User) error
	getByIDFn       func(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	getByIDsFn      func(ctx context.Context, ids []primitive.ObjectID) ([]model.User, error)
	getByUsernameFn func(ctx context.Context, username string) (*model.User, error)
	getByEmailFn    func(ctx context.Context, email string) (*model.User, error)
	updateProfileFn func(ctx context.Context, id primitive.ObjectID, update model.ProfileUpdate) (*model.User, error)
	setImageFn      func(ctx context.Context, id primitive.ObjectID, field, path string) (*model.User, error)
	followFn        func(ctx context.Context, userID, targetID primitive.ObjectID) error
	unfollowFn      func(ctx context.Context, userID, targetID primitive.ObjectID) error
	suggestionsFn   func(ctx context.Context, exclude []primitive.ObjectID) ([]model.User, error)
	searchFn        func(ctx context.Context, query string, limit int64) ([]model.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.User, error) {
	if m.getByIDsFn != nil {
		return m.getByIDsFn(ctx, ids)
	}
	return []model.User{}, nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, update model.ProfileUpdate) (*model.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, id, update)
	}
	return nil, nil
}

func (m *mockUserRepo) SetImage(ctx context.Context, id primitive.ObjectID, field, path string) (*model.User, error) {
	if m.setImageFn != nil {
		return m.setImageFn(ctx, id, field, path)
	}
	return nil, nil
}

func (m *mockUserRepo) Follow(ctx context.Context, userID, targetID primitive.ObjectID) error {
	if m.followFn != nil {
		return m.followFn(ctx, userID, targetID)
	}
	return nil
}

func (m *mockUserRepo) Unfollow(ctx context.Context, userID, targetID primitive.ObjectID) error {
	if m.unfollowFn != nil {
		return m.unfollowFn(ctx, userID, targetID)
	}
	return nil
}

func (m *mockUserRepo) Suggestions(ctx context.Context, exclude []primitive.ObjectID) ([]model.User, error) {
	if m.suggestionsFn != nil {
		return m.suggestionsFn(ctx, exclude)
	}
	return []model.User{}, nil
}

func (m *mockUserRepo) Search(ctx context.Context, query string, limit int64) ([]model.User, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return []model.User{}, nil
}

type mockTweetRepo struct {
	createFn        func(ctx context.Context, tweet *model.Tweet) error
	getByIDFn       func(ctx context.Context, id primitive.ObjectID) (*model.Tweet, error)
	getByIDsFn      func(ctx context.Context, ids []primitive.ObjectID) ([]model.Tweet, error)
	deleteFn        func(ctx context.Context, id primitive.ObjectID) error
	timelineFn      func(ctx context.Context, userID primitive.ObjectID, following []primitive.ObjectID, page int64) ([]model.Tweet, error)
	repliesFn       func(ctx context.Context, parentID primitive.ObjectID) ([]model.Tweet, error)
	byUserFn        func(ctx context.Context, userID primitive.ObjectID) ([]model.Tweet, error)
	searchFn        func(ctx context.Context, query string, limit int64) ([]model.Tweet, error)
	addLikeFn       func(ctx context.Context, tweetID, userID primitive.ObjectID) error
	removeLikeFn    func(ctx context.Context, tweetID, userID primitive.ObjectID) error
	addRetweetFn    func(ctx context.Context, tweetID, userID primitive.ObjectID) error
	removeRetweetFn func(ctx context.Context, tweetID, userID primitive.ObjectID) error
}

func (m *mockTweetRepo) Create(ctx context.Context, tweet *model.Tweet) error {
	if m.createFn != nil {
		return m.createFn(ctx, tweet)
	}
	tweet.ID = primitive.NewObjectID()
	return nil
}

func (m *mockTweetRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Tweet, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockTweetRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Tweet, error) {
	if m.getByIDsFn != nil {
		return m.getByIDsFn(ctx, ids)
	}
	return []model.Tweet{}, nil
}

func (m *mockTweetRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockTweetRepo) Timeline(ctx context.Context, userID primitive.ObjectID, following []primitive.ObjectID, page int64) ([]model.Tweet, error) {
	if m.timelineFn != nil {
		return m.timelineFn(ctx, userID, following, page)
	}
	return []model.Tweet{}, nil
}

func (m *mockTweetRepo) Replies(ctx context.Context, parentID primitive.ObjectID) ([]model.Tweet, error) {
	if m.repliesFn != nil {
		return m.repliesFn(ctx, parentID)
	}
	return []model.Tweet{}, nil
}

func (m *mockTweetRepo) ByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Tweet, error) {
	if m.byUserFn != nil {
		return m.byUserFn(ctx, userID)
	}
	return []model.Tweet{}, nil
}

func (m *mockTweetRepo) Search(ctx context.Context, query string, limit int64) ([]model.Tweet, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return []model.Tweet{}, nil
}

func (m *mockTweetRepo) AddLike(ctx context.Context, tweetID, userID primitive.ObjectID) error {
	if m.addLikeFn != nil {
		return m.addLikeFn(ctx, tweetID, userID)
	}
	return nil
}

func (m *mockTweetRepo) RemoveLike(ctx context.Context, tweetID, userID primitive.ObjectID) error {
	if m.removeLikeFn != nil {
		return m.removeLikeFn(ctx, tweetID, userID)
	}
	return nil
}

func (m *mockTweetRepo) AddRetweet(ctx context.Context, tweetID, userID primitive.ObjectID) error {
	if m.addRetweetFn != nil {
		return m.addRetweetFn(ctx, tweetID, userID)
	}
	return nil
}

func (m *mockTweetRepo) RemoveRetweet(ctx context.Context, tweetID, userID primitive.ObjectID) error {
	if m.removeRetweetFn != nil {
		return m.removeRetweetFn(ctx, tweetID, userID)
	}
	return nil
}
