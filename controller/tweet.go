package controller

import (
	"encoding/json"
	"net/http"
	"path"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"twitter-clone/middleware"
	"twitter-clone/model"
	"twitter-clone/repository"
)

// TweetController implements the tweet operations: create, timeline, single
// read, delete, like/retweet toggles, replies and per-user listings.
type TweetController struct {
	tweets   repository.TweetRepository
	expander *repository.Expander
}

func NewTweetController(tweets repository.TweetRepository, expander *repository.Expander) *TweetController {
	return &TweetController{tweets: tweets, expander: expander}
}

type createTweetRequest struct {
	Content string `json:"content"`
}

// Create handles POST /tweets. The body is either JSON or a multipart form
// already parsed by the upload middleware.
func (c *TweetController) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	content, ok := tweetContent(w, r)
	if !ok {
		return
	}

	tweet := &model.Tweet{
		UserID:  user.ID,
		Content: content,
	}
	if name, ok := middleware.FileFrom(r.Context()); ok {
		tweet.Image = uploadPath(name)
	}

	if err := c.tweets.Create(r.Context(), tweet); err != nil {
		log.Error().Err(err).Msg("create tweet failed")
		writeInternalError(w)
		return
	}

	c.respondExpanded(w, r, tweet, false)
}

// Timeline handles GET /tweets. Pages are 1-indexed with a fixed size of 10.
func (c *TweetController) Timeline(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	page, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}

	tweets, err := c.tweets.Timeline(r.Context(), user.ID, user.Following, page)
	if err != nil {
		log.Error().Err(err).Msg("query timeline failed")
		writeInternalError(w)
		return
	}

	c.respondExpandedList(w, r, tweets, true)
}

// GetByID handles GET /tweets/{id}.
func (c *TweetController) GetByID(w http.ResponseWriter, r *http.Request) {
	tweet, ok := c.lookup(w, r)
	if !ok {
		return
	}
	c.respondExpanded(w, r, tweet, true)
}

// Delete handles DELETE /tweets/{id}. Only the owner may delete; replies and
// likes referencing the tweet are left in place.
func (c *TweetController) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	tweet, ok := c.lookup(w, r)
	if !ok {
		return
	}
	if tweet.UserID != user.ID {
		writeError(w, http.StatusUnauthorized, "you do not own this tweet")
		return
	}

	if err := c.tweets.Delete(r.Context(), tweet.ID); err != nil {
		log.Error().Err(err).Msg("delete tweet failed")
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": true, "id": tweet.ID})
}

// ToggleLike handles POST /tweets/{id}/like.
func (c *TweetController) ToggleLike(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	tweet, ok := c.lookup(w, r)
	if !ok {
		return
	}

	liked := !tweet.IsLikedBy(user.ID)
	var err error
	if liked {
		err = c.tweets.AddLike(r.Context(), tweet.ID, user.ID)
	} else {
		err = c.tweets.RemoveLike(r.Context(), tweet.ID, user.ID)
	}
	if err != nil {
		log.Error().Err(err).Msg("toggle like failed")
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"liked": liked, "userId": user.ID})
}

// ToggleRetweet handles POST /tweets/{id}/retweet.
func (c *TweetController) ToggleRetweet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	tweet, ok := c.lookup(w, r)
	if !ok {
		return
	}

	retweeted := !tweet.IsRetweetedBy(user.ID)
	var err error
	if retweeted {
		err = c.tweets.AddRetweet(r.Context(), tweet.ID, user.ID)
	} else {
		err = c.tweets.RemoveRetweet(r.Context(), tweet.ID, user.ID)
	}
	if err != nil {
		log.Error().Err(err).Msg("toggle retweet failed")
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"retweeted": retweeted, "userId": user.ID})
}

// Reply handles POST /tweets/{id}/reply.
func (c *TweetController) Reply(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	parent, ok := c.lookup(w, r)
	if !ok {
		return
	}

	content, ok := tweetContent(w, r)
	if !ok {
		return
	}

	reply := &model.Tweet{
		UserID:  user.ID,
		Content: content,
		ReplyTo: &parent.ID,
		IsReply: true,
	}
	if name, ok := middleware.FileFrom(r.Context()); ok {
		reply.Image = uploadPath(name)
	}

	if err := c.tweets.Create(r.Context(), reply); err != nil {
		log.Error().Err(err).Msg("create reply failed")
		writeInternalError(w)
		return
	}

	c.respondExpanded(w, r, reply, false)
}

// Replies handles GET /tweets/{id}/replies.
func (c *TweetController) Replies(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, "tweet not found")
		return
	}

	replies, err := c.tweets.Replies(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Msg("query replies failed")
		writeInternalError(w)
		return
	}

	c.respondExpandedList(w, r, replies, false)
}

// ByUser handles GET /tweets/user/{userId}.
func (c *TweetController) ByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	tweets, err := c.tweets.ByUser(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("query user tweets failed")
		writeInternalError(w)
		return
	}

	c.respondExpandedList(w, r, tweets, false)
}

// lookup parses the id path variable and loads the tweet, answering 404 for
// a malformed id or a missing document.
func (c *TweetController) lookup(w http.ResponseWriter, r *http.Request) (*model.Tweet, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, "tweet not found")
		return nil, false
	}

	tweet, err := c.tweets.GetByID(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Msg("query tweet failed")
		writeInternalError(w)
		return nil, false
	}
	if tweet == nil {
		writeError(w, http.StatusNotFound, "tweet not found")
		return nil, false
	}
	return tweet, true
}

func (c *TweetController) respondExpanded(w http.ResponseWriter, r *http.Request, tweet *model.Tweet, withParent bool) {
	resp, err := c.expander.Tweet(r.Context(), tweet, withParent)
	if err != nil {
		log.Error().Err(err).Msg("expand tweet failed")
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (c *TweetController) respondExpandedList(w http.ResponseWriter, r *http.Request, tweets []model.Tweet, withParent bool) {
	resp, err := c.expander.Tweets(r.Context(), tweets, withParent)
	if err != nil {
		log.Error().Err(err).Msg("expand tweets failed")
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// tweetContent extracts and validates tweet content from a JSON or multipart
// body, reporting field errors itself when invalid.
func tweetContent(w http.ResponseWriter, r *http.Request) (string, bool) {
	var content string
	if r.MultipartForm != nil {
		content = r.FormValue("content")
	} else {
		var req createTweetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return "", false
		}
		content = req.Content
	}

	content = strings.TrimSpace(content)
	if content == "" {
		writeFieldErrors(w, map[string]string{"content": "content is required"})
		return "", false
	}
	if utf8.RuneCountInString(content) > model.MaxTweetLength {
		writeFieldErrors(w, map[string]string{"content": "content must be at most 280 characters"})
		return "", false
	}
	return content, true
}

func uploadPath(name string) string {
	return path.Join("uploads", name)
}
