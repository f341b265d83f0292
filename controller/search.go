package controller

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"twitter-clone/model"
	"twitter-clone/repository"
)

const (
	searchUserLimit  = 10
	searchTweetLimit = 20
)

// SearchController implements the combined user/tweet substring search.
type SearchController struct {
	users    repository.UserRepository
	tweets   repository.TweetRepository
	expander *repository.Expander
}

func NewSearchController(users repository.UserRepository, tweets repository.TweetRepository, expander *repository.Expander) *SearchController {
	return &SearchController{users: users, tweets: tweets, expander: expander}
}

type searchResponse struct {
	Users  []model.User          `json:"users"`
	Tweets []model.TweetResponse `json:"tweets"`
}

// Search handles GET /search?q=. Matching is a case-insensitive substring
// test against user name/username and tweet content.
func (c *SearchController) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "search query is required")
		return
	}

	users, err := c.users.Search(r.Context(), query, searchUserLimit)
	if err != nil {
		log.Error().Err(err).Msg("search users failed")
		writeInternalError(w)
		return
	}

	tweets, err := c.tweets.Search(r.Context(), query, searchTweetLimit)
	if err != nil {
		log.Error().Err(err).Msg("search tweets failed")
		writeInternalError(w)
		return
	}

	expanded, err := c.expander.Tweets(r.Context(), tweets, false)
	if err != nil {
		log.Error().Err(err).Msg("expand search results failed")
		writeInternalError(w)
		return
	}

	public := make([]model.User, 0, len(users))
	for i := range users {
		public = append(public, *users[i].Public())
	}

	writeJSON(w, http.StatusOK, searchResponse{Users: public, Tweets: expanded})
}
