package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"twitter-clone/controller"
	"twitter-clone/metrics"
	"twitter-clone/middleware"
)

// Deps collects everything the route table wires together.
type Deps struct {
	Auth   *middleware.Auth
	Upload *middleware.Upload

	AuthController   *controller.AuthController
	TweetController  *controller.TweetController
	UserController   *controller.UserController
	SearchController *controller.SearchController

	UploadDir string
}

// New builds the route table.
func New(d Deps) *mux.Router {
	r := mux.NewRouter()
	r.Use(metrics.Instrument)
	r.Use(middleware.RequestLogger)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	r.HandleFunc("/auth/register", d.AuthController.Register).
		Methods("POST")
	r.HandleFunc("/auth/login", d.AuthController.Login).
		Methods("POST")

	r.HandleFunc("/tweets", d.Auth.Require(d.Upload.Accept(d.TweetController.Create))).
		Methods("POST")
	r.HandleFunc("/tweets", d.Auth.Require(d.TweetController.Timeline)).
		Methods("GET")
	r.HandleFunc("/tweets/user/{userId}", d.TweetController.ByUser).
		Methods("GET")
	r.HandleFunc("/tweets/{id}", d.TweetController.GetByID).
		Methods("GET")
	r.HandleFunc("/tweets/{id}", d.Auth.Require(d.TweetController.Delete)).
		Methods("DELETE")
	r.HandleFunc("/tweets/{id}/like", d.Auth.Require(d.TweetController.ToggleLike)).
		Methods("POST")
	r.HandleFunc("/tweets/{id}/retweet", d.Auth.Require(d.TweetController.ToggleRetweet)).
		Methods("POST")
	r.HandleFunc("/tweets/{id}/reply", d.Auth.Require(d.Upload.Accept(d.TweetController.Reply))).
		Methods("POST")
	r.HandleFunc("/tweets/{id}/replies", d.TweetController.Replies).
		Methods("GET")

	r.HandleFunc("/users/me", d.Auth.Require(d.UserController.Me)).
		Methods("GET")
	r.HandleFunc("/users/me", d.Auth.Require(d.UserController.UpdateMe)).
		Methods("PUT")
	r.HandleFunc("/users/me/profile-image", d.Auth.Require(d.Upload.Accept(d.UserController.UpdateProfileImage))).
		Methods("PUT")
	r.HandleFunc("/users/me/cover-image", d.Auth.Require(d.Upload.Accept(d.UserController.UpdateCoverImage))).
		Methods("PUT")
	r.HandleFunc("/users/suggestions", d.Auth.Require(d.UserController.Suggestions)).
		Methods("GET")
	r.HandleFunc("/users/{id}/follow", d.Auth.Require(d.UserController.ToggleFollow)).
		Methods("POST")
	r.HandleFunc("/users/{username}", d.UserController.GetByUsername).
		Methods("GET")

	r.HandleFunc("/search", d.SearchController.Search).
		Methods("GET")

	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.UploadDir))))

	return r
}
