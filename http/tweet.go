package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"simpleTwitter/domain"
	"simpleTwitter/errs"
)

// registerTweetRoutes is a helper for registering all Tweet routes.
func (s *Server) registerTweetRoutes(r *mux.Router) {
	r.HandleFunc("/tweets", s.requireAuth(s.handleCreateTweet)).Methods("POST")
	r.HandleFunc("/tweets/{id:[0-9]+}", s.requireAuth(s.handleGetTweet)).Methods("GET")
	r.HandleFunc("/tweets/{id:[0-9]+}", s.requireAuth(s.handleDeleteTweet)).Methods("DELETE")
}

// tweetResponse carries a tweet on top of the uniform success envelope.
type tweetResponse struct {
	successResponse
	Tweet *domain.Tweet `json:"tweet"`
}

// handleCreateTweet handles the route "POST /tweets".
// It reads the content from the json body and creates a new Tweet record.
func (s *Server) handleCreateTweet(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := s.getUserFromContext(r)
	tweet := domain.Tweet{
		UserID:  user.ID,
		Content: body.Content,
	}
	if err := s.ts.Create(&tweet); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	tweet.User.Sanitize()
	respondJSON(w, http.StatusCreated, tweetResponse{
		successResponse: newSuccess("The tweet has been created."),
		Tweet:           &tweet,
	})
}

// handleGetTweet handles the route "GET /tweets/:id".
func (s *Server) handleGetTweet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.IdInvalid)
		return
	}

	tweet, err := s.ts.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	tweet.User.Sanitize()
	respondJSON(w, http.StatusOK, tweetResponse{
		successResponse: newSuccess("Retrieved the tweet."),
		Tweet:           tweet,
	})
}

// handleDeleteTweet handles the route "DELETE /tweets/:id".
// Only the tweet's author is allowed to delete it.
func (s *Server) handleDeleteTweet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.IdInvalid)
		return
	}

	user := s.getUserFromContext(r)
	if err := s.ts.Delete(id, user.ID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newSuccess("The tweet has been deleted."))
}
