package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"simpleTwitter/domain"
	"simpleTwitter/errs"
)

// registerFollowRoutes is a helper for registering all Follow routes.
func (s *Server) registerFollowRoutes(r *mux.Router) {
	r.HandleFunc("/followships/{followed_id:[0-9]+}", s.requireAuth(s.handleCreateFollow)).Methods("POST")
	r.HandleFunc("/followships/{followed_id:[0-9]+}", s.requireAuth(s.handleDeleteFollow)).Methods("DELETE")
}

// handleCreateFollow handles the route "POST /followships/:followed_id".
// It makes the calling user follow the user from the url.
func (s *Server) handleCreateFollow(w http.ResponseWriter, r *http.Request) {
	followedID, err := strconv.Atoi(mux.Vars(r)["followed_id"])
	if err != nil {
		errs.ReturnError(w, r, errs.IdInvalid)
		return
	}

	follower := s.getUserFromContext(r)
	follow := domain.Follow{
		FollowerID: follower.ID,
		FollowedID: followedID,
	}
	if err := s.fs.Create(&follow); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, newSuccess("You are now following the user."))
}

// handleDeleteFollow handles the route "DELETE /followships/:followed_id".
// It makes the calling user unfollow the user from the url.
func (s *Server) handleDeleteFollow(w http.ResponseWriter, r *http.Request) {
	followedID, err := strconv.Atoi(mux.Vars(r)["followed_id"])
	if err != nil {
		errs.ReturnError(w, r, errs.IdInvalid)
		return
	}

	follower := s.getUserFromContext(r)
	follow := domain.Follow{
		FollowerID: follower.ID,
		FollowedID: followedID,
	}
	if err := s.fs.Delete(&follow); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newSuccess("You are no longer following the user."))
}
