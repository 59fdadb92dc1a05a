package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"simpleTwitter/domain"
	"simpleTwitter/errs"
)

// registerReplyRoutes is a helper for registering all Reply routes.
func (s *Server) registerReplyRoutes(r *mux.Router) {
	// Create a new reply on a tweet.
	r.HandleFunc("/tweets/{tweet_id:[0-9]+}/replies", s.requireAuth(s.handleCreateReply)).Methods("POST")

	// Get all replies of a tweet, annotated with the caller's like status.
	r.HandleFunc("/tweets/{tweet_id:[0-9]+}/replies", s.requireAuth(s.handleGetReplies)).Methods("GET")

	// Delete an existing reply of a tweet.
	r.HandleFunc("/tweets/{tweet_id:[0-9]+}/replies/{reply_id:[0-9]+}", s.requireAuth(s.handleDeleteReply)).Methods("DELETE")
}

// handleCreateReply handles the route "POST /tweets/:tweet_id/replies".
// It reads the comment from the json body and creates a new Reply record
// on the tweet from the url.
func (s *Server) handleCreateReply(w http.ResponseWriter, r *http.Request) {
	tweetID, err := strconv.Atoi(mux.Vars(r)["tweet_id"])
	if err != nil {
		errs.ReturnError(w, r, errs.IdInvalid)
		return
	}

	var body struct {
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := s.getUserFromContext(r)
	reply := domain.Reply{
		TweetID: tweetID,
		UserID:  user.ID,
		Comment: body.Comment,
	}
	if err := s.rs.Create(&reply); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, newSuccess("The reply has been created."))
}

// replyResponse is one item of the reply listing. On top of the uniform
// envelope it carries the reply itself (author already sanitized) and
// whether the calling user likes it.
type replyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	IsLiked bool   `json:"isLiked"`
	domain.Reply
}

// handleGetReplies handles the route "GET /tweets/:tweet_id/replies".
// It returns all replies of the tweet, newest first, each annotated with the
// caller's like status. A tweet without replies yields an explicit
// "no replies yet" success envelope instead of an empty array.
func (s *Server) handleGetReplies(w http.ResponseWriter, r *http.Request) {
	tweetID, err := strconv.Atoi(mux.Vars(r)["tweet_id"])
	if err != nil {
		errs.ReturnError(w, r, errs.IdInvalid)
		return
	}

	replies, err := s.rs.ByTweetID(tweetID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if len(replies) == 0 {
		respondJSON(w, http.StatusOK, newSuccess("The tweet has no replies yet."))
		return
	}

	user := s.getUserFromContext(r)
	results := make([]replyResponse, len(replies))
	for i, reply := range replies {
		reply.User.Sanitize()
		results[i] = replyResponse{
			Status:  "success",
			Message: "Retrieved the tweet's replies.",
			IsLiked: s.ls.AuthLikes(user.ID, reply.ID),
			Reply:   reply,
		}
	}
	respondJSON(w, http.StatusOK, results)
}

// handleDeleteReply handles the route "DELETE /tweets/:tweet_id/replies/:reply_id".
// Only the reply's author and the tweet's author are allowed to delete a reply.
func (s *Server) handleDeleteReply(w http.ResponseWriter, r *http.Request) {
	tweetID, err := strconv.Atoi(mux.Vars(r)["tweet_id"])
	if err != nil {
		errs.ReturnError(w, r, errs.IdInvalid)
		return
	}
	replyID, err := strconv.Atoi(mux.Vars(r)["reply_id"])
	if err != nil {
		errs.ReturnError(w, r, errs.IdInvalid)
		return
	}

	// The reply must actually belong to the tweet in the url.
	reply, err := s.rs.ByID(replyID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if reply.TweetID != tweetID {
		errs.ReturnError(w, r, errs.Errorf(errs.ENOTFOUND, "The reply does not exist."))
		return
	}

	user := s.getUserFromContext(r)
	if err := s.rs.Delete(replyID, user.ID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newSuccess("The reply has been deleted."))
}
