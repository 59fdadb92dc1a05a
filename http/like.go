package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"simpleTwitter/domain"
	"simpleTwitter/errs"
)

// registerLikeRoutes is a helper for registering all Like routes.
func (s *Server) registerLikeRoutes(r *mux.Router) {
	// Create a new like for a reply (Like a reply).
	r.HandleFunc("/replies/{id:[0-9]+}/like", s.requireAuth(s.handleCreateLike)).Methods("POST")

	// Delete an existing like of a reply (Unlike a reply).
	r.HandleFunc("/replies/{id:[0-9]+}/like", s.requireAuth(s.handleDeleteLike)).Methods("DELETE")
}

// likeResponse is the envelope of the like / unlike operations. It carries
// whether the calling user likes the reply after the operation, so the
// client can render the button state without a second request.
type likeResponse struct {
	Status             string `json:"status"`
	Message            string `json:"message"`
	IsLikedByLoginUser bool   `json:"isLikedByLoginUser"`
}

// handleCreateLike handles the route "POST /replies/:id/like".
// It reads the reply ID from the url and creates a new Like record for the
// calling user. Liking an already liked reply reports a conflict, with the
// resulting liked state still set.
func (s *Server) handleCreateLike(w http.ResponseWriter, r *http.Request) {
	replyID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.IdInvalid)
		return
	}

	user := s.getUserFromContext(r)
	like := domain.Like{
		UserID:  user.ID,
		ReplyID: replyID,
	}
	if err := s.ls.Create(&like); err != nil {
		if errs.ErrorCode(err) == errs.ECONFLICT {
			respondJSON(w, http.StatusConflict, likeResponse{
				Status:             "error",
				Message:            errs.ErrorMessage(err),
				IsLikedByLoginUser: true,
			})
			return
		}
		errs.ReturnError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, likeResponse{
		Status:             "success",
		Message:            "You have liked the reply.",
		IsLikedByLoginUser: true,
	})
}

// handleDeleteLike handles the route "DELETE /replies/:id/like".
// It removes the calling user's like from the reply. Unliking a reply that
// was never liked reports a failed precondition, with the resulting
// unliked state still set.
func (s *Server) handleDeleteLike(w http.ResponseWriter, r *http.Request) {
	replyID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.IdInvalid)
		return
	}

	user := s.getUserFromContext(r)
	like := domain.Like{
		UserID:  user.ID,
		ReplyID: replyID,
	}
	if err := s.ls.Delete(&like); err != nil {
		if errs.ErrorCode(err) == errs.EPRECONDITION {
			respondJSON(w, http.StatusPreconditionFailed, likeResponse{
				Status:             "error",
				Message:            errs.ErrorMessage(err),
				IsLikedByLoginUser: false,
			})
			return
		}
		errs.ReturnError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, likeResponse{
		Status:             "success",
		Message:            "You have unliked the reply.",
		IsLikedByLoginUser: false,
	})
}
