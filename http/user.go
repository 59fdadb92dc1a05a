package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"simpleTwitter/domain"
	"simpleTwitter/errs"
	"simpleTwitter/storage"
)

// registerUserRoutes is a helper for registering all User routes.
func (s *Server) registerUserRoutes(r *mux.Router) {
	// Get the profile data of a specific user.
	r.HandleFunc("/users/{user_id:[0-9]+}", s.requireAuth(s.handleGetUser)).Methods("GET")

	// Update the calling user's profile, optionally with a new avatar / cover image.
	r.HandleFunc("/users/{user_id:[0-9]+}", s.requireAuth(s.handleUpdateUser)).Methods("PUT")
}

// userResponse carries a user's profile on top of the uniform success envelope.
type userResponse struct {
	successResponse
	User *domain.User `json:"user"`
}

// handleGetUser handles the route "GET /users/:user_id".
// It returns the requested user's sanitized profile data.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(mux.Vars(r)["user_id"])
	if err != nil {
		errs.ReturnError(w, r, errs.IdInvalid)
		return
	}

	user, err := s.us.ByID(userID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user.Sanitize()
	respondJSON(w, http.StatusOK, userResponse{
		successResponse: newSuccess("Retrieved the user's data."),
		User:            user,
	})
}

// handleUpdateUser handles the route "PUT /users/:user_id".
// The request is a multipart form carrying the profile fields and optionally
// an avatar and / or a cover image. Images are stored through the image
// service first, and the resulting urls are persisted on the user record
// together with the rest of the update. Users may only update themselves.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(mux.Vars(r)["user_id"])
	if err != nil {
		errs.ReturnError(w, r, errs.IdInvalid)
		return
	}

	user := s.getUserFromContext(r)
	if user.ID != userID {
		errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "You are not allowed to update this user."))
		return
	}

	if err := r.ParseMultipartForm(storage.MaxUploadSize); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid multipart form data."))
		return
	}

	// Apply the submitted profile fields on top of the stored record.
	user.Account = r.FormValue("account")
	user.Name = r.FormValue("name")
	user.Email = r.FormValue("email")
	user.Password = r.FormValue("password")
	user.Introduction = r.FormValue("introduction")

	// Upload a new avatar / cover if one was submitted. Each upload replaces
	// the previous file and yields the url to be stored on the user record.
	for _, ownerType := range []string{domain.OwnerTypeAvatar, domain.OwnerTypeCover} {
		url, err := s.uploadProfileImage(r, ownerType, user.ID)
		if err != nil {
			errs.ReturnError(w, r, err)
			return
		}
		if url == "" {
			continue
		}
		switch ownerType {
		case domain.OwnerTypeAvatar:
			user.Avatar = url
		case domain.OwnerTypeCover:
			user.Cover = url
		}
	}

	if err := s.us.Update(user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user.Sanitize()
	respondJSON(w, http.StatusOK, userResponse{
		successResponse: newSuccess("The user has been updated."),
		User:            user,
	})
}

// uploadProfileImage stores the multipart file submitted under the given
// form field, if any, and returns its url. A request without that file is
// not an error, it just yields an empty url.
func (s *Server) uploadProfileImage(r *http.Request, ownerType string, userID int) (string, error) {
	files := r.MultipartForm.File[ownerType]
	if len(files) == 0 {
		return "", nil
	}

	file, err := files[0].Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := s.is.DeleteAll(ownerType, userID); err != nil {
		return "", err
	}
	img := &domain.Image{
		OwnerType: ownerType,
		OwnerID:   userID,
		File:      file,
		Filename:  files[0].Filename,
	}
	if err := s.is.Create(img); err != nil {
		return "", err
	}
	return img.URL, nil
}
