package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"simpleTwitter/auth"
	"simpleTwitter/domain"
	"simpleTwitter/errs"
)

func (s *Server) registerAuthRoutes(r *mux.Router) {
	r.HandleFunc("/signup", s.handleSignup).Methods("POST")
	r.HandleFunc("/signin", s.handleSignin).Methods("POST")
}

// handleSignup handles the route "POST /signup".
// It reads user data from the json body and creates a new User database record.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var user domain.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	// Signups never grant admin rights.
	user.Role = 0

	if err := s.us.Create(&user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, newSuccess("The user has been created."))
}

// signinResponse carries the access token and the signed in user's data
// on top of the uniform success envelope.
type signinResponse struct {
	successResponse
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// handleSignin handles the route "POST /signin".
// It checks the submitted credentials and hands out a signed access token.
func (s *Server) handleSignin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}
	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))
	creds.Password = strings.TrimSpace(creds.Password)
	if creds.Email == "" || creds.Password == "" {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "An email address and a password are required."))
		return
	}

	user, err := s.us.Authenticate(creds.Email, creds.Password)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	token, err := auth.MakeToken(s.jwtSecret, user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user.Sanitize()
	respondJSON(w, http.StatusOK, signinResponse{
		successResponse: newSuccess("You are now signed in."),
		Token:           token,
		User:            user,
	})
}

// The checkUser middleware tries to identify the caller on every request.
// It parses a bearer token off the Authorization header and, if the token
// verifies, loads the user record it belongs to into the request context.
// Requests without a valid token pass through anonymously, it's requireAuth
// that decides whether that's acceptable for a given route.
func (s *Server) checkUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			next.ServeHTTP(w, r)
			return
		}
		userID, err := auth.ParseToken(s.jwtSecret, tokenString)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.us.ByID(userID)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		r = r.WithContext(auth.SetUser(r.Context(), user))
		next.ServeHTTP(w, r)
	})
}

// requireAuth guards routes that must not be reachable anonymously.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.GetUser(r.Context()) == nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "Please sign in first."))
			return
		}
		next.ServeHTTP(w, r)
	}
}

// getUserFromContext is a small wrapper around the auth package's context lookup.
func (s *Server) getUserFromContext(r *http.Request) *domain.User {
	return auth.GetUser(r.Context())
}
