package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"simpleTwitter/crud"
	"simpleTwitter/domain"
)

// Server provides most of the http functionality of this app, namely routing,
// request handling, and middleware. It also performs authentication and
// authorization before handing things over to one of the crud services.
type Server struct {
	router    *mux.Router
	jwtSecret string
	us        domain.UserService
	ts        domain.TweetService
	rs        domain.ReplyService
	ls        domain.LikeService
	fs        domain.FollowService
	is        domain.ImageService
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the app services passed in.
func NewServer(jwtSecret string, services *crud.Services, images domain.ImageService) *Server {
	// Construct a new Server with a gorilla router and the services passed in.
	s := &Server{
		router:    mux.NewRouter(),
		jwtSecret: jwtSecret,
		us:        services.User,
		ts:        services.Tweet,
		rs:        services.Reply,
		ls:        services.Like,
		fs:        services.Follow,
		is:        images,
	}

	// Register routes of the auth system.
	s.registerAuthRoutes(s.router)

	// Register routes of the crud system.
	s.registerUserRoutes(s.router)
	s.registerTweetRoutes(s.router)
	s.registerReplyRoutes(s.router)
	s.registerLikeRoutes(s.router)
	s.registerFollowRoutes(s.router)

	// Set up middleware that needs to run on every request.
	s.router.Use(setContentTypeJSON, s.checkUser)
	return s
}

// ServeHTTP makes the server itself usable as an http.Handler,
// which the tests rely on.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// The setContentTypeJSON middleware sets the content type to "application/json".
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Run starts to listen and serve on the specified port.
func (s *Server) Run(port int) {
	log.Printf("[http] listening on port %d", port)
	log.Fatal(http.ListenAndServe(":"+strconv.Itoa(port), s.router))
}

// A successResponse is the uniform envelope returned for every successful
// request. Operation-specific fields are carried in the types embedding it.
type successResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// newSuccess constructs the uniform success envelope.
func newSuccess(message string) successResponse {
	return successResponse{Status: "success", Message: message}
}

// respondJSON writes a response body as json with the given status code.
func respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[http] err encoding response body: %s", err)
	}
}
