package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"simpleTwitter/auth"
	"simpleTwitter/crud"
	"simpleTwitter/domain"
	"simpleTwitter/storage"
)

const testJWTSecret = "test-jwt-secret"

type testServer struct {
	*Server
	db *gorm.DB
}

// newTestServer wires the full server against a fresh in-memory sqlite database.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		domain.User{},
		domain.Tweet{},
		domain.Reply{},
		domain.Like{},
		domain.Follow{},
	))

	services, err := crud.NewServices(
		db,
		crud.WithUser("test-pepper"),
		crud.WithTweet(),
		crud.WithReply(),
		crud.WithLike(),
		crud.WithFollow(),
	)
	require.NoError(t, err)

	return &testServer{
		Server: NewServer(testJWTSecret, services, storage.NewImageService()),
		db:     db,
	}
}

// signupUser creates a user through the user service and returns it together
// with a valid access token.
func (ts *testServer) signupUser(t *testing.T, account string) (*domain.User, string) {
	t.Helper()
	user := &domain.User{
		Account:  account,
		Name:     account,
		Email:    account + "@example.com",
		Password: "password123",
	}
	require.NoError(t, ts.us.Create(user))
	token, err := auth.MakeToken(testJWTSecret, user.ID)
	require.NoError(t, err)
	return user, token
}

// do runs a json request against the server and returns the recorded response.
func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	r := httptest.NewRequest(method, path, reader)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.ServeHTTP(w, r)
	return w
}

// decode unmarshals a recorded json response body into dst.
func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

func TestRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, "GET", "/tweets/1/replies", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// An invalid token is treated like no token at all.
	w = ts.do(t, "GET", "/tweets/1/replies", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignupAndSignin(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, "POST", "/signup", "", map[string]string{
		"account":  "alice",
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Duplicate signups are rejected.
	w = ts.do(t, "POST", "/signup", "", map[string]string{
		"account":  "alice",
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Signin hands out a token and the sanitized user.
	w = ts.do(t, "POST", "/signin", "", map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var signin struct {
		Status string          `json:"status"`
		Token  string          `json:"token"`
		User   json.RawMessage `json:"user"`
	}
	decode(t, w, &signin)
	assert.Equal(t, "success", signin.Status)
	assert.NotEmpty(t, signin.Token)

	var userFields map[string]interface{}
	require.NoError(t, json.Unmarshal(signin.User, &userFields))
	assert.NotContains(t, userFields, "password")
	assert.NotContains(t, userFields, "role")
	assert.Contains(t, userFields, "isAdmin")

	// Wrong password is rejected.
	w = ts.do(t, "POST", "/signin", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// The end to end walk through the reply / like lifecycle: author A posts a
// reply on a tweet, viewer B likes it, likes it again, unlikes it, and
// unlikes it again.
func TestReplyLikeFlow(t *testing.T) {
	ts := newTestServer(t)
	_, tokenA := ts.signupUser(t, "authora")
	_, tokenB := ts.signupUser(t, "viewerb")

	// A posts a tweet.
	w := ts.do(t, "POST", "/tweets", tokenA, map[string]string{"content": "what a day"})
	require.Equal(t, http.StatusCreated, w.Code)
	var tweetResp struct {
		Tweet domain.Tweet `json:"tweet"`
	}
	decode(t, w, &tweetResp)
	tweetID := tweetResp.Tweet.ID
	require.NotZero(t, tweetID)
	assert.Equal(t, 0, tweetResp.Tweet.CommentCount)

	// A replies to the tweet, the comment counter moves 0 -> 1.
	w = ts.do(t, "POST", fmt.Sprintf("/tweets/%d/replies", tweetID), tokenA, map[string]string{"comment": "hi"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(t, "GET", fmt.Sprintf("/tweets/%d", tweetID), tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &tweetResp)
	assert.Equal(t, 1, tweetResp.Tweet.CommentCount)

	// B lists the replies, not yet liked.
	w = ts.do(t, "GET", fmt.Sprintf("/tweets/%d/replies", tweetID), tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var replies []replyResponse
	decode(t, w, &replies)
	require.Len(t, replies, 1)
	assert.False(t, replies[0].IsLiked)
	assert.Equal(t, 0, replies[0].LikeCount)
	assert.Equal(t, "hi", replies[0].Comment)
	replyID := replies[0].Reply.ID

	// B likes the reply, the like counter moves 0 -> 1.
	w = ts.do(t, "POST", fmt.Sprintf("/replies/%d/like", replyID), tokenB, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var likeResp likeResponse
	decode(t, w, &likeResp)
	assert.Equal(t, "success", likeResp.Status)
	assert.True(t, likeResp.IsLikedByLoginUser)

	// Liking again is a conflict and the counter stays at 1.
	w = ts.do(t, "POST", fmt.Sprintf("/replies/%d/like", replyID), tokenB, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	decode(t, w, &likeResp)
	assert.Equal(t, "error", likeResp.Status)
	assert.True(t, likeResp.IsLikedByLoginUser)

	w = ts.do(t, "GET", fmt.Sprintf("/tweets/%d/replies", tweetID), tokenB, nil)
	decode(t, w, &replies)
	require.Len(t, replies, 1)
	assert.True(t, replies[0].IsLiked)
	assert.Equal(t, 1, replies[0].LikeCount)

	// B unlikes the reply, the counter moves 1 -> 0.
	w = ts.do(t, "DELETE", fmt.Sprintf("/replies/%d/like", replyID), tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &likeResp)
	assert.Equal(t, "success", likeResp.Status)
	assert.False(t, likeResp.IsLikedByLoginUser)

	// Unliking again is a failed precondition.
	w = ts.do(t, "DELETE", fmt.Sprintf("/replies/%d/like", replyID), tokenB, nil)
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	decode(t, w, &likeResp)
	assert.Equal(t, "error", likeResp.Status)
	assert.False(t, likeResp.IsLikedByLoginUser)

	w = ts.do(t, "GET", fmt.Sprintf("/tweets/%d/replies", tweetID), tokenB, nil)
	decode(t, w, &replies)
	require.Len(t, replies, 1)
	assert.Equal(t, 0, replies[0].LikeCount)
}

func TestGetRepliesEmpty(t *testing.T) {
	ts := newTestServer(t)
	userA, tokenA := ts.signupUser(t, "authora")

	w := ts.do(t, "POST", "/tweets", tokenA, map[string]string{"content": "what a day"})
	require.Equal(t, http.StatusCreated, w.Code)
	var tweetResp struct {
		Tweet domain.Tweet `json:"tweet"`
	}
	decode(t, w, &tweetResp)
	require.Equal(t, userA.ID, tweetResp.Tweet.UserID)

	// Zero replies yield the explicit empty state envelope, not an array.
	w = ts.do(t, "GET", fmt.Sprintf("/tweets/%d/replies", tweetResp.Tweet.ID), tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	decode(t, w, &envelope)
	assert.Equal(t, "success", envelope.Status)
	assert.Equal(t, "The tweet has no replies yet.", envelope.Message)
}

func TestReplyAuthorIsSanitized(t *testing.T) {
	ts := newTestServer(t)
	_, tokenA := ts.signupUser(t, "authora")

	w := ts.do(t, "POST", "/tweets", tokenA, map[string]string{"content": "what a day"})
	var tweetResp struct {
		Tweet domain.Tweet `json:"tweet"`
	}
	decode(t, w, &tweetResp)

	w = ts.do(t, "POST", fmt.Sprintf("/tweets/%d/replies", tweetResp.Tweet.ID), tokenA, map[string]string{"comment": "hi"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(t, "GET", fmt.Sprintf("/tweets/%d/replies", tweetResp.Tweet.ID), tokenA, nil)
	var raw []map[string]interface{}
	decode(t, w, &raw)
	require.Len(t, raw, 1)

	author, ok := raw[0]["User"].(map[string]interface{})
	require.True(t, ok)
	assert.NotContains(t, author, "password")
	assert.NotContains(t, author, "role")
	assert.Contains(t, author, "isAdmin")
}

func TestDeleteReplyAuthorization(t *testing.T) {
	ts := newTestServer(t)
	_, tokenA := ts.signupUser(t, "authora")
	_, tokenB := ts.signupUser(t, "viewerb")

	w := ts.do(t, "POST", "/tweets", tokenA, map[string]string{"content": "what a day"})
	var tweetResp struct {
		Tweet domain.Tweet `json:"tweet"`
	}
	decode(t, w, &tweetResp)
	tweetID := tweetResp.Tweet.ID

	w = ts.do(t, "POST", fmt.Sprintf("/tweets/%d/replies", tweetID), tokenA, map[string]string{"comment": "hi"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(t, "GET", fmt.Sprintf("/tweets/%d/replies", tweetID), tokenA, nil)
	var replies []replyResponse
	decode(t, w, &replies)
	require.Len(t, replies, 1)
	replyID := replies[0].Reply.ID

	// B is neither the reply author nor the tweet author.
	w = ts.do(t, "DELETE", fmt.Sprintf("/tweets/%d/replies/%d", tweetID, replyID), tokenB, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// The reply survives a denied delete.
	w = ts.do(t, "GET", fmt.Sprintf("/tweets/%d/replies", tweetID), tokenA, nil)
	decode(t, w, &replies)
	require.Len(t, replies, 1)

	// Deleting a reply through the wrong tweet is not found.
	w = ts.do(t, "DELETE", fmt.Sprintf("/tweets/%d/replies/%d", tweetID+1, replyID), tokenA, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The tweet author may delete it.
	w = ts.do(t, "DELETE", fmt.Sprintf("/tweets/%d/replies/%d", tweetID, replyID), tokenA, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateReplyValidation(t *testing.T) {
	ts := newTestServer(t)
	_, tokenA := ts.signupUser(t, "authora")

	w := ts.do(t, "POST", "/tweets", tokenA, map[string]string{"content": "what a day"})
	var tweetResp struct {
		Tweet domain.Tweet `json:"tweet"`
	}
	decode(t, w, &tweetResp)

	// Whitespace-only comments are rejected.
	w = ts.do(t, "POST", fmt.Sprintf("/tweets/%d/replies", tweetResp.Tweet.ID), tokenA, map[string]string{"comment": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Replying to a missing tweet is not found.
	w = ts.do(t, "POST", "/tweets/9999/replies", tokenA, map[string]string{"comment": "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateUserProfile(t *testing.T) {
	ts := newTestServer(t)
	userA, tokenA := ts.signupUser(t, "authora")
	_, tokenB := ts.signupUser(t, "viewerb")

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("account", "authora"))
	require.NoError(t, form.WriteField("name", "Author A"))
	require.NoError(t, form.WriteField("email", "authora@example.com"))
	require.NoError(t, form.WriteField("introduction", "hello there"))
	require.NoError(t, form.Close())

	newRequest := func(token string) *httptest.ResponseRecorder {
		r := httptest.NewRequest("PUT", fmt.Sprintf("/users/%d", userA.ID), bytes.NewReader(body.Bytes()))
		r.Header.Set("Authorization", "Bearer "+token)
		r.Header.Set("Content-Type", form.FormDataContentType())
		w := httptest.NewRecorder()
		ts.ServeHTTP(w, r)
		return w
	}

	// Users may not update each other.
	w := newRequest(tokenB)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = newRequest(tokenA)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Status string      `json:"status"`
		User   domain.User `json:"user"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "Author A", resp.User.Name)
	assert.Equal(t, "hello there", resp.User.Introduction)
}
