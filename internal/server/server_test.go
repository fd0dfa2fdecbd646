package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/postan/postan-api/internal/config"
	"github.com/postan/postan-api/internal/sessions"
	"github.com/postan/postan-api/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Code    int             `json:"code"`
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

type harness struct {
	t      *testing.T
	router *gin.Engine
	store  *store.MemoryStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.JWT.Secret = "server-test-secret-32-bytes-xxxxxxxx"
	s := store.NewMemoryStore(store.DefaultRegistry(false))
	m := mr.RunT(t)
	r := NewRouter(cfg, Deps{
		Store:       s,
		Sessions:    sessions.NewService(sessions.NewMemoryRepository()),
		Revocations: sessions.NewRevocations(redis.NewClient(&redis.Options{Addr: m.Addr()})),
		HashCost:    bcrypt.MinCost,
		Ready: map[string]Check{
			"store": func(context.Context) error { return nil },
		},
	})
	return &harness{t: t, router: r, store: s}
}

func (h *harness) do(method, path, token string, body interface{}) (int, envelope) {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

// signup creates a user and returns its id and access token.
func (h *harness) signup(email, handle string) (string, string) {
	h.t.Helper()
	code, env := h.do(http.MethodPost, "/api/v1/users/signup", "", map[string]interface{}{
		"email":    email,
		"password": "correct-horse",
		"username": "Test User",
		"handle":   handle,
	})
	require.Equal(h.t, http.StatusCreated, code, env.Message)
	require.Equal(h.t, "Created user successfully.", env.Message)

	var data struct {
		AccessToken string `json:"accessToken"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(h.t, json.Unmarshal(env.Data, &data))
	return data.User.ID, data.AccessToken
}

func TestHealthAndReady(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	code, _ := h.do(http.MethodGet, "/ready", "", nil)
	require.Equal(t, http.StatusOK, code)
}

func TestReadyReportsFailingDependency(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.JWT.Secret = "x"
	r := NewRouter(cfg, Deps{
		Store:    store.NewMemoryStore(store.DefaultRegistry(false)),
		Sessions: sessions.NewService(sessions.NewMemoryRepository()),
		Ready: map[string]Check{
			"mongo": func(context.Context) error { return errors.New("no primary") },
		},
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Contains(t, w.Body.String(), `"mongo":false`)
}

func TestSignupLoginAndEmailCheck(t *testing.T) {
	h := newHarness(t)
	h.signup("ada@example.com", "adalove")

	code, env := h.do(http.MethodPost, "/api/v1/users/login", "", map[string]string{"email": "ada@example.com", "password": "correct-horse"})
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, string(env.Data), "accessToken")

	code, env = h.do(http.MethodPost, "/api/v1/users/login", "", map[string]string{"email": "ada@example.com", "password": "wrong-horse"})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Incorrect login information.", env.Message)

	code, env = h.do(http.MethodPost, "/api/v1/users/login", "", map[string]string{"email": "nobody@example.com", "password": "x"})
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "User not found.", env.Message)

	code, env = h.do(http.MethodGet, "/api/v1/users/email/ada@example.com", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"email":"ada@example.com"}`, string(env.Data))

	code, env = h.do(http.MethodGet, "/api/v1/users/email/free@example.com", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "null", string(env.Data))
}

func TestSignupMissingFields(t *testing.T) {
	h := newHarness(t)
	code, env := h.do(http.MethodPost, "/api/v1/users/signup", "", map[string]string{"email": "ada@example.com", "handle": "ada"})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Missing expected req body params password, username.", env.Message)

	code, env = h.do(http.MethodPost, "/api/v1/users/signup", "", nil)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "No request body available when expected.", env.Message)
	require.Equal(t, 0, h.store.Len("user"))
}

func TestDuplicateEmailIsRejected(t *testing.T) {
	h := newHarness(t)
	h.signup("ada@example.com", "adalove")

	code, env := h.do(http.MethodPost, "/api/v1/users/signup", "", map[string]interface{}{
		"email":    "ada@example.com",
		"password": "correct-horse",
		"username": "Another User",
		"handle":   "another",
	})
	require.Equal(t, http.StatusInternalServerError, code)
	require.Equal(t, "user validation failed: email: Email already in use.", env.Message)
	require.Equal(t, 1, h.store.Len("user"))
}

func TestPostsRequireAuthentication(t *testing.T) {
	h := newHarness(t)
	code, env := h.do(http.MethodPost, "/api/v1/posts", "", map[string]interface{}{"message": "hi"})
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "Unauthorized to perform this action.", env.Message)
}

func TestCreatePostWithOnlyTags(t *testing.T) {
	h := newHarness(t)
	userID, token := h.signup("ada@example.com", "adalove")

	code, env := h.do(http.MethodPost, "/api/v1/posts", token, map[string]interface{}{"tags": []string{"#go", "#tests"}})
	require.Equal(t, http.StatusInternalServerError, code)
	require.Equal(t, "post validation failed: message: No post content., files: No post content., link: No post content.", env.Message)
	require.Equal(t, 0, h.store.Len("post"))

	code, env = h.do(http.MethodPost, "/api/v1/posts", token, map[string]interface{}{"message": "hello", "tags": []string{"#go"}})
	require.Equal(t, http.StatusCreated, code, env.Message)
	require.Equal(t, "New Post created.", env.Message)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	code, env = h.do(http.MethodGet, "/api/v1/posts/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, code)
	var post map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &post))
	require.Equal(t, userID, post["user"])
	require.Equal(t, "hello", post["message"])
	require.Regexp(t, `^\w{3}, \d{2} \w{3} \d{4} \d{2}:\d{2}:\d{2} GMT$`, post["timestamp"])
}

func TestPostByIDPipeline(t *testing.T) {
	h := newHarness(t)
	_, token := h.signup("ada@example.com", "adalove")

	code, env := h.do(http.MethodGet, "/api/v1/posts/not-an-id", token, nil)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Invalid object ID provided.", env.Message)

	missing := primitive.NewObjectID().Hex()
	code, env = h.do(http.MethodGet, "/api/v1/posts/"+missing, token, nil)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "No documents with id "+missing+" in model post.", env.Message)

	code, _ = h.do(http.MethodDelete, "/api/v1/posts/"+missing, token, nil)
	require.Equal(t, http.StatusBadRequest, code)
}

func TestLikeOnMissingPost(t *testing.T) {
	h := newHarness(t)
	userID, token := h.signup("ada@example.com", "adalove")

	body := map[string]string{"postId": primitive.NewObjectID().Hex(), "userId": userID}
	var first envelope
	for i := 0; i < 2; i++ {
		code, env := h.do(http.MethodPost, "/api/v1/likes", token, body)
		require.Equal(t, http.StatusInternalServerError, code)
		require.Equal(t, "like validation failed: postId: Post does not exist.", env.Message)
		if i == 0 {
			first = env
			continue
		}
		require.Equal(t, first, env)
	}
	require.Equal(t, 0, h.store.Len("like"))
}

func TestLikeLifecycle(t *testing.T) {
	h := newHarness(t)
	userID, token := h.signup("ada@example.com", "adalove")

	_, env := h.do(http.MethodPost, "/api/v1/posts", token, map[string]interface{}{"message": "hello"})
	var post struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &post))

	body := map[string]string{"postId": post.ID, "userId": userID}
	code, env := h.do(http.MethodPost, "/api/v1/likes", token, body)
	require.Equal(t, http.StatusCreated, code, env.Message)
	require.Equal(t, "Post liked.", env.Message)

	code, env = h.do(http.MethodPost, "/api/v1/likes", token, body)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "A document exists in model like with values {postId: "+post.ID+", userId: "+userID+"} when none were expected.", env.Message)
	require.Equal(t, 1, h.store.Len("like"))

	code, env = h.do(http.MethodGet, "/api/v1/likes", token, nil)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Missing params, expected at least one of the following req query params postId, userId.", env.Message)

	code, env = h.do(http.MethodGet, "/api/v1/likes?postId="+post.ID, token, nil)
	require.Equal(t, http.StatusOK, code)
	var likes []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &likes))
	require.Len(t, likes, 1)

	code, _ = h.do(http.MethodGet, "/api/v1/likes?userId="+primitive.NewObjectID().Hex(), token, nil)
	require.Equal(t, http.StatusNotFound, code)

	code, _ = h.do(http.MethodDelete, "/api/v1/likes/"+likes[0].ID, token, nil)
	require.Equal(t, http.StatusNoContent, code)
	require.Equal(t, 0, h.store.Len("like"))
}

func TestFollowingValidation(t *testing.T) {
	h := newHarness(t)
	adaID, token := h.signup("ada@example.com", "adalove")
	bobID, _ := h.signup("bob@example.com", "bobby")

	code, env := h.do(http.MethodPost, "/api/v1/followings", token, map[string]string{
		"userFollower":  adaID,
		"userFollowing": primitive.NewObjectID().Hex(),
	})
	require.Equal(t, http.StatusInternalServerError, code)
	require.Equal(t, "following validation failed: userFollowing: Following User does not exist.", env.Message)

	code, env = h.do(http.MethodPost, "/api/v1/followings", token, map[string]string{
		"userFollower":  adaID,
		"userFollowing": bobID,
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	require.Equal(t, "New Following created.", env.Message)

	code, _ = h.do(http.MethodGet, "/api/v1/followings?userFollowing="+bobID, token, nil)
	require.Equal(t, http.StatusOK, code)
}

func TestRefreshAndLogout(t *testing.T) {
	h := newHarness(t)
	h.signup("ada@example.com", "adalove")

	_, env := h.do(http.MethodPost, "/api/v1/users/login", "", map[string]string{"email": "ada@example.com", "password": "correct-horse"})
	var pair struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &pair))

	code, env := h.do(http.MethodPost, "/api/v1/users/refresh", "", map[string]string{"refreshToken": pair.RefreshToken})
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, string(env.Data), "accessToken")

	code, _ = h.do(http.MethodPost, "/api/v1/users/logout", pair.AccessToken, map[string]string{"refreshToken": pair.RefreshToken})
	require.Equal(t, http.StatusOK, code)

	code, _ = h.do(http.MethodPost, "/api/v1/users/refresh", "", map[string]string{"refreshToken": pair.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, code)

	code, _ = h.do(http.MethodPost, "/api/v1/posts", pair.AccessToken, map[string]interface{}{"message": "after logout"})
	require.Equal(t, http.StatusUnauthorized, code)
}
