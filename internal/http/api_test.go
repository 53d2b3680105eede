package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"book-review/internal/auth"
	"book-review/internal/repository/sqlite"
	"book-review/internal/service"
)

type testServer struct {
	router *gin.Engine
	users  service.UserService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	userRepo := sqlite.NewUserRepository(db)
	taskRepo := sqlite.NewTaskRepository(db)
	bookRepo := sqlite.NewBookRepository(db)
	reviewRepo := sqlite.NewReviewRepository(db)
	commentRepo := sqlite.NewCommentRepository(db)

	ctx := context.Background()
	require.NoError(t, userRepo.Init(ctx))
	require.NoError(t, taskRepo.Init(ctx))
	require.NoError(t, bookRepo.Init(ctx))
	require.NoError(t, reviewRepo.Init(ctx))
	require.NoError(t, commentRepo.Init(ctx))

	policy := auth.NewPolicy()
	users := service.NewUserService(userRepo)
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	handler := NewHandler(
		users,
		service.NewTaskService(taskRepo, policy),
		service.NewBookService(bookRepo),
		service.NewReviewService(reviewRepo, bookRepo, policy),
		service.NewCommentService(commentRepo, reviewRepo, policy),
		tokens,
		policy,
		nil,
	)

	router := gin.New()
	handler.RegisterRoutes(router, nil, nil, nil)

	return &testServer{router: router, users: users}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func (ts *testServer) registerAndLogin(t *testing.T, username string) string {
	t.Helper()

	creds := map[string]string{"username": username, "password": "secretpassword"}
	w := ts.do(t, http.MethodPost, "/register", "", creds)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodPost, "/login", "", creds)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	token, _ := decodeBody(t, w)["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterLoginFlow(t *testing.T) {
	ts := newTestServer(t)

	token := ts.registerAndLogin(t, "alice")
	require.NotEmpty(t, token)

	// duplicate username conflicts
	w := ts.do(t, http.MethodPost, "/register", "", map[string]string{"username": "alice", "password": "otherpassword"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// one generic failure for bad username or bad password
	w = ts.do(t, http.MethodPost, "/login", "", map[string]string{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = ts.do(t, http.MethodPost, "/login", "", map[string]string{"username": "nobody", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTasksRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodGet, "/tasks", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTaskCRUDAndIsolation(t *testing.T) {
	ts := newTestServer(t)
	aliceToken := ts.registerAndLogin(t, "alice")
	bobToken := ts.registerAndLogin(t, "bob")

	w := ts.do(t, http.MethodPost, "/tasks", aliceToken, map[string]string{"title": "read chapter 3", "description": "before thursday"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	taskID, _ := decodeBody(t, w)["id"].(string)
	require.NotEmpty(t, taskID)

	// alice sees it, bob does not
	w = ts.do(t, http.MethodGet, "/tasks", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var aliceTasks []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &aliceTasks))
	require.Len(t, aliceTasks, 1)
	assert.Equal(t, "read chapter 3", aliceTasks[0]["title"])

	w = ts.do(t, http.MethodGet, "/tasks", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var bobTasks []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bobTasks))
	assert.Empty(t, bobTasks)

	// bob cannot touch alice's task
	w = ts.do(t, http.MethodPut, "/tasks/"+taskID, bobToken, map[string]any{"completed": true})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = ts.do(t, http.MethodDelete, "/tasks/"+taskID, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// alice completes then deletes it
	w = ts.do(t, http.MethodPut, "/tasks/"+taskID, aliceToken, map[string]any{"completed": true})
	assert.Equal(t, http.StatusOK, w.Code)
	w = ts.do(t, http.MethodDelete, "/tasks/"+taskID, aliceToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = ts.do(t, http.MethodDelete, "/tasks/"+taskID, aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddBookYearCoercion(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerAndLogin(t, "alice")

	book := map[string]any{"title": "Moby-Dick", "author": "Melville", "genre": "novel"}

	book["publication_year"] = "abc"
	w := ts.do(t, http.MethodPost, "/add_book", token, book)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	book["publication_year"] = "2020"
	w = ts.do(t, http.MethodPost, "/add_book", token, book)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// the string year is stored as integer 2020
	w = ts.do(t, http.MethodGet, "/filter_books?publication_year=2020", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var books []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
	require.Len(t, books, 1)
	assert.Equal(t, float64(2020), books[0]["publication_year"])
}

func TestFilterBooksParams(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/filter_books?publication_year=xyz", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodGet, "/filter_books?rating=xyz", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// empty result is a 200 with an empty list
	w = ts.do(t, http.MethodGet, "/filter_books?publication_year=1234", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var books []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
	assert.Empty(t, books)
}

func TestReviewAndCommentFlow(t *testing.T) {
	ts := newTestServer(t)
	aliceToken := ts.registerAndLogin(t, "alice")
	bobToken := ts.registerAndLogin(t, "bob")

	w := ts.do(t, http.MethodPost, "/add_book", aliceToken, map[string]any{
		"title": "Moby-Dick", "author": "Melville", "genre": "novel", "publication_year": 1851,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	bookID, _ := decodeBody(t, w)["id"].(string)

	w = ts.do(t, http.MethodPost, "/post_review/"+bookID, aliceToken, map[string]any{"rating": 5, "text": "a masterpiece"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	reviewID, _ := decodeBody(t, w)["id"].(string)

	// reviewing a missing book 404s
	w = ts.do(t, http.MethodPost, "/post_review/no-such-book", aliceToken, map[string]any{"rating": 5})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// only the owner may edit
	w = ts.do(t, http.MethodPut, "/reviews/"+reviewID, bobToken, map[string]any{"text": "meh"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = ts.do(t, http.MethodPut, "/reviews/"+reviewID, aliceToken, map[string]any{"text": "still great"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodPost, "/post_comment/"+reviewID, bobToken, map[string]any{"text": "agreed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	commentID, _ := decodeBody(t, w)["id"].(string)

	w = ts.do(t, http.MethodPut, "/edit_comment/"+commentID, aliceToken, map[string]any{"text": "hijack"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, http.MethodDelete, "/delete_comment/"+commentID, bobToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = ts.do(t, http.MethodDelete, "/delete_comment/"+commentID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminEndpoints(t *testing.T) {
	ts := newTestServer(t)
	userToken := ts.registerAndLogin(t, "alice")

	require.NoError(t, ts.users.EnsureAdmin(context.Background(), "root", "adminpassword"))
	w := ts.do(t, http.MethodPost, "/login", "", map[string]string{"username": "root", "password": "adminpassword"})
	require.Equal(t, http.StatusOK, w.Code)
	adminToken, _ := decodeBody(t, w)["access_token"].(string)

	for _, path := range []string{"/manage_users", "/moderate_reviews", "/moderate_comments"} {
		w := ts.do(t, http.MethodGet, path, userToken, nil)
		assert.Equalf(t, http.StatusForbidden, w.Code, "non-admin on %s", path)

		w = ts.do(t, http.MethodGet, path, adminToken, nil)
		assert.Equalf(t, http.StatusOK, w.Code, "admin on %s", path)
	}

	w = ts.do(t, http.MethodGet, "/manage_users", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 2)
	for _, u := range users {
		assert.NotContains(t, u, "password")
		assert.NotContains(t, u, "password_hash")
	}
}
