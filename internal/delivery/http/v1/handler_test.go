package v1

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func setupTestRouter() (*gin.Engine, *memoryStore) {
	gin.SetMode(gin.TestMode)

	store := newMemoryStore()
	h := New(zerolog.Nop(), store, store, store, store)

	router := gin.New()
	router.Use(h.HandleRequestLogMiddleware, h.HandleAuthMiddleware)
	RegisterRoutes(router, h)
	return router, store
}

func doRequest(router http.Handler, method, path string, form url.Values, token string) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, _ := http.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode body %q: %v", w.Body.String(), err)
	}
	return v
}

func register(t *testing.T, router http.Handler, login string) string {
	t.Helper()

	w := doRequest(router, http.MethodPost, "/register", url.Values{
		"login":    {login},
		"password": {"password"},
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("failed to register %s: %d %s", login, w.Code, w.Body.String())
	}
	return decodeBody[tokenResponse](t, w).AccessToken
}

func createTask(t *testing.T, router http.Handler, token string, form url.Values) getTaskResponse {
	t.Helper()

	w := doRequest(router, http.MethodPost, "/task", form, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("failed to create task: %d %s", w.Code, w.Body.String())
	}
	return decodeBody[getTaskResponse](t, w)
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, code int, key, message string) {
	t.Helper()

	if w.Code != code {
		t.Errorf("expected status %d, got %d: %s", code, w.Code, w.Body.String())
	}
	body := decodeBody[map[string]string](t, w)
	if body[key] != message {
		t.Errorf("expected %s %q, got %v", key, message, body)
	}
}

var testTaskForm = url.Values{
	"name":        {"Testing task"},
	"description": {"description"},
	"status":      {"new"},
}

func TestRegister(t *testing.T) {
	router, store := setupTestRouter()

	w := doRequest(router, http.MethodPost, "/register", url.Values{"login": {"ivan"}}, "")
	expectError(t, w, http.StatusBadRequest, "error", "incorrect data")

	w = doRequest(router, http.MethodPost, "/register", nil, "")
	expectError(t, w, http.StatusBadRequest, "error", "incorrect data")

	token := register(t, router, "ivan")
	want, _ := store.tokens.Issue("ivan")
	if token != want {
		t.Errorf("expected deterministic token %s, got %s", want, token)
	}

	w = doRequest(router, http.MethodPost, "/register", url.Values{
		"login":    {"ivan"},
		"password": {"other"},
	}, "")
	expectError(t, w, http.StatusBadRequest, "error", "login already exists")
}

func TestGetToken(t *testing.T) {
	router, _ := setupTestRouter()
	registered := register(t, router, "ivan")

	w := doRequest(router, http.MethodPost, "/get-token", nil, "")
	expectError(t, w, http.StatusBadRequest, "auth_error", "incorrect data")

	w = doRequest(router, http.MethodPost, "/get-token", url.Values{
		"login":    {"ivan"},
		"password": {"wrong"},
	}, "")
	expectError(t, w, http.StatusBadRequest, "auth_error", "incorrect data")

	w = doRequest(router, http.MethodPost, "/get-token", url.Values{
		"login":    {"nobody"},
		"password": {"password"},
	}, "")
	expectError(t, w, http.StatusBadRequest, "auth_error", "incorrect data")

	w = doRequest(router, http.MethodPost, "/get-token", url.Values{
		"login":    {"ivan"},
		"password": {"password"},
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if token := decodeBody[tokenResponse](t, w).AccessToken; token != registered {
		t.Errorf("expected the registration token, got %s", token)
	}
}

func TestAuthorization(t *testing.T) {
	router, store := setupTestRouter()

	w := doRequest(router, http.MethodPost, "/task", testTaskForm, "")
	expectError(t, w, http.StatusUnauthorized, "error", "Authorization required")

	w = doRequest(router, http.MethodGet, "/task", nil, "not-a-token")
	expectError(t, w, http.StatusUnauthorized, "error", "invalid authorization token")

	req, _ := http.NewRequest(http.MethodGet, "/task", nil)
	req.Header.Set("Authorization", "Token abc")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	expectError(t, w, http.StatusUnauthorized, "error", "invalid authorization token")

	ghost, _ := store.tokens.Issue("ghost")
	w = doRequest(router, http.MethodGet, "/task", nil, ghost)
	expectError(t, w, http.StatusUnauthorized, "error", "Authorization required")

	token := register(t, router, "ivan")
	task := createTask(t, router, token, testTaskForm)
	if task.Name != "Testing task" || task.Status != "new" {
		t.Errorf("unexpected task: %+v", task)
	}
	if task.CompletionAt != nil {
		t.Errorf("expected no completion date, got %s", *task.CompletionAt)
	}
}

func TestRequestIDHeader(t *testing.T) {
	router, _ := setupTestRouter()

	w := doRequest(router, http.MethodGet, "/task", nil, "")
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header on the response")
	}

	req, _ := http.NewRequest(http.MethodGet, "/task", nil)
	req.Header.Set("X-Request-ID", "0b8a3e52-5a43-4d9b-9d7e-2f0f3c7f1a10")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "0b8a3e52-5a43-4d9b-9d7e-2f0f3c7f1a10" {
		t.Errorf("expected the incoming request id to be kept, got %s", got)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	router, _ := setupTestRouter()
	token := register(t, router, "ivan")

	w := doRequest(router, http.MethodPost, "/task", url.Values{"name": {"No description"}}, token)
	expectError(t, w, http.StatusBadRequest, "error", "incorrect data")

	w = doRequest(router, http.MethodPost, "/task", url.Values{
		"name":        {"Task"},
		"description": {"description"},
		"status":      {"done"},
	}, token)
	expectError(t, w, http.StatusBadRequest, "error",
		"incorrect status. available values(new, planned, in_work, completed)")

	w = doRequest(router, http.MethodPost, "/task", url.Values{
		"name":          {"Task"},
		"description":   {"description"},
		"status":        {"new"},
		"completion_at": {"2020-11-11"},
	}, token)
	expectError(t, w, http.StatusBadRequest, "error", "incorrect completion_at format (DD-MM-YYYY)")

	task := createTask(t, router, token, url.Values{
		"name":          {"Task"},
		"description":   {"description"},
		"status":        {"planned"},
		"completion_at": {"11-11-2020"},
	})
	if task.CompletionAt == nil || *task.CompletionAt != "11-11-2020" {
		t.Errorf("expected completion date 11-11-2020, got %v", task.CompletionAt)
	}
}

func TestGetTasksFilters(t *testing.T) {
	router, _ := setupTestRouter()
	token := register(t, router, "ivan")

	w := doRequest(router, http.MethodGet, "/task", nil, token)
	if w.Code != http.StatusOK || w.Body.String() != "[]" {
		t.Errorf("expected an empty list, got %d %s", w.Code, w.Body.String())
	}

	createTask(t, router, token, url.Values{
		"name":          {"First"},
		"description":   {"d"},
		"status":        {"planned"},
		"completion_at": {"01-11-2020"},
	})
	createTask(t, router, token, url.Values{
		"name":          {"Second"},
		"description":   {"d"},
		"status":        {"planned"},
		"completion_at": {"20-12-2020"},
	})
	createTask(t, router, token, url.Values{
		"name":        {"Third"},
		"description": {"d"},
		"status":      {"new"},
	})

	w = doRequest(router, http.MethodGet, "/task", nil, token)
	if tasks := decodeBody[[]getTaskResponse](t, w); len(tasks) != 3 || tasks[0].Name != "First" {
		t.Errorf("expected three tasks in creation order, got %+v", tasks)
	}

	w = doRequest(router, http.MethodGet, "/task?status=planned&completion_at=01-12-2020", nil, token)
	tasks := decodeBody[[]getTaskResponse](t, w)
	if len(tasks) != 1 || tasks[0].Name != "First" {
		t.Errorf("expected only the first task, got %+v", tasks)
	}

	w = doRequest(router, http.MethodGet, "/task?status=unknown", nil, token)
	expectError(t, w, http.StatusBadRequest, "error", "incorrect status field")

	w = doRequest(router, http.MethodGet, "/task?completion_at=tomorrow", nil, token)
	expectError(t, w, http.StatusBadRequest, "error", "incorrect completion_at format (DD-MM-YYYY)")
}

func TestUpdateTaskWritesLogs(t *testing.T) {
	router, _ := setupTestRouter()
	token := register(t, router, "ivan")
	task := createTask(t, router, token, testTaskForm)
	path := "/task/" + itoa(task.ID)

	w := doRequest(router, http.MethodPut, path, url.Values{
		"name":          {"Testing task"},
		"description":   {"Changed description"},
		"completion_at": {"11-11-2020"},
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	updated := decodeBody[getTaskResponse](t, w)
	if updated.Description != "Changed description" || updated.Status != "new" {
		t.Errorf("unexpected task: %+v", updated)
	}

	w = doRequest(router, http.MethodGet, path+"/log", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	logs := decodeBody[[]getTaskLogResponse](t, w)
	if len(logs) != 2 {
		t.Fatalf("expected 2 log entries, got %+v", logs)
	}
	if !strings.Contains(logs[0].Log, "description") || !strings.Contains(logs[1].Log, "11-11-2020") {
		t.Errorf("unexpected log entries: %+v", logs)
	}
	if len(logs[0].Date) != len("2006-01-02 15:04:05") {
		t.Errorf("unexpected log date format: %s", logs[0].Date)
	}

	w = doRequest(router, http.MethodPut, path, url.Values{"status": {"done"}}, token)
	expectError(t, w, http.StatusBadRequest, "error",
		"incorrect status. available values(new, planned, in_work, completed)")

	w = doRequest(router, http.MethodPut, path, url.Values{"completion_at": {"11.11.2020"}}, token)
	expectError(t, w, http.StatusBadRequest, "error", "incorrect completion_at format (DD-MM-YYYY)")
}

func TestSingleTaskAccess(t *testing.T) {
	router, _ := setupTestRouter()
	owner := register(t, router, "ivan")
	stranger := register(t, router, "petr")
	task := createTask(t, router, owner, testTaskForm)
	path := "/task/" + itoa(task.ID)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		w := doRequest(router, method, path, url.Values{"name": {"Hijacked"}}, stranger)
		expectError(t, w, http.StatusForbidden, "error", "Access is denied")
	}
	w := doRequest(router, http.MethodGet, path+"/log", nil, stranger)
	expectError(t, w, http.StatusForbidden, "error", "Access is denied")

	w = doRequest(router, http.MethodGet, "/task/abc", nil, owner)
	expectError(t, w, http.StatusBadRequest, "error", "incorrect task id")

	w = doRequest(router, http.MethodGet, "/task/9999", nil, owner)
	expectError(t, w, http.StatusNotFound, "error", "task not found")

	w = doRequest(router, http.MethodGet, path, nil, owner)
	if got := decodeBody[getTaskResponse](t, w); w.Code != http.StatusOK || got.Name != "Testing task" {
		t.Errorf("expected the owner to see the task, got %d %+v", w.Code, got)
	}
}

func TestDeleteTask(t *testing.T) {
	router, _ := setupTestRouter()
	token := register(t, router, "ivan")
	task := createTask(t, router, token, testTaskForm)
	path := "/task/" + itoa(task.ID)

	w := doRequest(router, http.MethodDelete, path, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if body := decodeBody[map[string]string](t, w); body["status"] != "deleted" {
		t.Errorf("unexpected body: %v", body)
	}

	w = doRequest(router, http.MethodGet, path, nil, token)
	expectError(t, w, http.StatusNotFound, "error", "task not found")
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
