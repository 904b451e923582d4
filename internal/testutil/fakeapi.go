package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/runoshun/taskboard/internal/domain"
)

// RecordedRequest is one request seen by FakeAPI.
type RecordedRequest struct {
	Header http.Header
	Method string
	Path   string
	Body   string
}

type failure struct {
	detail string
	status int
}

// FakeAPI is an in-process task API server for HTTP-level tests.
// Routes mirror the real backend. Failures are injected per route via Fail.
// Fields are ordered to minimize memory padding.
type FakeAPI struct {
	Server      *httptest.Server
	tasks       []*domain.Task
	attachments map[int][]domain.Attachment
	comments    map[int][]domain.Comment
	files       map[int][]byte
	passwords   map[string]string
	tokens      map[string]domain.User
	failures    map[string]failure
	requests    []RecordedRequest
	nextID      int
	mu          sync.Mutex
}

// NewFakeAPI starts a FakeAPI seeded with tasks. It is closed on test cleanup.
func NewFakeAPI(t testing.TB, tasks ...*domain.Task) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		tasks:       domain.CloneTasks(tasks),
		attachments: make(map[int][]domain.Attachment),
		comments:    make(map[int][]domain.Comment),
		files:       make(map[int][]byte),
		passwords:   make(map[string]string),
		tokens:      make(map[string]domain.User),
		failures:    make(map[string]failure),
		nextID:      100,
	}
	for _, task := range tasks {
		if task.ID >= f.nextID {
			f.nextID = task.ID + 1
		}
	}

	r := mux.NewRouter()
	r.Use(f.record)
	r.HandleFunc("/auth/login", f.login).Methods(http.MethodPost).Name("login")
	r.HandleFunc("/auth/me", f.me).Methods(http.MethodGet).Name("me")
	r.HandleFunc("/tasks", f.listTasks).Methods(http.MethodGet).Name("list")
	r.HandleFunc("/tasks", f.createTask).Methods(http.MethodPost).Name("create")
	r.HandleFunc("/tasks/{id:[0-9]+}", f.getTask).Methods(http.MethodGet).Name("get")
	r.HandleFunc("/tasks/{id:[0-9]+}", f.patchTask).Methods(http.MethodPatch).Name("patch")
	r.HandleFunc("/tasks/{id:[0-9]+}", f.deleteTask).Methods(http.MethodDelete).Name("delete")
	r.HandleFunc("/tasks/{id:[0-9]+}/attachments", f.listAttachments).Methods(http.MethodGet).Name("attachments")
	r.HandleFunc("/tasks/{id:[0-9]+}/attachments", f.upload).Methods(http.MethodPost).Name("upload")
	r.HandleFunc("/attachments/{id:[0-9]+}", f.download).Methods(http.MethodGet).Name("download")
	r.HandleFunc("/tasks/{id:[0-9]+}/comments", f.listComments).Methods(http.MethodGet).Name("comments")
	r.HandleFunc("/tasks/{id:[0-9]+}/comments", f.addComment).Methods(http.MethodPost).Name("comment")

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the server base URL.
func (f *FakeAPI) URL() string {
	return f.Server.URL
}

// AddUser registers credentials accepted by /auth/login.
func (f *FakeAPI) AddUser(username, password, role string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.passwords[username] = password + "\x00" + role
}

// IssueToken makes token resolve to user on /auth/me.
func (f *FakeAPI) IssueToken(token string, user domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = user
}

// Fail makes the named route answer status with {"detail": detail}.
// Route names: login, me, list, create, get, patch, delete, attachments,
// upload, download, comments, comment.
func (f *FakeAPI) Fail(route string, status int, detail string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[route] = failure{status: status, detail: detail}
}

// Requests returns the requests seen so far.
func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.requests)
}

// LastRequest returns the most recent request.
func (f *FakeAPI) LastRequest() RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return RecordedRequest{}
	}
	return f.requests[len(f.requests)-1]
}

// Tasks returns the server-side collection.
func (f *FakeAPI) Tasks() []*domain.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return domain.CloneTasks(f.tasks)
}

// Comments returns the comments stored for a task.
func (f *FakeAPI) Comments(taskID int) []domain.Comment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.comments[taskID])
}

// File returns the content stored for an attachment.
func (f *FakeAPI) File(attachmentID int) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.files[attachmentID]
}

// AddAttachment stores an attachment for a task.
func (f *FakeAPI) AddAttachment(taskID int, filename string, content []byte) domain.Attachment {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := domain.Attachment{ID: f.nextID, Filename: filename}
	f.nextID++
	f.attachments[taskID] = append(f.attachments[taskID], a)
	f.files[a.ID] = content
	return a
}

// record captures the request and answers injected failures.
func (f *FakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil && !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(strings.NewReader(string(body)))
		}

		f.mu.Lock()
		f.requests = append(f.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   string(body),
		})
		var fail failure
		if route := mux.CurrentRoute(r); route != nil {
			fail = f.failures[route.GetName()]
		}
		f.mu.Unlock()

		if fail.status != 0 {
			if fail.detail == "" {
				w.WriteHeader(fail.status)
				return
			}
			writeJSON(w, fail.status, map[string]string{"detail": fail.detail})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "password" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid form"})
		return
	}
	username, password := r.PostForm.Get("username"), r.PostForm.Get("password")

	f.mu.Lock()
	stored, ok := f.passwords[username]
	pw, role, _ := strings.Cut(stored, "\x00")
	var token string
	if ok && pw == password {
		token = "token-" + username
		f.tokens[token] = domain.User{Username: username, Role: role}
	}
	f.mu.Unlock()

	if token == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access_token": token, "token_type": "bearer"})
}

func (f *FakeAPI) me(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	f.mu.Lock()
	user, ok := f.tokens[token]
	f.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (f *FakeAPI) listTasks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, f.Tasks())
}

func (f *FakeAPI) createTask(w http.ResponseWriter, r *http.Request) {
	var task domain.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}
	f.mu.Lock()
	task.ID = f.nextID
	f.nextID++
	f.tasks = append(f.tasks, task.Clone())
	f.mu.Unlock()
	writeJSON(w, http.StatusCreated, task)
}

func (f *FakeAPI) getTask(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	f.mu.Lock()
	task := f.findLocked(id)
	f.mu.Unlock()
	if task == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Task not found"})
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// patchTask overlays the JSON body onto the stored record.
func (f *FakeAPI) patchTask(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	task := f.findLocked(id)
	if task == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Task not found"})
		return
	}
	var merged map[string]json.RawMessage
	raw, _ := json.Marshal(task)
	_ = json.Unmarshal(raw, &merged)
	for k, v := range patch {
		merged[k] = v
	}
	raw, _ = json.Marshal(merged)
	var updated domain.Task
	if err := json.Unmarshal(raw, &updated); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}
	updated.ID = id
	*task = updated
	writeJSON(w, http.StatusOK, updated)
}

func (f *FakeAPI) deleteTask(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	f.mu.Lock()
	i := slices.IndexFunc(f.tasks, func(t *domain.Task) bool { return t.ID == id })
	if i >= 0 {
		f.tasks = slices.Delete(f.tasks, i, i+1)
	}
	f.mu.Unlock()
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Task not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}

func (f *FakeAPI) listAttachments(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	f.mu.Lock()
	list := slices.Clone(f.attachments[id])
	f.mu.Unlock()
	if list == nil {
		list = []domain.Attachment{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (f *FakeAPI) upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "file required"})
		return
	}
	defer func() { _ = file.Close() }()
	content, _ := io.ReadAll(file)
	writeJSON(w, http.StatusOK, f.AddAttachment(pathID(r), header.Filename, content))
}

func (f *FakeAPI) download(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	f.mu.Lock()
	content, ok := f.files[id]
	name := ""
	for _, list := range f.attachments {
		for _, a := range list {
			if a.ID == id {
				name = a.Filename
			}
		}
	}
	f.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Attachment not found"})
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(content)
}

func (f *FakeAPI) listComments(w http.ResponseWriter, r *http.Request) {
	list := f.Comments(pathID(r))
	if list == nil {
		list = []domain.Comment{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (f *FakeAPI) addComment(w http.ResponseWriter, r *http.Request) {
	var body domain.NewCommentBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}
	taskID := pathID(r)
	f.mu.Lock()
	c := domain.Comment{ID: f.nextID, Author: body.Author, Text: body.Text}
	f.nextID++
	f.comments[taskID] = append(f.comments[taskID], c)
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, c)
}

func (f *FakeAPI) findLocked(id int) *domain.Task {
	for _, t := range f.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
