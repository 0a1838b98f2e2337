// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/jeranaias/chatwithdata-tui/internal/model"
)

// Route names used by Calls and FailNext.
const (
	RouteLogin          = "login"
	RouteSignup         = "signup"
	RouteResetPassword  = "reset-password"
	RouteVerifyReset    = "verify-reset-token"
	RouteUpdatePassword = "update-password"
	RouteDeleteAccount  = "delete-account"
	RouteHistory        = "history"
	RouteChat           = "chat"
	RouteUpload         = "upload"
	RouteRename         = "rename"
	RouteDelete         = "delete"
	RouteDeleteAll      = "delete-all"
	RouteArchive        = "archive"
	RouteArchiveAll     = "archive-all"
)

type user struct {
	model.User
	hash []byte
}

type chat struct {
	owner    string
	seq      int
	summary  model.ChatSummary
	messages []model.Message
	archived bool
}

type failure struct {
	status  int
	message string
}

// Server is a fake backend. Its zero value is not usable; call New.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	secret   []byte
	users    map[string]*user // by email
	chats    map[string]*chat
	seq      int
	calls    map[string]int
	failNext map[string]failure
	resets   []string
	resetTok map[string]string // reset token -> email
	now      func() time.Time
	log      *zap.Logger
}

// New starts a fake backend that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		secret:   []byte("apitest-" + uuid.NewString()),
		users:    make(map[string]*user),
		chats:    make(map[string]*chat),
		calls:    make(map[string]int),
		failNext: make(map[string]failure),
		resetTok: make(map[string]string),
		now:      time.Now,
		log:      zaptest.NewLogger(t).Named("apitest"),
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

// BaseURL returns the API root, equivalent to http://host/api.
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.Use(recoveryMiddleware(s.log), loggingMiddleware(s.log))
	a := r.PathPrefix("/api").Subrouter()

	a.HandleFunc("/auth/login", s.route(RouteLogin, false, s.handleLogin)).Methods(http.MethodPost)
	a.HandleFunc("/auth/signup", s.route(RouteSignup, false, s.handleSignup)).Methods(http.MethodPost)
	a.HandleFunc("/auth/reset-password", s.route(RouteResetPassword, false, s.handleReset)).Methods(http.MethodPost)
	a.HandleFunc("/auth/verify-reset-token", s.route(RouteVerifyReset, false, s.handleVerifyReset)).Methods(http.MethodPost)
	a.HandleFunc("/auth/update-password", s.route(RouteUpdatePassword, false, s.handleUpdatePassword)).Methods(http.MethodPost)
	a.HandleFunc("/auth/delete-account", s.route(RouteDeleteAccount, true, s.handleDeleteAccount)).Methods(http.MethodPost)

	a.HandleFunc("/chat/history", s.route(RouteHistory, true, s.handleHistory)).Methods(http.MethodGet)
	a.HandleFunc("/chat/upload", s.route(RouteUpload, true, s.handleUpload)).Methods(http.MethodPost)
	a.HandleFunc("/chat/delete-all", s.route(RouteDeleteAll, true, s.handleDeleteAll)).Methods(http.MethodPost)
	a.HandleFunc("/chat/archive-all", s.route(RouteArchiveAll, true, s.handleArchiveAll)).Methods(http.MethodPost)
	a.HandleFunc("/chat/{id}", s.route(RouteChat, true, s.handleChat)).Methods(http.MethodGet)
	a.HandleFunc("/chat/{id}", s.route(RouteDelete, true, s.handleDelete)).Methods(http.MethodDelete)
	a.HandleFunc("/chat/{id}/title", s.route(RouteRename, true, s.handleRename)).Methods(http.MethodPut)
	a.HandleFunc("/chat/{id}/archive", s.route(RouteArchive, true, s.handleArchive)).Methods(http.MethodPost)

	return r
}

type authedHandler func(w http.ResponseWriter, r *http.Request, u *user)

// route counts the call, applies any forced failure, and authenticates the
// bearer token when authRequired is set.
func (s *Server) route(name string, authRequired bool, h authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[name]++
		f, failing := s.failNext[name]
		if failing {
			delete(s.failNext, name)
		}
		s.mu.Unlock()

		if failing {
			writeError(w, f.status, f.message)
			return
		}

		var u *user
		if authRequired {
			var err error
			u, err = s.authenticate(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}
		}
		h(w, r, u)
	}
}

// =============================================================================
// FIXTURES
// =============================================================================

// AddUser registers an account and returns its record.
func (s *Server) AddUser(name, email, password string) model.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	u := &user{
		User: model.User{ID: uuid.NewString(), Name: name, Email: strings.ToLower(email)},
		hash: hash,
	}
	s.mu.Lock()
	s.users[u.Email] = u
	s.mu.Unlock()
	return u.User
}

// TokenFor issues a valid token for a registered email.
func (s *Server) TokenFor(email string) string {
	s.mu.Lock()
	u, ok := s.users[strings.ToLower(email)]
	s.mu.Unlock()
	if !ok {
		panic("apitest: unknown user " + email)
	}
	return s.issueToken(u.User)
}

// AddChat creates a chat owned by email and returns its id.
func (s *Server) AddChat(email, title string, messages ...model.Message) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[strings.ToLower(email)]
	if !ok {
		panic("apitest: unknown user " + email)
	}
	return s.addChatLocked(u.ID, title, messages)
}

func (s *Server) addChatLocked(ownerID, title string, messages []model.Message) string {
	s.seq++
	id := uuid.NewString()
	ts := model.Timestamp{Time: s.now().UTC().Add(time.Duration(s.seq) * time.Millisecond)}
	for i := range messages {
		if messages[i].ID == "" {
			messages[i].ID = uuid.NewString()
		}
		if messages[i].Timestamp.IsZero() {
			messages[i].Timestamp = ts
		}
	}
	last := ""
	if len(messages) > 0 {
		last = messages[len(messages)-1].Content
	}
	s.chats[id] = &chat{
		owner:    ownerID,
		seq:      s.seq,
		summary:  model.ChatSummary{ID: id, Title: title, LastMessage: last, Timestamp: ts},
		messages: messages,
	}
	return id
}

// FailNext makes the next call of route respond with status and message.
func (s *Server) FailNext(route string, status int, message string) {
	s.mu.Lock()
	s.failNext[route] = failure{status: status, message: message}
	s.mu.Unlock()
}

// Calls returns how many times route was requested.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// TotalCalls returns the number of requests across all routes.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// ChatExists reports whether the chat exists (archived or not).
func (s *Server) ChatExists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.chats[id]
	return ok
}

// Archived reports whether the chat exists and is archived.
func (s *Server) Archived(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chats[id]
	return ok && c.archived
}

// Title returns the chat's current title.
func (s *Server) Title(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.chats[id]; ok {
		return c.summary.Title
	}
	return ""
}

// UserExists reports whether an account is registered for email.
func (s *Server) UserExists(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[strings.ToLower(email)]
	return ok
}

// Resets returns the emails that requested password resets.
func (s *Server) Resets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.resets...)
}

// ResetToken returns the unused reset token issued for email, or "" when
// there is none. It stands in for the reset email.
func (s *Server) ResetToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(email)
	for tok, owner := range s.resetTok {
		if owner == email {
			return tok
		}
	}
	return ""
}

// =============================================================================
// TOKENS
// =============================================================================

func (s *Server) issueToken(u model.User) string {
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"name":  u.Name,
		"email": u.Email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

func (s *Server) authenticate(r *http.Request) (*user, error) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		return nil, fmt.Errorf("missing bearer token")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	email, _ := token.Claims.(jwt.MapClaims)["email"].(string)

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return nil, fmt.Errorf("unknown user")
	}
	return u, nil
}

// =============================================================================
// AUTH HANDLERS
// =============================================================================

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request, _ *user) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}

	s.mu.Lock()
	u, ok := s.users[strings.ToLower(req.Email)]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(u.hash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	writeJSON(w, http.StatusOK, model.AuthResponse{Token: s.issueToken(u.User), User: u.User})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request, _ *user) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if s.UserExists(req.Email) {
		writeError(w, http.StatusConflict, "Email already registered")
		return
	}

	u := s.AddUser(req.Name, req.Email, req.Password)
	writeJSON(w, http.StatusCreated, model.AuthResponse{Token: s.issueToken(u), User: u})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, _ *user) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusUnprocessableEntity, "email is required")
		return
	}
	email := strings.ToLower(req.Email)
	s.mu.Lock()
	s.resets = append(s.resets, email)
	// Unknown emails get the same reply but no token.
	if _, ok := s.users[email]; ok {
		for tok, owner := range s.resetTok {
			if owner == email {
				delete(s.resetTok, tok)
			}
		}
		s.resetTok[uuid.NewString()] = email
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Reset instructions sent"})
}

func (s *Server) handleVerifyReset(w http.ResponseWriter, r *http.Request, _ *user) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		writeError(w, http.StatusUnprocessableEntity, "token is required")
		return
	}
	s.mu.Lock()
	_, ok := s.resetTok[req.Token]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request, _ *user) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" || req.NewPassword == "" {
		writeError(w, http.StatusUnprocessableEntity, "token and newPassword are required")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.MinCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.mu.Lock()
	email, ok := s.resetTok[req.Token]
	u, known := s.users[email]
	if ok && known {
		delete(s.resetTok, req.Token)
		u.hash = hash
	}
	s.mu.Unlock()

	if !ok || !known {
		writeError(w, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, _ *http.Request, u *user) {
	s.mu.Lock()
	delete(s.users, u.Email)
	for id, c := range s.chats {
		if c.owner == u.ID {
			delete(s.chats, id)
		}
	}
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// CHAT HANDLERS
// =============================================================================

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request, u *user) {
	s.mu.Lock()
	var owned []*chat
	for _, c := range s.chats {
		if c.owner == u.ID && !c.archived {
			owned = append(owned, c)
		}
	}
	s.mu.Unlock()

	sort.Slice(owned, func(i, j int) bool { return owned[i].seq > owned[j].seq })

	out := make([]model.ChatSummary, 0, len(owned))
	for _, c := range owned {
		out = append(out, c.summary)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request, u *user) {
	c, ok := s.ownedChat(mux.Vars(r)["id"], u)
	if !ok {
		writeError(w, http.StatusNotFound, "Chat not found")
		return
	}
	s.mu.Lock()
	detail := model.Chat{ChatSummary: c.summary, Messages: append([]model.Message(nil), c.messages...)}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request, u *user) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "multipart body required")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field required")
		return
	}
	file.Close()

	name := filepath.Base(header.Filename)
	s.mu.Lock()
	id := s.addChatLocked(u.ID, name, []model.Message{{
		Content: fmt.Sprintf("I have read **%s**. Ask me anything about it.", name),
	}})
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "File uploaded successfully",
		"chatId":  id,
	})
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request, u *user) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusUnprocessableEntity, "title is required")
		return
	}
	c, ok := s.ownedChat(mux.Vars(r)["id"], u)
	if !ok {
		writeError(w, http.StatusNotFound, "Chat not found")
		return
	}
	s.mu.Lock()
	c.summary.Title = req.Title
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Title updated"})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request, u *user) {
	id := mux.Vars(r)["id"]
	if _, ok := s.ownedChat(id, u); !ok {
		writeError(w, http.StatusNotFound, "Chat not found")
		return
	}
	s.mu.Lock()
	delete(s.chats, id)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request, u *user) {
	c, ok := s.ownedChat(mux.Vars(r)["id"], u)
	if !ok {
		writeError(w, http.StatusNotFound, "Chat not found")
		return
	}
	s.mu.Lock()
	c.archived = true
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Chat archived"})
}

func (s *Server) handleDeleteAll(w http.ResponseWriter, _ *http.Request, u *user) {
	s.mu.Lock()
	for id, c := range s.chats {
		if c.owner == u.ID {
			delete(s.chats, id)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "All chats deleted"})
}

func (s *Server) handleArchiveAll(w http.ResponseWriter, _ *http.Request, u *user) {
	s.mu.Lock()
	for _, c := range s.chats {
		if c.owner == u.ID {
			c.archived = true
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "All chats archived"})
}

func (s *Server) ownedChat(id string, u *user) (*chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chats[id]
	if !ok || c.owner != u.ID {
		return nil, false
	}
	return c, true
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
