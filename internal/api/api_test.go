package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mkarsten/tablehost/internal/api"
	"github.com/mkarsten/tablehost/internal/factory"
)

type APITestSuite struct {
	suite.Suite

	app    *factory.TestApp
	router http.Handler
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func (s *APITestSuite) SetupTest() {
	s.app = factory.NewTestApp()
	s.router = api.NewRouter(api.RouterConfig{
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		UserService: s.app.UserService,
		GameService: s.app.GameService,
	})
}

// request performs a JSON request against the router
func (s *APITestSuite) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reqBody = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *APITestSuite) decode(rec *httptest.ResponseRecorder, out any) {
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(out))
}

func (s *APITestSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	s.decode(rec, &body)
	return body.Error.Code
}

// registerUser registers a user with a queued confirmation token
func (s *APITestSuite) registerUser(username, token string) {
	s.app.MockRandom.QueueString(token)
	rec := s.request(http.MethodPost, "/api/v1/users/register", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	}, "")
	s.Require().Equal(http.StatusCreated, rec.Code)
}

// confirmedUser registers and confirms a user, returning a session token
func (s *APITestSuite) confirmedUser(username, token string) string {
	s.registerUser(username, token)

	rec := s.request(http.MethodGet, "/api/v1/users/confirm?token="+token, nil, "")
	s.Require().Equal(http.StatusOK, rec.Code)

	return s.login(username, "password123")
}

func (s *APITestSuite) login(username, password string) string {
	rec := s.request(http.MethodPost, "/api/v1/users/login", map[string]string{
		"username": username,
		"password": password,
	}, "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var body struct {
		SessionToken string `json:"session_token"`
	}
	s.decode(rec, &body)
	return body.SessionToken
}

func (s *APITestSuite) TestHealth() {
	rec := s.request(http.MethodGet, "/api/v1/health", nil, "")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"ok"}`, rec.Body.String())
}

func (s *APITestSuite) TestRegister() {
	s.registerUser("alice", "token-alice")

	sent := s.app.MockMailer.Sent()
	s.Require().Len(sent, 1)
	s.Equal("alice@example.com", sent[0].To)
}

func (s *APITestSuite) TestRegisterRejectsBadInput() {
	rec := s.request(http.MethodPost, "/api/v1/users/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
	}, "")
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("INVALID_REQUEST", s.errorCode(rec))

	rec = s.request(http.MethodPost, "/api/v1/users/register", map[string]string{
		"username": "alice",
		"email":    "not-an-address",
		"password": "password123",
	}, "")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APITestSuite) TestRegisterDuplicateUsername() {
	s.registerUser("alice", "token-alice")

	s.app.MockRandom.QueueString("token-dup")
	rec := s.request(http.MethodPost, "/api/v1/users/register", map[string]string{
		"username": "alice",
		"email":    "other@example.com",
		"password": "password123",
	}, "")
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("USERNAME_TAKEN", s.errorCode(rec))
}

func (s *APITestSuite) TestConfirm() {
	s.registerUser("alice", "token-alice")

	rec := s.request(http.MethodGet, "/api/v1/users/confirm?token=token-alice", nil, "")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"confirmed":true}`, rec.Body.String())

	// A consumed token reports false rather than an error
	rec = s.request(http.MethodGet, "/api/v1/users/confirm?token=token-alice", nil, "")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"confirmed":false}`, rec.Body.String())
}

func (s *APITestSuite) TestConfirmExpiredToken() {
	s.registerUser("alice", "token-alice")

	s.app.MockClock.Advance(24*time.Hour + time.Second)
	rec := s.request(http.MethodGet, "/api/v1/users/confirm?token=token-alice", nil, "")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"confirmed":false}`, rec.Body.String())
}

func (s *APITestSuite) TestLoginRequiresConfirmedAccount() {
	s.registerUser("alice", "token-alice")

	rec := s.request(http.MethodPost, "/api/v1/users/login", map[string]string{
		"username": "alice",
		"password": "password123",
	}, "")
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal("ACCOUNT_DISABLED", s.errorCode(rec))
}

func (s *APITestSuite) TestLoginBadCredentials() {
	s.confirmedUser("alice", "token-alice")

	rec := s.request(http.MethodPost, "/api/v1/users/login", map[string]string{
		"username": "alice",
		"password": "wrongpassword",
	}, "")
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("INVALID_CREDENTIALS", s.errorCode(rec))
}

func (s *APITestSuite) TestGetMe() {
	token := s.confirmedUser("alice", "token-alice")

	rec := s.request(http.MethodGet, "/api/v1/users/me", nil, token)
	s.Equal(http.StatusOK, rec.Code)

	var body struct {
		Username string `json:"username"`
		Enabled  bool   `json:"enabled"`
	}
	s.decode(rec, &body)
	s.Equal("alice", body.Username)
	s.True(body.Enabled)

	rec = s.request(http.MethodGet, "/api/v1/users/me", nil, "")
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *APITestSuite) TestLogout() {
	token := s.confirmedUser("alice", "token-alice")

	rec := s.request(http.MethodPost, "/api/v1/users/logout", nil, token)
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.request(http.MethodGet, "/api/v1/users/me", nil, token)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

// adminToken bootstraps the initial administrator and logs in as it
func (s *APITestSuite) adminToken() string {
	s.app.MockRandom.QueueString("bootstrap-password", "token-initial")
	s.Require().NoError(s.app.UserService.InitializeUsers(context.Background()))
	return s.login("initial", "bootstrap-password")
}

func (s *APITestSuite) TestPromoteRequiresAdministrator() {
	aliceToken := s.confirmedUser("alice", "token-alice")
	s.confirmedUser("bob", "token-bob")

	rec := s.request(http.MethodPost, "/api/v1/users/bob/promote", nil, aliceToken)
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal("FORBIDDEN", s.errorCode(rec))
}

func (s *APITestSuite) TestPromote() {
	admin := s.adminToken()
	bobToken := s.confirmedUser("bob", "token-bob")

	rec := s.request(http.MethodPost, "/api/v1/users/bob/promote", nil, admin)
	s.Equal(http.StatusNoContent, rec.Code)

	// Bob's existing session does not pick up the new privilege; a fresh
	// login does
	bobToken = s.login("bob", "password123")
	rec = s.request(http.MethodGet, "/api/v1/users/me", nil, bobToken)
	s.Equal(http.StatusOK, rec.Code)

	var body struct {
		Administrator bool `json:"administrator"`
	}
	s.decode(rec, &body)
	s.True(body.Administrator)

	rec = s.request(http.MethodPost, "/api/v1/users/nobody/promote", nil, admin)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("USER_NOT_FOUND", s.errorCode(rec))
}

// createGame creates a game as the given session's user
func (s *APITestSuite) createGame(token, name string) int64 {
	rec := s.request(http.MethodPost, "/api/v1/games", map[string]any{
		"name":            name,
		"description":     "a weekly table",
		"maximum_players": 6,
	}, token)
	s.Require().Equal(http.StatusCreated, rec.Code)

	var body struct {
		GameID int64 `json:"game_id"`
	}
	s.decode(rec, &body)
	return body.GameID
}

func (s *APITestSuite) TestGameLifecycle() {
	token := s.confirmedUser("gamemaster", "token-master")
	id := s.createGame(token, "Curse of Strahd")

	path := "/api/v1/games/" + itoa(id)

	rec := s.request(http.MethodGet, path, nil, token)
	s.Equal(http.StatusOK, rec.Code)

	var g struct {
		Name  string `json:"name"`
		Phase string `json:"phase"`
	}
	s.decode(rec, &g)
	s.Equal("Curse of Strahd", g.Name)
	s.Equal("recruiting", g.Phase)

	// Rename while recruiting
	rec = s.request(http.MethodPatch, path, map[string]string{"name": "Strahd Redux"}, token)
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.request(http.MethodGet, "/api/v1/games/recruiting?name=Strahd+Redux", nil, token)
	s.Equal(http.StatusOK, rec.Code)

	// Start, then renaming conflicts
	rec = s.request(http.MethodPost, path+"/start", nil, token)
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.request(http.MethodPatch, path, map[string]string{"name": "Too Late"}, token)
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("GAME_NOT_RECRUITING", s.errorCode(rec))

	// Archive removes the game from the live set
	rec = s.request(http.MethodPost, path+"/archive", nil, token)
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.request(http.MethodGet, path, nil, token)
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.request(http.MethodGet, "/api/v1/games/archived?name=Strahd+Redux", nil, token)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *APITestSuite) TestGameActionsRequireMaster() {
	masterToken := s.confirmedUser("gamemaster", "token-master")
	otherToken := s.confirmedUser("alice", "token-alice")

	id := s.createGame(masterToken, "Curse of Strahd")
	path := "/api/v1/games/" + itoa(id)

	rec := s.request(http.MethodPatch, path, map[string]string{"name": "Hijacked"}, otherToken)
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.request(http.MethodPost, path+"/archive", nil, otherToken)
	s.Equal(http.StatusForbidden, rec.Code)

	// An administrator may act on any game
	admin := s.adminToken()
	rec = s.request(http.MethodPost, path+"/archive", nil, admin)
	s.Equal(http.StatusNoContent, rec.Code)
}

func (s *APITestSuite) TestGameRoutesRequireAuth() {
	rec := s.request(http.MethodPost, "/api/v1/games", map[string]any{
		"name":            "Curse of Strahd",
		"description":     "a weekly table",
		"maximum_players": 6,
	}, "")
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
