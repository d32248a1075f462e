package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	api_middleware "github.com/thesrcielos/gamehub/api/middleware"
	"github.com/thesrcielos/gamehub/internal/apperrors"
	"github.com/thesrcielos/gamehub/internal/chat"
	"github.com/thesrcielos/gamehub/internal/game"
	"github.com/thesrcielos/gamehub/internal/ratelimit"
	"github.com/thesrcielos/gamehub/internal/social"
	"github.com/thesrcielos/gamehub/internal/testutil"
	"github.com/thesrcielos/gamehub/internal/user"
	"github.com/thesrcielos/gamehub/pkg/db"
	"github.com/thesrcielos/gamehub/pkg/filestore"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type testServer struct {
	e     *echo.Echo
	users *user.UserService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	conn := testutil.NewDB(t, db.Models()...)
	files, err := filestore.NewLocalStore(t.TempDir(), "http://localhost:8080/storage")
	require.NoError(t, err)

	user.ConfigureJWT(testSecret)
	userRepo := user.NewUserRepository(conn)
	UserService = user.NewUserService(userRepo, files, time.Hour, zap.NewNop())
	SocialService = social.NewSocialService(social.NewSocialRepository(conn), userRepo)
	ChatService = chat.NewChatService(chat.NewChatRepository(conn), userRepo, SocialService, false)
	GameService = game.NewGameService(game.NewGameRepository(conn), userRepo, files, zap.NewNop())

	store := ratelimit.NewMemoryStore()
	RegisterLimiter = ratelimit.NewLimiter(store, "register", 3, 15*time.Minute)
	LoginLimiter = ratelimit.NewLimiter(store, "login", 5, 5*time.Minute)
	Logger = zap.NewNop()

	e := echo.New()
	e.HTTPErrorHandler = apperrors.Handler(zap.NewNop())

	api := e.Group("/api")
	RegisterAuthRoutes(api)
	protected := api.Group("", api_middleware.SetupJWTMiddleware(testSecret), api_middleware.SessionMiddleware(UserService))
	RegisterSessionRoutes(protected)
	RegisterUserRoutes(protected)
	RegisterSocialRoutes(protected)
	RegisterGameRoutes(protected)
	RegisterStatsRoutes(protected)
	RegisterChatRoutes(protected.Group("/chat"))
	RegisterAdminRoutes(protected.Group("/admin", api_middleware.AdminMiddleware()))

	return &testServer{e: e, users: UserService}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) form(t *testing.T, method, path, token, encoded string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(encoded))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(t *testing.T, email, username string) (string, uint) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/register", "", echo.Map{
		"email":    email,
		"password": "secret123",
		"username": username,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(t, rec)
	u := body["user"].(map[string]interface{})
	return body["token"].(string), uint(u["id"].(float64))
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/login", "", echo.Map{"email": email, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode(t, rec)["token"].(string)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRegisterLoginLogout(t *testing.T) {
	s := newTestServer(t)
	token, id := s.register(t, "Alice@Example.com", "Alice")

	rec := s.do(t, http.MethodGet, "/api/user", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "alice@example.com", body["email"])
	assert.Equal(t, float64(id), body["id"])
	assert.NotContains(t, body, "password")

	second := s.login(t, "alice@example.com", "secret123")

	rec = s.do(t, http.MethodPost, "/api/logout", second, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Logout revokes every token of the user.
	rec = s.do(t, http.MethodGet, "/api/user", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/user", second, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/friends", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/friends", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterRateLimit(t *testing.T) {
	s := newTestServer(t)
	invalid := echo.Map{"email": "nope", "password": "x", "username": ""}

	for i := 0; i < 3; i++ {
		rec := s.do(t, http.MethodPost, "/api/register", "", invalid)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	}

	rec := s.do(t, http.MethodPost, "/api/register", "", echo.Map{
		"email":    "late@example.com",
		"password": "secret123",
		"username": "Late",
	})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, decode(t, rec)["message"], "15 minutes")
}

func TestLoginRateLimitClearsOnSuccess(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "bruno@example.com", "Bruno")
	wrong := echo.Map{"email": "bruno@example.com", "password": "wrong123"}

	for i := 0; i < 4; i++ {
		rec := s.do(t, http.MethodPost, "/api/login", "", wrong)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	s.login(t, "bruno@example.com", "secret123")

	for i := 0; i < 5; i++ {
		rec := s.do(t, http.MethodPost, "/api/login", "", wrong)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := s.do(t, http.MethodPost, "/api/login", "", wrong)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestFriendshipFlow(t *testing.T) {
	s := newTestServer(t)
	alice, aliceID := s.register(t, "alice@example.com", "Alice")
	bruno, brunoID := s.register(t, "bruno@example.com", "Bruno")

	rec := s.do(t, http.MethodPost, fmt.Sprintf("/api/friends/request/%d", aliceID), alice, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, fmt.Sprintf("/api/friends/request/%d", brunoID), alice, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/friends/pending", bruno, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec), 1)

	rec = s.do(t, http.MethodPost, fmt.Sprintf("/api/friends/accept/%d", aliceID), bruno, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/friends", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec), 1)

	rec = s.do(t, http.MethodPost, fmt.Sprintf("/api/users/block/%d", brunoID), alice, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/friends", alice, nil)
	assert.Len(t, decodeList(t, rec), 0)

	rec = s.do(t, http.MethodPost, fmt.Sprintf("/api/friends/request/%d", aliceID), bruno, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, fmt.Sprintf("/api/users/unblock/%d", brunoID), alice, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodPost, fmt.Sprintf("/api/users/unblock/%d", brunoID), alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatFlow(t *testing.T) {
	s := newTestServer(t)
	alice, aliceID := s.register(t, "alice@example.com", "Alice")
	bruno, brunoID := s.register(t, "bruno@example.com", "Bruno")
	carla, _ := s.register(t, "carla@example.com", "Carla")

	rec := s.do(t, http.MethodPost, "/api/chat/start", alice, echo.Map{"other_user_id": brunoID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	chatID := decode(t, rec)["chat"].(map[string]interface{})["id"].(float64)

	rec = s.do(t, http.MethodPost, "/api/chat/start", bruno, echo.Map{"other_user_id": aliceID})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, chatID, decode(t, rec)["chat"].(map[string]interface{})["id"])

	rec = s.do(t, http.MethodPost, "/api/chat/message", alice, echo.Map{"chat_id": chatID, "message": "  hola  "})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "hola", body["message"].(map[string]interface{})["message"])

	rec = s.do(t, http.MethodPost, "/api/chat/message", alice, echo.Map{"chat_id": chatID, "message": strings.Repeat("a", 1001)})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/chat/unread-count", bruno, nil)
	assert.Equal(t, float64(1), decode(t, rec)["unread_count"])

	path := fmt.Sprintf("/api/chat/%d", int(chatID))
	rec = s.do(t, http.MethodPatch, path+"/read", bruno, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["updated_count"])

	rec = s.do(t, http.MethodGet, path+"/messages", bruno, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Len(t, body["messages"], 1)
	assert.Equal(t, float64(50), body["pagination"].(map[string]interface{})["per_page"])

	rec = s.do(t, http.MethodGet, path+"/messages", carla, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/chat/999/messages", alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/chat", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["chats"], 1)

	rec = s.do(t, http.MethodDelete, path, bruno, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/chat", alice, nil)
	assert.Len(t, decode(t, rec)["chats"], 0)
}

func TestAdminGamesAndResults(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.users.EnsureAdmin(context.Background(), "admin@gamehub.test", "Administrador", "admin123"))
	admin := s.login(t, "admin@gamehub.test", "admin123")
	player, _ := s.register(t, "alice@example.com", "Alice")

	rec := s.form(t, http.MethodPost, "/api/admin/games", player, "name=Tetris&mode=both&is_multiplayer=false")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.form(t, http.MethodPost, "/api/admin/games", admin, "name=Tetris&mode=both&is_multiplayer=maybe")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.form(t, http.MethodPost, "/api/admin/games", admin, "name=Tetris&mode=both&is_multiplayer=false")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	gameID := int(decode(t, rec)["game"].(map[string]interface{})["id"].(float64))

	rec = s.do(t, http.MethodPut, fmt.Sprintf("/api/admin/games/%d", gameID), admin, echo.Map{"description": "falling blocks"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode(t, rec)["game"].(map[string]interface{})
	assert.Equal(t, "Tetris", updated["name"])
	assert.Equal(t, "falling blocks", updated["description"])

	record := fmt.Sprintf("/api/games/%d/record-result", gameID)
	rec = s.do(t, http.MethodPost, record, player, echo.Map{"mode": "online", "result": "won", "score": 25})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	entry := decode(t, rec)["game_history"].(map[string]interface{})
	assert.Equal(t, "ai", entry["opponent_type"])
	assert.Equal(t, true, entry["counts_for_stats"])

	rec = s.do(t, http.MethodPost, record, player, echo.Map{"mode": "online", "result": "won", "score": 40, "opponent_type": "local"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, record, player, echo.Map{"mode": "online", "result": "won"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/games/999/record-result", player, echo.Map{"mode": "online", "result": "won", "score": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/statistics/online", player, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeList(t, rec)
	require.Len(t, stats, 1)
	assert.Equal(t, float64(1), stats[0]["games_played"])
	assert.Equal(t, float64(25), stats[0]["high_score"])

	rec = s.do(t, http.MethodGet, "/api/statistics/offline", player, nil)
	assert.Len(t, decodeList(t, rec), 0)

	rec = s.do(t, http.MethodGet, "/api/game-history", player, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec), 2)

	rec = s.do(t, http.MethodGet, "/api/game-history?page=1&limit=1", player, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode(t, rec)
	assert.Len(t, page["data"], 1)
	assert.Equal(t, float64(2), page["meta"].(map[string]interface{})["last_page"])

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/game-history/%d", gameID), player, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, decode(t, rec), "meta")

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/admin/games/%d", gameID), admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/statistics/game/%d", gameID), player, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteAccount(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "alice@example.com", "Alice")

	rec := s.do(t, http.MethodDelete, "/api/user/delete-account", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/user/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/login", "", echo.Map{"email": "alice@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
