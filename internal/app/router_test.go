package app_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptshield/promptshield/internal/app"
	"github.com/promptshield/promptshield/internal/auth"
	"github.com/promptshield/promptshield/internal/shared"
	"github.com/promptshield/promptshield/internal/view"
	_ "github.com/promptshield/promptshield/testing"
)

type routerRepo struct {
	users  []*auth.User
	nextID int64
}

func (m *routerRepo) FindByIdentifier(ctx context.Context, identifier string) (*auth.User, error) {
	for _, u := range m.users {
		if u.Username == identifier || u.Email == identifier {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *routerRepo) Exists(ctx context.Context, username, email string) (bool, error) {
	for _, u := range m.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *routerRepo) Insert(ctx context.Context, username, email, passwordHash string) (int64, error) {
	m.nextID++
	m.users = append(m.users, &auth.User{ID: m.nextID, Username: username, Email: email, PasswordHash: passwordHash})
	return m.nextID, nil
}

func (m *routerRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return nil
}

func (m *routerRepo) DeleteSession(ctx context.Context, id string) error { return nil }

func (m *routerRepo) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sm := shared.NewSessionManager(redisClient, "ps_session", "secret", 24*time.Hour, false)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	templates, err := view.NewEngine()
	require.NoError(t, err)

	authHandler := auth.NewHandler(logger, auth.NewService(&routerRepo{}), sm)
	cfg := &app.Config{AppEnv: "development", AppRequestTimeout: 5 * time.Second}

	return app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		Templates:      templates,
		SessionManager: sm,
		AuthHandler:    authHandler,
	})
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"status":"ok"}`, res.Body.String())
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	router := newTestRouter(t)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	require.Equal(t, http.StatusNotFound, res.Code)
	assert.JSONEq(t, `{"success":false,"message":"Endpoint not found"}`, res.Body.String())
}

func TestDashboardRedirectsWhenAnonymous(t *testing.T) {
	router := newTestRouter(t)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/login", res.Header().Get("Location"))
}

func TestSignupThroughRouter(t *testing.T) {
	router := newTestRouter(t)

	body := `{"username":"alice","email":"a@example.com","password":"longpass1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusCreated, res.Code)
	cookies := res.Result().Cookies()
	require.NotEmpty(t, cookies, "signup must set the session cookie")
	sessionCookie := cookies[0]
	assert.True(t, sessionCookie.HttpOnly)

	// The cookie authenticates follow-up requests end to end.
	checkReq := httptest.NewRequest(http.MethodGet, "/api/check-auth", nil)
	checkReq.AddCookie(sessionCookie)
	checkRes := httptest.NewRecorder()
	router.ServeHTTP(checkRes, checkReq)
	require.Equal(t, http.StatusOK, checkRes.Code)
	assert.Contains(t, checkRes.Body.String(), `"username":"alice"`)

	dashReq := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	dashReq.AddCookie(sessionCookie)
	dashRes := httptest.NewRecorder()
	router.ServeHTTP(dashRes, dashReq)
	require.Equal(t, http.StatusOK, dashRes.Code)
	assert.Contains(t, dashRes.Body.String(), "alice")
}
