package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/promptshield/promptshield/internal/platform/httpx"
	"github.com/promptshield/promptshield/internal/shared"
)

// Handler wires the JSON API endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	sessionManager *shared.SessionManager
	validator      *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager) *Handler {
	return &Handler{
		logger:         logger,
		service:        service,
		sessionManager: sessions,
		validator:      validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/signup", h.handleSignup)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/check-auth", h.handleCheckAuth)
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	// Username carries a username or an email; both resolve at login.
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "JSON required")
		return
	}
	user, err := h.service.Signup(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if ve, ok := shared.AsValidationError(err); ok {
			httpx.Fail(w, http.StatusBadRequest, ve.Message)
			return
		}
		if errors.Is(err, shared.ErrDuplicateUser) {
			httpx.Fail(w, http.StatusConflict, "User already exists")
			return
		}
		h.logger.Error("signup", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.establishSession(r, user)
	httpx.Success(w, http.StatusCreated, "Signup successful", userSummary{ID: user.ID, Username: user.Username})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "JSON required")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	user, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			// One generic answer for unknown identifier and wrong password.
			httpx.Fail(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.logger.Error("login", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.establishSession(r, user)
	httpx.Success(w, http.StatusOK, "Login successful", userSummary{ID: user.ID, Username: user.Username})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		if sess.Authenticated() {
			if err := h.service.RemoveSession(r.Context(), sess.ID); err != nil {
				h.logger.Warn("remove session", slog.Any("error", err))
			}
		}
		h.sessionManager.Destroy(sess)
	}
	httpx.Success(w, http.StatusOK, "Logged out", nil)
}

func (h *Handler) handleCheckAuth(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if id, username, ok := sess.Identity(); ok {
			httpx.Success(w, http.StatusOK, "Authenticated", userSummary{ID: id, Username: username})
			return
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"authenticated": false})
}

// HandleSignupForTest exposes the signup handler for tests.
func (h *Handler) HandleSignupForTest(w http.ResponseWriter, r *http.Request) {
	h.handleSignup(w, r)
}

// HandleLoginForTest exposes the login handler for tests.
func (h *Handler) HandleLoginForTest(w http.ResponseWriter, r *http.Request) {
	h.handleLogin(w, r)
}

// HandleLogoutForTest exposes the logout handler for tests.
func (h *Handler) HandleLogoutForTest(w http.ResponseWriter, r *http.Request) {
	h.handleLogout(w, r)
}

// HandleCheckAuthForTest exposes the check-auth handler for tests.
func (h *Handler) HandleCheckAuthForTest(w http.ResponseWriter, r *http.Request) {
	h.handleCheckAuth(w, r)
}

// establishSession rotates the request session onto the given user and
// records the audit row. Audit failures are logged, not surfaced; the
// redis-backed session is the source of truth.
func (h *Handler) establishSession(r *http.Request, user *User) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during login")
		return
	}
	sess.SetIdentity(user.ID, user.Username)
	expiresAt := time.Now().Add(h.sessionManager.TTL())
	if err := h.service.RegisterSession(r.Context(), sess.ID, user.ID, expiresAt, r.RemoteAddr, r.UserAgent()); err != nil {
		h.logger.Warn("register session", slog.Any("error", err))
	}
}
