package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/fitcoach/internal/account"
	"github.com/dukerupert/fitcoach/internal/model"
)

type Accounts interface {
	Register(ctx context.Context, username, email, password string) (*account.Session, error)
	Login(ctx context.Context, email, password string) (*account.Session, error)
}

type AuthHandler struct {
	accounts Accounts
	logger   *slog.Logger
}

func NewAuthHandler(accounts Accounts, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, logger: logger}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type sessionResponse struct {
	User  userView `json:"user"`
	Token string   `json:"token"`
}

func newSessionResponse(u *model.User, token string) sessionResponse {
	return sessionResponse{
		User:  userView{ID: u.ID, Username: u.Username, Email: u.Email},
		Token: token,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.accounts.Register(r.Context(), req.Username, req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, account.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, "User with this email already exists")
		return
	case errors.Is(err, account.ErrValidation):
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	default:
		h.logger.Error("register", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error during registration")
		return
	}

	writeJSON(w, http.StatusCreated, newSessionResponse(sess.User, sess.Token))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, account.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, "Invalid credentials")
		return
	default:
		h.logger.Error("login", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error during login")
		return
	}

	writeJSON(w, http.StatusOK, newSessionResponse(sess.User, sess.Token))
}

// validationMessage strips the sentinel prefix so clients see only the
// field-level reason.
func validationMessage(err error) string {
	if rest, ok := strings.CutPrefix(err.Error(), account.ErrValidation.Error()+": "); ok {
		return rest
	}
	return err.Error()
}
