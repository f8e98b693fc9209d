package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/fitkeeper/internal/common"
	"github.com/dmitrijs2005/fitkeeper/internal/logging"
	"github.com/dmitrijs2005/fitkeeper/internal/server/auth"
	"github.com/dmitrijs2005/fitkeeper/internal/server/models"
	"github.com/dmitrijs2005/fitkeeper/internal/server/services"
)

// AccountService is the account API the handlers call.
type AccountService interface {
	Signup(ctx context.Context, req services.SignupRequest) (*models.Profile, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	ChangePassword(ctx context.Context, id auth.Identity, newPassword string) error
	DeleteAccount(ctx context.Context, email string) error
	Profile(ctx context.Context, id auth.Identity) (*models.Profile, error)
}

// TokenRefresher exchanges refresh tokens for access tokens.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (*services.RefreshResult, error)
}

// Handlers serves the account routes.
type Handlers struct {
	accounts AccountService
	tokens   TokenRefresher
	logger   logging.Logger
}

func NewHandlers(a AccountService, t TokenRefresher, l logging.Logger) *Handlers {
	return &Handlers{accounts: a, tokens: t, logger: l}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type statusResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	_, err := h.accounts.Signup(r.Context(), services.SignupRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.Info(r.Context(), "user signed up", "email", req.Email)
	writeJSON(w, http.StatusCreated, statusResponse{Status: http.StatusOK, Message: "Person Added Successfully"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Status       int            `json:"status"`
	Message      string         `json:"message"`
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
	User         models.Profile `json:"user"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	res, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Status:       http.StatusOK,
		Message:      "Log in successfully",
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		User:         res.Profile,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	res, err := h.tokens.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{AccessToken: res.AccessToken})
}

func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.logger)
	if !ok {
		return
	}

	p, err := h.accounts.Profile(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

type changePasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.logger)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.accounts.ChangePassword(r.Context(), id, req.NewPassword); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.Info(r.Context(), "password changed", "user_id", id.UserID)
	writeJSON(w, http.StatusOK, messageResponse{Message: "New Password updated successfully"})
}

type deleteAccountRequest struct {
	Email string `json:"email"`
}

// DeleteAccount deletes the account named in the body. The route is not
// gated; see services.AuthService.DeleteAccount.
func (h *Handlers) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	var req deleteAccountRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.accounts.DeleteAccount(r.Context(), req.Email); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.logger.Info(r.Context(), "account deleted", "email", req.Email)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Person was deleted successfully"})
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// identity returns the gate's identity. A gated route without one is a
// wiring bug, so it answers 500.
func identity(w http.ResponseWriter, r *http.Request, l logging.Logger) (auth.Identity, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, l, common.NewFailure(common.ErrInternal, "identity missing from context"))
		return auth.Identity{}, false
	}
	return id, true
}
