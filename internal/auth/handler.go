// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bhashai/gateway/internal/core"
	"github.com/bhashai/gateway/internal/middleware"
	"github.com/bhashai/gateway/internal/tenant"
)

const invalidLoginMessage = "invalid email or password"

type Handler struct {
	service      *Service
	validator    *validator.Validate
	setCookie    bool
	secureCookie bool
}

type HandlerOptions struct {
	// SetCookie mirrors the token into an HttpOnly cookie for the dashboard
	// pages.
	SetCookie    bool
	SecureCookie bool
}

func NewHandler(service *Service, opts HandlerOptions) *Handler {
	return &Handler{
		service:      service,
		validator:    validator.New(validator.WithRequiredStructEnabled()),
		setCookie:    opts.SetCookie,
		secureCookie: opts.SecureCookie,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	loginLimiter func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if loginLimiter != nil {
				r.Use(loginLimiter)
			}
			r.Post("/login", h.Login)
			r.Post("/signup", h.Signup)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/profile", h.Profile)
			r.Post("/logout", h.Logout)
		})
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	h.writeSession(w, resp)
	core.JSON(w, http.StatusOK, resp)
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Signup(r.Context(), req)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	h.writeSession(w, resp)
	core.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	scope, err := tenant.MustFromContext(r.Context())
	if err != nil {
		core.Unauthorized(w, "")
		return
	}

	resp, err := h.service.Profile(r.Context(), scope)
	if err != nil {
		core.RespondError(w, err, "user")
		return
	}

	core.JSON(w, http.StatusOK, resp)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), middleware.GetClaims(r.Context())); err != nil {
		core.RespondError(w, err, "token")
		return
	}

	if h.setCookie {
		http.SetCookie(w, h.cookie("", -1))
	}

	core.NoContent(w)
}

func (h *Handler) writeAuthError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrInvalidCredentials) {
		core.JSONError(w, core.NewAppError(
			err,
			invalidLoginMessage,
			http.StatusUnauthorized,
			"INVALID_CREDENTIALS",
		))
		return
	}
	core.RespondError(w, err, "user")
}

func (h *Handler) writeSession(w http.ResponseWriter, resp *LoginResponse) {
	if !h.setCookie {
		return
	}
	maxAge := int(h.service.jwt.TTL().Seconds())
	http.SetCookie(w, h.cookie(resp.Token, maxAge))
}

func (h *Handler) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
