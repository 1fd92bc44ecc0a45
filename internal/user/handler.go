// AngelaMos | 2026
// handler.go

package user

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bhashai/gateway/internal/access"
	"github.com/bhashai/gateway/internal/core"
	"github.com/bhashai/gateway/internal/middleware"
	"github.com/bhashai/gateway/internal/tenant"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/users", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/me", h.GetMe)
		r.Put("/me", h.UpdateMe)
		r.Delete("/me", h.DeleteMe)

		r.Get("/{userID}", h.GetUser)
		r.Put("/{userID}", h.UpdateUser)
		r.Delete("/{userID}", h.DeleteUser)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission(access.ManageTenantUsers))
			r.Get("/", h.ListUsers)
			r.Post("/", h.CreateUser)
			r.Put("/{userID}/role", h.UpdateUserRole)
		})
	})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.FromContext(r.Context())

	user, err := h.service.GetMe(r.Context(), scope)
	if err != nil {
		core.RespondError(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.FromContext(r.Context())

	var req UpdateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.UpdateMe(r.Context(), scope, req)
	if err != nil {
		core.RespondError(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.FromContext(r.Context())

	if err := h.service.DeleteMe(r.Context(), scope); err != nil {
		core.RespondError(w, err, "user")
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.FromContext(r.Context())
	q := r.URL.Query()

	enterpriseID, ok := core.IDQuery(r, "enterprise_id")
	if !ok {
		core.BadRequest(w, "invalid enterprise_id filter")
		return
	}

	params := ListUsersParams{
		PageParams:   core.PageFromRequest(r),
		Search:       q.Get("search"),
		Status:       q.Get("status"),
		EnterpriseID: enterpriseID,
	}
	if raw := q.Get("role"); raw != "" {
		role, err := access.ParseRole(raw)
		if err != nil {
			core.BadRequest(w, "invalid role filter")
			return
		}
		params.Role = role
	}

	users, total, err := h.service.ListUsers(r.Context(), scope, params)
	if err != nil {
		core.RespondError(w, err, "user")
		return
	}

	core.Paginated(
		w,
		ToUserResponseList(users),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.FromContext(r.Context())
	userID, ok := core.IDParam(r, "userID")
	if !ok {
		core.NotFound(w, "user")
		return
	}

	user, err := h.service.GetUser(r.Context(), scope, userID)
	if err != nil {
		core.RespondError(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.FromContext(r.Context())

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.CreateUser(r.Context(), scope, req)
	if err != nil {
		core.RespondError(w, err, "user")
		return
	}

	core.Created(w, ToUserResponse(user))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.FromContext(r.Context())
	userID, ok := core.IDParam(r, "userID")
	if !ok {
		core.NotFound(w, "user")
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.UpdateUser(r.Context(), scope, userID, req)
	if err != nil {
		core.RespondError(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.FromContext(r.Context())
	userID, ok := core.IDParam(r, "userID")
	if !ok {
		core.NotFound(w, "user")
		return
	}

	var req UpdateUserRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.UpdateUserRole(r.Context(), scope, userID, req.Role)
	if err != nil {
		core.RespondError(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.FromContext(r.Context())
	userID, ok := core.IDParam(r, "userID")
	if !ok {
		core.NotFound(w, "user")
		return
	}

	if err := h.service.DeleteUser(r.Context(), scope, userID); err != nil {
		core.RespondError(w, err, "user")
		return
	}

	core.NoContent(w)
}
