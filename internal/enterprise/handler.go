// AngelaMos | 2026
// handler.go

package enterprise

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
	r.Route("/enterprises", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Get("/{enterpriseID}", h.Get)
		r.Put("/{enterpriseID}", h.Update)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission(access.ManageEnterprises))
			r.Post("/", h.Create)
			r.Delete("/{enterpriseID}", h.Delete)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.FromContext(r.Context())
	q := r.URL.Query()

	params := ListEnterprisesParams{
		PageParams: core.PageFromRequest(r),
		Search:     q.Get("search"),
		Status:     q.Get("status"),
		Type:       q.Get("type"),
	}

	list, total, err := h.service.List(r.Context(), scope, params)
	if err != nil {
		core.RespondError(w, err, "enterprise")
		return
	}

	core.Paginated(
		w,
		ToEnterpriseResponseList(list, h.service.Now()),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.FromContext(r.Context())
	id, ok := core.IDParam(r, "enterpriseID")
	if !ok {
		core.NotFound(w, "enterprise")
		return
	}

	e, err := h.service.Get(r.Context(), scope, id)
	if err != nil {
		core.RespondError(w, err, "enterprise")
		return
	}

	core.OK(w, ToEnterpriseResponse(e, h.service.Now()))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.FromContext(r.Context())

	var req CreateEnterpriseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	e, err := h.service.Create(r.Context(), scope, req)
	if err != nil {
		core.RespondError(w, err, "enterprise")
		return
	}

	core.Created(w, ToEnterpriseResponse(e, h.service.Now()))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.FromContext(r.Context())
	id, ok := core.IDParam(r, "enterpriseID")
	if !ok {
		core.NotFound(w, "enterprise")
		return
	}

	var req UpdateEnterpriseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	e, err := h.service.Update(r.Context(), scope, id, req)
	if err != nil {
		core.RespondError(w, err, "enterprise")
		return
	}

	core.OK(w, ToEnterpriseResponse(e, h.service.Now()))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.FromContext(r.Context())
	id, ok := core.IDParam(r, "enterpriseID")
	if !ok {
		core.NotFound(w, "enterprise")
		return
	}

	if err := h.service.Delete(r.Context(), scope, id); err != nil {
		core.RespondError(w, err, "enterprise")
		return
	}

	core.NoContent(w)
}
