// AngelaMos | 2026
// handler.go

package voiceagent

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bhashai/gateway/internal/core"
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

// RegisterRoutes mounts /voice-agents. Nested resources such as an agent's
// contacts are attached through subroutes, which run behind the same
// authenticator.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	subroutes ...func(chi.Router),
) {
	r.Route("/voice-agents", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{agentID}", h.Get)
		r.Put("/{agentID}", h.Update)
		r.Delete("/{agentID}", h.Delete)

		for _, mount := range subroutes {
			mount(r)
		}
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.FromContext(r.Context())
	q := r.URL.Query()

	enterpriseID, ok := core.IDQuery(r, "enterprise_id")
	if !ok {
		core.BadRequest(w, "invalid enterprise_id filter")
		return
	}

	params := ListVoiceAgentsParams{
		PageParams:   core.PageFromRequest(r),
		Search:       q.Get("search"),
		Status:       q.Get("status"),
		Category:     q.Get("category"),
		EnterpriseID: enterpriseID,
	}

	agents, total, err := h.service.List(r.Context(), scope, params)
	if err != nil {
		core.RespondError(w, err, "voice agent")
		return
	}

	core.Paginated(
		w,
		ToVoiceAgentResponseList(agents),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.FromContext(r.Context())
	id, ok := core.IDParam(r, "agentID")
	if !ok {
		core.NotFound(w, "voice agent")
		return
	}

	agent, err := h.service.Get(r.Context(), scope, id)
	if err != nil {
		core.RespondError(w, err, "voice agent")
		return
	}

	core.OK(w, ToVoiceAgentResponse(agent))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.FromContext(r.Context())

	var req CreateVoiceAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	agent, err := h.service.Create(r.Context(), scope, req)
	if err != nil {
		core.RespondError(w, err, "voice agent")
		return
	}

	core.Created(w, ToVoiceAgentResponse(agent))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.FromContext(r.Context())
	id, ok := core.IDParam(r, "agentID")
	if !ok {
		core.NotFound(w, "voice agent")
		return
	}

	var req UpdateVoiceAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	agent, err := h.service.Update(r.Context(), scope, id, req)
	if err != nil {
		core.RespondError(w, err, "voice agent")
		return
	}

	core.OK(w, ToVoiceAgentResponse(agent))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.FromContext(r.Context())
	id, ok := core.IDParam(r, "agentID")
	if !ok {
		core.NotFound(w, "voice agent")
		return
	}

	if err := h.service.Delete(r.Context(), scope, id); err != nil {
		core.RespondError(w, err, "voice agent")
		return
	}

	core.NoContent(w)
}
