// AngelaMos | 2026
// handler.go

package contact

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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/contacts", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Get("/{contactID}", h.Get)
		r.Put("/{contactID}", h.Update)
		r.Delete("/{contactID}", h.Delete)
	})
}

// RegisterAgentRoutes mounts the contact routes nested under a voice agent.
// The router passed in is already authenticated.
func (h *Handler) RegisterAgentRoutes(r chi.Router) {
	r.Get("/{agentID}/contacts", h.ListForAgent)
	r.Post("/{agentID}/contacts", h.CreateForAgent)
}

func listParams(r *http.Request) (ListContactsParams, bool) {
	q := r.URL.Query()
	agentID, ok := core.IDQuery(r, "voice_agent_id")
	return ListContactsParams{
		PageParams:   core.PageFromRequest(r),
		Search:       q.Get("search"),
		Status:       q.Get("status"),
		VoiceAgentID: agentID,
	}, ok
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.FromContext(r.Context())
	params, ok := listParams(r)
	if !ok {
		core.BadRequest(w, "invalid voice_agent_id filter")
		return
	}

	contacts, total, err := h.service.List(r.Context(), scope, params)
	if err != nil {
		core.RespondError(w, err, "contact")
		return
	}

	core.Paginated(w, ToContactResponseList(contacts), params.Page, params.PageSize, total)
}

func (h *Handler) ListForAgent(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.FromContext(r.Context())
	agentID, ok := core.IDParam(r, "agentID")
	if !ok {
		core.NotFound(w, "voice agent")
		return
	}
	params, ok := listParams(r)
	if !ok {
		core.BadRequest(w, "invalid voice_agent_id filter")
		return
	}

	contacts, total, err := h.service.ListForAgent(r.Context(), scope, agentID, params)
	if err != nil {
		core.RespondError(w, err, "voice agent")
		return
	}

	core.Paginated(w, ToContactResponseList(contacts), params.Page, params.PageSize, total)
}

func (h *Handler) CreateForAgent(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.FromContext(r.Context())
	agentID, ok := core.IDParam(r, "agentID")
	if !ok {
		core.NotFound(w, "voice agent")
		return
	}

	var req CreateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	c, err := h.service.Create(r.Context(), scope, agentID, req)
	if err != nil {
		core.RespondError(w, err, "contact")
		return
	}

	core.Created(w, ToContactResponse(c))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.FromContext(r.Context())
	id, ok := core.IDParam(r, "contactID")
	if !ok {
		core.NotFound(w, "contact")
		return
	}

	c, err := h.service.Get(r.Context(), scope, id)
	if err != nil {
		core.RespondError(w, err, "contact")
		return
	}

	core.OK(w, ToContactResponse(c))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.FromContext(r.Context())
	id, ok := core.IDParam(r, "contactID")
	if !ok {
		core.NotFound(w, "contact")
		return
	}

	var req UpdateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	c, err := h.service.Update(r.Context(), scope, id, req)
	if err != nil {
		core.RespondError(w, err, "contact")
		return
	}

	core.OK(w, ToContactResponse(c))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.FromContext(r.Context())
	id, ok := core.IDParam(r, "contactID")
	if !ok {
		core.NotFound(w, "contact")
		return
	}

	if err := h.service.Delete(r.Context(), scope, id); err != nil {
		core.RespondError(w, err, "contact")
		return
	}

	core.NoContent(w)
}
