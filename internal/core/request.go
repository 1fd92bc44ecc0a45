// AngelaMos | 2026
// request.go

package core

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func ParseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return n
}

func PageFromRequest(r *http.Request) PageParams {
	p := PageParams{
		Page:     ParseIntQuery(r, "page", 1),
		PageSize: ParseIntQuery(r, "page_size", 20),
	}
	p.Normalize()
	return p
}

// IDParam returns the named URL parameter when it is a well-formed UUID.
// Malformed ids cannot match any row, so callers answer 404 for them.
func IDParam(r *http.Request, name string) (string, bool) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// IDQuery reads an optional UUID query filter. An absent filter yields
// ("", true) and a malformed one ("", false).
func IDQuery(r *http.Request, key string) (string, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return "", true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", false
	}
	return id.String(), true
}
