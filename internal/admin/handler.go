// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/bhashai/gateway/internal/access"
	"github.com/bhashai/gateway/internal/core"
	"github.com/bhashai/gateway/internal/middleware"
)

const probeTimeout = 2 * time.Second

// HandlerConfig wires the stores the dashboard reports on. Any of the
// stats and ping hooks may be nil.
type HandlerConfig struct {
	Repo       Repository
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	RedisPing  func(ctx context.Context) error
	DBPing     func(ctx context.Context) error
}

type Handler struct {
	cfg HandlerConfig
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{cfg: cfg}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequirePermission(access.ViewPlatformStats))

		r.Get("/stats", h.GetSystemStats)
		r.Get("/stats/platform", h.GetPlatformStats)
		r.Get("/stats/db", h.GetDatabaseStats)
		r.Get("/stats/redis", h.GetRedisStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)
	})
}

// GetSystemStats is the super admin dashboard feed. The counts query and
// both store probes run concurrently; a failed probe is reported, a failed
// count fails the request.
func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	resp := SystemStatsResponse{Runtime: readRuntimeStats()}

	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		counts, err := h.cfg.Repo.Counts(ctx)
		resp.Platform = counts
		return err
	})
	g.Go(func() error {
		resp.Database = probe(ctx, h.cfg.DBPing)
		if h.cfg.DBStats != nil {
			resp.Database.Stats = sqlPool(h.cfg.DBStats())
		}
		return nil
	})
	g.Go(func() error {
		resp.Redis = probe(ctx, h.cfg.RedisPing)
		if h.cfg.RedisStats != nil {
			resp.Redis.Stats = redisPool(h.cfg.RedisStats())
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		core.RespondError(w, err, "stats")
		return
	}

	core.OK(w, resp)
}

func probe(ctx context.Context, ping func(context.Context) error) StoreStatus {
	if ping == nil {
		return StoreStatus{Healthy: true}
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	start := time.Now()
	err := ping(ctx)
	status := StoreStatus{
		Healthy:   err == nil,
		LatencyMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		status.Error = "unreachable"
	}
	return status
}

func (h *Handler) GetPlatformStats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.cfg.Repo.Counts(r.Context())
	if err != nil {
		core.RespondError(w, err, "stats")
		return
	}

	core.OK(w, counts)
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, r *http.Request) {
	if h.cfg.DBStats == nil {
		core.OK(w, nil)
		return
	}
	core.OK(w, sqlPool(h.cfg.DBStats()))
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, r *http.Request) {
	if h.cfg.RedisStats == nil {
		core.OK(w, nil)
		return
	}
	core.OK(w, redisPool(h.cfg.RedisStats()))
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, readRuntimeStats())
}
