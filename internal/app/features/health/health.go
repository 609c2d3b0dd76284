// internal/app/features/health/health.go
package health

import (
	"context"
	"net/http"
	"sort"
	"sync"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/jsonutil"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Pinger is an optional dependency reported by the full health check.
// A failing Pinger degrades the report but does not fail readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Handler serves the liveness, readiness and full health endpoints.
// MongoDB is the only hard dependency.
type Handler struct {
	mongoClient *mongo.Client
	extras      map[string]Pinger
	logger      *zap.Logger
}

func NewHandler(mongoClient *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{mongoClient: mongoClient, extras: map[string]Pinger{}, logger: logger}
}

// AddCheck registers an optional dependency (redis, nats, tasks) under name.
func (h *Handler) AddCheck(name string, p Pinger) {
	if p != nil {
		h.extras[name] = p
	}
}

// Response is the body of GET /health.
type Response struct {
	Status   string            `json:"status"` // ok, degraded or unavailable
	Services map[string]string `json:"services,omitempty"`
}

// Routes serves /health, /health/ready and /health/live.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Check)
	r.Get("/ready", h.Ready)
	r.Get("/live", h.Live)
	return r
}

// MountRootEndpoints adds /ready, /readyz and /livez on the root router.
func MountRootEndpoints(r chi.Router, h *Handler) {
	r.Get("/ready", h.Ready)
	r.Get("/readyz", h.Ready)
	r.Get("/livez", h.Live)
}

func (h *Handler) pingMongo(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	return h.mongoClient.Ping(ctx, readpref.Primary())
}

// Check probes MongoDB and every extra concurrently, each under the ping
// deadline. Only MongoDB turns the response into a 503.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	var (
		mu       sync.Mutex
		services = make(map[string]string, len(h.extras)+1)
		failed   []string
		mongoErr error
	)

	names := make([]string, 0, len(h.extras))
	for name := range h.extras {
		names = append(names, name)
	}
	sort.Strings(names)

	var g errgroup.Group
	g.Go(func() error {
		mongoErr = h.pingMongo(r.Context())
		return nil
	})
	for _, name := range names {
		p := h.extras[name]
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
			defer cancel()
			err := p.Ping(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				services[name] = "degraded"
				failed = append(failed, name)
				h.logger.Warn("health check: dependency ping failed", zap.String("service", name), zap.Error(err))
				return nil
			}
			services[name] = "ok"
			return nil
		})
	}
	_ = g.Wait()

	resp := Response{Status: "ok", Services: services}
	status := http.StatusOK
	switch {
	case mongoErr != nil:
		h.logger.Warn("health check: mongodb ping failed", zap.Error(mongoErr))
		services["mongodb"] = "unavailable"
		resp.Status = "unavailable"
		status = http.StatusServiceUnavailable
	case len(failed) > 0:
		services["mongodb"] = "ok"
		resp.Status = "degraded"
	default:
		services["mongodb"] = "ok"
	}
	jsonutil.JSON(w, status, resp)
}

// Ready reports whether MongoDB answers.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.pingMongo(r.Context()); err != nil {
		h.logger.Warn("readiness check failed", zap.Error(err))
		jsonutil.ServiceUnavailable(w, map[string]string{"status": "not ready"})
		return
	}
	jsonutil.OK(w, map[string]string{"status": "ready"})
}

// Live always answers while the process runs.
func (h *Handler) Live(w http.ResponseWriter, _ *http.Request) {
	jsonutil.OK(w, map[string]string{"status": "alive"})
}
