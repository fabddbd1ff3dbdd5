package handlers

import (
	"context"
	"time"

	gateway "github.com/nimasrn/ledger-api/internal/gateways"
	"github.com/nimasrn/ledger-api/internal/queue"
	xhttp "github.com/nimasrn/ledger-api/pkg/http"
)

const healthCheckTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type QueueStatsReader interface {
	GetStats(ctx context.Context) (*queue.QueueStats, error)
}

type GatewayStatsReader interface {
	Stats() gateway.Stats
}

// HealthHandler reports dependency reachability. Any nil dependency is
// left out of the report.
type HealthHandler struct {
	db      Pinger
	redis   Pinger
	queue   QueueStatsReader
	gateway GatewayStatsReader
}

func RegisterHealthRoutes(g *xhttp.Group, h *HealthHandler) {
	g.GET("/health", h.GetHealth)
}

func NewHealthHandler(db, redis Pinger, q QueueStatsReader, gw GatewayStatsReader) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, queue: q, gateway: gw}
}

type healthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Queue   *queue.QueueStats `json:"queue,omitempty"`
	Gateway *gateway.Stats    `json:"gateway,omitempty"`
}

func (h *HealthHandler) GetHealth(ctx *xhttp.RequestCtx) {
	c, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	resp := healthResponse{Status: "ok", Checks: map[string]string{}}
	check := func(name string, p Pinger) {
		if p == nil {
			return
		}
		if err := p.Ping(c); err != nil {
			resp.Status = "degraded"
			resp.Checks[name] = err.Error()
			return
		}
		resp.Checks[name] = "ok"
	}
	check("database", h.db)
	check("redis", h.redis)

	if h.queue != nil {
		if stats, err := h.queue.GetStats(c); err == nil {
			resp.Queue = stats
		}
	}
	if h.gateway != nil {
		stats := h.gateway.Stats()
		resp.Gateway = &stats
	}

	status := xhttp.StatusOK
	if resp.Status != "ok" {
		status = xhttp.StatusServiceUnavailable
	}
	writeJSON(ctx, status, resp)
}
