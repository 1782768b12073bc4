// Package health serves liveness and readiness probes outside the
// application middleware stack.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	httputil "staybook/pkg/http"
	"staybook/pkg/logger"
)

const readyProbeTimeout = 2 * time.Second

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// IndexState reports whether the availability index finished warming.
type IndexState interface {
	Ready() bool
}

type Response struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Index    string `json:"availability_index,omitempty"`
}

type Handler struct {
	db    Pinger
	index IndexState
	log   *logger.Logger
}

func NewHandler(db Pinger, index IndexState, log *logger.Logger) *Handler {
	return &Handler{
		db:    db,
		index: index,
		log:   log,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.write(w, http.StatusOK, Response{Status: "ok"}, "Health")
}

func (h *Handler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if h.index != nil && !h.index.Ready() {
		h.write(w, http.StatusServiceUnavailable, Response{
			Status: "unavailable",
			Index:  "warming",
		}, "Ready")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyProbeTimeout)
	defer cancel()

	if err := h.db.Ping(ctx, nil); err != nil {
		h.log.Error("Database health check failed",
			"error", err,
			"path", r.URL.Path,
		)
		h.write(w, http.StatusServiceUnavailable, Response{
			Status:   "unavailable",
			Database: "error",
		}, "Ready")
		return
	}

	h.write(w, http.StatusOK, Response{
		Status:   "ready",
		Database: "ok",
		Index:    "ok",
	}, "Ready")
}

func (h *Handler) write(w http.ResponseWriter, status int, body Response, name string) {
	if err := httputil.WriteJSON(w, status, body); err != nil {
		h.log.Error("failed to write JSON response", "handler", name, "operation", "WriteJSON", "error", err)
	}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
