package rest

import (
	"context"
	"net/http"

	restful "github.com/emicklei/go-restful/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResource struct {
	db Pinger
}

func NewHealthResource(db Pinger) *HealthResource {
	return &HealthResource{db: db}
}

func (h *HealthResource) WebService() *restful.WebService {
	ws := new(restful.WebService)
	ws.Path("/api/health").Produces(restful.MIME_JSON)

	ws.Route(ws.GET("").To(h.handleHealth))
	ws.Route(ws.GET("/db").To(h.handleHealthDB))
	return ws
}

func (h *HealthResource) handleHealth(req *restful.Request, resp *restful.Response) {
	writeJSON(resp, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "task-manager",
	})
}

func (h *HealthResource) handleHealthDB(req *restful.Request, resp *restful.Response) {
	if err := h.db.Ping(req.Request.Context()); err != nil {
		writeJSON(resp, http.StatusOK, map[string]string{
			"status":   "unhealthy",
			"database": "disconnected",
			"error":    err.Error(),
		})
		return
	}
	writeJSON(resp, http.StatusOK, map[string]string{
		"status":   "healthy",
		"database": "connected",
	})
}
