package rest

import (
	"net/http"

	restful "github.com/emicklei/go-restful/v3"
)

type RootResource struct{}

func NewRootResource() *RootResource {
	return &RootResource{}
}

func (r *RootResource) WebService() *restful.WebService {
	ws := new(restful.WebService)
	ws.Path("/").Produces(restful.MIME_JSON)

	ws.Route(ws.GET("").To(r.handleRoot))
	return ws
}

func (r *RootResource) handleRoot(req *restful.Request, resp *restful.Response) {
	writeJSON(resp, http.StatusOK, map[string]string{
		"message": "Task Manager API",
		"health":  "/api/health",
	})
}
