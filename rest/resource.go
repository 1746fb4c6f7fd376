package rest

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	restful "github.com/emicklei/go-restful/v3"

	"github.com/ecociel/tasks/domain"
	"github.com/ecociel/tasks/metrics"
	"github.com/ecociel/tasks/uc"
)

const (
	defaultLimit = 100
	maxLimit     = 100
)

const notFoundDetail = "Tarefa não encontrada"

type TaskResource struct {
	create       uc.CreateTaskUseCase
	get          uc.GetTaskUseCase
	list         uc.ListTasksUseCase
	listByStatus uc.ListTasksByStatusUseCase
	update       uc.UpdateTaskUseCase
	delete       uc.DeleteTaskUseCase
	metrics      metrics.TaskMetrics
}

func NewTaskResource(
	create uc.CreateTaskUseCase,
	get uc.GetTaskUseCase,
	list uc.ListTasksUseCase,
	listByStatus uc.ListTasksByStatusUseCase,
	update uc.UpdateTaskUseCase,
	del uc.DeleteTaskUseCase,
	m metrics.TaskMetrics,
) *TaskResource {
	return &TaskResource{
		create:       create,
		get:          get,
		list:         list,
		listByStatus: listByStatus,
		update:       update,
		delete:       del,
		metrics:      m,
	}
}

// WebService builds the /api/tasks routes.
func (r *TaskResource) WebService() *restful.WebService {
	ws := new(restful.WebService)
	ws.Path("/api/tasks").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	ws.Filter(r.measureLatency)

	ws.Route(ws.POST("").To(r.handleCreate))
	ws.Route(ws.GET("").To(r.handleList))
	ws.Route(ws.GET("/{id}").To(r.handleGet))
	ws.Route(ws.PUT("/{id}").To(r.handleUpdate))
	ws.Route(ws.DELETE("/{id}").To(r.handleDelete))
	return ws
}

func (r *TaskResource) measureLatency(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	start := time.Now()
	chain.ProcessFilter(req, resp)
	r.metrics.RequestLatency(req.SelectedRoutePath(), time.Since(start))
}

func (r *TaskResource) handleCreate(req *restful.Request, resp *restful.Response) {
	var body createRequest
	if err := req.ReadEntity(&body); err != nil {
		writeValidationErrors(resp, []fieldError{{Field: "body", Message: "malformed request body"}})
		return
	}
	if errs := body.validate(); len(errs) > 0 {
		writeValidationErrors(resp, errs)
		return
	}

	task, err := r.create(req.Request.Context(), body.toNewTask())
	if err != nil {
		writeStorageError(resp, err)
		return
	}
	writeJSON(resp, http.StatusCreated, toResponse(task))
}

func (r *TaskResource) handleList(req *restful.Request, resp *restful.Response) {
	if statusParam := req.QueryParameter("status"); statusParam != "" {
		status := domain.Status(statusParam)
		if !domain.ValidStatus(status) {
			writeValidationErrors(resp, []fieldError{{Field: "status", Message: "status must be pendente or concluida"}})
			return
		}
		tasks, err := r.listByStatus(req.Request.Context(), status)
		if err != nil {
			writeStorageError(resp, err)
			return
		}
		writeJSON(resp, http.StatusOK, toResponses(tasks))
		return
	}

	skip, ok := queryInt(req, "skip", 0)
	if !ok || skip < 0 {
		writeValidationErrors(resp, []fieldError{{Field: "skip", Message: "skip must be a non-negative integer"}})
		return
	}
	limit, ok := queryInt(req, "limit", defaultLimit)
	if !ok || limit < 0 {
		writeValidationErrors(resp, []fieldError{{Field: "limit", Message: "limit must be a non-negative integer"}})
		return
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	tasks, err := r.list(req.Request.Context(), skip, limit)
	if err != nil {
		writeStorageError(resp, err)
		return
	}
	writeJSON(resp, http.StatusOK, toResponses(tasks))
}

func (r *TaskResource) handleGet(req *restful.Request, resp *restful.Response) {
	id, ok := pathID(req)
	if !ok {
		writeNotFound(resp)
		return
	}

	task, err := r.get(req.Request.Context(), id)
	if errors.Is(err, domain.ErrTaskNotFound) {
		writeNotFound(resp)
		return
	}
	if err != nil {
		writeStorageError(resp, err)
		return
	}
	writeJSON(resp, http.StatusOK, toResponse(task))
}

func (r *TaskResource) handleUpdate(req *restful.Request, resp *restful.Response) {
	id, ok := pathID(req)
	if !ok {
		writeNotFound(resp)
		return
	}

	var body updateRequest
	if err := req.ReadEntity(&body); err != nil {
		writeValidationErrors(resp, []fieldError{{Field: "body", Message: "malformed request body"}})
		return
	}
	if errs := body.validate(); len(errs) > 0 {
		writeValidationErrors(resp, errs)
		return
	}

	task, err := r.update(req.Request.Context(), id, body.toPatch())
	if errors.Is(err, domain.ErrTaskNotFound) {
		writeNotFound(resp)
		return
	}
	if err != nil {
		writeStorageError(resp, err)
		return
	}
	writeJSON(resp, http.StatusOK, toResponse(task))
}

func (r *TaskResource) handleDelete(req *restful.Request, resp *restful.Response) {
	id, ok := pathID(req)
	if !ok {
		writeNotFound(resp)
		return
	}

	err := r.delete(req.Request.Context(), id)
	if errors.Is(err, domain.ErrTaskNotFound) {
		writeNotFound(resp)
		return
	}
	if err != nil {
		writeStorageError(resp, err)
		return
	}
	resp.WriteHeader(http.StatusNoContent)
}

func pathID(req *restful.Request) (int64, bool) {
	id, err := strconv.ParseInt(req.PathParameter("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func queryInt(req *restful.Request, name string, fallback int) (int, bool) {
	raw := req.QueryParameter(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func writeJSON(resp *restful.Response, status int, entity any) {
	if err := resp.WriteHeaderAndEntity(status, entity); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeNotFound(resp *restful.Response) {
	writeJSON(resp, http.StatusNotFound, errorResponse{Detail: notFoundDetail})
}

func writeValidationErrors(resp *restful.Response, errs []fieldError) {
	writeJSON(resp, http.StatusUnprocessableEntity, errorResponse{Detail: errs})
}

func writeStorageError(resp *restful.Response, err error) {
	log.Printf("storage error: %v", err)
	writeJSON(resp, http.StatusInternalServerError, errorResponse{Detail: "internal error"})
}
