package rest

import (
	"encoding/json"
	"time"
	"unicode/utf8"

	"github.com/ecociel/tasks/domain"
)

// taskResponse is the wire shape of a task. Field names and status literals
// are a compatibility contract with existing clients.
type taskResponse struct {
	ID              int64         `json:"id"`
	Titulo          string        `json:"titulo"`
	Descricao       *string       `json:"descricao"`
	Status          domain.Status `json:"status"`
	DataCriacao     time.Time     `json:"data_criacao"`
	DataAtualizacao time.Time     `json:"data_atualizacao"`
}

func toResponse(t domain.Task) taskResponse {
	return taskResponse{
		ID:              t.ID,
		Titulo:          t.Titulo,
		Descricao:       t.Descricao,
		Status:          t.Status,
		DataCriacao:     t.DataCriacao,
		DataAtualizacao: t.DataAtualizacao,
	}
}

func toResponses(tasks []domain.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toResponse(t))
	}
	return out
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// errorResponse mirrors the {"detail": ...} error body of the original API:
// a string for not-found, a field error list for validation failures.
type errorResponse struct {
	Detail any `json:"detail"`
}

type createRequest struct {
	Titulo    *string `json:"titulo"`
	Descricao *string `json:"descricao"`
}

func (r createRequest) validate() []fieldError {
	var errs []fieldError
	if r.Titulo == nil || utf8.RuneCountInString(*r.Titulo) == 0 {
		errs = append(errs, fieldError{Field: "titulo", Message: "titulo is required"})
	} else if utf8.RuneCountInString(*r.Titulo) > domain.TitleMaxLen {
		errs = append(errs, fieldError{Field: "titulo", Message: "titulo must be at most 200 characters"})
	}
	if r.Descricao != nil && utf8.RuneCountInString(*r.Descricao) > domain.DescriptionMaxLen {
		errs = append(errs, fieldError{Field: "descricao", Message: "descricao must be at most 1000 characters"})
	}
	return errs
}

func (r createRequest) toNewTask() domain.NewTask {
	return domain.NewTask{Titulo: *r.Titulo, Descricao: r.Descricao}
}

type updateRequest struct {
	Titulo    *string
	Descricao *string
	Status    *string

	// descricaoSet distinguishes an explicit {"descricao": null}, which
	// clears the description, from an absent field, which keeps it.
	descricaoSet bool
}

func (r *updateRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Titulo    *string         `json:"titulo"`
		Descricao json.RawMessage `json:"descricao"`
		Status    *string         `json:"status"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Titulo = raw.Titulo
	r.Status = raw.Status
	r.Descricao = nil
	r.descricaoSet = raw.Descricao != nil
	if r.descricaoSet {
		if err := json.Unmarshal(raw.Descricao, &r.Descricao); err != nil {
			return err
		}
	}
	return nil
}

func (r updateRequest) validate() []fieldError {
	var errs []fieldError
	if r.Titulo != nil {
		if n := utf8.RuneCountInString(*r.Titulo); n == 0 {
			errs = append(errs, fieldError{Field: "titulo", Message: "titulo must not be empty"})
		} else if n > domain.TitleMaxLen {
			errs = append(errs, fieldError{Field: "titulo", Message: "titulo must be at most 200 characters"})
		}
	}
	if r.Descricao != nil && utf8.RuneCountInString(*r.Descricao) > domain.DescriptionMaxLen {
		errs = append(errs, fieldError{Field: "descricao", Message: "descricao must be at most 1000 characters"})
	}
	if r.Status != nil && !domain.ValidStatus(domain.Status(*r.Status)) {
		errs = append(errs, fieldError{Field: "status", Message: "status must be pendente or concluida"})
	}
	return errs
}

func (r updateRequest) toPatch() domain.TaskPatch {
	patch := domain.TaskPatch{
		Titulo:         r.Titulo,
		Descricao:      r.Descricao,
		ClearDescricao: r.descricaoSet && r.Descricao == nil,
	}
	if r.Status != nil {
		status := domain.Status(*r.Status)
		patch.Status = &status
	}
	return patch
}
