package domain

import (
	"errors"
	"time"
)

// ErrTaskNotFound is returned when the requested task id does not exist.
// Absence is an expected outcome of get/update/delete, not a storage failure.
var ErrTaskNotFound = errors.New("task not found")

type Status string

const (
	StatusPending   Status = "pendente"
	StatusCompleted Status = "concluida"
)

// ValidStatus reports whether s is one of the accepted status literals.
func ValidStatus(s Status) bool {
	return s == StatusPending || s == StatusCompleted
}

const (
	TitleMaxLen       = 200
	DescriptionMaxLen = 1000
)

type Task struct {
	ID              int64
	Titulo          string
	Descricao       *string
	Status          Status
	DataCriacao     time.Time
	DataAtualizacao time.Time
}

// NewTask carries the fields a caller may supply on creation. Status is not
// among them: every task starts out pending.
type NewTask struct {
	Titulo    string
	Descricao *string
}

// TaskPatch is a partial update. Nil fields are left unchanged, except that
// ClearDescricao nulls out the description; Descricao is nil in that case.
type TaskPatch struct {
	Titulo         *string
	Descricao      *string
	ClearDescricao bool
	Status         *Status
}
