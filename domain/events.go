package domain

import "time"

type EventType string

const (
	EventTaskCreated EventType = "task_created"
	EventTaskUpdated EventType = "task_updated"
	EventTaskDeleted EventType = "task_deleted"
)

// HeaderEventType is the record header carrying the event type, so consumers
// can route without decoding the body.
const HeaderEventType = "event_type"

// Event is a task lifecycle event handed to the queue publisher. TaskData is
// the event-specific snapshot; Timestamp is the task's updated-at when the
// event carries one, else its created-at, and may be nil.
type Event struct {
	Type      EventType
	TaskID    int64
	TaskData  any
	Timestamp *time.Time
}

type CreatedData struct {
	ID          int64     `json:"id"`
	Titulo      string    `json:"titulo"`
	Status      Status    `json:"status"`
	DataCriacao time.Time `json:"data_criacao"`
}

type UpdatedData struct {
	ID              int64     `json:"id"`
	Titulo          string    `json:"titulo"`
	Status          Status    `json:"status"`
	OldStatus       Status    `json:"old_status"`
	DataAtualizacao time.Time `json:"data_atualizacao"`
}

type DeletedData struct {
	ID     int64  `json:"id"`
	Titulo string `json:"titulo"`
}

func NewCreatedEvent(t Task) Event {
	created := t.DataCriacao
	return Event{
		Type:   EventTaskCreated,
		TaskID: t.ID,
		TaskData: CreatedData{
			ID:          t.ID,
			Titulo:      t.Titulo,
			Status:      t.Status,
			DataCriacao: t.DataCriacao,
		},
		Timestamp: &created,
	}
}

func NewUpdatedEvent(t Task, oldStatus Status) Event {
	updated := t.DataAtualizacao
	return Event{
		Type:   EventTaskUpdated,
		TaskID: t.ID,
		TaskData: UpdatedData{
			ID:              t.ID,
			Titulo:          t.Titulo,
			Status:          t.Status,
			OldStatus:       oldStatus,
			DataAtualizacao: t.DataAtualizacao,
		},
		Timestamp: &updated,
	}
}

func NewDeletedEvent(t Task) Event {
	return Event{
		Type:     EventTaskDeleted,
		TaskID:   t.ID,
		TaskData: DeletedData{ID: t.ID, Titulo: t.Titulo},
	}
}
