package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/ecociel/tasks/domain"
)

// mockClient mocks kgo.Client for testing
type mockClient struct {
	produceErr   error
	lastRecord   *kgo.Record
	produceCalls int
}

func (m *mockClient) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	m.produceCalls++
	if len(rs) > 0 {
		m.lastRecord = rs[0]
	}
	if m.produceErr != nil {
		return kgo.ProduceResults{
			{
				Err: m.produceErr,
			},
		}
	}
	return kgo.ProduceResults{}
}

func TestPublish_Success(t *testing.T) {
	mock := &mockClient{}
	pub := New(mock, "task_events")

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	task := domain.Task{
		ID:              42,
		Titulo:          "Buy milk",
		Status:          domain.StatusPending,
		DataCriacao:     created,
		DataAtualizacao: created,
	}

	err := pub.Publish(context.Background(), domain.NewCreatedEvent(task))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if mock.produceCalls != 1 {
		t.Fatalf("expected 1 produce call, got: %d", mock.produceCalls)
	}

	rec := mock.lastRecord
	if rec.Topic != "task_events" {
		t.Errorf("expected topic task_events, got %s", rec.Topic)
	}
	if string(rec.Key) != "42" {
		t.Errorf("expected key 42, got %s", string(rec.Key))
	}

	var env envelope
	if err := json.Unmarshal(rec.Value, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if env.EventType != "task_created" {
		t.Errorf("expected event_type task_created, got %s", env.EventType)
	}
	if env.Timestamp == nil || *env.Timestamp != created.Format(time.RFC3339Nano) {
		t.Errorf("expected timestamp %s, got %v", created.Format(time.RFC3339Nano), env.Timestamp)
	}

	data, ok := env.TaskData.(map[string]any)
	if !ok {
		t.Fatalf("expected task_data object, got %T", env.TaskData)
	}
	if data["titulo"] != "Buy milk" {
		t.Errorf("expected titulo Buy milk, got %v", data["titulo"])
	}
	if data["status"] != "pendente" {
		t.Errorf("expected status pendente, got %v", data["status"])
	}

	if len(rec.Headers) != 1 {
		t.Fatalf("expected 1 header, got %d", len(rec.Headers))
	}
	if rec.Headers[0].Key != domain.HeaderEventType || string(rec.Headers[0].Value) != "task_created" {
		t.Errorf("unexpected event_type header: %s=%s", rec.Headers[0].Key, string(rec.Headers[0].Value))
	}
}

func TestPublish_UpdatedCarriesOldStatus(t *testing.T) {
	mock := &mockClient{}
	pub := New(mock, "task_events")

	updated := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	task := domain.Task{
		ID:              7,
		Titulo:          "Ship release",
		Status:          domain.StatusCompleted,
		DataCriacao:     updated.Add(-time.Hour),
		DataAtualizacao: updated,
	}

	err := pub.Publish(context.Background(), domain.NewUpdatedEvent(task, domain.StatusPending))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	var env envelope
	if err := json.Unmarshal(mock.lastRecord.Value, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	data := env.TaskData.(map[string]any)
	if data["old_status"] != "pendente" {
		t.Errorf("expected old_status pendente, got %v", data["old_status"])
	}
	if data["status"] != "concluida" {
		t.Errorf("expected status concluida, got %v", data["status"])
	}
	if env.Timestamp == nil || *env.Timestamp != updated.Format(time.RFC3339Nano) {
		t.Errorf("expected timestamp from data_atualizacao, got %v", env.Timestamp)
	}
}

func TestPublish_DeletedHasNoTimestamp(t *testing.T) {
	mock := &mockClient{}
	pub := New(mock, "task_events")

	task := domain.Task{ID: 3, Titulo: "Old task"}
	err := pub.Publish(context.Background(), domain.NewDeletedEvent(task))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	var env envelope
	if err := json.Unmarshal(mock.lastRecord.Value, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if env.EventType != "task_deleted" {
		t.Errorf("expected event_type task_deleted, got %s", env.EventType)
	}
	if env.Timestamp != nil {
		t.Errorf("expected nil timestamp, got %v", *env.Timestamp)
	}
	data := env.TaskData.(map[string]any)
	if len(data) != 2 {
		t.Errorf("expected only id and titulo, got %v", data)
	}
}

func TestPublish_Error(t *testing.T) {
	expectedErr := errors.New("kafka connection failed")
	mock := &mockClient{produceErr: expectedErr}
	pub := New(mock, "task_events")

	err := pub.Publish(context.Background(), domain.NewDeletedEvent(domain.Task{ID: 1}))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error to be %v, got %v", expectedErr, err)
	}
	if mock.produceCalls != 1 {
		t.Errorf("expected 1 produce call, got: %d", mock.produceCalls)
	}
}

func TestPublish_ContextCancellation(t *testing.T) {
	mock := &mockClient{produceErr: context.Canceled}
	pub := New(mock, "task_events")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pub.Publish(ctx, domain.NewDeletedEvent(domain.Task{ID: 2}))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled error, got %v", err)
	}
}
