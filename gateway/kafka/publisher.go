package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/ecociel/tasks/domain"
)

// Producer is the slice of kgo.Client the publisher needs, so tests can
// substitute a mock.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

type Publisher struct {
	client Producer
	topic  string
}

func New(client Producer, topic string) *Publisher {
	return &Publisher{client: client, topic: topic}
}

// envelope is the wire shape consumed from the task_events topic.
type envelope struct {
	EventType string  `json:"event_type"`
	TaskData  any     `json:"task_data"`
	Timestamp *string `json:"timestamp"`
}

// Publish produces one lifecycle event. The record key is the task id so all
// events of a task land on the same partition, in order.
func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	record, err := eventToRec(event, p.topic)
	if err != nil {
		return err
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

func eventToRec(event domain.Event, topic string) (*kgo.Record, error) {
	var ts *string
	if event.Timestamp != nil {
		s := event.Timestamp.Format(time.RFC3339Nano)
		ts = &s
	}
	value, err := json.Marshal(envelope{
		EventType: string(event.Type),
		TaskData:  event.TaskData,
		Timestamp: ts,
	})
	if err != nil {
		return nil, fmt.Errorf("serialize event: %w", err)
	}

	headers := []kgo.RecordHeader{
		{Key: domain.HeaderEventType, Value: []byte(event.Type)},
	}
	return &kgo.Record{
		Topic:   topic,
		Key:     []byte(strconv.FormatInt(event.TaskID, 10)),
		Value:   value,
		Headers: headers,
	}, nil
}
