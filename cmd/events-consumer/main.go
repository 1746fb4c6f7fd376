package main

import (
	"context"
	"encoding/json"
	"log"
	"os/signal"
	"syscall"

	"github.com/kelseyhightower/envconfig"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/ecociel/tasks/kafkaclient"
)

type Config struct {
	QueueHostPorts []string `required:"true" split_words:"true"`
	EventsTopic    string   `default:"task_events" split_words:"true"`
	ConsumerGroup  string   `default:"task-events-logger" split_words:"true"`
}

type envelope struct {
	EventType string          `json:"event_type"`
	TaskData  json.RawMessage `json:"task_data"`
	Timestamp *string         `json:"timestamp"`
}

// Reference consumer of the task_events topic: decodes each envelope, logs
// it, and commits. Redelivery after a crash is fine, consumers are expected
// to tolerate at-least-once.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var config Config
	envconfig.MustProcess("", &config)

	client, err := kafkaclient.NewConsumer(config.QueueHostPorts, config.ConsumerGroup, config.EventsTopic)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	log.Printf("consuming %s as %s", config.EventsTopic, config.ConsumerGroup)

	for {
		fetches := client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			log.Println("consumer stopping")
			return
		}
		if errs := fetches.Errors(); len(errs) > 0 {
			log.Println("poll error:", errs)
			continue
		}

		fetches.EachRecord(func(record *kgo.Record) {
			var msg envelope
			if err := json.Unmarshal(record.Value, &msg); err != nil {
				log.Printf("skip malformed event at offset %d: %v", record.Offset, err)
			} else {
				ts := "-"
				if msg.Timestamp != nil {
					ts = *msg.Timestamp
				}
				log.Printf("event %s task %s at %s: %s", msg.EventType, string(record.Key), ts, string(msg.TaskData))
			}
			if err := client.CommitRecords(ctx, record); err != nil {
				log.Printf("commit record: %v", err)
			}
		})
	}
}
