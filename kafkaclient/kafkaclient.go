package kafkaclient

import (
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// NewProducer builds a client for producing task events.
func NewProducer(hostPorts []string, topic string) (*kgo.Client, error) {
	return kgo.NewClient(
		kgo.SeedBrokers(hostPorts...),
		kgo.AllowAutoTopicCreation(),
		kgo.DefaultProduceTopic(topic),
	)
}

// NewConsumer builds a client for consuming task events with manual commits.
func NewConsumer(hostPorts []string, group, topic string) (*kgo.Client, error) {
	return kgo.NewClient(
		kgo.SeedBrokers(hostPorts...),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(topic),
		kgo.AllowAutoTopicCreation(),
		kgo.DisableAutoCommit(),
		kgo.FetchMaxWait(500*time.Millisecond),
	)
}
