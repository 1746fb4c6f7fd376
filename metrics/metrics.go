package metrics

import "time"

type TaskMetrics interface {
	TaskCreated()
	TaskCompleted()
	TaskDeleted()
	EventPublished()
	EventPublishFailed()
	WebhookSent()
	WebhookFailed()
	RequestLatency(route string, d time.Duration)
}

// Nop discards all observations. Default when no registry is wired.
type Nop struct{}

func (Nop) TaskCreated()                         {}
func (Nop) TaskCompleted()                       {}
func (Nop) TaskDeleted()                         {}
func (Nop) EventPublished()                      {}
func (Nop) EventPublishFailed()                  {}
func (Nop) WebhookSent()                         {}
func (Nop) WebhookFailed()                       {}
func (Nop) RequestLatency(string, time.Duration) {}
