package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ecociel/tasks/domain"
)

const defaultTimeout = 10 * time.Second

// Notifier posts a completion card to a configured webhook URL. An empty URL
// disables it: Notify becomes a no-op and never errors.
type Notifier struct {
	url    string
	client *http.Client
}

func New(url string) *Notifier {
	return &Notifier{url: url, client: &http.Client{Timeout: defaultTimeout}}
}

// card is the MessageCard shape the webhook endpoint expects.
type card struct {
	Type       string    `json:"@type"`
	Context    string    `json:"@context"`
	ThemeColor string    `json:"themeColor"`
	Summary    string    `json:"summary"`
	Sections   []section `json:"sections"`
}

type section struct {
	ActivityTitle    string `json:"activityTitle"`
	ActivitySubtitle string `json:"activitySubtitle"`
	Facts            []fact `json:"facts"`
}

type fact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (n *Notifier) Enabled() bool {
	return n.url != ""
}

// Notify delivers a completion card for the task. Callers treat a returned
// error as log-and-move-on: delivery is best effort.
func (n *Notifier) Notify(ctx context.Context, task domain.Task) error {
	if !n.Enabled() {
		return nil
	}

	body, err := json.Marshal(completionCard(task))
	if err != nil {
		return fmt.Errorf("serialize card: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func completionCard(task domain.Task) card {
	descricao := "N/A"
	if task.Descricao != nil {
		descricao = *task.Descricao
	}
	return card{
		Type:       "MessageCard",
		Context:    "http://schema.org/extensions",
		ThemeColor: "00FF00",
		Summary:    "Tarefa Concluída",
		Sections: []section{
			{
				ActivityTitle:    "✅ Tarefa Concluída",
				ActivitySubtitle: fmt.Sprintf("**%s**", task.Titulo),
				Facts: []fact{
					{Name: "ID", Value: strconv.FormatInt(task.ID, 10)},
					{Name: "Descrição", Value: descricao},
					{Name: "Data de Criação", Value: task.DataCriacao.Format(time.RFC3339)},
					{Name: "Concluída em", Value: task.DataAtualizacao.Format(time.RFC3339)},
				},
			},
		},
	}
}
