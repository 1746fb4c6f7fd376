package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	restful "github.com/emicklei/go-restful/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ecociel/tasks/gateway/kafka"
	"github.com/ecociel/tasks/gateway/webhook"
	"github.com/ecociel/tasks/kafkaclient"
	"github.com/ecociel/tasks/metrics"
	"github.com/ecociel/tasks/repos/postgres"
	"github.com/ecociel/tasks/rest"
	"github.com/ecociel/tasks/uc"
)

type Config struct {
	DbConnectionUri string   `required:"true" split_words:"true"`
	QueueHostPorts  []string `required:"true" split_words:"true"`
	EventsTopic     string   `default:"task_events" split_words:"true"`
	WebhookUrl      string   `split_words:"true"`
	HttpAddr        string   `default:":8000" split_words:"true"`

	CorsAllowedOrigins []string `default:"http://localhost:3000,http://127.0.0.1:3000" split_words:"true"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var config Config
	envconfig.MustProcess("", &config)

	pool, err := pgxpool.New(ctx, config.DbConnectionUri)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	repo := postgres.New(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal(err)
	}

	kClient, err := kafkaclient.NewProducer(config.QueueHostPorts, config.EventsTopic)
	if err != nil {
		log.Fatal(err)
	}
	defer kClient.Close()

	publisher := kafka.New(kClient, config.EventsTopic)
	notifier := webhook.New(config.WebhookUrl)
	if !notifier.Enabled() {
		log.Println("webhook url not configured, completion notifications disabled")
	}

	reg := prometheus.NewRegistry()
	m := metrics.NewPromMetrics(reg)

	tasks := rest.NewTaskResource(
		uc.MakeCreateTaskUseCase(repo, publisher, m),
		uc.MakeGetTaskUseCase(repo),
		uc.MakeListTasksUseCase(repo),
		uc.MakeListTasksByStatusUseCase(repo),
		uc.MakeUpdateTaskUseCase(repo, publisher, notifier, m),
		uc.MakeDeleteTaskUseCase(repo, publisher, m),
		m,
	)

	container := restful.NewContainer()
	container.Add(tasks.WebService())
	container.Add(rest.NewHealthResource(repo).WebService())
	container.Add(rest.NewRootResource().WebService())

	cors := restful.CrossOriginResourceSharing{
		AllowedDomains: config.CorsAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"Content-Type", "Accept"},
		CookiesAllowed: true,
		Container:      container,
	}
	container.Filter(cors.Filter)
	container.Filter(container.OPTIONSFilter)

	mux := http.NewServeMux()
	mux.Handle("/", container)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	server := &http.Server{Addr: config.HttpAddr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("task api listening on %s", config.HttpAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
