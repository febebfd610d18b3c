package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/0x6flab/namegenerator"
	"github.com/absmach/fastflow/estimator"
	"github.com/absmach/fastflow/estimator/api"
	"github.com/absmach/fastflow/estimator/middleware"
	"github.com/absmach/fastflow/pkg/blob"
	"github.com/absmach/fastflow/pkg/executor"
	"github.com/absmach/fastflow/pkg/jaeger"
	"github.com/absmach/fastflow/pkg/mqtt"
	"github.com/absmach/fastflow/pkg/prometheus"
	"github.com/absmach/fastflow/pkg/sampler"
	"github.com/absmach/fastflow/pkg/server"
	httpserver "github.com/absmach/fastflow/pkg/server/http"
	"github.com/absmach/fastflow/pkg/stats"
	"github.com/absmach/fastflow/pkg/storage"
	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"
)

const (
	svcName       = "fastflow"
	defHTTPPort   = "9090"
	envPrefixHTTP = "FASTFLOW_HTTP_"
	envPrefixS3   = "FASTFLOW_S3_"
	envPrefixMQTT = "FASTFLOW_MQTT_"
	pathEnv       = ".env"
)

type envConfig struct {
	LogLevel    string `env:"FASTFLOW_LOG_LEVEL"      envDefault:"info"`
	InstanceID  string `env:"FASTFLOW_INSTANCE_ID"`
	MaxWorkers  int    `env:"FASTFLOW_MAX_WORKERS"    envDefault:"128"`
	HistorySize int    `env:"FASTFLOW_HISTORY_SIZE"   envDefault:"1000"`
	Server      server.Config
	OTELURL     url.URL `env:"FASTFLOW_OTEL_URL"`
	TraceRatio  float64 `env:"FASTFLOW_TRACE_RATIO" envDefault:"0"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	if _, err := os.Stat(pathEnv); err == nil {
		_ = godotenv.Load(pathEnv)
	}

	cfg := envConfig{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load configuration : %s", err.Error())
	}

	if cfg.InstanceID == "" {
		cfg.InstanceID = uuid.NewString()
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		log.Fatalf("failed to parse log level: %s", err.Error())
	}
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	var tp trace.TracerProvider
	switch {
	case cfg.OTELURL == (url.URL{}):
		tp = noop.NewTracerProvider()
	default:
		sdktp, err := jaeger.NewProvider(ctx, svcName, cfg.OTELURL, cfg.InstanceID, cfg.TraceRatio)
		if err != nil {
			logger.Error("failed to initialize opentelemetry", slog.String("error", err.Error()))

			return
		}
		defer func() {
			if err := sdktp.Shutdown(ctx); err != nil {
				logger.Error("error shutting down tracer provider", slog.Any("error", err))
			}
		}()
		tp = sdktp
	}
	tracer := tp.Tracer(svcName)

	tasks, taskDuration := prometheus.MakeTaskMetrics(svcName)
	observer := executor.WithObserver(func(_ executor.PartialResult, elapsed time.Duration) {
		tasks.Add(1)
		taskDuration.Observe(elapsed.Seconds())
	})

	var opts []estimator.Option
	mqttConfig := mqtt.Config{}
	if err := env.ParseWithOptions(&mqttConfig, env.Options{Prefix: envPrefixMQTT}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s MQTT configuration : %s", svcName, err.Error()))

		return
	}
	if mqttConfig.Address != "" {
		id := fmt.Sprintf("%s-%s", svcName, namegenerator.NewGenerator().Generate())
		results, err := mqtt.NewClient(mqttConfig, id, logger)
		if err != nil {
			logger.Error("failed to connect results publisher", slog.String("error", err.Error()))

			return
		}
		defer results.Close()
		opts = append(opts, estimator.WithPublisher(results))
	}

	s3Config := blob.Config{}
	if err := env.ParseWithOptions(&s3Config, env.Options{Prefix: envPrefixS3}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s S3 configuration : %s", svcName, err.Error()))

		return
	}
	if s3Config.Bucket != "" {
		store, err := blob.NewS3(s3Config)
		if err != nil {
			logger.Error("failed to initialize s3 exporter", slog.String("error", err.Error()))

			return
		}
		opts = append(opts, estimator.WithExporter(store))
	}

	svc := estimator.NewService(
		executor.NewSequential(observer),
		executor.NewPool(cfg.MaxWorkers, observer),
		sampler.NewQuarterCircle(),
		storage.NewInMemoryStorage(cfg.HistorySize),
		stats.NewLatency(),
		logger,
		opts...,
	)
	svc = middleware.Logging(logger, svc)
	svc = middleware.Tracing(tracer, svc)
	counter, latency := prometheus.MakeMetrics(svcName, "api")
	svc = middleware.Metrics(counter, latency, svc)

	httpServerConfig := server.Config{Port: defHTTPPort}
	if err := env.ParseWithOptions(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err.Error()))

		return
	}

	hs := httpserver.NewServer(ctx, cancel, svcName, httpServerConfig, api.MakeHandler(svc, logger, cfg.InstanceID), logger)

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service exited with error: %s", svcName, err))
	}
}
