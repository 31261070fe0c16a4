// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"leadchat-workers/internal/common/camunda"
	"leadchat-workers/internal/common/config"
	"leadchat-workers/internal/common/database"
	"leadchat-workers/internal/common/logger"
	"leadchat-workers/internal/common/observability"
	"leadchat-workers/pkg/registry"

	// Conversation Workers (2)
	arg "leadchat-workers/internal/workers/conversation/apply-response-guards"
	dhe "leadchat-workers/internal/workers/conversation/decide-human-escalation"

	// QA Lab Workers (1)
	aic "leadchat-workers/internal/workers/qa-lab/analyze-intake-coverage"

	// Communication Workers (1)
	sen "leadchat-workers/internal/workers/communication/send-escalation-notice"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	if endpoint := os.Getenv("JAEGER_COLLECTOR_ENDPOINT"); endpoint != "" {
		tracing, err := observability.NewTracing("worker-manager", endpoint)
		if err != nil {
			zapLog.Warn("tracing init failed, continuing without it", zap.Error(err))
		} else {
			obs = obs.WithTracing(tracing)
		}
	}
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         time.Duration(cfg.Camunda.RequestTimeout) * time.Millisecond,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Validate Worker Registry ---
	if reg, err := registry.LoadRegistry(cfg.Registry.Path); err != nil {
		zapLog.Warn("worker registry not loaded", zap.String("path", cfg.Registry.Path), zap.Error(err))
	} else if err := reg.Validate(); err != nil {
		zapLog.Fatal("worker registry invalid", zap.Error(err))
	} else {
		zapLog.Info("worker registry validated", zap.Int("activities", len(reg.Activities)))
	}

	// --- START: Register ALL 4 Workers ---

	// --- 1. Conversation Workers (2) ---
	if cfg.Workers[arg.TaskType].Enabled {
		gcfg := arg.FromAppConfig(cfg)
		if t := cfg.Workers[arg.TaskType].Timeout; t > 0 {
			gcfg.Timeout = time.Duration(t) * time.Millisecond
		}
		handler := arg.NewHandler(gcfg, redis.Client, log)
		startWorker(zeebeClient, arg.TaskType, cfg.Workers[arg.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[dhe.TaskType].Enabled {
		ecfg := dhe.FromAppConfig(cfg)
		if t := cfg.Workers[dhe.TaskType].Timeout; t > 0 {
			ecfg.Timeout = time.Duration(t) * time.Millisecond
		}
		handler := dhe.NewHandler(ecfg, log)
		startWorker(zeebeClient, dhe.TaskType, cfg.Workers[dhe.TaskType], handler.Handle, zapLog)
	}

	// --- 2. QA Lab Workers (1) ---
	if cfg.Workers[aic.TaskType].Enabled {
		qcfg := aic.FromAppConfig(cfg)
		if t := cfg.Workers[aic.TaskType].Timeout; t > 0 {
			qcfg.Timeout = time.Duration(t) * time.Millisecond
		}
		handler := aic.NewHandler(qcfg, redis.Client, log)
		startWorker(zeebeClient, aic.TaskType, cfg.Workers[aic.TaskType], handler.Handle, zapLog)
	}

	// --- 3. Communication Workers (1) ---
	if cfg.Workers[sen.TaskType].Enabled {
		ncfg := sen.FromAppConfig(cfg)
		if t := cfg.Workers[sen.TaskType].Timeout; t > 0 {
			ncfg.Timeout = time.Duration(t) * time.Millisecond
		}
		handler, err := sen.NewHandler(ncfg, log)
		if err != nil {
			zapLog.Fatal("failed to create send-escalation-notice handler", zap.Error(err))
		}
		startWorker(zeebeClient, sen.TaskType, cfg.Workers[sen.TaskType], handler.Handle, zapLog)
	}

	zapLog.Info("All 4 workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			status := "ready"
			code := http.StatusOK
			if err := redis.Ping(r.Context()); err != nil {
				status = "not ready"
				code = http.StatusServiceUnavailable
			} else if err := camundaClient.HealthCheck(r.Context()); err != nil {
				status = "not ready"
				code = http.StatusServiceUnavailable
			}
			w.WriteHeader(code)
			json.NewEncoder(w).Encode(map[string]string{
				"status": status,
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_ = shutdownCtx

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
