// Drover orchestrator server — serves the A2A/JSON-RPC and SSE gateway, runs
// the Temporal worker for task workflows, and manages event fan-out.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/droverhq/drover/pkg/api"
	"github.com/droverhq/drover/pkg/cleanup"
	"github.com/droverhq/drover/pkg/config"
	"github.com/droverhq/drover/pkg/database"
	"github.com/droverhq/drover/pkg/events"
	"github.com/droverhq/drover/pkg/mcp"
	"github.com/droverhq/drover/pkg/secrets"
	"github.com/droverhq/drover/pkg/services"
	"github.com/droverhq/drover/pkg/workflow"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./deploy/config"),
		"Path to configuration directory")
	flag.Parse()

	// Load .env file from config directory
	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		slog.Warn("Could not load .env file, continuing with existing environment",
			"path", envPath, "error", err)
	} else {
		slog.Info("Loaded environment", "path", envPath)
	}

	ctx := context.Background()

	// 1. Configuration
	cfg, err := config.Initialize(ctx, *configDir)
	if err != nil {
		slog.Error("Failed to initialize configuration", "error", err)
		os.Exit(1)
	}
	stats := cfg.Stats()
	slog.Info("Configuration loaded",
		"agents", stats.Agents,
		"mcp_servers", stats.MCPServers,
		"llm_providers", stats.LLMProviders)

	// 2. Database
	dbConfig, err := database.LoadConfigFromEnv()
	if err != nil {
		slog.Error("Failed to load database config", "error", err)
		os.Exit(1)
	}
	dbClient, err := database.NewClient(ctx, dbConfig)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			slog.Error("Error closing database client", "error", err)
		}
	}()
	slog.Info("Connected to PostgreSQL database")

	// 3. Event pipeline: publisher, broker, dedicated LISTEN connection
	publisher := events.NewPublisher(dbClient.DB())
	broker := events.NewBroker()

	notifyListener := events.NewNotifyListener(dbConfig.DSN(), broker)
	if err := notifyListener.Start(ctx); err != nil {
		slog.Error("Failed to start NOTIFY listener", "error", err)
		os.Exit(1)
	}
	defer notifyListener.Stop(ctx)
	broker.SetListener(notifyListener)
	slog.Info("Event pipeline initialized")

	// 4. Temporal client and orchestrator
	temporal, err := temporalclient.Dial(temporalclient.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		slog.Error("Failed to connect to Temporal", "host_port", cfg.Temporal.HostPort, "error", err)
		os.Exit(1)
	}
	defer temporal.Close()
	orchestrator := workflow.NewTemporalOrchestrator(temporal, cfg.Temporal)
	slog.Info("Temporal client initialized",
		"host_port", cfg.Temporal.HostPort,
		"namespace", cfg.Temporal.Namespace,
		"task_queue", cfg.Temporal.TaskQueue)

	// 5. Services
	secretStore := secrets.NewEnvStore()
	taskService := services.NewTaskService(dbClient.Client, cfg, orchestrator, publisher)
	eventService := services.NewEventService(dbClient.Client)
	slog.Info("Services initialized")

	// 6. MCP client, shared by worker activities
	mcpClient := mcp.NewClient(cfg.MCPServerRegistry)
	defer func() {
		if err := mcpClient.Close(); err != nil {
			slog.Error("Error closing MCP client", "error", err)
		}
	}()

	// 7. Temporal worker
	activities := &workflow.Activities{
		Config:    cfg,
		Secrets:   secretStore,
		Tasks:     taskService,
		Publisher: publisher,
		MCP:       mcpClient,
	}
	worker := workflow.NewWorker(temporal, cfg.Temporal, activities)
	if err := worker.Start(); err != nil {
		slog.Error("Failed to start Temporal worker", "error", err)
		os.Exit(1)
	}
	slog.Info("Temporal worker started",
		"max_concurrent_activities", cfg.Temporal.MaxConcurrentActivities)

	// 8. Retention cleanup loop
	cleanupService := cleanup.NewService(cfg.Retention, eventService)
	cleanupService.Start(ctx)

	// 9. HTTP server
	httpServer, err := api.NewServer(cfg, dbClient, taskService, eventService, broker, secretStore)
	if err != nil {
		slog.Error("Failed to build HTTP server", "error", err)
		os.Exit(1)
	}

	addr := getEnv("HTTP_ADDR", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := httpServer.Start(addr); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			errCh <- err
		}
	}()

	slog.Info("Drover started successfully")

	// 10. Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		slog.Info("Shutdown signal received", "signal", sig)
	case err := <-errCh:
		slog.Error("Server error triggered shutdown", "error", err)
	}

	// 11. Graceful shutdown: stop intake first, then drain the worker.
	httpShutdownCtx, httpCancel := context.WithTimeout(ctx, 5*time.Second)
	defer httpCancel()
	if err := httpServer.Shutdown(httpShutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	cleanupService.Stop()
	worker.Stop()
	slog.Info("Shutdown complete")
}
