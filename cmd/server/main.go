package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Azure/azure-data-mcp/internal/config"
	"github.com/Azure/azure-data-mcp/internal/logger"
	mcpserver "github.com/Azure/azure-data-mcp/internal/server"
	"github.com/Azure/azure-data-mcp/internal/version"
	"github.com/Azure/azure-data-mcp/pkg/aztools"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	ctx := context.Background()

	cfg := config.NewConfig()
	if err := cfg.ParseFlags(os.Args[1:]); err != nil {
		logger.Fatalf("Configuration error: %v", err)
	}

	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.Fatalf("Invalid log level: %v", err)
	}

	cred, err := aztools.NewCredential(cfg.AuthConfig())
	if err != nil {
		logger.Fatalf("Credential setup failed: %v", err)
	}

	if !cfg.SkipAuthValidation {
		validateCtx, cancel := context.WithTimeout(ctx, cfg.TimeoutDuration())
		err := aztools.ValidateCredential(validateCtx, cred)
		cancel()
		if err != nil {
			logger.Fatalf("Authentication validation failed: %v\nCheck the configured identity or run 'az login' and use --auth-method=cli", err)
		}
		logger.Info("Authentication validated successfully")
	}

	client, err := aztools.NewClient(cfg.ClientConfig(), cred)
	if err != nil {
		logger.Fatalf("Failed to create Azure client: %v", err)
	}
	if !client.BlobsConfigured() {
		logger.Warnf("No storage account URL or connection string configured, %s is disabled", aztools.ToolFetchBlobText)
	}

	mcpServer := server.NewMCPServer(
		"Azure Data MCP",
		version.GetVersion(),
		server.WithToolCapabilities(false),
		server.WithToolHandlerMiddleware(mcpserver.LoggingMiddleware),
		server.WithRecovery(),
	)

	mcpServer.AddTools(mcpserver.Tools(client, mcpserver.Options{
		Timeout:             cfg.TimeoutDuration(),
		DefaultSubscription: cfg.SubscriptionID,
	})...)

	logger.Infof("Starting Azure Data MCP server (version %s)", version.GetVersion())
	if err := runServer(mcpServer, cfg); err != nil {
		logger.Fatalf("Server error: %v", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, `{"status":"healthy","version":%q}`, version.GetVersion())
}

func runServer(mcpServer *server.MCPServer, cfg *config.Config) error {
	switch cfg.Transport {
	case "stdio":
		logger.Info("Listening for requests on STDIO...")
		return server.ServeStdio(mcpServer)

	case "sse":
		addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
		baseURL := fmt.Sprintf("http://%s", addr)

		mux := http.NewServeMux()
		mux.HandleFunc("/health", healthHandler)

		customServer := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}

		sseServer := server.NewSSEServer(
			mcpServer,
			server.WithBaseURL(baseURL),
			server.WithHTTPServer(customServer),
		)

		logger.Infof("SSE server listening on %s", addr)
		logger.Infof("SSE endpoint available at: http://%s/sse", addr)
		logger.Infof("Message endpoint available at: http://%s/message", addr)
		logger.Infof("Health check available at: http://%s/health", addr)

		return sseServer.Start(addr)

	case "streamable-http":
		addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

		mux := http.NewServeMux()
		mux.HandleFunc("/health", healthHandler)

		customServer := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}

		streamableServer := server.NewStreamableHTTPServer(
			mcpServer,
			server.WithStreamableHTTPServer(customServer),
		)

		mux.Handle("/mcp", streamableServer)

		logger.Infof("Streamable HTTP server listening on %s", addr)
		logger.Infof("MCP endpoint available at: http://%s/mcp", addr)
		logger.Infof("Health check available at: http://%s/health", addr)

		return customServer.ListenAndServe()

	default:
		return fmt.Errorf("invalid transport type: %s (must be 'stdio', 'sse', or 'streamable-http')", cfg.Transport)
	}
}
