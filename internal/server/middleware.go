package server

import (
	"context"
	"time"

	"github.com/Azure/azure-data-mcp/internal/logger"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

// LoggingMiddleware logs one line per tool call. Arguments are not logged
// because blob and subscription names may be sensitive.
func LoggingMiddleware(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		entry := logger.WithFields(logrus.Fields{
			"request_id": uuid.NewString(),
			"tool":       request.Params.Name,
		})
		entry.Debug("tool call started")

		result, err := next(ctx, request)

		entry = entry.WithField("duration", time.Since(start).Round(time.Millisecond))
		switch {
		case err != nil:
			entry.WithError(err).Error("tool call failed")
		case result != nil && result.IsError:
			entry.Warn("tool call returned an error result")
		default:
			entry.Info("tool call completed")
		}

		return result, err
	}
}
