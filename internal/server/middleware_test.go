package server

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	std := logrus.StandardLogger()
	out, level := std.Out, std.GetLevel()
	std.SetOutput(&buf)
	std.SetLevel(logrus.DebugLevel)
	t.Cleanup(func() {
		std.SetOutput(out)
		std.SetLevel(level)
	})
	return &buf
}

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		result  *mcp.CallToolResult
		err     error
		wantLog string
	}{
		{name: "success", result: mcp.NewToolResultText("ok"), wantLog: "tool call completed"},
		{name: "error result", result: mcp.NewToolResultError("validation error: x"), wantLog: "tool call returned an error result"},
		{name: "handler error", err: errors.New("boom"), wantLog: "tool call failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)

			handler := LoggingMiddleware(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return tt.result, tt.err
			})

			result, err := handler(context.Background(), newRequest("query_monitor_logs", nil))
			assert.Equal(t, tt.result, result)
			assert.Equal(t, tt.err, err)

			logs := buf.String()
			require.Contains(t, logs, tt.wantLog)
			assert.Contains(t, logs, "tool=query_monitor_logs")
			assert.Contains(t, logs, "request_id=")
		})
	}
}
