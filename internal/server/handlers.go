package server

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-data-mcp/pkg/aztools"
	"github.com/cockroachdb/errors"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type Options struct {
	Timeout             time.Duration
	DefaultSubscription string
}

// Tools is the registration table of every tool the server exposes.
// fetch_blob_text is left out when the client has no blob endpoint.
func Tools(client aztools.Client, opts Options) []server.ServerTool {
	tools := []server.ServerTool{
		{Tool: aztools.NewQueryLogsTool(), Handler: QueryLogsHandler(client, opts)},
		{Tool: aztools.NewCheckStorageEncryptionTool(), Handler: CheckStorageEncryptionHandler(client, opts)},
	}
	if client.BlobsConfigured() {
		tools = append(tools, server.ServerTool{Tool: aztools.NewFetchBlobTextTool(), Handler: FetchBlobTextHandler(client, opts)})
	}
	return tools
}

func QueryLogsHandler(client aztools.Client, opts Options) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req := &aztools.QueryLogsRequest{
			WorkspaceID: request.GetString("workspace_id", ""),
			Query:       request.GetString("kql", ""),
			Timespan:    request.GetString("timespan", aztools.DefaultTimespan),
			AsCSV:       request.GetBool("as_csv", true),
		}

		return run(ctx, client, opts, req, func(ctx context.Context) (string, error) {
			return client.QueryLogs(ctx, req)
		})
	}
}

func FetchBlobTextHandler(client aztools.Client, opts Options) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req := &aztools.FetchBlobRequest{
			Container: request.GetString("container_name", ""),
			Blob:      request.GetString("blob_name", ""),
			Encoding:  request.GetString("encoding", "utf8"),
		}

		return run(ctx, client, opts, req, func(ctx context.Context) (string, error) {
			return client.FetchBlobText(ctx, req)
		})
	}
}

func CheckStorageEncryptionHandler(client aztools.Client, opts Options) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req := &aztools.StorageEncryptionRequest{
			SubscriptionID: request.GetString("subscription_id", opts.DefaultSubscription),
			ResourceGroup:  request.GetString("resource_group", ""),
			AccountName:    request.GetString("storage_account_name", ""),
		}
		if req.SubscriptionID == "" {
			req.SubscriptionID = opts.DefaultSubscription
		}

		return run(ctx, client, opts, req, func(ctx context.Context) (string, error) {
			return client.CheckStorageEncryption(ctx, req)
		})
	}
}

// run validates before starting the call timeout so that argument errors
// are reported as validation errors and never reach Azure.
func run(ctx context.Context, client aztools.Client, opts Options, req any, call func(context.Context) (string, error)) (*mcp.CallToolResult, error) {
	if err := client.ValidateRequest(req); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("validation error: %v", err)), nil
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	text, err := call(ctx)
	if err != nil {
		var toolErr *aztools.ToolError
		if errors.As(err, &toolErr) && (toolErr.Type == aztools.ErrorTypeInvalidArgument || toolErr.Type == aztools.ErrorTypePolicyDenied) {
			return mcp.NewToolResultError(fmt.Sprintf("validation error: %v", err)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("execution error: %v", err)), nil
	}

	return mcp.NewToolResultText(text), nil
}
