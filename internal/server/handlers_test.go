package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Azure/azure-data-mcp/pkg/aztools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	queryFunc      func(ctx context.Context, req *aztools.QueryLogsRequest) (string, error)
	fetchFunc      func(ctx context.Context, req *aztools.FetchBlobRequest) (string, error)
	encryptionFunc func(ctx context.Context, req *aztools.StorageEncryptionRequest) (string, error)
	validateFunc   func(req any) error
	blobs          bool
	callCount      int
}

func (m *mockClient) QueryLogs(ctx context.Context, req *aztools.QueryLogsRequest) (string, error) {
	m.callCount++
	return m.queryFunc(ctx, req)
}

func (m *mockClient) FetchBlobText(ctx context.Context, req *aztools.FetchBlobRequest) (string, error) {
	m.callCount++
	return m.fetchFunc(ctx, req)
}

func (m *mockClient) CheckStorageEncryption(ctx context.Context, req *aztools.StorageEncryptionRequest) (string, error) {
	m.callCount++
	return m.encryptionFunc(ctx, req)
}

func (m *mockClient) ValidateRequest(req any) error {
	if m.validateFunc != nil {
		return m.validateFunc(req)
	}
	return nil
}

func (m *mockClient) BlobsConfigured() bool {
	return m.blobs
}

func newRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T", result.Content[0])
	return text.Text
}

func TestQueryLogsHandler_Defaults(t *testing.T) {
	var got *aztools.QueryLogsRequest
	client := &mockClient{
		queryFunc: func(ctx context.Context, req *aztools.QueryLogsRequest) (string, error) {
			got = req
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return "a,b\n1,2\n", nil
		},
	}

	handler := QueryLogsHandler(client, Options{Timeout: time.Minute})
	result, err := handler(context.Background(), newRequest(aztools.ToolQueryMonitorLogs, map[string]any{
		"workspace_id": "ws",
		"kql":          "T | take 1",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "a,b\n1,2\n", resultText(t, result))

	require.NotNil(t, got)
	assert.Equal(t, "ws", got.WorkspaceID)
	assert.Equal(t, "T | take 1", got.Query)
	assert.Equal(t, aztools.DefaultTimespan, got.Timespan)
	assert.True(t, got.AsCSV)
}

func TestQueryLogsHandler_PipeMode(t *testing.T) {
	client := &mockClient{
		queryFunc: func(ctx context.Context, req *aztools.QueryLogsRequest) (string, error) {
			assert.False(t, req.AsCSV)
			assert.Equal(t, "PT6H", req.Timespan)
			return "a | b\n", nil
		},
	}

	handler := QueryLogsHandler(client, Options{})
	result, err := handler(context.Background(), newRequest(aztools.ToolQueryMonitorLogs, map[string]any{
		"workspace_id": "ws",
		"kql":          "T",
		"timespan":     "PT6H",
		"as_csv":       false,
	}))
	require.NoError(t, err)
	assert.Equal(t, "a | b\n", resultText(t, result))
}

func TestFetchBlobTextHandler_ValidationError(t *testing.T) {
	client := &mockClient{
		validateFunc: func(req any) error {
			return aztools.NewToolError(aztools.ErrorTypeInvalidArgument, "container_name cannot be null or empty", "container_name")
		},
		fetchFunc: func(ctx context.Context, req *aztools.FetchBlobRequest) (string, error) {
			t.Fatal("fetch must not be called")
			return "", nil
		},
	}

	handler := FetchBlobTextHandler(client, Options{})
	result, err := handler(context.Background(), newRequest(aztools.ToolFetchBlobText, map[string]any{
		"blob_name": "a.txt",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "validation error")
	assert.Contains(t, resultText(t, result), "container_name")
	assert.Equal(t, 0, client.callCount)
}

func TestFetchBlobTextHandler_Success(t *testing.T) {
	client := &mockClient{
		fetchFunc: func(ctx context.Context, req *aztools.FetchBlobRequest) (string, error) {
			assert.Equal(t, "c", req.Container)
			assert.Equal(t, "b.txt", req.Blob)
			assert.Equal(t, "utf8", req.Encoding)
			return "hi", nil
		},
	}

	handler := FetchBlobTextHandler(client, Options{})
	result, err := handler(context.Background(), newRequest(aztools.ToolFetchBlobText, map[string]any{
		"container_name": "c",
		"blob_name":      "b.txt",
	}))
	require.NoError(t, err)
	assert.Equal(t, "hi", resultText(t, result))
}

func TestCheckStorageEncryptionHandler(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]any
		wantSub string
	}{
		{
			name:    "explicit subscription",
			args:    map[string]any{"subscription_id": "sub-1", "resource_group": "rg", "storage_account_name": "st"},
			wantSub: "sub-1",
		},
		{
			name:    "default subscription",
			args:    map[string]any{"resource_group": "rg", "storage_account_name": "st"},
			wantSub: "sub-default",
		},
		{
			name:    "empty subscription uses default",
			args:    map[string]any{"subscription_id": "", "resource_group": "rg", "storage_account_name": "st"},
			wantSub: "sub-default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockClient{
				encryptionFunc: func(ctx context.Context, req *aztools.StorageEncryptionRequest) (string, error) {
					assert.Equal(t, tt.wantSub, req.SubscriptionID)
					return aztools.EncryptionOn, nil
				},
			}

			handler := CheckStorageEncryptionHandler(client, Options{DefaultSubscription: "sub-default"})
			result, err := handler(context.Background(), newRequest(aztools.ToolCheckStorageEncryption, tt.args))
			require.NoError(t, err)
			assert.Equal(t, aztools.EncryptionOn, resultText(t, result))
		})
	}
}

func TestHandler_ErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantPrefix string
	}{
		{name: "collaborator error", err: errors.New("AuthorizationFailed"), wantPrefix: "execution error: AuthorizationFailed"},
		{name: "policy denied", err: aztools.NewToolError(aztools.ErrorTypePolicyDenied, "denied", "container_name"), wantPrefix: "validation error"},
		{name: "size limit", err: aztools.NewToolError(aztools.ErrorTypeSizeLimit, "too big", ""), wantPrefix: "execution error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockClient{
				fetchFunc: func(ctx context.Context, req *aztools.FetchBlobRequest) (string, error) {
					return "", tt.err
				},
			}

			handler := FetchBlobTextHandler(client, Options{})
			result, err := handler(context.Background(), newRequest(aztools.ToolFetchBlobText, map[string]any{
				"container_name": "c",
				"blob_name":      "b",
			}))
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), tt.wantPrefix)
		})
	}
}

func TestTools(t *testing.T) {
	names := func(client *mockClient) []string {
		var out []string
		for _, st := range Tools(client, Options{}) {
			out = append(out, st.Tool.Name)
			assert.NotNil(t, st.Handler)
		}
		return out
	}

	assert.ElementsMatch(t,
		[]string{aztools.ToolQueryMonitorLogs, aztools.ToolCheckStorageEncryption},
		names(&mockClient{blobs: false}))
	assert.ElementsMatch(t,
		[]string{aztools.ToolQueryMonitorLogs, aztools.ToolCheckStorageEncryption, aztools.ToolFetchBlobText},
		names(&mockClient{blobs: true}))
}

func TestCheckStorageEncryptionHandler_NoSubscription(t *testing.T) {
	v, err := aztools.NewDefaultValidator(aztools.ClientConfig{})
	require.NoError(t, err)

	client := &mockClient{
		encryptionFunc: func(ctx context.Context, req *aztools.StorageEncryptionRequest) (string, error) {
			t.Fatal("check must not be called")
			return "", nil
		},
	}
	client.validateFunc = v.Validate

	handler := CheckStorageEncryptionHandler(client, Options{})
	result, err := handler(context.Background(), newRequest(aztools.ToolCheckStorageEncryption, map[string]any{
		"resource_group":       "rg",
		"storage_account_name": "st",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "validation error")
	assert.Contains(t, resultText(t, result), "subscription_id")
	assert.Equal(t, 0, client.callCount)
}
