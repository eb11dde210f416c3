package aztools

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const devConnectionString = "DefaultEndpointsProtocol=https;AccountName=devaccount;AccountKey=" +
	"Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==" +
	";EndpointSuffix=core.windows.net"

func TestClientIntegration_SecurityPolicyEnforcement(t *testing.T) {
	policyFile := filepath.Join(t.TempDir(), "policy.yaml")
	policyContent := `version: "1.0"
policy:
  deniedContainers:
    - "secrets"
  deniedWorkspaces:
    - "blocked-ws"
  deniedSubscriptions:
    - "prod-sub"
`
	require.NoError(t, os.WriteFile(policyFile, []byte(policyContent), 0644))

	client, err := NewClient(ClientConfig{
		EnableSecurityPolicy: true,
		SecurityPolicyFile:   policyFile,
		Blob:                 BlobConfig{ConnectionString: devConnectionString},
	}, &stubCredential{})
	require.NoError(t, err)
	assert.True(t, client.BlobsConfigured())

	ctx := context.Background()

	tests := []struct {
		name    string
		call    func() (string, error)
		errType ErrorType
	}{
		{
			name: "denied container",
			call: func() (string, error) {
				return client.FetchBlobText(ctx, &FetchBlobRequest{Container: "secrets", Blob: "key.txt"})
			},
			errType: ErrorTypePolicyDenied,
		},
		{
			name: "denied workspace",
			call: func() (string, error) {
				return client.QueryLogs(ctx, &QueryLogsRequest{WorkspaceID: "blocked-ws", Query: "T"})
			},
			errType: ErrorTypePolicyDenied,
		},
		{
			name: "denied subscription",
			call: func() (string, error) {
				return client.CheckStorageEncryption(ctx, &StorageEncryptionRequest{SubscriptionID: "prod-sub", ResourceGroup: "rg", AccountName: "st"})
			},
			errType: ErrorTypePolicyDenied,
		},
		{
			name: "empty container",
			call: func() (string, error) {
				return client.FetchBlobText(ctx, &FetchBlobRequest{Blob: "key.txt"})
			},
			errType: ErrorTypeInvalidArgument,
		},
		{
			name: "malformed timespan",
			call: func() (string, error) {
				return client.QueryLogs(ctx, &QueryLogsRequest{WorkspaceID: "ws", Query: "T", Timespan: "P1X"})
			},
			errType: ErrorTypeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.call()
			assert.Empty(t, out)
			var toolErr *ToolError
			require.True(t, errors.As(err, &toolErr), "got %v", err)
			assert.Equal(t, tt.errType, toolErr.Type)
		})
	}
}

func TestClientIntegration_WithoutBlobConfig(t *testing.T) {
	client, err := NewClient(ClientConfig{}, &stubCredential{})
	require.NoError(t, err)
	assert.False(t, client.BlobsConfigured())

	_, err = client.FetchBlobText(context.Background(), &FetchBlobRequest{Container: "c", Blob: "b"})
	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, ErrorTypeNotConfigured, toolErr.Type)
}

func TestClientIntegration_InvalidPolicyFile(t *testing.T) {
	_, err := NewClient(ClientConfig{
		EnableSecurityPolicy: true,
		SecurityPolicyFile:   filepath.Join(t.TempDir(), "missing.yaml"),
	}, &stubCredential{})
	assert.Error(t, err)
}
