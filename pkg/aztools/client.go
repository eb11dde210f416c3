package aztools

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/sirupsen/logrus"
)

type Client interface {
	QueryLogs(ctx context.Context, req *QueryLogsRequest) (string, error)
	FetchBlobText(ctx context.Context, req *FetchBlobRequest) (string, error)
	CheckStorageEncryption(ctx context.Context, req *StorageEncryptionRequest) (string, error)
	ValidateRequest(req any) error
	BlobsConfigured() bool
}

// DefaultClient holds one shared handle per Azure collaborator. Handles are
// read-only after construction, so a single client serves concurrent calls.
type DefaultClient struct {
	validator Validator
	logs      LogsQuerier
	blobs     BlobFetcher
	accounts  AccountResolver
}

var _ Client = (*DefaultClient)(nil)

// NewClient builds the Azure collaborators from cred. Blob access is optional:
// without a storage URL or connection string FetchBlobText reports not_configured.
func NewClient(cfg ClientConfig, cred azcore.TokenCredential) (*DefaultClient, error) {
	validator, err := NewDefaultValidator(cfg)
	if err != nil {
		return nil, err
	}

	logs, err := NewLogsQuerier(cred, nil)
	if err != nil {
		return nil, err
	}

	c := &DefaultClient{
		validator: validator,
		logs:      logs,
		accounts:  NewAccountResolver(cred),
	}

	if cfg.Blob.ServiceURL != "" || cfg.Blob.ConnectionString != "" {
		blobs, err := NewBlobFetcher(cfg.Blob, cred, nil)
		if err != nil {
			return nil, err
		}
		c.blobs = blobs
	}

	return c, nil
}

func NewClientWith(validator Validator, logs LogsQuerier, blobs BlobFetcher, accounts AccountResolver) *DefaultClient {
	return &DefaultClient{
		validator: validator,
		logs:      logs,
		blobs:     blobs,
		accounts:  accounts,
	}
}

func (c *DefaultClient) QueryLogs(ctx context.Context, req *QueryLogsRequest) (string, error) {
	if err := c.validator.Validate(req); err != nil {
		return "", err
	}

	timespan, err := ParseTimespan(req.Timespan)
	if err != nil {
		return "", err
	}

	logrus.WithField("workspace_id", req.WorkspaceID).Infof("KQL: %s", req.Query)

	table, err := c.logs.QueryWorkspace(ctx, req.WorkspaceID, req.Query, timespan)
	if err != nil {
		return "", err
	}

	mode := FormatPipe
	if req.AsCSV {
		mode = FormatCSV
	}
	return Format(table, mode), nil
}

func (c *DefaultClient) FetchBlobText(ctx context.Context, req *FetchBlobRequest) (string, error) {
	if err := c.validator.Validate(req); err != nil {
		return "", err
	}

	if c.blobs == nil {
		return "", NewToolError(ErrorTypeNotConfigured, "blob storage is not configured", "")
	}

	data, err := c.blobs.Download(ctx, req.Container, req.Blob)
	if err != nil {
		return "", err
	}

	return DecodeText(data, ParseEncoding(req.Encoding)), nil
}

func (c *DefaultClient) CheckStorageEncryption(ctx context.Context, req *StorageEncryptionRequest) (string, error) {
	if err := c.validator.Validate(req); err != nil {
		return "", err
	}

	acct, err := c.accounts.GetStorageAccount(ctx, req.SubscriptionID, req.ResourceGroup, req.AccountName)
	if err != nil {
		return "", err
	}

	return EncryptionStatus(BlobEncryptionEnabled(acct)), nil
}

func (c *DefaultClient) ValidateRequest(req any) error {
	if err := c.validator.Validate(req); err != nil {
		return err
	}
	if r, ok := req.(*QueryLogsRequest); ok {
		if _, err := ParseTimespan(r.Timespan); err != nil {
			return err
		}
	}
	return nil
}

func (c *DefaultClient) BlobsConfigured() bool {
	return c.blobs != nil
}
