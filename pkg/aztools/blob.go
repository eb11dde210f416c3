package aztools

import (
	"context"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/cockroachdb/errors"
)

const DefaultMaxBlobSize int64 = 10 * 1024 * 1024

type BlobFetcher interface {
	Download(ctx context.Context, containerName, blobName string) ([]byte, error)
}

type AzureBlobFetcher struct {
	client      *azblob.Client
	maxBlobSize int64
}

var _ BlobFetcher = (*AzureBlobFetcher)(nil)

// NewBlobFetcher prefers a connection string over a service URL. It returns
// a not_configured error when neither is set. opts may be nil.
func NewBlobFetcher(cfg BlobConfig, cred azcore.TokenCredential, opts *azcore.ClientOptions) (*AzureBlobFetcher, error) {
	if cfg.MaxBlobSize == 0 {
		cfg.MaxBlobSize = DefaultMaxBlobSize
	}

	var blobOpts *azblob.ClientOptions
	if opts != nil {
		blobOpts = &azblob.ClientOptions{ClientOptions: *opts}
	}

	var (
		client *azblob.Client
		err    error
	)
	switch {
	case cfg.ConnectionString != "":
		client, err = azblob.NewClientFromConnectionString(cfg.ConnectionString, blobOpts)
	case cfg.ServiceURL != "":
		client, err = azblob.NewClient(cfg.ServiceURL, cred, blobOpts)
	default:
		return nil, NewToolError(ErrorTypeNotConfigured, "no storage account URL or connection string configured", "")
	}
	if err != nil {
		return nil, errors.Wrap(err, "create blob client")
	}

	return &AzureBlobFetcher{client: client, maxBlobSize: cfg.MaxBlobSize}, nil
}

func (f *AzureBlobFetcher) Download(ctx context.Context, containerName, blobName string) ([]byte, error) {
	resp, err := f.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return readLimited(resp.Body, f.maxBlobSize)
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, NewToolError(ErrorTypeSizeLimit, "blob size exceeds limit", "").
			WithContext("limit", limit)
	}
	return data, nil
}
