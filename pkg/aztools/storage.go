package aztools

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/storage/armstorage"
	"github.com/cockroachdb/errors"
)

const (
	EncryptionOn  = "Encryption BLOB: Turned On"
	EncryptionOff = "Encryption BLOB: Turned Off"
)

type AccountResolver interface {
	GetStorageAccount(ctx context.Context, subscriptionID, resourceGroup, accountName string) (*armstorage.Account, error)
}

// AzureAccountResolver builds an accounts client per call since the subscription
// is a request argument.
type AzureAccountResolver struct {
	cred azcore.TokenCredential
}

var _ AccountResolver = (*AzureAccountResolver)(nil)

func NewAccountResolver(cred azcore.TokenCredential) *AzureAccountResolver {
	return &AzureAccountResolver{cred: cred}
}

func (r *AzureAccountResolver) GetStorageAccount(ctx context.Context, subscriptionID, resourceGroup, accountName string) (*armstorage.Account, error) {
	client, err := armstorage.NewAccountsClient(subscriptionID, r.cred, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "create storage accounts client for subscription %s", subscriptionID)
	}

	resp, err := client.GetProperties(ctx, resourceGroup, accountName, nil)
	if err != nil {
		return nil, err
	}
	return &resp.Account, nil
}

// BlobEncryptionEnabled reports Properties.Encryption.Services.Blob.Enabled,
// treating any missing level as false.
func BlobEncryptionEnabled(acct *armstorage.Account) bool {
	if acct == nil || acct.Properties == nil {
		return false
	}
	enc := acct.Properties.Encryption
	if enc == nil || enc.Services == nil || enc.Services.Blob == nil || enc.Services.Blob.Enabled == nil {
		return false
	}
	return *enc.Services.Blob.Enabled
}

func EncryptionStatus(enabled bool) string {
	if enabled {
		return EncryptionOn
	}
	return EncryptionOff
}
