package aztools

import (
	"context"
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

const (
	AuthMethodAuto             = "auto"
	AuthMethodWorkloadIdentity = "workload-identity"
	AuthMethodManagedIdentity  = "managed-identity"
	AuthMethodServicePrincipal = "service-principal"
	AuthMethodCLI              = "cli"
)

const managementScope = "https://management.azure.com/.default"

// NewCredential builds the token credential shared by every Azure client.
// In auto mode the method is detected from the configured identity values; when
// none applies DefaultAzureCredential is used.
func NewCredential(cfg AuthConfig) (azcore.TokenCredential, error) {
	method := cfg.AuthMethod
	if method == "" || method == AuthMethodAuto {
		method = detectAuthMethod(cfg)
	}

	var (
		cred azcore.TokenCredential
		err  error
	)

	switch method {
	case AuthMethodWorkloadIdentity:
		if cfg.FederatedTokenFile == "" {
			return nil, errors.New("AZURE_FEDERATED_TOKEN_FILE not set")
		}
		cred, err = azidentity.NewWorkloadIdentityCredential(&azidentity.WorkloadIdentityCredentialOptions{
			ClientID:      cfg.ClientID,
			TenantID:      cfg.TenantID,
			TokenFilePath: cfg.FederatedTokenFile,
		})

	case AuthMethodManagedIdentity:
		opts := &azidentity.ManagedIdentityCredentialOptions{}
		if cfg.ClientID != "" {
			opts.ID = azidentity.ClientID(cfg.ClientID)
		}
		cred, err = azidentity.NewManagedIdentityCredential(opts)

	case AuthMethodServicePrincipal:
		if cfg.ClientSecret == "" {
			return nil, errors.New("AZURE_CLIENT_SECRET not set")
		}
		cred, err = azidentity.NewClientSecretCredential(cfg.TenantID, cfg.ClientID, cfg.ClientSecret, nil)

	case AuthMethodCLI:
		cred, err = azidentity.NewAzureCLICredential(&azidentity.AzureCLICredentialOptions{
			TenantID: cfg.TenantID,
		})

	case "":
		logrus.Info("No explicit authentication method detected, using DefaultAzureCredential")
		method = "default"
		cred, err = azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{
			TenantID: cfg.TenantID,
		})

	default:
		return nil, errors.Newf("unknown auth method: %s (supported: %s, %s, %s, %s)",
			method, AuthMethodWorkloadIdentity, AuthMethodManagedIdentity, AuthMethodServicePrincipal, AuthMethodCLI)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "%s credential", method)
	}
	return cred, nil
}

func detectAuthMethod(cfg AuthConfig) string {
	if cfg.FederatedTokenFile != "" && cfg.ClientID != "" && cfg.TenantID != "" {
		return AuthMethodWorkloadIdentity
	}

	if cfg.ClientSecret != "" && cfg.ClientID != "" && cfg.TenantID != "" {
		return AuthMethodServicePrincipal
	}

	if os.Getenv("MSI_ENDPOINT") != "" || os.Getenv("IDENTITY_ENDPOINT") != "" {
		return AuthMethodManagedIdentity
	}

	return ""
}

// ValidateCredential fetches a management-plane token so that broken
// credentials are reported at startup rather than on the first tool call.
func ValidateCredential(ctx context.Context, cred azcore.TokenCredential) error {
	if _, err := cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{managementScope}}); err != nil {
		return NewToolError(ErrorTypeAuth, err.Error(), "")
	}
	return nil
}
