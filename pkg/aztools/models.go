package aztools

// Table is a single query result table. Every row holds exactly len(Columns) values.
type Table struct {
	Columns []string
	Rows    [][]any
}

type FormatMode int

const (
	FormatCSV FormatMode = iota
	FormatPipe
)

type Encoding int

const (
	EncodingUTF8 Encoding = iota
	EncodingASCII
)

type QueryLogsRequest struct {
	WorkspaceID string `validate:"required" arg:"workspace_id"`
	Query       string `validate:"required" arg:"kql"`
	Timespan    string `arg:"timespan"`
	AsCSV       bool   `arg:"as_csv"`
}

type FetchBlobRequest struct {
	Container string `validate:"required" arg:"container_name"`
	Blob      string `validate:"required" arg:"blob_name"`
	Encoding  string `arg:"encoding"`
}

type StorageEncryptionRequest struct {
	SubscriptionID string `validate:"required" arg:"subscription_id"`
	ResourceGroup  string `validate:"required" arg:"resource_group"`
	AccountName    string `validate:"required" arg:"storage_account_name"`
}

type AuthConfig struct {
	AuthMethod         string
	TenantID           string
	ClientID           string
	FederatedTokenFile string
	ClientSecret       string
}

type BlobConfig struct {
	ServiceURL       string
	ConnectionString string
	MaxBlobSize      int64
}

type ClientConfig struct {
	EnableSecurityPolicy bool
	SecurityPolicyFile   string
	Blob                 BlobConfig
}

type SecurityPolicy struct {
	Version string      `yaml:"version"`
	Policy  PolicyRules `yaml:"policy"`
}

type PolicyRules struct {
	DeniedContainers    []string `yaml:"deniedContainers"`
	DeniedWorkspaces    []string `yaml:"deniedWorkspaces"`
	DeniedSubscriptions []string `yaml:"deniedSubscriptions"`
}
