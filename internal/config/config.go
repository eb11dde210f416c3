package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Azure/azure-data-mcp/internal/version"
	"github.com/Azure/azure-data-mcp/pkg/aztools"
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "AZ_DATA_MCP"

type Config struct {
	Transport string
	Host      string
	Port      int
	LogLevel  string
	Timeout   int

	EnableSecurityPolicy bool
	SecurityPolicyFile   string

	StorageAccountURL       string
	StorageConnectionString string
	MaxBlobSize             int64

	SkipAuthValidation bool
	AuthMethod         string
	TenantID           string
	ClientID           string
	FederatedTokenFile string
	ClientSecret       string
	SubscriptionID     string
}

func NewConfig() *Config {
	return &Config{
		Transport: "stdio",
		Host:      "127.0.0.1",
		Port:      8000,
		LogLevel:  "info",
		Timeout:   120,

		EnableSecurityPolicy: false,
		SecurityPolicyFile:   "",

		MaxBlobSize: aztools.DefaultMaxBlobSize,

		AuthMethod: aztools.AuthMethodAuto,
	}
}

// ParseFlags reads flags from args, then lets an optional --config YAML file and
// AZ_DATA_MCP_* environment variables supply values for flags not set explicitly.
func (c *Config) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("azure-data-mcp", flag.ContinueOnError)

	configFile := fs.String("config", "", "Path to a YAML config file")
	fs.String("transport", c.Transport, "Transport mechanism (stdio, sse, streamable-http)")
	fs.String("host", c.Host, "Host to listen on (for non-stdio transport)")
	fs.Int("port", c.Port, "Port to listen on (for non-stdio transport)")
	fs.String("log-level", c.LogLevel, "Log level (debug, info, warn, error)")
	fs.Int("timeout", c.Timeout, "Timeout for each tool call in seconds")
	fs.Bool("enable-security-policy", c.EnableSecurityPolicy, "Enable security policy enforcement (deny lists)")
	fs.String("security-policy-file", c.SecurityPolicyFile, "Path to security policy YAML file")
	fs.String("storage-account-url", c.StorageAccountURL, "Blob service URL, e.g. https://<account>.blob.core.windows.net/")
	fs.String("storage-connection-string", c.StorageConnectionString, "Blob storage connection string (takes precedence over --storage-account-url)")
	fs.Int64("max-blob-size", c.MaxBlobSize, "Maximum blob size in bytes returned by fetch_blob_text")
	fs.Bool("skip-auth-validation", c.SkipAuthValidation, "Skip fetching a token at startup")
	fs.String("auth-method", c.AuthMethod, "Authentication method (auto, workload-identity, managed-identity, service-principal, cli)")

	showHelp := fs.BoolP("help", "h", false, "Show help message")
	showVersion := fs.Bool("version", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showHelp {
		fmt.Printf("Azure Data MCP Server\n\nUsage:\n")
		fs.PrintDefaults()
		os.Exit(0)
	}

	if *showVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return errors.Wrap(err, "bind flags")
	}

	if *configFile != "" {
		v.SetConfigFile(*configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrap(err, "read config")
		}
	}

	c.Transport = v.GetString("transport")
	c.Host = v.GetString("host")
	c.Port = v.GetInt("port")
	c.LogLevel = v.GetString("log-level")
	c.Timeout = v.GetInt("timeout")
	c.EnableSecurityPolicy = v.GetBool("enable-security-policy")
	c.SecurityPolicyFile = v.GetString("security-policy-file")
	c.StorageAccountURL = v.GetString("storage-account-url")
	c.StorageConnectionString = v.GetString("storage-connection-string")
	c.MaxBlobSize = v.GetInt64("max-blob-size")
	c.SkipAuthValidation = v.GetBool("skip-auth-validation")
	c.AuthMethod = v.GetString("auth-method")

	c.loadAzureEnv()

	return c.Validate()
}

func (c *Config) loadAzureEnv() {
	if c.AuthMethod == aztools.AuthMethodAuto {
		if method := os.Getenv("AZ_AUTH_METHOD"); method != "" {
			c.AuthMethod = method
		}
	}

	if tenantID := os.Getenv("AZURE_TENANT_ID"); tenantID != "" {
		c.TenantID = tenantID
	}

	if clientID := os.Getenv("AZURE_CLIENT_ID"); clientID != "" {
		c.ClientID = clientID
	}

	if tokenFile := os.Getenv("AZURE_FEDERATED_TOKEN_FILE"); tokenFile != "" {
		c.FederatedTokenFile = tokenFile
	}

	if secret := os.Getenv("AZURE_CLIENT_SECRET"); secret != "" {
		c.ClientSecret = secret
	}

	if sub := os.Getenv("AZURE_SUBSCRIPTION_ID"); sub != "" {
		c.SubscriptionID = sub
	}

	if c.StorageAccountURL == "" {
		c.StorageAccountURL = os.Getenv("AZURE_STORAGE_ACCOUNT_URL")
	}

	if c.StorageConnectionString == "" {
		c.StorageConnectionString = os.Getenv("AZURE_STORAGE_CONNECTION_STRING")
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return errors.New("timeout must be greater than 0")
	}

	if c.MaxBlobSize <= 0 {
		return errors.New("max-blob-size must be greater than 0")
	}

	validTransports := map[string]bool{
		"stdio":           true,
		"sse":             true,
		"streamable-http": true,
	}

	if !validTransports[c.Transport] {
		return errors.Newf("invalid transport: %s (must be stdio, sse, or streamable-http)", c.Transport)
	}

	validAuthMethods := map[string]bool{
		aztools.AuthMethodAuto:             true,
		aztools.AuthMethodWorkloadIdentity: true,
		aztools.AuthMethodManagedIdentity:  true,
		aztools.AuthMethodServicePrincipal: true,
		aztools.AuthMethodCLI:              true,
	}

	if !validAuthMethods[c.AuthMethod] {
		return errors.Newf("invalid auth method: %s", c.AuthMethod)
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(err, "invalid log level %q", c.LogLevel)
	}

	return nil
}

func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func (c *Config) AuthConfig() aztools.AuthConfig {
	return aztools.AuthConfig{
		AuthMethod:         c.AuthMethod,
		TenantID:           c.TenantID,
		ClientID:           c.ClientID,
		FederatedTokenFile: c.FederatedTokenFile,
		ClientSecret:       c.ClientSecret,
	}
}

func (c *Config) ClientConfig() aztools.ClientConfig {
	return aztools.ClientConfig{
		EnableSecurityPolicy: c.EnableSecurityPolicy,
		SecurityPolicyFile:   c.SecurityPolicyFile,
		Blob: aztools.BlobConfig{
			ServiceURL:       c.StorageAccountURL,
			ConnectionString: c.StorageConnectionString,
			MaxBlobSize:      c.MaxBlobSize,
		},
	}
}
