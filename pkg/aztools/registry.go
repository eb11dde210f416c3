package aztools

import (
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	ToolQueryMonitorLogs       = "query_monitor_logs"
	ToolFetchBlobText          = "fetch_blob_text"
	ToolCheckStorageEncryption = "check_storage_encryption"
)

func readOnlyAnnotations() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	}
}

func NewQueryLogsTool() mcp.Tool {
	opts := append(readOnlyAnnotations(),
		mcp.WithDescription(`Executes a KQL query in Log Analytics and returns results as text/CSV.

Only the first result table is returned. When the query returns no table the result is "No results".

Examples:
- Recent errors: workspace_id="<guid>", kql="AppExceptions | take 20", timespan="PT6H"
- Weekly volume: workspace_id="<guid>", kql="Usage | summarize sum(Quantity) by DataType", timespan="P7D"`),
		mcp.WithString("workspace_id",
			mcp.Required(),
			mcp.Description("The Log Analytics workspace ID (GUID) to query"),
		),
		mcp.WithString("kql",
			mcp.Required(),
			mcp.Description("The KQL query to execute"),
		),
		mcp.WithString("timespan",
			mcp.Description("Query time range as an ISO-8601 duration ending now (default: P1D)"),
			mcp.DefaultString(DefaultTimespan),
		),
		mcp.WithBoolean("as_csv",
			mcp.Description("true for CSV output (commas in values become semicolons), false for ' | ' delimited output (default: true)"),
			mcp.DefaultBool(true),
		),
	)
	return mcp.NewTool(ToolQueryMonitorLogs, opts...)
}

func NewFetchBlobTextTool() mcp.Tool {
	opts := append(readOnlyAnnotations(),
		mcp.WithDescription("Downloads the content of a text file from Azure Blob Storage and returns it as a string."),
		mcp.WithString("container_name",
			mcp.Required(),
			mcp.Description("The blob container that holds the file"),
		),
		mcp.WithString("blob_name",
			mcp.Required(),
			mcp.Description("The name of the blob to download"),
		),
		mcp.WithString("encoding",
			mcp.Description("Text encoding used to decode the blob: utf8, utf-8 or ascii. Unsupported values fall back to utf8"),
			mcp.DefaultString("utf8"),
		),
	)
	return mcp.NewTool(ToolFetchBlobText, opts...)
}

func NewCheckStorageEncryptionTool() mcp.Tool {
	opts := append(readOnlyAnnotations(),
		mcp.WithDescription("Checks if Storage Account has encryption enabled"),
		mcp.WithString("subscription_id",
			mcp.Description("The subscription ID that contains the storage account (default: the server's AZURE_SUBSCRIPTION_ID)"),
		),
		mcp.WithString("resource_group",
			mcp.Required(),
			mcp.Description("The resource group that contains the storage account"),
		),
		mcp.WithString("storage_account_name",
			mcp.Required(),
			mcp.Description("The name of the storage account to check"),
		),
	)
	return mcp.NewTool(ToolCheckStorageEncryption, opts...)
}
