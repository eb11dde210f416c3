package aztools

import (
	"context"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/monitor/query/azlogs"
	"github.com/cockroachdb/errors"
)

type LogsQuerier interface {
	// QueryWorkspace returns the first table of the result, or nil when the service returned none.
	QueryWorkspace(ctx context.Context, workspaceID, query string, timespan time.Duration) (*Table, error)
}

type AzureLogsQuerier struct {
	client *azlogs.Client
	now    func() time.Time
}

var _ LogsQuerier = (*AzureLogsQuerier)(nil)

// NewLogsQuerier creates a Log Analytics client. opts may be nil.
func NewLogsQuerier(cred azcore.TokenCredential, opts *azcore.ClientOptions) (*AzureLogsQuerier, error) {
	var logsOpts *azlogs.ClientOptions
	if opts != nil {
		logsOpts = &azlogs.ClientOptions{ClientOptions: *opts}
	}
	client, err := azlogs.NewClient(cred, logsOpts)
	if err != nil {
		return nil, errors.Wrap(err, "create logs client")
	}
	return &AzureLogsQuerier{client: client, now: time.Now}, nil
}

func (q *AzureLogsQuerier) QueryWorkspace(ctx context.Context, workspaceID, query string, timespan time.Duration) (*Table, error) {
	end := q.now().UTC()
	interval := azlogs.NewTimeInterval(end.Add(-timespan), end)

	resp, err := q.client.QueryWorkspace(ctx, workspaceID, azlogs.QueryBody{
		Query:    to.Ptr(query),
		Timespan: to.Ptr(interval),
	}, nil)
	if err != nil {
		return nil, err
	}

	// The service reports partial failures in the body of a successful response.
	if resp.Error != nil {
		return nil, errors.Newf("query completed with errors: %v", resp.Error)
	}

	if len(resp.Tables) == 0 {
		return nil, nil
	}
	return tableFromAzlogs(&resp.Tables[0]), nil
}

func tableFromAzlogs(t *azlogs.Table) *Table {
	if t == nil {
		return nil
	}

	columns := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		name := ""
		if c.Name != nil {
			name = *c.Name
		}
		columns = append(columns, name)
	}

	rows := make([][]any, 0, len(t.Rows))
	for _, r := range t.Rows {
		rows = append(rows, []any(r))
	}

	return &Table{Columns: columns, Rows: rows}
}
