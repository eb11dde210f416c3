package aztools

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/cast"
)

const NoResults = "No results"

const (
	csvDelimiter  = ","
	pipeDelimiter = " | "
)

// Format renders t as one header line followed by one line per row.
// In CSV mode commas inside values are replaced with semicolons; values are never quoted.
// A nil table, or one with neither columns nor rows, renders as NoResults.
func Format(t *Table, mode FormatMode) string {
	if t == nil || (len(t.Columns) == 0 && len(t.Rows) == 0) {
		return NoResults
	}

	delimiter := csvDelimiter
	if mode == FormatPipe {
		delimiter = pipeDelimiter
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(t.Columns, delimiter))
	sb.WriteByte('\n')

	fields := make([]string, 0, len(t.Columns))
	for _, row := range t.Rows {
		fields = fields[:0]
		for _, v := range row {
			s := formatValue(v)
			if mode == FormatCSV {
				s = strings.ReplaceAll(s, ",", ";")
			}
			fields = append(fields, s)
		}
		sb.WriteString(strings.Join(fields, delimiter))
		sb.WriteByte('\n')
	}

	return sb.String()
}

func formatValue(v any) string {
	if v == nil {
		return ""
	}
	// Dynamic columns decode to maps and slices; render them as JSON text.
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		if _, isBytes := v.([]byte); !isBytes {
			if data, err := json.Marshal(v); err == nil {
				return string(data)
			}
		}
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}
