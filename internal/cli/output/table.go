package output

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/knadh/koanf/maps"
	"gopkg.in/yaml.v3"
)

// TableFormatter formats data as KEY VALUE rows.
// Nested structures are flattened into dotted keys.
type TableFormatter struct {
	NoHeaders bool
}

// Format formats data as a two-column table.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if data == nil {
		return nil
	}

	rows, err := Flatten(data)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if !f.NoHeaders {
		fmt.Fprintln(tw, "KEY\tVALUE")
	}
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%s\n", k, cell(rows[k]))
	}
	return tw.Flush()
}

// Flatten turns data into a dotted-key map using its yaml field names.
func Flatten(data any) (map[string]any, error) {
	raw, err := yaml.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	var nested map[string]any
	if err := yaml.Unmarshal(raw, &nested); err != nil {
		return nil, fmt.Errorf("flatten: value is not a mapping: %w", err)
	}
	flat, _ := maps.Flatten(nested, nil, ".")
	return flat, nil
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case string:
		if t == "" {
			return "-"
		}
		return t
	default:
		return fmt.Sprint(t)
	}
}
