package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

// WriteText renders t as an aligned plain-text table. Absent values are
// left blank.
func WriteText(w io.Writer, t *Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tw, "%s\t%s\t\n", t.Title, strings.Join(t.Columns, "\t")); err != nil {
		return err
	}
	for _, r := range t.Rows {
		key := r.Key
		if r.Label != "" {
			key = fmt.Sprintf("%s (%s)", r.Key, r.Label)
		}
		cells := make([]string, len(r.Values))
		for i, v := range r.Values {
			cells[i] = formatValue(t.Columns[i], v)
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t\n", key, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func formatValue(column string, v *float64) string {
	if v == nil {
		return ""
	}
	if column == ColTotalWorkouts {
		return strconv.FormatFloat(*v, 'f', 0, 64)
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
