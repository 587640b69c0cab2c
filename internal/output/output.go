// Package output renders command results as tables, JSON or YAML, with an
// optional jq filter.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/itchyny/gojq"
	"gopkg.in/yaml.v3"
)

// Format is an output format selected with --output.
type Format int

const (
	Table Format = iota
	JSON
	YAML
)

func (f Format) String() string {
	return [...]string{"table", "json", "yaml"}[f]
}

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return Table, nil
	case "json":
		return JSON, nil
	case "yaml":
		return YAML, nil
	}
	return Table, fmt.Errorf("invalid output format %q, must be one of [table json yaml]", s)
}

var queryCache sync.Map

func compile(expr string) (*gojq.Code, error) {
	if code, ok := queryCache.Load(expr); ok {
		return code.(*gojq.Code), nil
	}
	parsed, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("compile jq expression: %w", err)
	}
	queryCache.Store(expr, code)
	return code, nil
}

// Filter runs the jq expression expr over v. v is normalised through JSON
// first so structs and typed maps look the way they print. One result is
// returned as is, several as a list, none as nil.
func Filter(v any, expr string) (any, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return v, nil
	}
	code, err := compile(expr)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode before jq: %w", err)
	}
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode before jq: %w", err)
	}

	var results []any
	iter := code.Run(payload)
	for {
		r, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := r.(error); isErr {
			return nil, fmt.Errorf("jq filter failed: %w", err)
		}
		results = append(results, r)
	}
	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	}
	return results, nil
}

// Write encodes v as JSON or YAML.
func Write(w io.Writer, f Format, v any) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("format %s is not structured", f)
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// WriteTable renders rows under headers.
func WriteTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderColumn(false).
		BorderLeft(false).
		BorderRight(false).
		BorderTop(false).
		BorderBottom(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// Plain renders a projected value for a table cell.
func Plain(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case string:
		if t == "" {
			return "-"
		}
		return t
	case time.Time:
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02")
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%.2f", t)
	case []any:
		return fmt.Sprintf("%d items", len(t))
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}
