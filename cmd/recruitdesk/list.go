package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jask/recruitdesk/internal/bus"
	"github.com/jask/recruitdesk/internal/listing"
	"github.com/jask/recruitdesk/internal/output"
	"github.com/jask/recruitdesk/internal/paging"
	"github.com/jask/recruitdesk/internal/projection"
	"github.com/jask/recruitdesk/internal/service"
	"github.com/jask/recruitdesk/internal/settings"
)

type listOptions struct {
	page     int
	pageSize int
	status   string
	position string
	search   string
	output   string
	jq       string
}

type listRow struct {
	ID     string         `json:"id" yaml:"id"`
	Name   string         `json:"name" yaml:"name"`
	Fields map[string]any `json:"fields" yaml:"fields"`
}

type listResult struct {
	Object   string    `json:"object" yaml:"object"`
	Page     int       `json:"page" yaml:"page"`
	Pages    int       `json:"pages" yaml:"pages"`
	PageSize int       `json:"pageSize" yaml:"pageSize"`
	Total    int       `json:"total" yaml:"total"`
	Window   []int     `json:"window" yaml:"window"`
	Records  []listRow `json:"records" yaml:"records"`
}

func newListCmd(e *env) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:       "list <account|position|candidate>",
		Short:     "Print one page of records",
		Args:      cobra.ExactArgs(1),
		ValidArgs: service.Objects,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("page-size") {
				opts.pageSize = e.cfg.Paging.PageSize
			}
			if opts.pageSize <= 0 {
				return fmt.Errorf("--page-size must be positive, got %d", opts.pageSize)
			}
			return runList(cmd.Context(), e, args[0], opts, cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.page, "page", 1, "page to print")
	f.IntVar(&opts.pageSize, "page-size", 0, "records per page (default paging.page_size)")
	f.StringVar(&opts.status, "status", "", "position status: Open, Open Hot, Closed or Closed Cancelled")
	f.StringVar(&opts.position, "position", "", "only candidates that applied to this position id")
	f.StringVar(&opts.search, "search", "", "fuzzy match on record names")
	f.StringVarP(&opts.output, "output", "o", "table", "output format: table, json or yaml")
	f.StringVar(&opts.jq, "jq", "", "filter json or yaml output with a jq expression")
	return cmd
}

// listSets returns the field sets of object. Candidate sets come from the
// settings resolver, which falls back to built-in sets on failure.
func listSets(ctx context.Context, e *env, object string) listing.FieldSets {
	if sets, ok := settings.ObjectSets(object); ok {
		return sets
	}
	resolved, err := e.resolver.Resolve(ctx)
	if err != nil {
		e.logger.Warn("field sets degraded", "error", err)
	}
	return resolved.ListingSets()
}

func runList(ctx context.Context, e *env, object string, opts listOptions, out io.Writer) error {
	format, err := output.ParseFormat(opts.output)
	if err != nil {
		return err
	}
	if opts.jq != "" && format == output.Table {
		return fmt.Errorf("--jq is only supported with --output json or --output yaml")
	}

	b := bus.New(e.logger)
	defer b.Close()
	pager := paging.New(b,
		paging.WithPageSize(opts.pageSize),
		paging.WithWindow(e.cfg.Paging.Window),
		paging.WithLogger(e.logger))
	defer pager.Close()
	ctrl := listing.New(b, listing.Config{
		Entity:    object,
		FieldSets: listSets(ctx, e, object),
		Projector: e.projector(),
		Logger:    e.logger,
	})
	defer ctrl.Close()

	recs, err := e.records.Fetch(ctx, service.Query{
		Object: object,
		Filter: service.Filter{Status: opts.status, PositionID: opts.position, Search: opts.search},
		Paths:  ctrl.QueryPaths(),
	})
	if err != nil {
		return err
	}
	ctrl.SetData(recs)
	if opts.page != 1 {
		if err := pager.SelectPage(opts.page); err != nil {
			if errors.Is(err, paging.ErrOutOfRange) {
				return fmt.Errorf("page %d does not exist, %s has %d", opts.page, object, pager.State().NumberOfPages())
			}
			return err
		}
	}

	st := pager.State()
	result := listResult{
		Object:   object,
		Page:     st.CurrentPage,
		Pages:    st.NumberOfPages(),
		PageSize: st.PageSize,
		Total:    st.TotalRecords,
		Window:   pager.Window(),
	}
	rows := ctrl.VisibleRows()
	for _, r := range rows {
		fields := map[string]any{}
		for _, group := range [][]projection.Field{r.Fields, r.AvatarFields} {
			for _, f := range group {
				if f.Present {
					fields[f.Key] = f.Value
				}
			}
		}
		result.Records = append(result.Records, listRow{ID: r.ID, Name: r.Name, Fields: fields})
	}

	if format == output.Table {
		return writeListTable(out, ctrl.FieldSets().Tile, rows, result)
	}
	var v any = result
	if opts.jq != "" {
		if v, err = output.Filter(result, opts.jq); err != nil {
			return err
		}
	}
	return output.Write(out, format, v)
}

func writeListTable(out io.Writer, tile []projection.FieldSpec, rows []projection.Row, result listResult) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintf(out, "no %s records\n", result.Object)
		return err
	}
	headers := []string{"Name"}
	for _, spec := range tile {
		headers = append(headers, spec.DisplayKey)
	}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		row := []string{r.Name}
		for _, spec := range tile {
			f, _ := r.Field(spec.DisplayKey)
			row = append(row, output.Plain(f.Value))
		}
		cells = append(cells, row)
	}
	if err := output.WriteTable(out, headers, cells); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "page %d of %d · %d records\n", result.Page, result.Pages, result.Total)
	return err
}
