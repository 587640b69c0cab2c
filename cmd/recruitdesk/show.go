package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jask/recruitdesk/internal/apperr"
	"github.com/jask/recruitdesk/internal/bus"
	"github.com/jask/recruitdesk/internal/listing"
	"github.com/jask/recruitdesk/internal/output"
	"github.com/jask/recruitdesk/internal/paging"
	"github.com/jask/recruitdesk/internal/projection"
	"github.com/jask/recruitdesk/internal/service"
)

type showOptions struct {
	open   bool
	output string
	jq     string
}

type fieldOut struct {
	Key   string `json:"key" yaml:"key"`
	Value any    `json:"value" yaml:"value"`
}

type detailOut struct {
	ID       string     `json:"id" yaml:"id"`
	Name     string     `json:"name" yaml:"name"`
	Fields   []fieldOut `json:"fields" yaml:"fields"`
	People   []fieldOut `json:"people,omitempty" yaml:"people,omitempty"`
	Related  []fieldOut `json:"related,omitempty" yaml:"related,omitempty"`
	Degraded bool       `json:"degraded,omitempty" yaml:"degraded,omitempty"`
}

func newShowCmd(e *env) *cobra.Command {
	var opts showOptions
	cmd := &cobra.Command{
		Use:   "show <account|position|candidate> <id>",
		Short: "Print the detail view of one record",
		Long: "Print the detail view of one record, with people resolved.\n" +
			"With --open the full record page is printed after the detail.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), e, args[0], args[1], opts, cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.BoolVar(&opts.open, "open", false, "also print every field of the record")
	f.StringVarP(&opts.output, "output", "o", "table", "output format: table, json or yaml")
	f.StringVar(&opts.jq, "jq", "", "filter json or yaml output with a jq expression")
	return cmd
}

// printHost shows a detail on the terminal and answers for the user: the
// detail is acknowledged, or navigated from when --open is set.
type printHost struct {
	out    io.Writer
	format output.Format
	jq     string
	open   bool
}

func (h printHost) ShowDetail(_ context.Context, d listing.Detail) (listing.ActionToken, error) {
	doc := detailOut{ID: d.Row.ID, Name: d.Row.Name, Degraded: d.Degraded}
	for _, f := range d.Row.Fields {
		doc.Fields = append(doc.Fields, fieldOut{Key: f.Key, Value: presentValue(f)})
	}
	for _, f := range d.Row.AvatarFields {
		doc.People = append(doc.People, fieldOut{Key: f.Key, Value: presentValue(f)})
	}
	if d.HasRelated {
		for _, f := range d.Related.Fields {
			doc.Related = append(doc.Related, fieldOut{Key: f.Key, Value: presentValue(f)})
		}
	}
	if err := h.write(doc); err != nil {
		return listing.Cancelled(), err
	}
	if h.open {
		return listing.NavigateTo(""), nil
	}
	return listing.Acknowledge(), nil
}

func presentValue(f projection.Field) any {
	if !f.Present {
		return nil
	}
	if ident, ok := f.Value.(projection.Identity); ok && ident.Name != "" {
		return ident
	}
	return f.Value
}

func (h printHost) write(doc detailOut) error {
	if h.format != output.Table {
		var v any = doc
		if h.jq != "" {
			var err error
			if v, err = output.Filter(doc, h.jq); err != nil {
				return err
			}
		}
		return output.Write(h.out, h.format, v)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", doc.Name)
	writePairs(&b, doc.Fields)
	if len(doc.People) > 0 {
		b.WriteString("\n")
		writePairs(&b, doc.People)
		if doc.Degraded {
			b.WriteString("(people could not be looked up, showing ids)\n")
		}
	}
	if len(doc.Related) > 0 {
		b.WriteString("\nJob application\n")
		writePairs(&b, doc.Related)
	}
	_, err := io.WriteString(h.out, b.String())
	return err
}

func writePairs(b *strings.Builder, pairs []fieldOut) {
	width := 0
	for _, p := range pairs {
		width = max(width, len(p.Key))
	}
	for _, p := range pairs {
		v := p.Value
		if ident, ok := v.(projection.Identity); ok {
			v = ident.Name
			if ident.Email != "" {
				v = fmt.Sprintf("%s <%s>", ident.Name, ident.Email)
			}
		}
		fmt.Fprintf(b, "  %-*s  %s\n", width, p.Key, output.Plain(v))
	}
}

// pageNavigator prints the record page of a navigation target.
type pageNavigator struct {
	ctx    context.Context
	e      *env
	out    io.Writer
	format output.Format
	err    error
}

func (n *pageNavigator) NavigateTo(entity, id string) {
	recs, err := n.e.records.Fetch(n.ctx, service.Query{Object: entity})
	if err != nil {
		n.err = err
		return
	}
	for _, r := range recs {
		if r.ID() != id {
			continue
		}
		if n.format == output.Table {
			n.err = output.Write(n.out, output.YAML, map[string]any(r))
		} else {
			n.err = output.Write(n.out, n.format, map[string]any(r))
		}
		return
	}
	n.err = apperr.NotFound(entity, id)
}

func runShow(ctx context.Context, e *env, object, id string, opts showOptions, out io.Writer) error {
	format, err := output.ParseFormat(opts.output)
	if err != nil {
		return err
	}
	if opts.jq != "" && format == output.Table {
		return fmt.Errorf("--jq is only supported with --output json or --output yaml")
	}

	related := ""
	if object == service.ObjectCandidate {
		related = "job_applications"
	}
	nav := &pageNavigator{ctx: ctx, e: e, out: out, format: format}
	b := bus.New(e.logger)
	defer b.Close()
	pager := paging.New(b, paging.WithPageSize(e.cfg.Paging.PageSize), paging.WithLogger(e.logger))
	defer pager.Close()
	ctrl := listing.New(b, listing.Config{
		Entity:      object,
		RelatedPath: related,
		FieldSets:   listSets(ctx, e, object),
		Projector:   e.projector(),
		Identities:  e.identities,
		Navigator:   nav,
		Timeout:     e.cfg.Backend.Timeout,
		Logger:      e.logger,
	})
	defer ctrl.Close()

	recs, err := e.records.Fetch(ctx, service.Query{Object: object, Paths: ctrl.QueryPaths()})
	if err != nil {
		return err
	}
	ctrl.SetData(recs)

	token, err := ctrl.OpenDetail(ctx, id, printHost{out: out, format: format, jq: opts.jq, open: opts.open})
	if err != nil {
		return err
	}
	e.logger.Debug("detail closed", "object", object, "id", id, "action", token.Kind)
	return nav.err
}
