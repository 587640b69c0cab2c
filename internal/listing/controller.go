// Package listing holds a record list, derives the visible page from the
// pagination bus and builds detail payloads for single records.
package listing

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jask/recruitdesk/internal/apperr"
	"github.com/jask/recruitdesk/internal/bus"
	"github.com/jask/recruitdesk/internal/logging"
	"github.com/jask/recruitdesk/internal/paging"
	"github.com/jask/recruitdesk/internal/projection"
)

const defaultResolveTimeout = 3 * time.Second

// IdentityResolver turns identifiers into identities.
type IdentityResolver interface {
	Fetch(ctx context.Context, ids []string) (map[string]projection.Identity, error)
}

// Navigator moves the user to another record.
type Navigator interface {
	NavigateTo(entity, id string)
}

// DetailHost shows a detail payload and reports how the user closed it.
type DetailHost interface {
	ShowDetail(ctx context.Context, d Detail) (ActionToken, error)
}

// FieldSets are the field sets a controller projects with.
type FieldSets struct {
	Tile    []projection.FieldSpec
	Detail  []projection.FieldSpec
	Related []projection.FieldSpec
}

// Config wires a Controller.
type Config struct {
	// Entity is passed to the Navigator, e.g. "candidate".
	Entity string
	// RelatedPath points at a child collection merged into Detail.Related.
	RelatedPath string
	FieldSets   FieldSets
	Projector   projection.Projector
	Identities  IdentityResolver
	Navigator   Navigator
	// Timeout bounds identity resolution; zero means three seconds.
	Timeout time.Duration
	Logger  *slog.Logger
}

// Controller owns the full record list for one query.
type Controller struct {
	cfg    Config
	logger *slog.Logger
	sub    *bus.Subscription

	mu       sync.RWMutex
	data     []projection.Record
	visible  []projection.Record
	pageSize int
	page     int
	sets     FieldSets
}

// New creates a controller subscribed to b.
func New(b *bus.Bus, cfg Config) *Controller {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultResolveTimeout
	}
	if cfg.Projector.NamePath == "" {
		cfg.Projector = projection.DefaultProjector()
	}
	c := &Controller{
		cfg:    cfg,
		logger: logging.OrDiscard(cfg.Logger),
		page:   1,
		sets:   cfg.FieldSets,
	}
	c.sub = b.Subscribe(c.handle)
	return c
}

// Close unsubscribes from the bus.
func (c *Controller) Close() { c.sub.Unsubscribe() }

func (c *Controller) handle(m bus.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch msg := m.(type) {
	case bus.SendPageSize:
		c.pageSize = msg.Size
	case bus.SendCurrentPage:
		c.page = msg.Page
	default:
		return
	}
	c.recompute()
}

// recompute must be called with mu held.
func (c *Controller) recompute() {
	c.visible = paging.Slice(c.data, c.page, c.pageSize)
}

// SetData replaces the record list and announces its length on the bus.
func (c *Controller) SetData(records []projection.Record) {
	c.mu.Lock()
	c.data = records
	c.recompute()
	total := len(records)
	c.mu.Unlock()

	c.logger.Debug("record list replaced", "entity", c.cfg.Entity, "total", total)
	c.sub.Publish(bus.SendTotalRecords{Total: total})
}

// SetFieldSets swaps the field sets, e.g. after the settings changed.
func (c *Controller) SetFieldSets(sets FieldSets) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets = sets
}

// FieldSets returns the field sets in use.
func (c *Controller) FieldSets() FieldSets {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sets
}

// QueryPaths lists every path the controller needs from the backend, each once.
// Related specs are relative to the child collection and get RelatedPath as
// their prefix.
func (c *Controller) QueryPaths() []string {
	sets := c.FieldSets()
	related := sets.Related
	if c.cfg.RelatedPath != "" {
		related = make([]projection.FieldSpec, len(sets.Related))
		for i, spec := range sets.Related {
			spec.Path = c.cfg.RelatedPath + "." + spec.Path
			related[i] = spec
		}
	}
	return projection.QueryPaths(sets.Tile, sets.Detail, related)
}

// Len returns the size of the full list.
func (c *Controller) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Visible returns the records on the current page.
func (c *Controller) Visible() []projection.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]projection.Record(nil), c.visible...)
}

// VisibleRows projects the current page with the tile field set.
func (c *Controller) VisibleRows() []projection.Row {
	c.mu.RLock()
	visible := c.visible
	tile := c.sets.Tile
	c.mu.RUnlock()
	return c.cfg.Projector.Project(tile, visible)
}

// Window returns the [start, end) slice window over the full list.
func (c *Controller) Window() (start, end int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := paging.State{CurrentPage: c.page, PageSize: c.pageSize, TotalRecords: len(c.data)}
	return s.Bounds(len(c.data))
}

// Lookup finds a record of the full list by id.
func (c *Controller) Lookup(id string) (projection.Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.data {
		if r.ID() == id {
			return r, nil
		}
	}
	return nil, apperr.NotFound("lookup "+c.cfg.Entity, id)
}
