package listing

import (
	"context"
	"fmt"

	"github.com/jask/recruitdesk/internal/apperr"
	"github.com/jask/recruitdesk/internal/projection"
)

// ActionKind says how a detail view was closed.
type ActionKind int

const (
	ActionAcknowledge ActionKind = iota
	ActionNavigate
	ActionCancelled
)

func (k ActionKind) String() string {
	switch k {
	case ActionAcknowledge:
		return "acknowledge"
	case ActionNavigate:
		return "navigate"
	default:
		return "cancelled"
	}
}

// ActionToken is returned by a DetailHost.
type ActionToken struct {
	Kind ActionKind
	// ID is the navigation target for ActionNavigate.
	ID string
}

// Acknowledge closes the view without further action.
func Acknowledge() ActionToken { return ActionToken{Kind: ActionAcknowledge} }

// NavigateTo asks for navigation to id; an empty id means the shown record.
func NavigateTo(id string) ActionToken { return ActionToken{Kind: ActionNavigate, ID: id} }

// Cancelled is returned when the view was dismissed.
func Cancelled() ActionToken { return ActionToken{Kind: ActionCancelled} }

// Detail is the payload of a detail view.
type Detail struct {
	Record projection.Record
	Row    projection.Row
	// Related is the merged child record (e.g. the job application of a candidate).
	Related    projection.Row
	HasRelated bool
	// Degraded is set when identities could not be resolved and raw
	// identifiers are shown instead.
	Degraded bool
}

// Detail builds the detail payload for a record of the current list. Identity
// fields are resolved under the configured timeout; when that fails the
// payload keeps the raw identifiers and is marked Degraded.
func (c *Controller) Detail(ctx context.Context, id string) (Detail, error) {
	rec, err := c.Lookup(id)
	if err != nil {
		return Detail{}, err
	}
	sets := c.FieldSets()
	d := Detail{Record: rec}
	d.Row = c.cfg.Projector.Project(sets.Detail, []projection.Record{rec})[0]

	if ids := projection.IdentifierSet(d.Row); len(ids) > 0 && c.cfg.Identities != nil {
		lookup, err := c.resolve(ctx, ids)
		if err != nil {
			c.logger.Warn("identity resolution degraded", "entity", c.cfg.Entity, "id", id, "error", err)
			d.Degraded = true
		} else {
			d.Row.AvatarFields = projection.ResolveAvatars(d.Row.AvatarFields, lookup)
		}
	}

	if c.cfg.RelatedPath != "" {
		if v, ok := rec.Resolve(c.cfg.RelatedPath); ok {
			merged := projection.MergeChildren(v)
			if len(merged) > 0 {
				d.Related = c.cfg.Projector.Project(sets.Related, []projection.Record{merged})[0]
				d.HasRelated = true
			}
		}
	}
	return d, nil
}

func (c *Controller) resolve(ctx context.Context, ids []string) (map[string]projection.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()
	lookup, err := c.cfg.Identities.Fetch(ctx, ids)
	if err != nil {
		return nil, apperr.Resolution("resolve identities", err)
	}
	return lookup, nil
}

// OpenDetail builds the payload for id, shows it through host and applies the
// action the user picked.
func (c *Controller) OpenDetail(ctx context.Context, id string, host DetailHost) (ActionToken, error) {
	d, err := c.Detail(ctx, id)
	if err != nil {
		return Cancelled(), err
	}
	token, err := host.ShowDetail(ctx, d)
	if err != nil {
		return Cancelled(), fmt.Errorf("show %s detail: %w", c.cfg.Entity, err)
	}
	c.Complete(d, token)
	return token, nil
}

// Complete applies the action a detail view was closed with. Navigation
// without an explicit target goes to the record that was shown.
func (c *Controller) Complete(d Detail, token ActionToken) {
	if token.Kind != ActionNavigate {
		return
	}
	target := token.ID
	if target == "" {
		target = d.Record.ID()
	}
	if c.cfg.Navigator == nil || target == "" {
		c.logger.Warn("navigation requested without a navigator", "entity", c.cfg.Entity, "id", target)
		return
	}
	c.cfg.Navigator.NavigateTo(c.cfg.Entity, target)
}
