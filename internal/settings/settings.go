// Package settings decides which field sets the candidate views use for the
// current user.
package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jask/recruitdesk/internal/apperr"
	"github.com/jask/recruitdesk/internal/listing"
	"github.com/jask/recruitdesk/internal/logging"
	"github.com/jask/recruitdesk/internal/projection"
)

// DefaultVariant is used when the current role has no variant of its own.
const DefaultVariant = "default"

// Slot is a place in the UI that renders a field set.
type Slot string

const (
	SlotCandidateTile       Slot = "candidate_tile"
	SlotCandidateModal      Slot = "candidate_modal"
	SlotJobApplicationModal Slot = "job_application_modal"
)

// Slots lists every slot in display order.
var Slots = []Slot{SlotCandidateTile, SlotCandidateModal, SlotJobApplicationModal}

// Object returns the record type whose field sets fit the slot.
func (s Slot) Object() string {
	if s == SlotJobApplicationModal {
		return "job_application"
	}
	return "candidate"
}

// Label is the human name of the slot.
func (s Slot) Label() string {
	switch s {
	case SlotCandidateTile:
		return "Candidate tile"
	case SlotCandidateModal:
		return "Candidate detail"
	case SlotJobApplicationModal:
		return "Job application"
	}
	return string(s)
}

// Variant maps slots to field set names for one role.
type Variant struct {
	Name      string
	FieldSets map[Slot]string
}

// Store is the backend the resolver reads from. Variant and FieldSet return
// an apperr NotFound error when nothing matches.
type Store interface {
	CurrentRole(ctx context.Context) (string, error)
	Variant(ctx context.Context, name string) (Variant, error)
	FieldSet(ctx context.Context, object, name string) ([]projection.FieldSpec, error)
	FieldSetNames(ctx context.Context, object string) ([]string, error)
	SaveChoice(ctx context.Context, variant string, slot Slot, fieldSet string) error
}

// Resolved is the outcome of a resolution. It is always usable: slots that
// could not be resolved carry the built-in field sets and are listed in
// Degraded.
type Resolved struct {
	Role     string
	Variant  string
	Names    map[Slot]string
	Sets     map[Slot][]projection.FieldSpec
	Degraded []Slot
}

// ListingSets returns the candidate field sets in the shape the list
// controller takes.
func (r Resolved) ListingSets() listing.FieldSets {
	return listing.FieldSets{
		Tile:    r.Sets[SlotCandidateTile],
		Detail:  r.Sets[SlotCandidateModal],
		Related: r.Sets[SlotJobApplicationModal],
	}
}

// IsDegraded reports whether slot fell back to the built-in field set.
func (r Resolved) IsDegraded(slot Slot) bool {
	for _, s := range r.Degraded {
		if s == slot {
			return true
		}
	}
	return false
}

// Resolver resolves role → variant → field sets.
type Resolver struct {
	store        Store
	fallbackRole string
	logger       *slog.Logger
}

// NewResolver creates a resolver. fallbackRole is used when the current role
// cannot be determined.
func NewResolver(store Store, fallbackRole string, logger *slog.Logger) *Resolver {
	return &Resolver{store: store, fallbackRole: fallbackRole, logger: logging.OrDiscard(logger)}
}

// Resolve determines the field sets for the current user. The returned value
// is complete even when err is non-nil; err then joins the resolution
// failures so the caller can report them.
func (r *Resolver) Resolve(ctx context.Context) (Resolved, error) {
	var errs []error
	out := Resolved{
		Names: make(map[Slot]string, len(Slots)),
		Sets:  make(map[Slot][]projection.FieldSpec, len(Slots)),
	}

	role, err := r.store.CurrentRole(ctx)
	if err != nil || role == "" {
		if err != nil {
			r.logger.Warn("current role unavailable, using fallback", "fallback", r.fallbackRole, "error", err)
		}
		role = r.fallbackRole
	}
	out.Role = role

	variant, err := r.variant(ctx, role)
	if err != nil {
		errs = append(errs, err)
	}
	out.Variant = variant.Name

	for _, slot := range Slots {
		name := variant.FieldSets[slot]
		specs, err := r.fieldSet(ctx, slot, name)
		if err != nil {
			r.logger.Warn("field set unresolved, using built-in", "slot", slot, "name", name, "error", err)
			errs = append(errs, err)
			out.Degraded = append(out.Degraded, slot)
			specs, name = Builtin(slot), ""
		}
		out.Names[slot] = name
		out.Sets[slot] = specs
	}
	return out, errors.Join(errs...)
}

func (r *Resolver) variant(ctx context.Context, role string) (Variant, error) {
	if role != "" {
		v, err := r.store.Variant(ctx, role)
		if err == nil {
			return v, nil
		}
		if !apperr.Is(err, apperr.KindNotFound) {
			r.logger.Warn("variant lookup failed", "role", role, "error", err)
		}
	}
	v, err := r.store.Variant(ctx, DefaultVariant)
	if err != nil {
		return Variant{Name: DefaultVariant}, apperr.Resolution("resolve settings variant", err)
	}
	return v, nil
}

func (r *Resolver) fieldSet(ctx context.Context, slot Slot, name string) ([]projection.FieldSpec, error) {
	if name == "" {
		return nil, apperr.Resolution("resolve "+string(slot), fmt.Errorf("no field set configured"))
	}
	specs, err := r.store.FieldSet(ctx, slot.Object(), name)
	if err != nil {
		return nil, apperr.Resolution("resolve "+string(slot), err)
	}
	if len(specs) == 0 {
		return nil, apperr.Resolution("resolve "+string(slot), fmt.Errorf("field set %q is empty", name))
	}
	return specs, nil
}

// Options lists the field set names available for every slot.
func (r *Resolver) Options(ctx context.Context) (map[Slot][]string, error) {
	out := make(map[Slot][]string, len(Slots))
	byObject := map[string][]string{}
	for _, slot := range Slots {
		obj := slot.Object()
		names, ok := byObject[obj]
		if !ok {
			var err error
			names, err = r.store.FieldSetNames(ctx, obj)
			if err != nil {
				return nil, fmt.Errorf("list %s field sets: %w", obj, err)
			}
			sort.Strings(names)
			byObject[obj] = names
		}
		out[slot] = names
	}
	return out, nil
}

// Preview returns the fields a choice would render.
func (r *Resolver) Preview(ctx context.Context, slot Slot, name string) ([]projection.FieldSpec, error) {
	return r.fieldSet(ctx, slot, name)
}

// Choose stores name as the field set of slot for variant and returns the
// new resolution.
func (r *Resolver) Choose(ctx context.Context, variant string, slot Slot, name string) (Resolved, error) {
	if _, err := r.fieldSet(ctx, slot, name); err != nil {
		return Resolved{}, apperr.Validation("choose field set", map[string]string{string(slot): err.Error()})
	}
	if variant == "" {
		variant = DefaultVariant
	}
	if err := r.store.SaveChoice(ctx, variant, slot, name); err != nil {
		return Resolved{}, apperr.Backend("save field set choice", err)
	}
	r.logger.Info("field set chosen", "variant", variant, "slot", slot, "name", name)
	return r.Resolve(ctx)
}

// Builtin returns the field set used when nothing could be resolved.
func Builtin(slot Slot) []projection.FieldSpec {
	var specs []projection.FieldSpec
	switch slot {
	case SlotCandidateTile:
		specs = []projection.FieldSpec{
			{DisplayKey: "Email", Path: "email"},
			{DisplayKey: "Phone", Path: "phone"},
			{DisplayKey: "Position", Path: "position.title"},
		}
	case SlotCandidateModal:
		specs = []projection.FieldSpec{
			{DisplayKey: "Email", Path: "email"},
			{DisplayKey: "Phone", Path: "phone"},
			{DisplayKey: "Experience", Path: "years_experience"},
			{DisplayKey: "Education", Path: "education"},
			{DisplayKey: "Owner", Path: "owner_id"},
			{DisplayKey: "Created By", Path: "created_by_id"},
			{DisplayKey: "Modified By", Path: "last_modified_by_id"},
		}
	case SlotJobApplicationModal:
		specs = []projection.FieldSpec{
			{DisplayKey: "Status", Path: "status"},
			{DisplayKey: "Stage", Path: "stage"},
			{DisplayKey: "Applied", Path: "applied_at"},
			{DisplayKey: "Notes", Path: "notes"},
		}
	}
	return specs
}
