package service

import (
	"context"

	"github.com/jask/recruitdesk/internal/apperr"
	"github.com/jask/recruitdesk/internal/database/repository"
	"github.com/jask/recruitdesk/internal/projection"
	"github.com/jask/recruitdesk/internal/settings"
)

// SettingsStore backs the field set resolver with the users and field_sets
// tables.
type SettingsStore struct {
	Users     *repository.UserRepo
	FieldSets *repository.FieldSetRepo
	// UserID is the desk user whose role selects the variant.
	UserID string
}

// CurrentRole returns the role of the configured user, or "" when the user is
// unknown.
func (s *SettingsStore) CurrentRole(ctx context.Context) (string, error) {
	if s.UserID == "" {
		return "", nil
	}
	u, err := s.Users.Get(ctx, s.UserID)
	if err != nil {
		return "", apperr.Backend("current role", err)
	}
	if u == nil {
		return "", nil
	}
	return u.Role, nil
}

func (s *SettingsStore) Variant(ctx context.Context, name string) (settings.Variant, error) {
	slots, err := s.FieldSets.Variant(ctx, name)
	if err != nil {
		return settings.Variant{}, apperr.Backend("settings variant", err)
	}
	if len(slots) == 0 {
		return settings.Variant{}, apperr.NotFound("settings variant", name)
	}
	v := settings.Variant{Name: name, FieldSets: make(map[settings.Slot]string, len(slots))}
	for slot, set := range slots {
		v.FieldSets[settings.Slot(slot)] = set
	}
	return v, nil
}

func (s *SettingsStore) FieldSet(ctx context.Context, object, name string) ([]projection.FieldSpec, error) {
	entries, err := s.FieldSets.Get(ctx, object, name)
	if err != nil {
		return nil, apperr.Backend("field set", err)
	}
	if len(entries) == 0 {
		return nil, apperr.NotFound("field set "+object, name)
	}
	specs := make([]projection.FieldSpec, len(entries))
	for i, e := range entries {
		specs[i] = projection.FieldSpec{DisplayKey: e.DisplayKey, Path: e.Path}
	}
	return specs, nil
}

func (s *SettingsStore) FieldSetNames(ctx context.Context, object string) ([]string, error) {
	return s.FieldSets.Names(ctx, object)
}

func (s *SettingsStore) SaveChoice(ctx context.Context, variant string, slot settings.Slot, fieldSet string) error {
	return s.FieldSets.SaveChoice(ctx, variant, string(slot), fieldSet)
}
