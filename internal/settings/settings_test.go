package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/recruitdesk/internal/apperr"
	"github.com/jask/recruitdesk/internal/projection"
)

type fakeStore struct {
	role     string
	roleErr  error
	variants map[string]Variant
	sets     map[string][]projection.FieldSpec // "object/name"
	saved    []string
}

func (f *fakeStore) CurrentRole(context.Context) (string, error) { return f.role, f.roleErr }

func (f *fakeStore) Variant(_ context.Context, name string) (Variant, error) {
	v, ok := f.variants[name]
	if !ok {
		return Variant{}, apperr.NotFound("variant", name)
	}
	return v, nil
}

func (f *fakeStore) FieldSet(_ context.Context, object, name string) ([]projection.FieldSpec, error) {
	specs, ok := f.sets[object+"/"+name]
	if !ok {
		return nil, apperr.NotFound("field set", name)
	}
	return specs, nil
}

func (f *fakeStore) FieldSetNames(_ context.Context, object string) ([]string, error) {
	var out []string
	for key := range f.sets {
		if len(key) > len(object) && key[:len(object)+1] == object+"/" {
			out = append(out, key[len(object)+1:])
		}
	}
	return out, nil
}

func (f *fakeStore) SaveChoice(_ context.Context, variant string, slot Slot, name string) error {
	f.saved = append(f.saved, variant+":"+string(slot)+"="+name)
	v := f.variants[variant]
	if v.FieldSets == nil {
		v = Variant{Name: variant, FieldSets: map[Slot]string{}}
	}
	v.FieldSets[slot] = name
	f.variants[variant] = v
	return nil
}

var (
	compact  = []projection.FieldSpec{{DisplayKey: "Email", Path: "email"}}
	detailed = []projection.FieldSpec{{DisplayKey: "Email", Path: "email"}, {DisplayKey: "Owner", Path: "owner_id"}}
	appSet   = []projection.FieldSpec{{DisplayKey: "Status", Path: "status"}}
)

func newStore() *fakeStore {
	return &fakeStore{
		role: "recruiter",
		variants: map[string]Variant{
			"default": {Name: "default", FieldSets: map[Slot]string{
				SlotCandidateTile:       "compact",
				SlotCandidateModal:      "compact",
				SlotJobApplicationModal: "basic",
			}},
			"recruiter": {Name: "recruiter", FieldSets: map[Slot]string{
				SlotCandidateTile:       "compact",
				SlotCandidateModal:      "detailed",
				SlotJobApplicationModal: "basic",
			}},
		},
		sets: map[string][]projection.FieldSpec{
			"candidate/compact":     compact,
			"candidate/detailed":    detailed,
			"job_application/basic": appSet,
		},
	}
}

func TestResolveUsesRoleVariant(t *testing.T) {
	r := NewResolver(newStore(), "viewer", nil)
	got, err := r.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, "recruiter", got.Role)
	require.Equal(t, "recruiter", got.Variant)
	require.Equal(t, detailed, got.Sets[SlotCandidateModal])
	require.Empty(t, got.Degraded)

	sets := got.ListingSets()
	require.Equal(t, compact, sets.Tile)
	require.Equal(t, detailed, sets.Detail)
	require.Equal(t, appSet, sets.Related)
}

func TestResolveFallsBackToDefaultVariant(t *testing.T) {
	store := newStore()
	store.role = "hiring_manager"
	got, err := NewResolver(store, "", nil).Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, "default", got.Variant)
	require.Equal(t, compact, got.Sets[SlotCandidateModal])
}

func TestResolveUsesFallbackRole(t *testing.T) {
	store := newStore()
	store.role, store.roleErr = "", errors.New("no session")
	got, err := NewResolver(store, "recruiter", nil).Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, "recruiter", got.Role)
	require.Equal(t, "recruiter", got.Variant)
}

func TestMissingFieldSetDegradesToBuiltin(t *testing.T) {
	store := newStore()
	delete(store.sets, "candidate/detailed")

	got, err := NewResolver(store, "", nil).Resolve(context.Background())
	require.Error(t, err)
	require.True(t, apperr.Is(err, apperr.KindResolution))
	require.True(t, got.IsDegraded(SlotCandidateModal))
	require.False(t, got.IsDegraded(SlotCandidateTile))
	require.Equal(t, Builtin(SlotCandidateModal), got.Sets[SlotCandidateModal])
	require.Equal(t, compact, got.Sets[SlotCandidateTile])
}

func TestNoVariantAtAllDegradesEverySlot(t *testing.T) {
	store := newStore()
	store.variants = map[string]Variant{}

	got, err := NewResolver(store, "", nil).Resolve(context.Background())
	require.Error(t, err)
	require.Equal(t, Slots, got.Degraded)
	for _, slot := range Slots {
		require.NotEmpty(t, got.Sets[slot])
	}
}

func TestOptionsAndChoose(t *testing.T) {
	store := newStore()
	r := NewResolver(store, "", nil)

	opts, err := r.Options(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"compact", "detailed"}, opts[SlotCandidateTile])
	require.Equal(t, []string{"basic"}, opts[SlotJobApplicationModal])

	got, err := r.Choose(context.Background(), "recruiter", SlotCandidateTile, "detailed")
	require.NoError(t, err)
	require.Equal(t, detailed, got.Sets[SlotCandidateTile])
	require.Equal(t, []string{"recruiter:candidate_tile=detailed"}, store.saved)

	_, err = r.Choose(context.Background(), "recruiter", SlotCandidateTile, "nope")
	require.True(t, apperr.Is(err, apperr.KindValidation))
	require.Len(t, store.saved, 1)
}

func TestSlotObject(t *testing.T) {
	require.Equal(t, "candidate", SlotCandidateTile.Object())
	require.Equal(t, "job_application", SlotJobApplicationModal.Object())
}

func TestObjectSets(t *testing.T) {
	sets, ok := ObjectSets("account")
	require.True(t, ok)
	require.Equal(t, "account_number", sets.Tile[0].Path)

	_, ok = ObjectSets("candidate")
	require.False(t, ok)

	require.Equal(t, Builtin(SlotCandidateTile), BuiltinSets().Tile)
}
