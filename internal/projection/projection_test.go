package projection

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func candidate() Record {
	return Record{
		"id":                  "c-1",
		"name":                "Ada Lovelace",
		"photo_url":           "https://img.example/ada.png",
		"email":               "ada@example.com",
		"years_experience":    12.5,
		"applied_at":          time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		"owner_id":            "u-1",
		"created_by_id":       "u-2",
		"last_modified_by_id": "u-9",
		"position": map[string]any{
			"title":  "Staff Engineer",
			"status": "Open Hot",
		},
		"job_applications": []any{
			map[string]any{"status": "Screening", "stage": 1},
			map[string]any{"status": "Interview", "notes": "strong"},
		},
	}
}

func TestResolve(t *testing.T) {
	rec := candidate()
	cases := []struct {
		path string
		want any
		ok   bool
	}{
		{"name", "Ada Lovelace", true},
		{"NAME", "Ada Lovelace", true},
		{"position.title", "Staff Engineer", true},
		{"Position.Status", "Open Hot", true},
		{"job_applications.0.status", "Screening", true},
		{"job_applications.status", "Interview", true},
		{"job_applications.stage", 1, true},
		{"job_applications.7.status", nil, false},
		{"position.missing", nil, false},
		{"name.first", nil, false},
		{"", nil, false},
		{"position..title", nil, false},
	}
	for _, tc := range cases {
		got, ok := rec.Resolve(tc.path)
		require.Equal(t, tc.ok, ok, "path %q", tc.path)
		require.Equal(t, tc.want, got, "path %q", tc.path)
	}

	var nilRec Record
	_, ok := nilRec.Resolve("name")
	require.False(t, ok)
}

func TestProjectPartitionsIdentityFields(t *testing.T) {
	specs := []FieldSpec{
		{DisplayKey: "Email", Path: "email"},
		{DisplayKey: "Owner", Path: "owner_id"},
		{DisplayKey: "Position", Path: "position.title"},
		{DisplayKey: "created_by_id", Path: "created_by_id"},
		{DisplayKey: "Phone", Path: "phone"},
	}
	rows := Project(specs, []Record{candidate()})
	require.Len(t, rows, 1)

	want := Row{
		ID:     "c-1",
		Name:   "Ada Lovelace",
		Avatar: "https://img.example/ada.png",
		Fields: []Field{
			{Key: "Email", Path: "email", Value: "ada@example.com", Present: true},
			{Key: "Position", Path: "position.title", Value: "Staff Engineer", Present: true},
			{Key: "Phone", Path: "phone", Value: nil, Present: false},
		},
		AvatarFields: []Field{
			{Key: "Owner", Path: "owner_id", Value: "u-1", Present: true},
			{Key: "created_by_id", Path: "created_by_id", Value: "u-2", Present: true},
		},
	}
	if diff := cmp.Diff(want, rows[0]); diff != "" {
		t.Fatalf("projected row mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectPassesValuesThrough(t *testing.T) {
	rec := candidate()
	specs := []FieldSpec{
		{DisplayKey: "Experience", Path: "years_experience"},
		{DisplayKey: "Applied", Path: "applied_at"},
	}
	row := Project(specs, []Record{rec})[0]

	f, ok := row.Field("Experience")
	require.True(t, ok)
	require.Equal(t, 12.5, f.Value)
	f, ok = row.Field("Applied")
	require.True(t, ok)
	require.Equal(t, rec["applied_at"], f.Value)
}

func TestQueryPathsDeduplicatesByPath(t *testing.T) {
	tile := []FieldSpec{{DisplayKey: "Name", Path: "name"}, {DisplayKey: "Email", Path: "email"}}
	modal := []FieldSpec{{DisplayKey: "Title", Path: "name"}, {DisplayKey: "Mail", Path: " Email "}, {DisplayKey: "Owner", Path: "owner_id"}}

	require.Equal(t, []string{"name", "email", "owner_id"}, QueryPaths(tile, modal))
	require.Equal(t, []string{"name"}, QueryPaths([]FieldSpec{{"Name", "name"}, {"Title", "name"}}))
}

func TestSharedPathKeepsBothKeys(t *testing.T) {
	specs := []FieldSpec{{DisplayKey: "Name", Path: "name"}, {DisplayKey: "Title", Path: "name"}}
	row := Project(specs, []Record{{"id": "1", "name": "Grace"}})[0]
	a, _ := row.Field("Name")
	b, _ := row.Field("Title")
	require.Equal(t, "Grace", a.Value)
	require.Equal(t, a.Value, b.Value)
}

func TestResolveAvatars(t *testing.T) {
	fields := []Field{
		{Key: "Owner", Value: "u-1", Present: true},
		{Key: "Creator", Value: "u-404", Present: true},
		{Key: "Modifier", Value: nil, Present: false},
	}
	lookup := map[string]Identity{"u-1": {ID: "u-1", Name: "Margaret Hamilton"}}

	got := ResolveAvatars(fields, lookup)
	require.Equal(t, Identity{ID: "u-1", Name: "Margaret Hamilton"}, got[0].Value)
	require.Equal(t, "u-404", got[1].Value, "unmatched identifiers keep the raw value")
	require.Nil(t, got[2].Value)
	require.Equal(t, "u-1", fields[0].Value, "input is not mutated")
}

func TestIdentifierSet(t *testing.T) {
	rows := Project([]FieldSpec{{"Owner", "owner_id"}, {"Creator", "created_by_id"}}, []Record{
		{"id": "1", "owner_id": "u-2", "created_by_id": "u-1"},
		{"id": "2", "owner_id": "u-2"},
	})
	require.Equal(t, []string{"u-1", "u-2"}, IdentifierSet(rows...))
}

func TestMergeChildren(t *testing.T) {
	merged := MergeChildren(candidate()["job_applications"])
	require.Equal(t, Record{"status": "Interview", "stage": 1, "notes": "strong"}, merged)
	require.Empty(t, MergeChildren(nil))
	require.Empty(t, MergeChildren("not a collection"))
}

func TestCustomIdentitySuffix(t *testing.T) {
	p := DefaultProjector()
	p.IdentitySuffix = []string{"recruiter_id"}
	normal, ident := p.Partition([]FieldSpec{{"Recruiter", "recruiter_id"}, {"Owner", "owner_id"}})
	require.Equal(t, []FieldSpec{{"Owner", "owner_id"}}, normal)
	require.Equal(t, []FieldSpec{{"Recruiter", "recruiter_id"}}, ident)
}
