// Package projection turns field sets and raw records into display rows.
package projection

import (
	"sort"
	"strings"
)

// FieldSpec names one projected field: DisplayKey is unique within its field
// set, Path is resolved against each record.
type FieldSpec struct {
	DisplayKey string `json:"key" yaml:"key"`
	Path       string `json:"path" yaml:"path"`
}

// Field is one projected value. Present is false when the path did not
// resolve on the record.
type Field struct {
	Key     string `json:"key" yaml:"key"`
	Path    string `json:"path" yaml:"path"`
	Value   any    `json:"value" yaml:"value"`
	Present bool   `json:"present" yaml:"present"`
}

// Row is a projected record. AvatarFields hold identity references (owner,
// creator, modifier) whose values start out as raw identifiers.
type Row struct {
	ID           string  `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	Avatar       string  `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	Fields       []Field `json:"fields" yaml:"fields"`
	AvatarFields []Field `json:"avatarFields,omitempty" yaml:"avatarFields,omitempty"`
}

// Field returns the projected field with the given display key.
func (r Row) Field(key string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f, true
		}
	}
	for _, f := range r.AvatarFields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Identity is a resolved identity reference.
type Identity struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Email    string `json:"email,omitempty" yaml:"email,omitempty"`
	PhotoURL string `json:"photoUrl,omitempty" yaml:"photoUrl,omitempty"`
}

// DefaultIdentitySuffixes mark identity-reference fields.
var DefaultIdentitySuffixes = []string{"owner_id", "created_by_id", "last_modified_by_id"}

// Projector holds the record conventions used while projecting.
type Projector struct {
	NamePath       string
	AvatarPath     string
	IdentitySuffix []string
}

// DefaultProjector reads "name" and "photo_url" and uses DefaultIdentitySuffixes.
func DefaultProjector() Projector {
	return Projector{
		NamePath:       "name",
		AvatarPath:     "photo_url",
		IdentitySuffix: DefaultIdentitySuffixes,
	}
}

// IsIdentity reports whether spec refers to an identity that needs a
// secondary lookup. Either the display key or the last path segment may carry
// the suffix.
func (p Projector) IsIdentity(spec FieldSpec) bool {
	key := strings.ToLower(strings.TrimSpace(spec.DisplayKey))
	last := strings.ToLower(strings.TrimSpace(spec.Path))
	if i := strings.LastIndex(last, "."); i >= 0 {
		last = last[i+1:]
	}
	for _, suffix := range p.IdentitySuffix {
		suffix = strings.ToLower(strings.TrimSpace(suffix))
		if suffix == "" {
			continue
		}
		if strings.HasSuffix(key, suffix) || strings.HasSuffix(last, suffix) {
			return true
		}
	}
	return false
}

// Partition splits specs into plain fields and identity fields, keeping order.
func (p Projector) Partition(specs []FieldSpec) (normal, identity []FieldSpec) {
	for _, s := range specs {
		if p.IsIdentity(s) {
			identity = append(identity, s)
		} else {
			normal = append(normal, s)
		}
	}
	return normal, identity
}

// Project resolves every spec against every record. Missing values are
// reported with Present=false and never fail the projection.
func (p Projector) Project(specs []FieldSpec, records []Record) []Row {
	normal, identity := p.Partition(specs)
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := Row{ID: rec.ID()}
		if v, ok := rec.Resolve(p.NamePath); ok && v != nil {
			row.Name = toString(v)
		}
		if p.AvatarPath != "" {
			if v, ok := rec.Resolve(p.AvatarPath); ok && v != nil {
				row.Avatar = toString(v)
			}
		}
		row.Fields = projectFields(normal, rec)
		row.AvatarFields = projectFields(identity, rec)
		rows = append(rows, row)
	}
	return rows
}

func projectFields(specs []FieldSpec, rec Record) []Field {
	if len(specs) == 0 {
		return nil
	}
	out := make([]Field, 0, len(specs))
	for _, s := range specs {
		v, ok := rec.Resolve(s.Path)
		out = append(out, Field{Key: s.DisplayKey, Path: s.Path, Value: v, Present: ok})
	}
	return out
}

// Project uses DefaultProjector.
func Project(specs []FieldSpec, records []Record) []Row {
	return DefaultProjector().Project(specs, records)
}

// QueryPaths merges the paths of several field sets for a single backend
// query. Paths are compared trimmed and case-insensitively; the first
// spelling seen wins and first-seen order is kept.
func QueryPaths(sets ...[]FieldSpec) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, set := range sets {
		for _, s := range set {
			path := strings.TrimSpace(s.Path)
			if path == "" {
				continue
			}
			norm := strings.ToLower(path)
			if _, ok := seen[norm]; ok {
				continue
			}
			seen[norm] = struct{}{}
			out = append(out, path)
		}
	}
	return out
}

// ResolveAvatars swaps raw identifiers for identities found in lookup.
// Identifiers without a match keep their raw value.
func ResolveAvatars(fields []Field, lookup map[string]Identity) []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	for i, f := range out {
		id, ok := f.Value.(string)
		if !ok || id == "" {
			continue
		}
		if ident, ok := lookup[id]; ok {
			out[i].Value = ident
		}
	}
	return out
}

// IdentifierSet collects the distinct raw identifiers referenced by rows.
func IdentifierSet(rows ...Row) []string {
	seen := map[string]struct{}{}
	for _, r := range rows {
		for _, f := range r.AvatarFields {
			if id, ok := f.Value.(string); ok && id != "" {
				seen[id] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
