package settings

import (
	"github.com/jask/recruitdesk/internal/listing"
	"github.com/jask/recruitdesk/internal/projection"
)

var objectSets = map[string]listing.FieldSets{
	"account": {
		Tile: []projection.FieldSpec{
			{DisplayKey: "Number", Path: "account_number"},
			{DisplayKey: "Revenue", Path: "annual_revenue"},
			{DisplayKey: "Phone", Path: "phone"},
		},
		Detail: []projection.FieldSpec{
			{DisplayKey: "Account Number", Path: "account_number"},
			{DisplayKey: "Industry", Path: "industry"},
			{DisplayKey: "Phone", Path: "phone"},
			{DisplayKey: "Revenue", Path: "annual_revenue"},
			{DisplayKey: "Owner", Path: "owner_id"},
			{DisplayKey: "Created By", Path: "created_by_id"},
			{DisplayKey: "Modified By", Path: "last_modified_by_id"},
		},
	},
	"position": {
		Tile: []projection.FieldSpec{
			{DisplayKey: "Status", Path: "status"},
			{DisplayKey: "Location", Path: "location"},
			{DisplayKey: "Account", Path: "account.name"},
		},
		Detail: []projection.FieldSpec{
			{DisplayKey: "Status", Path: "status"},
			{DisplayKey: "Location", Path: "location"},
			{DisplayKey: "Account", Path: "account.name"},
			{DisplayKey: "Min Salary", Path: "min_salary"},
			{DisplayKey: "Max Salary", Path: "max_salary"},
			{DisplayKey: "Owner", Path: "owner_id"},
			{DisplayKey: "Created By", Path: "created_by_id"},
		},
	},
}

// ObjectSets returns the fixed field sets of objects whose views are not
// configurable. Candidates are resolved per role instead.
func ObjectSets(object string) (listing.FieldSets, bool) {
	sets, ok := objectSets[object]
	return sets, ok
}

// BuiltinSets returns the candidate field sets used before anything is
// resolved.
func BuiltinSets() listing.FieldSets {
	return listing.FieldSets{
		Tile:    Builtin(SlotCandidateTile),
		Detail:  Builtin(SlotCandidateModal),
		Related: Builtin(SlotJobApplicationModal),
	}
}
