package repository

import (
	"database/sql"
	"strings"
)

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func strOrNil(s *string) interface{} {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func stringArgs(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// auditScan collects the nullable audit columns of a row.
type auditScan struct {
	owner, creator, modifier sql.NullString
}

func (a *auditScan) targets() []interface{} {
	return []interface{}{&a.owner, &a.creator, &a.modifier}
}

func (a *auditScan) audit() Audit {
	return Audit{
		OwnerID:          nullable(a.owner),
		CreatedByID:      nullable(a.creator),
		LastModifiedByID: nullable(a.modifier),
	}
}
