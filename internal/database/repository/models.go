package repository

import "time"

// Position statuses accepted by the positions table.
const (
	StatusOpen            = "Open"
	StatusOpenHot         = "Open Hot"
	StatusClosed          = "Closed"
	StatusClosedCancelled = "Closed Cancelled"
)

// PositionStatuses lists the statuses in filter order.
var PositionStatuses = []string{StatusOpen, StatusOpenHot, StatusClosed, StatusClosedCancelled}

// Audit holds the identity references every business row carries.
type Audit struct {
	OwnerID          *string
	CreatedByID      *string
	LastModifiedByID *string
}

// User represents a desk user; users are the identities behind audit fields.
type User struct {
	ID        string
	Name      string
	Email     string
	PhotoURL  string
	Role      string
	CreatedAt time.Time
}

// Account represents a client company.
type Account struct {
	ID                 string
	Name               string
	AccountNumber      string
	Industry           string
	Phone              string
	AnnualRevenueCents int64
	Audit
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Position represents an open or closed role at an account.
type Position struct {
	ID             string
	AccountID      *string
	AccountName    string // joined, read only
	Title          string
	Status         string
	Location       string
	MinSalaryCents int64
	MaxSalaryCents int64
	Audit
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Candidate represents a person in the pipeline.
type Candidate struct {
	ID              string
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Education       string
	YearsExperience float64
	PhotoURL        string
	Audit
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName joins first and last name.
func (c Candidate) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// JobApplication links a candidate to a position.
type JobApplication struct {
	ID            string
	CandidateID   string
	PositionID    string
	PositionTitle string // joined, read only
	Status        string
	Stage         string
	Notes         string
	AppliedAt     time.Time
}

// FieldSetEntry is one field of a named field set.
type FieldSetEntry struct {
	Object     string
	Name       string
	Ordinal    int
	DisplayKey string
	Path       string
}
