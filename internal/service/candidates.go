package service

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jask/recruitdesk/internal/apperr"
	"github.com/jask/recruitdesk/internal/database"
	"github.com/jask/recruitdesk/internal/database/repository"
)

// NewCandidate is the input of the new candidate form. Validation errors are
// keyed by the json names, which the form uses as field keys.
type NewCandidate struct {
	FirstName       string  `json:"first_name" validate:"required"`
	LastName        string  `json:"last_name" validate:"required"`
	Email           string  `json:"email" validate:"required,email"`
	Phone           string  `json:"phone"`
	Education       string  `json:"education"`
	YearsExperience float64 `json:"years_experience" validate:"gte=0"`
	// PositionID, when set, opens a job application for that position.
	PositionID string `json:"position_id"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (n NewCandidate) trimmed() NewCandidate {
	n.FirstName = strings.TrimSpace(n.FirstName)
	n.LastName = strings.TrimSpace(n.LastName)
	n.Email = strings.TrimSpace(n.Email)
	n.Phone = strings.TrimSpace(n.Phone)
	n.Education = strings.TrimSpace(n.Education)
	return n
}

// Validate returns a validation error naming every rejected field.
func (n NewCandidate) Validate() error {
	err := validate.Struct(n.trimmed())
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return err
	}
	fields := make(map[string]string, len(invalid))
	for _, fe := range invalid {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return apperr.Validation("new candidate", fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "is not an email address"
	case "gte":
		return "must not be negative"
	}
	return "is invalid"
}

// CandidateService creates candidates.
type CandidateService struct {
	Candidates *repository.CandidateRepo
	Positions  *repository.PositionRepo
	// UserID is recorded as owner, creator and last modifier.
	UserID string
}

// Create validates n and stores it. It returns the new candidate id.
func (s *CandidateService) Create(ctx context.Context, n NewCandidate) (string, error) {
	if err := n.Validate(); err != nil {
		return "", err
	}
	if n.PositionID != "" {
		p, err := s.Positions.Get(ctx, n.PositionID)
		if err != nil {
			return "", apperr.Backend("new candidate", err)
		}
		if p == nil {
			return "", apperr.Validation("new candidate", map[string]string{"position": "does not exist"})
		}
	}

	var user *string
	if s.UserID != "" {
		id := s.UserID
		user = &id
	}
	n = n.trimmed()
	c := repository.Candidate{
		ID:              uuid.NewString(),
		FirstName:       n.FirstName,
		LastName:        n.LastName,
		Email:           n.Email,
		Phone:           n.Phone,
		Education:       n.Education,
		YearsExperience: n.YearsExperience,
		Audit:           repository.Audit{OwnerID: user, CreatedByID: user, LastModifiedByID: user},
	}
	var app *repository.JobApplication
	if n.PositionID != "" {
		app = &repository.JobApplication{
			ID:         uuid.NewString(),
			PositionID: n.PositionID,
			Status:     "Open",
			Stage:      "New",
			AppliedAt:  database.Now(),
		}
	}
	if err := s.Candidates.Create(ctx, c, app); err != nil {
		return "", apperr.Backend("new candidate", err)
	}
	return c.ID, nil
}
