package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jask/recruitdesk/internal/database/repository"
	"github.com/jask/recruitdesk/internal/projection"
)

// IdentityService resolves user ids for avatar fields.
type IdentityService struct {
	Users   *repository.UserRepo
	Timeout time.Duration
}

// Fetch returns the identities of the ids that exist. Unknown ids are left
// out of the map.
func (s *IdentityService) Fetch(ctx context.Context, ids []string) (map[string]projection.Identity, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	users, err := s.Users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("lookup users: %w", err)
	}
	out := make(map[string]projection.Identity, len(users))
	for _, u := range users {
		out[u.ID] = projection.Identity{ID: u.ID, Name: u.Name, Email: u.Email, PhotoURL: u.PhotoURL}
	}
	return out, nil
}
