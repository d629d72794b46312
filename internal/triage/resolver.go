package triage

import (
	"context"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// AssignmentResolver selects a handler for a ticket given its normalized
// skills. Resolution is a pure function of the skill set and the current
// moderator roster; retries belong to the enclosing step.
type AssignmentResolver struct {
	directory UserDirectory
}

// NewAssignmentResolver creates the resolver.
func NewAssignmentResolver(directory UserDirectory) *AssignmentResolver {
	return &AssignmentResolver{directory: directory}
}

// Resolve picks a moderator in fallback tiers: first moderator whose skills
// intersect the ticket's, then any moderator, then nobody. The first-match
// policy (no overlap ranking, no load awareness) is the documented behavior.
// Admins are never eligible, even as last resort.
func (r *AssignmentResolver) Resolve(ctx context.Context, skills []string) (*domain.User, error) {
	if len(skills) > 0 {
		user, err := r.directory.FindOne(ctx, UserFilter{
			Role:      domain.RoleModerator,
			SkillsAny: skills,
		})
		if err != nil {
			return nil, err
		}
		if user != nil {
			return user, nil
		}
	}
	return r.directory.FindOne(ctx, UserFilter{Role: domain.RoleModerator})
}
