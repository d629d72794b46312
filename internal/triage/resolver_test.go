package triage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

func TestResolvePrefersSkillMatch(t *testing.T) {
	directory := &fakeDirectory{users: []domain.User{
		moderatorRef("generalist@x.com"),
		moderatorRef("react@x.com", "React"),
	}}
	resolver := NewAssignmentResolver(directory)

	user, err := resolver.Resolve(context.Background(), []string{"React", "Node.js"})
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "react@x.com", user.Email)
}

func TestResolveFallsBackToAnyModerator(t *testing.T) {
	directory := &fakeDirectory{users: []domain.User{
		moderatorRef("generalist@x.com", "AWS"),
	}}
	resolver := NewAssignmentResolver(directory)

	user, err := resolver.Resolve(context.Background(), []string{"React"})
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "generalist@x.com", user.Email)
}

func TestResolveEmptySkillsSkipsSkillTier(t *testing.T) {
	directory := &fakeDirectory{users: []domain.User{
		moderatorRef("generalist@x.com"),
	}}
	resolver := NewAssignmentResolver(directory)

	user, err := resolver.Resolve(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "generalist@x.com", user.Email)
}

func TestResolveNoModeratorsReturnsNobody(t *testing.T) {
	resolver := NewAssignmentResolver(&fakeDirectory{})

	user, err := resolver.Resolve(context.Background(), []string{"React"})
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestResolveNeverPicksAdmin(t *testing.T) {
	directory := &fakeDirectory{users: []domain.User{
		{ID: "admin-1", Email: "root@x.com", Role: domain.RoleAdmin, Skills: []string{"React"}},
		{ID: "user-1", Email: "someone@x.com", Role: domain.RoleUser, Skills: []string{"React"}},
	}}
	resolver := NewAssignmentResolver(directory)

	user, err := resolver.Resolve(context.Background(), []string{"React"})
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = resolver.Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestResolvePropagatesDirectoryError(t *testing.T) {
	resolver := NewAssignmentResolver(&fakeDirectory{err: errors.New("directory offline")})

	_, err := resolver.Resolve(context.Background(), []string{"React"})
	assert.Error(t, err)
}
