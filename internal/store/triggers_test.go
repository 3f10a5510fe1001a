package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

func TestProfiles_EmptyNotNil(t *testing.T) {
	s := createTestStore(t)

	profiles, err := s.Profiles(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, profiles)
	assert.Empty(t, profiles)
}

func TestSaveProfile_AppendsInOrder(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		_, err := s.SaveProfile(ctx, createTestProfile(id, "P "+id, 0, "Elwynn Forest"))
		require.NoError(t, err)
	}

	profiles, err := s.Profiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, profileIDs(profiles))
}

func TestSaveProfile_UpdateKeepsPosition(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		_, err := s.SaveProfile(ctx, createTestProfile(id, "P "+id, 0))
		require.NoError(t, err)
	}

	updated := createTestProfile("b", "renamed", 42, "Durotar")
	_, err := s.SaveProfile(ctx, updated)
	require.NoError(t, err)

	p, pos, err := s.Profile(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
	assert.Equal(t, "renamed", p.Name)
	assert.Equal(t, 42, p.Priority)
	assert.Equal(t, []string{"Durotar"}, p.Zones)
}

func TestSaveProfile_AssignsID(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	id, err := s.SaveProfile(ctx, model.Profile{Name: "no id"})
	require.NoError(t, err)
	assert.True(t, model.IsProfileID(id))

	p, _, err := s.Profile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "no id", p.Name)
}

func TestDeleteProfile_Renumbers(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		_, err := s.SaveProfile(ctx, createTestProfile(id, id, 0))
		require.NoError(t, err)
	}

	require.NoError(t, s.DeleteProfile(ctx, "a"))

	_, pos, err := s.Profile(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, 1, pos)

	err = s.DeleteProfile(ctx, "a")
	assert.True(t, errors.Is(err, ErrProfileNotFound))
}

func TestMoveProfile(t *testing.T) {
	tests := []struct {
		name string
		id   string
		to   int
		want []string
	}{
		{"to front", "c", 0, []string{"c", "a", "b"}},
		{"to back", "a", 2, []string{"b", "c", "a"}},
		{"in place", "b", 1, []string{"a", "b", "c"}},
		{"clamped high", "a", 99, []string{"b", "c", "a"}},
		{"clamped low", "c", -5, []string{"c", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := createTestStore(t)
			for _, id := range []string{"a", "b", "c"} {
				_, err := s.SaveProfile(ctx, createTestProfile(id, id, 0))
				require.NoError(t, err)
			}

			require.NoError(t, s.MoveProfile(ctx, tt.id, tt.to))

			profiles, err := s.Profiles(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, profileIDs(profiles))
		})
	}
}

func TestMoveProfile_NotFound(t *testing.T) {
	s := createTestStore(t)
	err := s.MoveProfile(context.Background(), "missing", 0)
	assert.True(t, errors.Is(err, ErrProfileNotFound))
}

func TestReplaceProfiles(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	_, err := s.SaveProfile(ctx, createTestProfile("old", "old", 0))
	require.NoError(t, err)

	require.NoError(t, s.ReplaceProfiles(ctx, []model.Profile{
		createTestProfile("x", "x", 1),
		createTestProfile("y", "y", 2),
	}))

	profiles, err := s.Profiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, profileIDs(profiles))

	require.NoError(t, s.ReplaceProfiles(ctx, nil))
	profiles, err = s.Profiles(ctx)
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestProfiles_MalformedRecords(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	_, err := s.SaveProfile(ctx, createTestProfile("good", "good", 0, "Durotar"))
	require.NoError(t, err)
	putRawTrigger(t, s, "bad-shape", `{"name":"x","zones":"Durotar"}`)
	putRawTrigger(t, s, "not-json", `garbage`)

	profiles, err := s.Profiles(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 3)

	assert.False(t, profiles[0].Malformed)
	assert.True(t, profiles[1].Malformed)
	assert.Equal(t, "bad-shape", profiles[1].ID)
	assert.True(t, profiles[2].Malformed)
	assert.Equal(t, "not-json", profiles[2].ID)
}

func TestMoveProfile_PreservesMalformedRecord(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	_, err := s.SaveProfile(ctx, createTestProfile("good", "good", 0))
	require.NoError(t, err)
	putRawTrigger(t, s, "bad", `{"zones":7}`)

	require.NoError(t, s.MoveProfile(ctx, "bad", 0))

	var record string
	require.NoError(t, s.db.QueryRow(`SELECT record FROM triggers WHERE id = 'bad'`).Scan(&record))
	assert.Equal(t, `{"zones":7}`, record)

	profiles, err := s.Profiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bad", "good"}, profileIDs(profiles))
}

func TestLoadTriggers(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	require.NoError(t, s.SetTriggersEnabled(ctx, true))
	_, err := s.SaveProfile(ctx, createTestProfile("a", "a", 5, "Durotar"))
	require.NoError(t, err)

	enabled, profiles, err := s.LoadTriggers(ctx)
	require.NoError(t, err)
	assert.True(t, enabled)
	require.Len(t, profiles, 1)
	assert.Equal(t, 5, profiles[0].Priority)
}
