package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/registry"
)

func TestRecordingRegistry_RecordsWrites(t *testing.T) {
	ctx := context.Background()
	r := NewRecordingRegistry(registry.NewMemory(map[string]float64{"master": 1, "sfx": 1}))

	require.NoError(t, r.WriteVolume(ctx, "master", 0.5))
	require.NoError(t, r.WriteVolume(ctx, "sfx", 0.2))

	assert.Equal(t, []Write{{"master", 0.5}, {"sfx", 0.2}}, r.Writes())

	r.Reset()
	assert.Empty(t, r.Writes())
}

func TestRecordingRegistry_FailWrites(t *testing.T) {
	ctx := context.Background()
	mem := registry.NewMemory(map[string]float64{"master": 1})
	r := NewRecordingRegistry(mem)
	boom := errors.New("boom")

	r.FailWrites("master", boom)
	err := r.WriteVolume(ctx, "master", 0.5)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, r.Writes())
	assert.Equal(t, 1.0, mem.Snapshot()["master"])

	r.FailWrites("master", nil)
	require.NoError(t, r.WriteVolume(ctx, "master", 0.5))
	assert.Len(t, r.Writes(), 1)
}

func TestRecordingRegistry_FailReads(t *testing.T) {
	ctx := context.Background()
	r := NewRecordingRegistry(registry.NewMemory(map[string]float64{"master": 0.3}))

	r.FailReads("master", errors.New("garbled"))
	_, err := r.ReadVolume(ctx, "master")
	assert.Error(t, err)

	r.FailReads("master", nil)
	v, err := r.ReadVolume(ctx, "master")
	require.NoError(t, err)
	assert.Equal(t, 0.3, v)
}
