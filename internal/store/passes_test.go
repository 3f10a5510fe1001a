package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

func testPass(seq int64) model.Pass {
	return model.Pass{
		Seq:      seq,
		Active:   true,
		Location: model.Location{Realm: "Elwynn Forest"},
		Matched:  []string{"p1"},
		Writes: []model.ChannelWrite{
			{Channel: "master", From: 1, To: 0.5, Kind: model.WriteApply},
		},
		Ledger: model.Ledger{"master": 1},
	}
}

func TestAppendPass_ReadPasses(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	require.NoError(t, s.AppendPass(ctx, testPass(1)))
	require.NoError(t, s.AppendPass(ctx, testPass(3)))

	passes, err := s.ReadPasses(ctx, 0)
	require.NoError(t, err)
	require.Len(t, passes, 2)

	got := passes[0]
	assert.Equal(t, int64(1), got.Seq)
	assert.True(t, got.Active)
	assert.Equal(t, "Elwynn Forest", got.Location.Realm)
	assert.Equal(t, []string{"p1"}, got.Matched)
	assert.Equal(t, testPass(1).Writes, got.Writes)
	assert.Equal(t, model.Ledger{"master": 1}, got.Ledger)
	assert.Equal(t, int64(3), passes[1].Seq)
}

func TestAppendPass_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	require.NoError(t, s.AppendPass(ctx, testPass(1)))
	require.NoError(t, s.AppendPass(ctx, testPass(1)))

	passes, err := s.ReadPasses(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, passes, 1)
}

func TestReadPasses_Limit(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	for seq := int64(1); seq <= 5; seq++ {
		require.NoError(t, s.AppendPass(ctx, testPass(seq)))
	}

	passes, err := s.ReadPasses(ctx, 2)
	require.NoError(t, err)
	require.Len(t, passes, 2)
	assert.Equal(t, int64(4), passes[0].Seq)
	assert.Equal(t, int64(5), passes[1].Seq)
}

func TestReadPasses_Empty(t *testing.T) {
	passes, err := createTestStore(t).ReadPasses(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, passes)
	assert.Empty(t, passes)
}

func TestLastPassSeq(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	seq, err := s.LastPassSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), seq)

	require.NoError(t, s.AppendPass(ctx, testPass(7)))
	require.NoError(t, s.AppendPass(ctx, testPass(4)))

	seq, err = s.LastPassSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), seq)
}
