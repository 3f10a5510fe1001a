package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// textStore is an in-memory TextStore.
type textStore struct {
	values  map[string]string
	readErr error
}

func newTextStore(values map[string]string) *textStore {
	if values == nil {
		values = map[string]string{}
	}
	return &textStore{values: values}
}

func (s *textStore) ReadChannel(_ context.Context, name string) (string, bool, error) {
	if s.readErr != nil {
		return "", false, s.readErr
	}
	v, ok := s.values[name]
	return v, ok, nil
}

func (s *textStore) WriteChannel(_ context.Context, name, text string) error {
	s.values[name] = text
	return nil
}

func TestCVars_Channels(t *testing.T) {
	r := NewCVars(newTextStore(nil), []string{"sfx", "master", "sfx", ""})
	assert.Equal(t, []string{"master", "sfx"}, r.Channels())
	assert.True(t, r.Known("sfx"))
	assert.False(t, r.Known("music"))
}

func TestCVars_ReadVolume(t *testing.T) {
	ctx := context.Background()
	st := newTextStore(map[string]string{
		"master": "0.4",
		"sfx":    "garbage",
	})
	r := NewCVars(st, []string{"master", "sfx", "music"})

	v, err := r.ReadVolume(ctx, "master")
	require.NoError(t, err)
	assert.Equal(t, 0.4, v)

	v, err = r.ReadVolume(ctx, "sfx")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v, "unparseable text reads as default")

	v, err = r.ReadVolume(ctx, "music")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v, "missing value reads as default")
}

func TestCVars_ReadVolume_StoreError(t *testing.T) {
	st := newTextStore(nil)
	st.readErr = errors.New("disk on fire")
	r := NewCVars(st, []string{"master"})

	_, err := r.ReadVolume(context.Background(), "master")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestCVars_WriteVolume(t *testing.T) {
	ctx := context.Background()
	st := newTextStore(nil)
	r := NewCVars(st, []string{"master"})

	require.NoError(t, r.WriteVolume(ctx, "master", 0.25))
	assert.Equal(t, "0.25", st.values["master"])

	require.NoError(t, r.WriteVolume(ctx, "master", 3))
	assert.Equal(t, "1", st.values["master"])

	err := r.WriteVolume(ctx, "voice", 0.5)
	assert.True(t, errors.Is(err, ErrUnknownChannel))
}

func TestCVars_Seed(t *testing.T) {
	ctx := context.Background()
	st := newTextStore(map[string]string{"master": "0.7"})
	r := NewCVars(st, []string{"master", "music", "sfx"})

	require.NoError(t, r.Seed(ctx, map[string]float64{"music": 0.6, "master": 0.1}))

	assert.Equal(t, "0.7", st.values["master"], "existing value kept")
	assert.Equal(t, "0.6", st.values["music"])
	assert.Equal(t, "1", st.values["sfx"])
}
