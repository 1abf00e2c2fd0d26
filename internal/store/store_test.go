package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banktotal-dev/banktotal/internal/model"
)

func TestRoundTrip(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "balances.json"))
	want := model.Balances{
		model.InstitutionKB:       50000,
		model.InstitutionShinhyup: 12345,
	}
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoad_NotFound(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing.json"))
	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balances.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	got, err := New(path).Load()
	assert.Error(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestLoad_Null(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balances.json")
	require.NoError(t, os.WriteFile(path, []byte("null"), 0o644))

	got, err := New(path).Load()
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestLoad_PythonFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balances.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"KB국민": 50000, "카카오": 10}`), 0o644))

	got, err := New(path).Load()
	require.NoError(t, err)
	assert.Equal(t, int64(50000), got[model.InstitutionKB])
	assert.Equal(t, int64(10), got["카카오"])
}

func TestSave_WritesKoreanVerbatim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balances.json")
	require.NoError(t, New(path).Save(model.Balances{model.InstitutionHana: 1}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"하나":1}`, string(data))
}

func TestSave_Overwrites(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "balances.json"))
	require.NoError(t, s.Save(model.Balances{model.InstitutionKB: 1, model.InstitutionHana: 2}))
	require.NoError(t, s.Save(model.Balances{model.InstitutionKB: 3}))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, model.Balances{model.InstitutionKB: 3}, got)
}

func TestSave_UnwritablePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := New(filepath.Join(blocker, "balances.json")).Save(model.Balances{})
	assert.Error(t, err)
}
