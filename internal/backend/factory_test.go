package backend

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashflow/internal/amqp"
	"cashflow/internal/config"
)

func TestFromAppConfig(t *testing.T) {
	cfg, err := FromAppConfig(&config.Config{DataBackend: "sqlite", SQLiteDBPath: "x.db", AMQPURL: "amqp://h/"})
	require.NoError(t, err)
	assert.Equal(t, SQLiteBackend, cfg.Type)
	assert.Equal(t, "amqp://h/", cfg.AMQPURL)
	assert.True(t, cfg.Type.Persistent())

	_, err = FromAppConfig(&config.Config{DataBackend: "sheets"})
	assert.ErrorContains(t, err, "valid: [sqlite memory]")
	_, err = FromAppConfig(nil)
	assert.Error(t, err)
}

func TestCreateBackend(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(nil)

	t.Run("memory", func(t *testing.T) {
		res, err := f.CreateBackend(ctx, Config{Type: MemoryBackend})
		require.NoError(t, err)
		assert.Nil(t, res.AMQP)
		require.NoError(t, res.Store.Set(ctx, "k", []byte("v")))
		assert.NoError(t, res.Cleanup())
	})

	t.Run("sqlite", func(t *testing.T) {
		res, err := f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "c.db")})
		require.NoError(t, err)
		require.NoError(t, res.Store.Set(ctx, "k", []byte("v")))
		assert.NoError(t, res.Cleanup())
	})

	t.Run("sqlite without path", func(t *testing.T) {
		_, err := f.CreateBackend(ctx, Config{Type: SQLiteBackend})
		assert.Error(t, err)
	})

	t.Run("unreachable broker is not fatal", func(t *testing.T) {
		f := NewFactory(nil)
		f.dialAMQP = func(string, string, string) (*amqp.Client, error) { return nil, errors.New("connection refused") }
		res, err := f.CreateBackend(ctx, Config{Type: MemoryBackend, AMQPURL: "amqp://localhost:1/"})
		require.NoError(t, err)
		assert.Nil(t, res.AMQP)
	})
}
