package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/blog-be/internal/config"
	"github.com/hongminglow/blog-be/internal/logging"
	"github.com/hongminglow/blog-be/internal/storage/memory"
)

type fakeMigrator struct {
	upErr   error
	ups     int
	downs   int
	version uint
	closed  bool
}

func (f *fakeMigrator) Up() error { f.ups++; return f.upErr }
func (f *fakeMigrator) Down() error { f.downs++; return nil }
func (f *fakeMigrator) Version() (uint, bool, error) { return f.version, false, nil }
func (f *fakeMigrator) Close() error { f.closed = true; return nil }

func useFakeMigrator(t *testing.T, fake *fakeMigrator) {
	t.Helper()
	orig := openMigrator
	openMigrator = func(string) (schemaMigrator, error) { return fake, nil }
	t.Cleanup(func() { openMigrator = orig })
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()
	names := make([]string, 0, len(cmd.Commands()))
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "migrate")
}

func TestMigrateCommands(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/blog")
	fake := &fakeMigrator{version: 1}
	useFakeMigrator(t, fake)

	out, err := execute(t, "migrate", "up")
	require.NoError(t, err)
	assert.Contains(t, out, "Migrations completed successfully")
	assert.Equal(t, 1, fake.ups)
	assert.True(t, fake.closed)

	out, err = execute(t, "migrate", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "version 1 (dirty: false)")

	_, err = execute(t, "migrate", "down")
	require.NoError(t, err)
	assert.Equal(t, 1, fake.downs)
}

func TestMigrateCommands_RequireDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	useFakeMigrator(t, &fakeMigrator{})

	_, err := execute(t, "migrate", "up")
	assert.Error(t, err)
}

func TestServe_InvalidConfig(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "")

	_, err := execute(t, "serve")
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestOpenStore(t *testing.T) {
	logger := logging.Setup(serviceName, "test", "json", "error", io.Discard)
	ctx := context.Background()

	store, err := openStore(ctx, config.Config{StorageDriver: config.DriverMemory}, logger, openMigrator)
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, store)

	fake := &fakeMigrator{upErr: errors.New("dirty database")}
	factory := func(string) (schemaMigrator, error) { return fake, nil }
	_, err = openStore(ctx, config.Config{StorageDriver: config.DriverPostgres, DatabaseURL: "postgres://x", AutoMigrate: true}, logger, factory)
	assert.ErrorContains(t, err, "dirty database")
	assert.True(t, fake.closed)

	_, err = openStore(ctx, config.Config{StorageDriver: "sqlite"}, logger, openMigrator)
	assert.Error(t, err)
}
