package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hongminglow/blog-be/internal/config"
	"github.com/hongminglow/blog-be/internal/storage/postgres"
)

type schemaMigrator interface {
	Up() error
	Down() error
	Version() (uint, bool, error)
	Close() error
}

type migratorFactory func(databaseURL string) (schemaMigrator, error)

// openMigrator is swapped in tests.
var openMigrator migratorFactory = func(databaseURL string) (schemaMigrator, error) {
	return postgres.NewMigrator(databaseURL)
}

// NewMigrateCmd creates the migrate subcommand and its up/down/version children.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: withMigrator(func(cmd *cobra.Command, m schemaMigrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				cmd.Println("Migrations completed successfully")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			RunE: withMigrator(func(cmd *cobra.Command, m schemaMigrator) error {
				if err := m.Down(); err != nil {
					return err
				}
				cmd.Println("Migrations rolled back")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: withMigrator(func(cmd *cobra.Command, m schemaMigrator) error {
				v, dirty, err := m.Version()
				if err != nil {
					return err
				}
				cmd.Printf("version %d (dirty: %t)\n", v, dirty)
				return nil
			}),
		},
	)
	return cmd
}

func withMigrator(run func(*cobra.Command, schemaMigrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) (err error) {
		url, err := config.LoadDatabaseURL()
		if err != nil {
			return err
		}
		m, err := openMigrator(url)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, m.Close())
		}()
		return run(cmd, m)
	}
}

func migrateUp(databaseURL string, newMigrator migratorFactory) error {
	m, err := newMigrator(databaseURL)
	if err != nil {
		return fmt.Errorf("open migrator: %w", err)
	}
	upErr := m.Up()
	return errors.Join(upErr, m.Close())
}
