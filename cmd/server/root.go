package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. Running the binary without a subcommand serves HTTP.
func NewRootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:          "blog-be",
		Short:        "Blog backend with single-session bearer authentication",
		SilenceUsage: true,
		RunE:         runServe,
	}
	cmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		loadLocalEnv(cmd, envFile)
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	return cmd
}

// loadLocalEnv loads a dotenv file without overriding variables already set.
func loadLocalEnv(cmd *cobra.Command, path string) {
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err != nil {
		cmd.PrintErrf("no %s file found; relying on existing environment\n", path)
	}
}
