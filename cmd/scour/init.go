package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wizzomafizzo/scour/internal/cli"
	"github.com/wizzomafizzo/scour/internal/storage"
)

// createInitCommand creates the command writing the default rule file.
func createInitCommand(env *environment) *cobra.Command {
	var force, user bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default rule file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := cmd.Flags().GetString("patterns")
			if err != nil {
				return fmt.Errorf("failed to get patterns flag: %w", err)
			}
			if user {
				path = storage.New(env.fs).GetUserPatternsPath()
			}

			app := cli.NewApp(env.fs, path, cli.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()))
			result, err := app.Init(cmd.Context(), force)
			if err != nil {
				return err //nolint:wrapcheck // message already names the file
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing rule file")
	cmd.Flags().BoolVar(&user, "user", false, "Write the per-user rule file instead")
	return cmd
}
