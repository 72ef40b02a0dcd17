package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// createRulesCommand creates the command listing the compiled rules.
func createRulesCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List rules in the order they are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := env.createApp(cmd)
			if err != nil {
				return err
			}

			output, err := app.ListRules(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list rules: %w", err)
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), output)
			return nil
		},
	}
}
