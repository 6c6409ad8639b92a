package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewUsersCommand creates the users command group
func NewUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Inspect users",
		Long:    "List the team members of a location",
	}

	cmd.AddCommand(newUsersListCommand())

	return cmd
}

func newUsersListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		Long:  "List the users of the configured location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			location, err := s.location()
			if err != nil {
				return err
			}

			ctx := context.Background()
			cursor, err := location.Users(ctx)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}
			users, err := cursor.Collect(ctx, 0)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			return printList(cmd.OutOrStdout(), users, []string{"id", "name", "email", "phone", "role"})
		},
	}
}
