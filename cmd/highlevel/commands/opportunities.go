package commands

import (
	"context"
	"fmt"

	"github.com/natserract/highlevel/pkg/highlevel"
	"github.com/spf13/cobra"
)

// NewOpportunitiesCommand creates the opportunities command group
func NewOpportunitiesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "opportunities",
		Aliases: []string{"opportunity", "opp"},
		Short:   "Inspect opportunities",
		Long:    "Search the pipeline opportunities of a location",
	}

	cmd.AddCommand(newOpportunitiesListCommand())

	return cmd
}

func newOpportunitiesListCommand() *cobra.Command {
	var (
		limit    int
		maxItems int
		query    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List opportunities",
		Long:  "List the opportunities of the configured location",
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
			cursor, err := location.Opportunities(ctx, &highlevel.ListOptions{Limit: limit, Query: query})
			if err != nil {
				return fmt.Errorf("failed to list opportunities: %w", err)
			}
			opportunities, err := cursor.Collect(ctx, maxItems)
			if err != nil {
				return fmt.Errorf("failed to list opportunities: %w", err)
			}

			return printList(cmd.OutOrStdout(), opportunities, []string{"id", "name", "status", "monetaryValue", "pipelineStageId"})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "page size")
	cmd.Flags().IntVar(&maxItems, "max", 100, "maximum number of opportunities (0 for all)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search query")

	return cmd
}
