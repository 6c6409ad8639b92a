package commands

import (
	"context"
	"fmt"

	"github.com/natserract/highlevel/pkg/highlevel"
	"github.com/spf13/cobra"
)

// NewLocationCommand creates the location command group
func NewLocationCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "location",
		Aliases: []string{"locations", "loc"},
		Short:   "Inspect locations",
		Long:    "View HighLevel locations (sub-accounts)",
	}

	cmd.AddCommand(newLocationGetCommand())
	cmd.AddCommand(newLocationListCommand())

	return cmd
}

func newLocationGetCommand() *cobra.Command {
	var viaAgency bool

	cmd := &cobra.Command{
		Use:   "get [LOCATION_ID]",
		Short: "Get location details",
		Long:  "Display a location. Defaults to the configured location.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			id, err := s.locationID(args)
			if err != nil {
				return err
			}

			ctx := context.Background()
			var location *highlevel.Location
			if viaAgency {
				agency, err := highlevel.NewAgency(s.client, s.creds, "")
				if err != nil {
					return err
				}
				location, err = agency.GetLocation(ctx, id)
				if err != nil {
					return fmt.Errorf("failed to get location: %w", err)
				}
			} else {
				location, err = highlevel.NewLocation(s.client, s.creds, id).Get(ctx)
				if err != nil {
					return fmt.Errorf("failed to get location: %w", err)
				}
			}

			return printObject(cmd.OutOrStdout(), location.ExportData())
		},
	}

	cmd.Flags().BoolVar(&viaAgency, "agency", false, "treat the token as an agency token and exchange it for a location token first")

	return cmd
}

func newLocationListCommand() *cobra.Command {
	var limit, maxItems int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List agency locations",
		Long:  "List the locations of the configured company using an agency token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			agency, err := highlevel.NewAgency(s.client, s.creds, "")
			if err != nil {
				return err
			}

			ctx := context.Background()
			cursor, err := agency.GetLocations(ctx, &highlevel.ListOptions{Limit: limit})
			if err != nil {
				return fmt.Errorf("failed to list locations: %w", err)
			}
			locations, err := cursor.Collect(ctx, maxItems)
			if err != nil {
				return fmt.Errorf("failed to list locations: %w", err)
			}

			return printList(cmd.OutOrStdout(), locations, []string{"id", "name", "city", "country", "email"})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "page size")
	cmd.Flags().IntVar(&maxItems, "max", 0, "maximum number of locations (0 for all)")

	return cmd
}
