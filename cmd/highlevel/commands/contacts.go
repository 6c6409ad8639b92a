package commands

import (
	"context"
	"fmt"

	"github.com/natserract/highlevel/pkg/highlevel"
	"github.com/spf13/cobra"
)

// NewContactsCommand creates the contacts command group
func NewContactsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "contacts",
		Aliases: []string{"contact"},
		Short:   "Manage contacts",
		Long:    "List, view and tag contacts of a location",
	}

	cmd.AddCommand(newContactsListCommand())
	cmd.AddCommand(newContactsGetCommand())
	cmd.AddCommand(newContactsAppointmentsCommand())
	cmd.AddCommand(newContactsTagCommand())

	return cmd
}

func newContactsListCommand() *cobra.Command {
	var (
		limit    int
		maxItems int
		query    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		Long:  "List the contacts of the configured location",
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
			cursor, err := location.Contacts(ctx, &highlevel.ListOptions{Limit: limit, Query: query})
			if err != nil {
				return fmt.Errorf("failed to list contacts: %w", err)
			}
			contacts, err := cursor.Collect(ctx, maxItems)
			if err != nil {
				return fmt.Errorf("failed to list contacts: %w", err)
			}

			return printList(cmd.OutOrStdout(), contacts, []string{"id", "firstName", "lastName", "email", "phone", "tags"})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "page size")
	cmd.Flags().IntVar(&maxItems, "max", 100, "maximum number of contacts (0 for all)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search query")

	return cmd
}

func newContactsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get CONTACT_ID",
		Short: "Get contact details",
		Long:  "Display detailed information about a specific contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}

			contact, err := highlevel.NewContact(s.client, s.creds, args[0]).Get(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get contact: %w", err)
			}

			return printObject(cmd.OutOrStdout(), contact.ExportData())
		},
	}
}

func newContactsAppointmentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "appointments CONTACT_ID",
		Short: "List a contact's appointments",
		Long:  "List the appointments booked by a specific contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}

			ctx := context.Background()
			cursor, err := highlevel.NewContact(s.client, s.creds, args[0]).Appointments(ctx)
			if err != nil {
				return fmt.Errorf("failed to list appointments: %w", err)
			}
			appointments, err := cursor.Collect(ctx, 0)
			if err != nil {
				return fmt.Errorf("failed to list appointments: %w", err)
			}

			return printList(cmd.OutOrStdout(), appointments, []string{"id", "title", "calendarId", "startTime", "endTime", "appointmentStatus"})
		},
	}
}

func newContactsTagCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tag CONTACT_ID TAG...",
		Short: "Add tags to a contact",
		Long:  "Add one or more tags to a specific contact",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}

			resp, err := highlevel.NewContact(s.client, s.creds, args[0]).AddTags(context.Background(), args[1:]...)
			if err != nil {
				return fmt.Errorf("failed to tag contact: %w", err)
			}

			data, err := resp.Map()
			if err != nil {
				return err
			}
			return printObject(cmd.OutOrStdout(), data)
		},
	}
}
