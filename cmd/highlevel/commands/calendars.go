package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/natserract/highlevel/pkg/highlevel"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

// NewCalendarsCommand creates the calendars command group
func NewCalendarsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "calendars",
		Aliases: []string{"calendar", "cal"},
		Short:   "Inspect calendars",
		Long:    "List calendars of a location and their events",
	}

	cmd.AddCommand(newCalendarsListCommand())
	cmd.AddCommand(newCalendarsEventsCommand())
	cmd.AddCommand(newCalendarsEventCommand())

	return cmd
}

func newCalendarsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List calendars",
		Long:  "List the calendars of the configured location",
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
			cursor, err := location.Calendars(ctx)
			if err != nil {
				return fmt.Errorf("failed to list calendars: %w", err)
			}
			calendars, err := cursor.Collect(ctx, 0)
			if err != nil {
				return fmt.Errorf("failed to list calendars: %w", err)
			}

			return printList(cmd.OutOrStdout(), calendars, []string{"id", "name", "calendarType", "isActive"})
		},
	}
}

func newCalendarsEventsCommand() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "events CALENDAR_ID",
		Short: "List calendar events",
		Long:  "List the events of a calendar between two dates (YYYY-MM-DD or RFC 3339)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := parseRange(from, to, time.Now())
			if err != nil {
				return err
			}

			s, err := newSession()
			if err != nil {
				return err
			}

			ctx := context.Background()
			cursor, err := highlevel.NewCalendar(s.client, s.creds, args[0]).Events(ctx, start, end)
			if err != nil {
				return fmt.Errorf("failed to list events: %w", err)
			}
			events, err := cursor.Collect(ctx, 0)
			if err != nil {
				return fmt.Errorf("failed to list events: %w", err)
			}

			return printList(cmd.OutOrStdout(), events, []string{"id", "title", "contactId", "startTime", "endTime", "appointmentStatus"})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start of the range (default today)")
	cmd.Flags().StringVar(&to, "to", "", "end of the range (default 7 days after --from)")

	return cmd
}

func newCalendarsEventCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "event EVENT_ID",
		Short: "Get a calendar event",
		Long:  "Display a single appointment event of the configured location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			location, err := s.location()
			if err != nil {
				return err
			}

			event, err := location.CalendarEvent(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get event: %w", err)
			}

			return printObject(cmd.OutOrStdout(), event.ExportData())
		},
	}
}

// parseRange resolves the --from/--to flags. An empty from means the start of
// today and an empty to means seven days after from.
func parseRange(from, to string, now time.Time) (time.Time, time.Time, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if from != "" {
		t, err := parseTime(from)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from: %w", err)
		}
		start = t
	}

	end := start.AddDate(0, 0, 7)
	if to != "" {
		t, err := parseTime(to)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to: %w", err)
		}
		end = t
	}

	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to must be after --from")
	}
	return start, end, nil
}

func parseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation(dateLayout, value, time.Local)
}
