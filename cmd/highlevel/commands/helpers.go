package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/natserract/highlevel/pkg/config"
	"github.com/natserract/highlevel/pkg/highlevel"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// AddCommands registers every command group on root.
func AddCommands(root *cobra.Command) {
	root.AddCommand(NewLocationCommand())
	root.AddCommand(NewContactsCommand())
	root.AddCommand(NewCalendarsCommand())
	root.AddCommand(NewUsersCommand())
	root.AddCommand(NewOpportunitiesCommand())
	root.AddCommand(NewSyncCommand())
	root.AddCommand(NewTokenCommand())
}

// session is what every command needs to talk to the API.
type session struct {
	cfg    config.Config
	client *highlevel.Client
	creds  highlevel.Credentials
	logger *zap.Logger
}

// newSession loads the environment configuration and applies the values set
// through flags, HIGHLEVEL_* variables or the config file on top of it.
func newSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if api := viper.GetString("api"); api != "" {
		cfg.APIBaseURL = api
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logger, err := newLogger(viper.GetBool("verbose"))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	creds := highlevel.NewCredentials(firstNonEmpty(viper.GetString("token"), cfg.AccessToken))
	creds.RefreshToken = cfg.RefreshToken
	creds.LocationID = firstNonEmpty(viper.GetString("location"), cfg.LocationID)
	creds.CompanyID = firstNonEmpty(viper.GetString("company"), cfg.CompanyID)

	return &session{
		cfg:    *cfg,
		client: highlevel.NewClientWithLogger(*cfg, logger),
		creds:  creds,
		logger: logger,
	}, nil
}

// locationID returns the explicit id argument or the configured location.
func (s *session) locationID(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if s.creds.LocationID == "" {
		return "", fmt.Errorf("no location id: pass one or set --location / HIGHLEVEL_LOCATION")
	}
	return s.creds.LocationID, nil
}

// location binds the configured location.
func (s *session) location() (*highlevel.Location, error) {
	id, err := s.locationID(nil)
	if err != nil {
		return nil, err
	}
	return highlevel.NewLocation(s.client, s.creds, id), nil
}

// newLogger logs warnings and errors to stderr, or everything when verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// printList renders items in the configured output format. The table shows
// the given columns; json and yaml carry every exported field.
func printList[T highlevel.Object](w io.Writer, items []T, columns []string) error {
	rows := make([]map[string]any, 0, len(items))
	for _, item := range items {
		rows = append(rows, item.ExportData())
	}

	switch viper.GetString("output") {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(rows)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(rows)
	default:
		if len(rows) == 0 {
			_, err := fmt.Fprintln(w, "No results")
			return err
		}
		table := tablewriter.NewWriter(w)
		header := make([]any, len(columns))
		for i, c := range columns {
			header[i] = c
		}
		table.Header(header...)
		for _, row := range rows {
			values := make([]any, len(columns))
			for i, c := range columns {
				values[i] = cell(row[c])
			}
			_ = table.Append(values...)
		}
		return table.Render()
	}
}

// printObject renders one exported field mapping as a property table, or as
// json/yaml.
func printObject(w io.Writer, data map[string]any) error {
	switch viper.GetString("output") {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(data)
	default:
		keys := make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		table := tablewriter.NewWriter(w)
		table.Header("Property", "Value")
		for _, k := range keys {
			_ = table.Append(k, cell(data[k]))
		}
		return table.Render()
	}
}

func cell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = cell(item)
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	default:
		return fmt.Sprint(v)
	}
}
