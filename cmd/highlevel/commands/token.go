package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/natserract/highlevel/pkg/config"
	"github.com/natserract/highlevel/pkg/highlevel"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewTokenCommand creates the token command group
func NewTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage OAuth tokens",
		Long:  "Start the OAuth flow, exchange authorization codes and refresh tokens",
	}

	cmd.AddCommand(newTokenURLCommand())
	cmd.AddCommand(newTokenExchangeCommand())
	cmd.AddCommand(newTokenRefreshCommand())
	cmd.AddCommand(newTokenLocationCommand())

	return cmd
}

func newTokenURLCommand() *cobra.Command {
	var (
		redirectURI string
		scopes      []string
	)

	cmd := &cobra.Command{
		Use:   "url",
		Short: "Print the authorization URL",
		Long:  "Print the page where a user installs the app and grants access",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}

			authURL, err := highlevel.NewOAuthWithLogger(s.cfg, s.logger).AuthorizationURL(redirectURI, scopes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), authURL)
			return nil
		},
	}

	cmd.Flags().StringVar(&redirectURI, "redirect-uri", "", "OAuth redirect URI")
	cmd.Flags().StringSliceVar(&scopes, "scope", nil, "requested scopes")
	_ = cmd.MarkFlagRequired("redirect-uri")

	return cmd
}

func newTokenExchangeCommand() *cobra.Command {
	var (
		redirectURI string
		userType    string
	)

	cmd := &cobra.Command{
		Use:   "exchange CODE",
		Short: "Exchange an authorization code",
		Long:  "Trade the code received on the redirect URI for an access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}

			if err := promptClientCredentials(&s.cfg, cmd.ErrOrStderr()); err != nil {
				return err
			}
			oauth := highlevel.NewOAuthWithLogger(s.cfg, s.logger)
			oauth.UserType = userType
			creds, err := oauth.ExchangeCode(context.Background(), args[0], redirectURI)
			if err != nil {
				return fmt.Errorf("failed to exchange code: %w", err)
			}
			return printObject(cmd.OutOrStdout(), credentialsData(creds))
		},
	}

	cmd.Flags().StringVar(&redirectURI, "redirect-uri", "", "OAuth redirect URI")
	cmd.Flags().StringVar(&userType, "user-type", highlevel.UserTypeLocation, "token type (Location, Company)")

	return cmd
}

func newTokenRefreshCommand() *cobra.Command {
	var (
		refreshToken string
		userType     string
	)

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh an access token",
		Long:  "Trade a refresh token (--refresh-token or REFRESH_TOKEN) for new credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}

			if err := promptClientCredentials(&s.cfg, cmd.ErrOrStderr()); err != nil {
				return err
			}
			oauth := highlevel.NewOAuthWithLogger(s.cfg, s.logger)
			oauth.UserType = userType
			creds, err := oauth.Refresh(context.Background(), firstNonEmpty(refreshToken, s.creds.RefreshToken))
			if err != nil {
				return fmt.Errorf("failed to refresh token: %w", err)
			}
			return printObject(cmd.OutOrStdout(), credentialsData(creds))
		},
	}

	cmd.Flags().StringVar(&refreshToken, "refresh-token", "", "refresh token")
	cmd.Flags().StringVar(&userType, "user-type", highlevel.UserTypeLocation, "token type (Location, Company)")

	return cmd
}

func newTokenLocationCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "location LOCATION_ID",
		Short: "Get a location token",
		Long:  "Exchange an agency token for a token scoped to one location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}

			agency, err := highlevel.NewAgency(s.client, s.creds, "")
			if err != nil {
				return err
			}
			creds, err := agency.LocationToken(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get location token: %w", err)
			}
			return printObject(cmd.OutOrStdout(), credentialsData(creds))
		},
	}
}

// promptClientCredentials asks for a missing client id or secret when stdin is
// a terminal. The secret is read without echo.
func promptClientCredentials(cfg *config.Config, prompt io.Writer) error {
	if cfg.HasClientCredentials() || !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}

	if cfg.ClientID == "" {
		fmt.Fprint(prompt, "Client ID: ")
		_, _ = fmt.Scanln(&cfg.ClientID)
	}

	if cfg.ClientSecret == "" {
		fmt.Fprint(prompt, "Client Secret: ")
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("failed to read client secret: %w", err)
		}
		cfg.ClientSecret = string(secret)
		fmt.Fprintln(prompt)
	}

	return nil
}

func credentialsData(creds highlevel.Credentials) map[string]any {
	data := map[string]any{
		"access_token":  creds.AccessToken,
		"refresh_token": creds.RefreshToken,
		"token_type":    creds.TokenType,
		"expires_in":    creds.ExpiresIn,
		"scope":         creds.Scope,
		"userType":      creds.UserType,
		"companyId":     creds.CompanyID,
		"locationId":    creds.LocationID,
	}
	if expiresAt := creds.ExpiresAt(); !expiresAt.IsZero() {
		data["expires_at"] = expiresAt.Format(time.RFC3339)
	}
	return data
}
