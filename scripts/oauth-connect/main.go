// oauth-connect walks an operator through provider consent and deposits
// the resulting grant with a running API through its internal route.
//
// Usage:
//
//	go run ./scripts/oauth-connect authorize --provider google --user alice
//	go run ./scripts/oauth-connect list --user alice
//	go run ./scripts/oauth-connect disconnect --provider microsoft --user alice
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"unified-calendar/internal/model"
	"unified-calendar/pkg/oauth"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "oauth-connect",
		Usage: "Connect Google and Microsoft calendars to the unified calendar API.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "server", Value: "http://localhost:8080", EnvVars: []string{"UNIFIED_CALENDAR_URL"}, Usage: "API base URL"},
			&cli.StringFlag{Name: "internal-key", EnvVars: []string{"MIDDLEWARE_INTERNAL_KEY"}, Usage: "X-Internal-Key shared with the API"},
		},
		Commands: []*cli.Command{
			authorizeCommand(),
			listCommand(),
			disconnectCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

var (
	userFlag     = &cli.StringFlag{Name: "user", Required: true, Usage: "user id the account belongs to"}
	providerFlag = &cli.StringFlag{Name: "provider", Required: true, Usage: "google or microsoft"}
)

func authorizeCommand() *cli.Command {
	return &cli.Command{
		Name:  "authorize",
		Usage: "Run the consent flow and deposit the grant.",
		Flags: []cli.Flag{
			userFlag,
			providerFlag,
			&cli.StringFlag{Name: "google-client-id", EnvVars: []string{"OAUTH_GOOGLE_CLIENT_ID"}},
			&cli.StringFlag{Name: "google-client-secret", EnvVars: []string{"OAUTH_GOOGLE_CLIENT_SECRET"}},
			&cli.StringFlag{Name: "microsoft-client-id", EnvVars: []string{"OAUTH_MICROSOFT_CLIENT_ID"}},
			&cli.StringFlag{Name: "microsoft-client-secret", EnvVars: []string{"OAUTH_MICROSOFT_CLIENT_SECRET"}},
			&cli.StringFlag{Name: "microsoft-tenant", Value: "common", EnvVars: []string{"OAUTH_MICROSOFT_TENANT"}},
			&cli.StringFlag{Name: "redirect-url", Value: "urn:ietf:wg:oauth:2.0:oob", EnvVars: []string{"OAUTH_REDIRECT_URL"}},
		},
		Action: func(c *cli.Context) error {
			p, err := model.ParseProvider(c.String("provider"))
			if err != nil {
				return err
			}

			manager := oauth.NewManager(oauth.Config{
				Google: oauth.ProviderConfig{
					ClientID:     c.String("google-client-id"),
					ClientSecret: c.String("google-client-secret"),
					RedirectURL:  c.String("redirect-url"),
				},
				Microsoft: oauth.ProviderConfig{
					ClientID:     c.String("microsoft-client-id"),
					ClientSecret: c.String("microsoft-client-secret"),
					RedirectURL:  c.String("redirect-url"),
					Tenant:       c.String("microsoft-tenant"),
				},
			}, nil)

			authURL, err := manager.AuthCodeURL(string(p), uuid.NewString())
			if err != nil {
				return err
			}
			fmt.Printf("Open the following link in your browser and sign in:\n\n%s\n\n", authURL)
			fmt.Print("Paste the authorization code: ")

			code, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				return fmt.Errorf("read authorization code: %w", err)
			}
			tok, err := manager.Exchange(c.Context, string(p), strings.TrimSpace(code))
			if err != nil {
				return err
			}

			api := newAPIClient(c.String("server"), c.String("internal-key"))
			if err := api.connect(c.Context, newConnectPayload(c.String("user"), p, tok)); err != nil {
				return err
			}
			fmt.Printf("Connected %s for %s\n", p, c.String("user"))
			return nil
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Show connection status per provider.",
		Flags: []cli.Flag{userFlag},
		Action: func(c *cli.Context) error {
			api := newAPIClient(c.String("server"), c.String("internal-key"))
			accounts, err := api.list(c.Context, c.String("user"))
			if err != nil {
				return err
			}
			for _, acc := range accounts {
				if !acc.Connected {
					fmt.Printf("%-10s not connected\n", acc.Provider)
					continue
				}
				fmt.Printf("%-10s %-13s %s\n", acc.Provider, acc.Status, acc.AccountEmail)
			}
			return nil
		},
	}
}

func disconnectCommand() *cli.Command {
	return &cli.Command{
		Name:  "disconnect",
		Usage: "Remove a provider connection.",
		Flags: []cli.Flag{userFlag, providerFlag},
		Action: func(c *cli.Context) error {
			p, err := model.ParseProvider(c.String("provider"))
			if err != nil {
				return err
			}
			api := newAPIClient(c.String("server"), c.String("internal-key"))
			if err := api.disconnect(c.Context, c.String("user"), p); err != nil {
				return err
			}
			fmt.Printf("Disconnected %s for %s\n", p, c.String("user"))
			return nil
		},
	}
}
