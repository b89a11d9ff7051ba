package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/ui"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the bearer token sent to the API",
		Long: `Tokens are saved per API endpoint, so --api-url selects which one
login, logout and status act on. TADA_TOKEN overrides any saved token.`,
	}
	cmd.AddCommand(newLoginCmd(a), newLogoutCmd(a), newStatusCmd(a))
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var (
		token string
		ttl   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save a token for the API endpoint (read from --token or stdin)",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if token == "" {
				fmt.Fprint(a.errOut, "Paste token: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return usageErr("login: no token given")
				}
				token = line
			}
			token = strings.TrimSpace(token)
			if token == "" {
				return usageErr("login: no token given")
			}
			if ttl < 0 {
				return usageErr("login: --ttl must not be negative")
			}
			if err := auth.Save(a.cfg.APIURL, token, ttl); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			ui.OK(a.out, "token saved for "+a.cfg.APIURL)
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "token value (prefer stdin)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "stop sending the token after this long (0 = never)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the saved token for the API endpoint",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			if err := auth.Forget(a.cfg.APIURL); err != nil {
				return fmt.Errorf("remove token: %w", err)
			}
			ui.OK(a.out, "logged out of "+a.cfg.APIURL)
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which token the API endpoint gets",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			t := ui.Current()
			tok, err := auth.Lookup(a.cfg.APIURL)
			switch {
			case errors.Is(err, auth.ErrExpired):
				fmt.Fprintf(a.out, "token for %s expired at %s; run todo auth login\n",
					tok.Endpoint, tok.ExpiresAt.Local().Format(time.DateTime))
			case err != nil:
				return err
			case tok == nil:
				fmt.Fprintln(a.out, t.Muted.Render("not logged in to "+a.cfg.APIURL))
			default:
				fmt.Fprintf(a.out, "logged in to %s (source: %s, token: %s)\n", tok.Endpoint, tok.Source, mask(tok.Value))
				if tok.ExpiresAt != nil {
					fmt.Fprintf(a.out, "expires %s\n", tok.ExpiresAt.Local().Format(time.DateTime))
				}
			}

			others, err := auth.Endpoints()
			if err != nil {
				return err
			}
			for _, ep := range others {
				if tok == nil || ep != tok.Endpoint {
					fmt.Fprintln(a.out, t.Muted.Render("also saved: "+ep))
				}
			}
			return nil
		},
	}
}

func mask(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}
