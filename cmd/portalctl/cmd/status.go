package cmd

import (
	"time"

	"github.com/jrsteele09/go-tutor-portal/internal/utils"
	"github.com/jrsteele09/go-tutor-portal/sessions"
	"github.com/jrsteele09/go-tutor-portal/token/jwt"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := MustFromContext(cmd.Context())
			app.Store.Initialize(cmd.Context())
			session := app.Store.Snapshot()

			pterm.DefaultSection.Println("Session")
			pterm.Info.Printf("State: %s\n", session.Phase())
			if session.Phase() != sessions.PhaseAuthenticated {
				pterm.Info.Println("Not logged in")
				return nil
			}

			pterm.Info.Printf("User: %s <%s>\n", session.User.Username, session.User.Email)
			pterm.Info.Printf("Role: %s\n", app.Store.Role())
			pterm.Info.Printf("API: %s\n", app.Client.BaseURL())

			claims, err := jwt.Introspect(app.Store.Token())
			if err != nil {
				// Opaque tokens carry nothing more to show.
				return nil
			}
			pterm.DefaultSection.Println("Token")
			if claims.Subject != "" {
				pterm.Info.Printf("Subject: %s\n", claims.Subject)
			}
			if claims.ExpiresAt != nil {
				pterm.Info.Printf("Expires: %s\n", utils.Value(claims.ExpiresAt).Local().Format(time.RFC1123))
			}
			if !claims.Active {
				pterm.Warning.Println("Token has expired; the backend may reject it")
			}
			return nil
		},
	}
}
