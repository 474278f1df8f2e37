package cmd

import (
	"context"

	"github.com/jrsteele09/go-tutor-portal/guard"
	"github.com/jrsteele09/go-tutor-portal/users"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02 15:04:05"

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard for the logged in account",
		Long: `Shows the user dashboard. Admin sessions are sent to the admin
dashboard, which also lists the registered users.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, d, err := enter(cmd, guard.ViewDashboard)
			if err != nil {
				return err
			}
			if d.Action == guard.ActionRedirect && d.Target == guard.ViewAdminDashboard {
				return renderAdminDashboard(cmd.Context(), app)
			}

			session := app.Store.Snapshot()
			pterm.DefaultSection.Println("Dashboard")
			renderProfile(session.User)
			pterm.Info.Printf("Token: %s (run 'portalctl token --show' to reveal)\n", maskToken(app.Store.Token()))
			pterm.Info.Println("Run 'portalctl chat' for the tutoring chat link")
			return nil
		},
	}
}

func renderAdminDashboard(ctx context.Context, app *App) error {
	pterm.DefaultSection.Println("Admin dashboard")
	renderProfile(app.Store.Snapshot().User)

	list, err := app.Directory.List(ctx)
	if err != nil {
		return err
	}
	renderUserTable(list)
	return nil
}

func renderProfile(p *users.Profile) {
	if p == nil {
		pterm.Warning.Println("Profile not loaded")
		return
	}
	pterm.Info.Printf("Username: %s\n", p.Username)
	pterm.Info.Printf("Email: %s\n", p.Email)
	if !p.CreatedAt.IsZero() {
		pterm.Info.Printf("Member since: %s\n", p.CreatedAt.Local().Format(dateLayout))
	}
}

func renderUserTable(list []users.Summary) {
	if len(list) == 0 {
		pterm.Info.Println("No registered users")
		return
	}
	table := pterm.TableData{{"USERNAME", "EMAIL", "CREATED"}}
	for _, s := range list {
		created := "-"
		if !s.CreatedAt.IsZero() {
			created = s.CreatedAt.Local().Format(dateLayout)
		}
		table = append(table, []string{s.Username, s.Email, created})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(table).Render()
}
