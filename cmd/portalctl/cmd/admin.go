package cmd

import (
	"fmt"

	"github.com/jrsteele09/go-tutor-portal/guard"
	portalerrors "github.com/jrsteele09/go-tutor-portal/internal/errors"
	"github.com/jrsteele09/go-tutor-portal/users"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin panel: manage users and send broadcasts",
	}
	cmd.AddCommand(newUsersCmd(), newDeleteUserCmd(), newStatsCmd(), newBroadcastCmd())
	return cmd
}

func adminDirectory(cmd *cobra.Command) (users.Directory, error) {
	app, _, err := enter(cmd, guard.ViewAdminDashboard)
	if err != nil {
		return nil, err
	}
	return app.Directory, nil
}

func newUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List registered users",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := adminDirectory(cmd)
			if err != nil {
				return err
			}
			list, err := dir.List(cmd.Context())
			if err != nil {
				return err
			}
			renderUserTable(list)
			return nil
		},
	}
}

func newDeleteUserCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete-user USERNAME",
		Short: "Delete a registered user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.Wrapf(portalerrors.ErrNotConfirmed, "pass --yes to delete %s", args[0])
			}
			dir, err := adminDirectory(cmd)
			if err != nil {
				return err
			}
			if err := dir.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			pterm.Success.Printf("User %s deleted\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats USERNAME",
		Short: "Show conversation statistics for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := adminDirectory(cmd)
			if err != nil {
				return err
			}
			stats, err := dir.Stats(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			pterm.DefaultSection.Printf("Statistics for %s\n", args[0])
			pterm.Info.Printf("Conversations: %d\n", stats.Conversation)
			if len(stats.Tags) == 0 {
				pterm.Info.Println("No tags recorded")
				return nil
			}
			table := pterm.TableData{{"TAG", "COUNT"}}
			for _, tc := range stats.Tags {
				table = append(table, []string{tc.Tag, fmt.Sprint(tc.Count)})
			}
			_ = pterm.DefaultTable.WithHasHeader().WithData(table).Render()
			return nil
		},
	}
}

func newBroadcastCmd() *cobra.Command {
	var form users.BroadcastForm

	cmd := &cobra.Command{
		Use:   "broadcast",
		Short: "Email every registered user",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := adminDirectory(cmd)
			if err != nil {
				return err
			}
			if err := dir.Broadcast(cmd.Context(), form); err != nil {
				return err
			}
			pterm.Success.Println("Broadcast sent")
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Subject, "subject", "", "Email subject")
	cmd.Flags().StringVar(&form.Body, "body", "", "Email body")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("body")
	return cmd
}
