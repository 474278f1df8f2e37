package cmd

import (
	"github.com/jrsteele09/go-tutor-portal/guard"
	portalerrors "github.com/jrsteele09/go-tutor-portal/internal/errors"
	"github.com/jrsteele09/go-tutor-portal/users"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the logged in account",
	}
	cmd.AddCommand(newRenameCmd(), newPasswordCmd(), newDeleteAccountCmd())
	return cmd
}

// enterAccount admits any authenticated session with a known role.
func enterAccount(cmd *cobra.Command) (*App, users.Role, error) {
	app, _, err := enter(cmd, guard.ViewChat)
	if err != nil {
		return nil, users.RoleNone, err
	}
	role := app.Store.Role()
	if !role.Valid() {
		app.Store.Logout()
		return nil, users.RoleNone, portalerrors.ErrUnknownRole
	}
	return app, role, nil
}

func newRenameCmd() *cobra.Command {
	var form users.ModifyUsernameForm

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Change the account username",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, role, err := enterAccount(cmd)
			if err != nil {
				return err
			}
			if form.Password, err = passwordOrPrompt(form.Password, "Password"); err != nil {
				return err
			}
			if err := app.Client.ModifyUsername(cmd.Context(), role, form); err != nil {
				return err
			}

			app.Store.Initialize(cmd.Context())
			pterm.Success.Printf("Username changed to %s\n", form.NewUsername)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.NewUsername, "new-username", "", "New username")
	cmd.Flags().StringVarP(&form.Password, "password", "p", "", "Current password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("new-username")
	return cmd
}

func newPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "password",
		Short: "Change the account password; you will be logged out",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, role, err := enterAccount(cmd)
			if err != nil {
				return err
			}

			var form users.ModifyPasswordForm
			if form.CurrentPassword, err = passwordOrPrompt("", "Current password"); err != nil {
				return err
			}
			if form.NewPassword, err = passwordOrPrompt("", "New password"); err != nil {
				return err
			}
			if form.ConfirmPassword, err = passwordOrPrompt("", "Confirm new password"); err != nil {
				return err
			}

			if err := app.Client.ModifyPassword(cmd.Context(), role, form); err != nil {
				return err
			}
			app.Store.Logout()
			pterm.Success.Println("Password changed. Please log in again")
			return nil
		},
	}
}

func newDeleteAccountCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the account permanently",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.Wrap(portalerrors.ErrNotConfirmed, "pass --yes to delete the account")
			}
			app, role, err := enterAccount(cmd)
			if err != nil {
				return err
			}
			if err := app.Client.DeleteAccount(cmd.Context(), role); err != nil {
				return err
			}
			app.Store.Logout()
			pterm.Success.Println("Account deleted")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}
