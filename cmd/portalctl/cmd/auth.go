package cmd

import (
	"fmt"

	"github.com/jrsteele09/go-tutor-portal/guard"
	"github.com/jrsteele09/go-tutor-portal/users"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var (
		form  users.LoginForm
		admin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the portal",
		Long: `Logs in with a username and password and stores the session token.
Use --admin to log in to the admin panel. The password is prompted for
when --password is not given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := MustFromContext(cmd.Context())

			var err error
			if form.Password, err = passwordOrPrompt(form.Password, "Password"); err != nil {
				return err
			}

			role := users.RoleUser
			login := app.Client.Login
			if admin {
				role = users.RoleAdmin
				login = app.Client.AdminLogin
			}

			tok, err := login(cmd.Context(), form)
			if err != nil {
				return err
			}
			app.Store.Login(tok, role)

			app.Store.Initialize(cmd.Context())
			session := app.Store.Snapshot()
			if session.User == nil {
				return fmt.Errorf("login succeeded but the profile could not be loaded")
			}
			pterm.Success.Printf("Logged in as %s (%s)\n", session.User.Username, role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&form.Username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&form.Password, "password", "p", "", "Password (prompted when omitted)")
	cmd.Flags().BoolVar(&admin, "admin", false, "Log in as an administrator")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := MustFromContext(cmd.Context())
			app.Store.Logout()
			pterm.Success.Println("Logged out")
			return nil
		},
	}
}

func newRegisterCmd() *cobra.Command {
	var form users.RegisterForm

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long: `Creates a new account. An activation code is emailed to the given address;
finish with 'portalctl activate'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, d, err := enter(cmd, guard.ViewRegister)
			if err != nil {
				return err
			}
			if d.Action == guard.ActionRedirect {
				pterm.Info.Println("Already logged in; run 'portalctl logout' first to register another account")
				return nil
			}

			if form.Password, err = passwordOrPrompt(form.Password, "Password"); err != nil {
				return err
			}
			if form.ConfirmPassword == "" {
				if form.ConfirmPassword, err = passwordOrPrompt("", "Confirm password"); err != nil {
					return err
				}
			}

			createdAt, err := app.Client.Register(cmd.Context(), form)
			if err != nil {
				return err
			}

			pterm.Success.Printf("Account %s created\n", form.Username)
			if !createdAt.IsZero() {
				pterm.Info.Printf("Created at: %s\n", createdAt.Local().Format("2006-01-02 15:04:05"))
			}
			pterm.Info.Printf("Check %s for the activation code, then run: portalctl activate -u %s --code <code>\n", form.Email, form.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&form.Username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&form.Email, "email", "e", "", "Email address")
	cmd.Flags().StringVarP(&form.Password, "password", "p", "", "Password (prompted when omitted)")
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm-password", "", "Password confirmation (prompted when omitted)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newActivateCmd() *cobra.Command {
	var form users.ActivationForm

	cmd := &cobra.Command{
		Use:   "activate",
		Short: "Activate a registered account with the emailed code",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, d, err := enter(cmd, guard.ViewActivate)
			if err != nil {
				return err
			}
			if d.Action == guard.ActionRedirect {
				pterm.Info.Println("Already logged in")
				return nil
			}

			if err := app.Client.VerifyEmail(cmd.Context(), form); err != nil {
				return err
			}
			pterm.Success.Printf("Account %s activated. You can now run: portalctl login -u %s\n", form.Username, form.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&form.Username, "username", "u", "", "Registered username")
	cmd.Flags().StringVar(&form.Code, "code", "", "Activation code from the email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}
