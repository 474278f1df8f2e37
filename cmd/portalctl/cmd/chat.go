package cmd

import (
	"fmt"

	"github.com/jrsteele09/go-tutor-portal/chat"
	"github.com/jrsteele09/go-tutor-portal/guard"
	portalerrors "github.com/jrsteele09/go-tutor-portal/internal/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print the session token, masked unless --show is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := enter(cmd, guard.ViewChat)
			if err != nil {
				return err
			}
			tok := app.Store.Token()
			if tok == "" {
				return portalerrors.ErrTokenUnavailable
			}
			if show {
				fmt.Fprintln(cmd.OutOrStdout(), tok)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), maskToken(tok))
			return nil
		},
	}

	cmd.Flags().BoolVar(&show, "show", false, "Print the full token")
	return cmd
}

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Print the tutoring chat link for the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := enter(cmd, guard.ViewChat)
			if err != nil {
				return err
			}

			link, ok := chat.URL(app.Config.GetChatURL(), app.Store.Token())
			if !ok {
				return portalerrors.ErrTokenUnavailable
			}
			pterm.Info.Println("Open this link in a browser:")
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		},
	}
}
