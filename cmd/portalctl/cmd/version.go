package cmd

import (
	"context"
	"fmt"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-tutor-portal/internal/config"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the portalctl version",
		// Printing the version needs no session storage.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			appName := config.GetEnv("APP_NAME", "Tutor Portal")
			if cfg, err := config.New(context.Background()); err == nil {
				appName = cfg.GetAppName()
			}
			displayAppname(appName)
			fmt.Fprintf(cmd.OutOrStdout(), "portalctl %s\n", Version)
			return nil
		},
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
