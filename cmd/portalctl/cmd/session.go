package cmd

import (
	"github.com/jrsteele09/go-tutor-portal/guard"
	portalerrors "github.com/jrsteele09/go-tutor-portal/internal/errors"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// enter resolves the session and guards view. A nil error means the view
// may render; a redirect comes back as the view to show instead.
func enter(cmd *cobra.Command, view guard.View) (*App, guard.Decision, error) {
	app := MustFromContext(cmd.Context())
	app.Store.Initialize(cmd.Context())

	d := guard.Evaluate(cmd.Context(), app.Store, view)
	switch d.Action {
	case guard.ActionRender:
		return app, d, nil
	case guard.ActionRedirect:
		switch {
		case d.Logout:
			return app, d, errors.Wrap(portalerrors.ErrUnknownRole, "logged out, please log in again")
		case d.Target == guard.ViewLogin:
			return app, d, errors.Wrap(portalerrors.ErrNotLoggedIn, "run `portalctl login`")
		case d.Target == guard.ViewDashboard && view == guard.ViewAdminDashboard:
			return app, d, portalerrors.ErrForbiddenRole
		}
		return app, d, nil
	default:
		// Initialize has completed, so the session cannot still be unresolved.
		return app, d, errors.Wrapf(portalerrors.ErrInternal, "session unresolved for %s", view)
	}
}
