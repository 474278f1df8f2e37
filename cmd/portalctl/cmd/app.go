package cmd

import (
	"context"

	"github.com/jrsteele09/go-tutor-portal/api"
	"github.com/jrsteele09/go-tutor-portal/internal/config"
	"github.com/jrsteele09/go-tutor-portal/sessions"
	"github.com/jrsteele09/go-tutor-portal/storage/filestore"
	"github.com/jrsteele09/go-tutor-portal/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type contextKey string

const appKey contextKey = "portalctl-app"

// App holds the collaborators shared by every command. It is built once by
// the root command's PersistentPreRunE and injected into the command context.
type App struct {
	Config    config.Config
	Store     *sessions.Store
	Client    *api.Client
	Directory users.Directory
}

// NewApp wires durable storage, the session store and the API client. The
// client reads its bearer token from the store and the store validates its
// token through the client, so the profile fetcher is bound last.
func NewApp(cfg config.Config) (*App, error) {
	repo, err := filestore.New(cfg.GetStorageDir())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open session storage")
	}
	log.Debug().Str("path", repo.Path()).Msg("session storage")

	store := sessions.New(repo)
	client := api.New(cfg.GetAPIURL(),
		api.WithTokenSource(store),
		api.WithTimeout(cfg.GetHTTPTimeout()),
	)
	store.SetProfileFetcher(client)

	return &App{Config: cfg, Store: store, Client: client, Directory: client.Admin()}, nil
}

// InjectApp adds app to the command context.
func InjectApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey, app)
}

func FromContext(ctx context.Context) (*App, bool) {
	app, ok := ctx.Value(appKey).(*App)
	return app, ok
}

// MustFromContext retrieves the app or panics. Only use it in RunE, after
// the root command has injected the app.
func MustFromContext(ctx context.Context) *App {
	app, ok := FromContext(ctx)
	if !ok {
		panic("portalctl: app not found in context - this is a bug in portalctl")
	}
	return app
}
