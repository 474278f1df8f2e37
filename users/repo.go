package users

import "context"

// Directory is the admin view of registered accounts.
type Directory interface {
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, username string) error
	Stats(ctx context.Context, username string) (*Stats, error)
	Broadcast(ctx context.Context, form BroadcastForm) error
}
