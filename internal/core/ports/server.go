package ports

import "context"

// Server serves the registry to remote clients.
//
//go:generate mockgen -source=server.go -destination=mocks/mock_server.go -package=mocks
type Server interface {
	// ListenAndServe listens on addr and blocks until ctx is canceled or serving fails.
	ListenAndServe(ctx context.Context, addr string) error
}
