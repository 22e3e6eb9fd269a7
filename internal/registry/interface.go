// Package registry advertises which channels this instance currently
// has live subscribers for. Entries carry a TTL refreshed by a
// heartbeat so a crashed instance disappears on its own.
package registry

import "context"

type Registry interface {
	Register(ctx context.Context, channelID string) error
	Deregister(ctx context.Context, channelID string) error
	StartHeartbeat(ctx context.Context) error
	StopHeartbeat()
	Close() error
}
