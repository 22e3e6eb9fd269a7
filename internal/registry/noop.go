package registry

import "context"

// NoopRegistry is used when Redis is not configured.
type NoopRegistry struct{}

func NewNoopRegistry() *NoopRegistry { return &NoopRegistry{} }

func (NoopRegistry) Register(context.Context, string) error   { return nil }
func (NoopRegistry) Deregister(context.Context, string) error { return nil }
func (NoopRegistry) StartHeartbeat(context.Context) error     { return nil }
func (NoopRegistry) StopHeartbeat()                           {}
func (NoopRegistry) Close() error                             { return nil }
