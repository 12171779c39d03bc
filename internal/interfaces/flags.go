package interfaces

import "context"

// FlagSource resolves named feature flags. Values are read fresh on every
// call and never cached, so flag changes take effect on the next call.
// Resolution failures fall back to the supplied default.
type FlagSource interface {
	GetBool(ctx context.Context, name string, defaultValue bool) bool
	GetInt(ctx context.Context, name string, defaultValue int) int
}
