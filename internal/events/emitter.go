package events

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Emit publishes an event to the frontend. It is a no-op until an emitter
// is enabled, so packages can emit unconditionally and tests can swap in
// a capture function.
var Emit = func(ctx context.Context, name string, evt ChatEvent) {}

// EnableRuntimeEmitter routes events through the Wails runtime. Call it
// on startup; call DisableEmitter on shutdown so no listener outlives the
// view that registered it.
func EnableRuntimeEmitter() {
	Emit = func(ctx context.Context, name string, evt ChatEvent) {
		runtime.EventsEmit(ctx, name, evt)
		logRuntimeEvent(ctx, name, evt)
	}
}

// DisableEmitter resets Emit to a no-op.
func DisableEmitter() {
	Emit = func(context.Context, string, ChatEvent) {}
}

// SetCustomEmitter replaces the emit hook, typically from tests. A nil f
// disables emission.
func SetCustomEmitter(f func(ctx context.Context, name string, evt ChatEvent)) {
	if f == nil {
		DisableEmitter()
		return
	}
	Emit = f
}
