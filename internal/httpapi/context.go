package httpapi

import (
	"context"
)

// serverBaseCtx is canceled on shutdown so long-polling handlers return.
var serverBaseCtx = context.Background()

// SetBaseContext sets the process-level context used by /scan/next. A nil
// ctx resets it to Background.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	serverBaseCtx = ctx
}

// joinContexts derives from req and additionally cancels when base is done.
// Callers must invoke the returned cancel func.
func joinContexts(base, req context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(req)
	stop := context.AfterFunc(base, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
