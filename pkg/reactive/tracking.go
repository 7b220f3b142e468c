package reactive

import (
	"runtime"
	"sync"
)

// trackingContext holds the reactive state for one goroutine. Each widget
// scope runs its turns on a single goroutine, so per-goroutine contexts keep
// concurrent scopes from cross-subscribing.
type trackingContext struct {
	// currentListener is what's currently tracking dependencies.
	// nil means reads do not create subscriptions.
	currentListener Listener

	// batchDepth tracks nested Batch() calls. When > 0, signal updates
	// queue notifications instead of firing immediately.
	batchDepth int

	// pendingUpdates accumulates listeners to notify when the outermost
	// batch completes.
	pendingUpdates []Listener
}

var trackingContexts sync.Map

// goroutineID parses the current goroutine's ID from the runtime stack
// header ("goroutine <id> ..."). Implementation detail; not exposed.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

func getTrackingContext() *trackingContext {
	gid := goroutineID()
	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}
	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

func currentListener() Listener {
	return getTrackingContext().currentListener
}

// withListener runs fn with l as the current listener, restoring the
// previous listener afterwards.
func withListener(l Listener, fn func()) {
	tc := getTrackingContext()
	prev := tc.currentListener
	tc.currentListener = l
	defer func() { tc.currentListener = prev }()
	fn()
}

// Untracked runs fn without tracking signal reads as dependencies.
func Untracked(fn func()) {
	withListener(nil, fn)
}

func batchDepth() int {
	return getTrackingContext().batchDepth
}

func queuePendingUpdate(l Listener) {
	tc := getTrackingContext()
	tc.pendingUpdates = append(tc.pendingUpdates, l)
}
