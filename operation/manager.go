// Package operation tracks the motion commands a robot runs and ensures only
// one runs at a time.
package operation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"go.viam.com/utils"
)

// An Operation identifies one running command for logging and introspection.
type Operation struct {
	ID      uuid.UUID
	Method  string
	Started time.Time
}

// SingleOperationManager ensures only one operation happens at a time.
// Starting a new operation cancels the one in progress. Operations can nest:
// a method called while its caller already holds the operation joins it
// instead of preempting it.
type SingleOperationManager struct {
	mu        sync.Mutex
	currentOp *anOp
}

type somCtxKey byte

const somCtxKeySingleOp = somCtxKey(iota)

// New creates a new operation, cancelling any previous one, and returns a
// derived context along with a function to call when done.
func (sm *SingleOperationManager) New(ctx context.Context, method string) (context.Context, func()) {
	// handle nested ops
	if ctx.Value(somCtxKeySingleOp) != nil {
		return ctx, func() {}
	}

	sm.mu.Lock()
	sm.cancelInLock(ctx)

	theOp := &anOp{
		op: Operation{
			ID:      uuid.New(),
			Method:  method,
			Started: time.Now(),
		},
	}
	ctx = context.WithValue(ctx, somCtxKeySingleOp, theOp)
	theOp.ctx, theOp.cancelFunc = context.WithCancel(ctx)
	sm.currentOp = theOp
	sm.mu.Unlock()

	return theOp.ctx, func() {
		sm.mu.Lock()
		if theOp == sm.currentOp {
			sm.currentOp = nil
		}
		sm.mu.Unlock()
	}
}

// CancelRunning cancels the current operation unless the given context is
// already part of it.
func (sm *SingleOperationManager) CancelRunning(ctx context.Context) {
	if ctx.Value(somCtxKeySingleOp) != nil {
		return
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.cancelInLock(ctx)
}

// OpRunning returns whether an operation is in progress.
func (sm *SingleOperationManager) OpRunning() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.currentOp != nil
}

// Current returns a copy of the running operation, if any.
func (sm *SingleOperationManager) Current() (Operation, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.currentOp == nil {
		return Operation{}, false
	}
	return sm.currentOp.op, true
}

// WaitForSuccess calls testFunc every pollTime, as its own operation, until
// the function returns true or an error.
func (sm *SingleOperationManager) WaitForSuccess(
	ctx context.Context,
	pollTime time.Duration,
	method string,
	testFunc func(ctx context.Context) (bool, error),
) error {
	ctx, finish := sm.New(ctx, method)
	defer finish()

	for {
		res, err := testFunc(ctx)
		if err != nil {
			return err
		}
		if res {
			return nil
		}

		if !utils.SelectContextOrWait(ctx, pollTime) {
			return ctx.Err()
		}
	}
}

func (sm *SingleOperationManager) cancelInLock(ctx context.Context) {
	myOp := ctx.Value(somCtxKeySingleOp)
	op := sm.currentOp
	if op == nil || myOp == op {
		return
	}
	op.cancelFunc()
	sm.currentOp = nil
}

// CurrentOp returns the operation the given context belongs to, if any.
func CurrentOp(ctx context.Context) (Operation, bool) {
	op, ok := ctx.Value(somCtxKeySingleOp).(*anOp)
	if !ok {
		return Operation{}, false
	}
	return op.op, true
}

type anOp struct {
	op         Operation
	ctx        context.Context
	cancelFunc context.CancelFunc
}
