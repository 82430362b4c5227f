package compose

import (
	"context"
	"fmt"

	"github.com/defolio/compose/sdk"
	"github.com/defolio/compose/types"
)

// DriverStatus is the lifecycle of one submission.
type DriverStatus string

const (
	StatusIdle       DriverStatus = "Idle"
	StatusSubmitting DriverStatus = "Submitting"
	StatusConfirmed  DriverStatus = "Confirmed"
	StatusDone       DriverStatus = "Done"
	StatusFailed     DriverStatus = "Failed"
)

// DriverState is the driver's observable progress: the current status and
// the index of the step it applies to.
type DriverState struct {
	Status DriverStatus
	Step   int
}

// Driver submits an ordered list of calls against one signer, waiting for
// each call's confirmation before issuing the next. The result of step i can
// be a precondition encoded structurally into step i+1's addressing, so
// steps are never submitted concurrently or out of order.
//
// No step is retried: once a step has confirmed it is on-chain, and retrying
// a partially-executed flow could double-spend. A failure surfaces the index
// of the failed step and the count of confirmed steps.
//
// A Driver tracks a single submission and is not safe for concurrent use.
type Driver struct {
	submitter sdk.Submitter
	state     DriverState
}

// NewDriver creates a new Driver.
func NewDriver(submitter sdk.Submitter) *Driver {
	return &Driver{submitter: submitter, state: DriverState{Status: StatusIdle}}
}

// State returns the driver's current progress.
func (d *Driver) State() DriverState {
	return d.state
}

// Run submits the calls in order. On success it returns one receipt per
// call. On failure it returns the receipts of the confirmed steps and a
// StepFailedError; steps already confirmed are not rolled back.
//
// Cancelling the context before the first submission aborts with no on-chain
// effect. After that, cancellation surfaces as a step failure with the
// progress so far.
func (d *Driver) Run(ctx context.Context, calls []types.Call) ([]types.Receipt, error) {
	if len(calls) == 0 {
		return nil, fmt.Errorf("no calls to submit")
	}

	logger := sdk.LoggerFrom(ctx)
	receipts := make([]types.Receipt, 0, len(calls))

	for i, call := range calls {
		if err := ctx.Err(); err != nil {
			d.state = DriverState{Status: StatusFailed, Step: i}
			return receipts, NewStepFailedError(i, len(receipts), err)
		}

		d.state = DriverState{Status: StatusSubmitting, Step: i}
		logger.Debugf("submitting step %d of %d to %s", i+1, len(calls), call.To)

		hash, err := d.submitter.Submit(ctx, call)
		if err != nil {
			d.state = DriverState{Status: StatusFailed, Step: i}
			return receipts, NewStepFailedError(i, len(receipts), err)
		}

		receipt, err := d.submitter.WaitConfirmed(ctx, hash)
		if err != nil {
			d.state = DriverState{Status: StatusFailed, Step: i}
			return receipts, NewStepFailedError(i, len(receipts), err)
		}

		receipts = append(receipts, receipt)
		d.state = DriverState{Status: StatusConfirmed, Step: i}
		logger.Infof("step %d of %d confirmed: %s", i+1, len(calls), receipt.Hash)
	}

	d.state = DriverState{Status: StatusDone, Step: len(calls) - 1}

	return receipts, nil
}
