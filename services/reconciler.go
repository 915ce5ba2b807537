package services

import (
	"context"
	"time"

	"github.com/avinash-ch/UnionSathi/utils"
)

// Default polling policy after checkout: verify immediately, then every 10
// seconds, for at most 5 automatic retries. After that the member still has
// the manual "check now" endpoint.
const (
	DefaultPollInterval = 10 * time.Second
	DefaultMaxAttempts  = 5
)

// Reconciler drives post-checkout settlement for orders whose gateway
// reports them as still processing. It only ever calls the verification
// service; it never touches payment or subscription state itself.
type Reconciler struct {
	verifier *VerificationService
	interval time.Duration
	maxRetry int
}

// NewReconciler wires the reconciler with the default polling policy
func NewReconciler(verifier *VerificationService) *Reconciler {
	return &Reconciler{verifier: verifier, interval: DefaultPollInterval, maxRetry: DefaultMaxAttempts}
}

// Watch verifies immediately, then re-verifies on the fixed interval while
// the outcome stays PENDING, up to the retry cap. It returns the last
// outcome seen. Cancelling the context stops the loop between attempts.
func (r *Reconciler) Watch(ctx context.Context, orderID string) Outcome {
	result := r.verifier.Verify(ctx, orderID, nil)
	if result.Outcome != OutcomePending {
		return result.Outcome
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for attempt := 1; attempt <= r.maxRetry; attempt++ {
		select {
		case <-ctx.Done():
			utils.LogInfo("Reconciler for order %s cancelled after %d attempts", orderID, attempt-1)
			return OutcomePending
		case <-ticker.C:
		}

		result = r.verifier.Verify(ctx, orderID, nil)
		utils.LogDebug("Reconciler attempt %d for order %s: %s", attempt, orderID, result.Outcome)
		if result.Outcome != OutcomePending {
			return result.Outcome
		}
	}

	utils.LogInfo("Reconciler gave up on order %s after %d attempts, still pending", orderID, r.maxRetry)
	return OutcomePending
}

// WatchAsync runs Watch on its own goroutine with an overall deadline
// derived from the polling policy.
func (r *Reconciler) WatchAsync(orderID string) {
	budget := time.Duration(r.maxRetry+2) * r.interval
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), budget)
		defer cancel()
		r.Watch(ctx, orderID)
	}()
}
