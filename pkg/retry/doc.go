// Package retry provides backoff strategies and a context-aware Wait.
//
// The crawler uses a Tracker over an ExponentialBackoff to slow down while the
// catalog has nothing new to offer:
//
//	tracker := retry.NewTracker(&retry.ExponentialBackoff{BaseDelay: 5 * time.Second, MaxDelay: 5 * time.Minute, Multiplier: 2})
//	if err := retry.Wait(ctx, tracker.Next()); err != nil {
//		return err
//	}
//	// after useful work
//	tracker.Reset()
package retry
