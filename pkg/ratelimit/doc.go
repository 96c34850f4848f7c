// Package ratelimit paces export triggers so a long run does not flood the
// portal with export requests.
//
// Usage:
//
//	// at most 20 exports per minute
//	limiter := ratelimit.NewTokenBucket(20, time.Minute)
//	if err := limiter.Wait(ctx); err != nil {
//	    return err
//	}
//
// Unlimited never blocks and is used when pacing is disabled.
package ratelimit
