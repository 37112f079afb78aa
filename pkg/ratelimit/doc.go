// Package ratelimit paces requests to the CourtListener API.
//
// CourtListener enforces per-token request quotas; the catalog client waits on
// a Limiter before every page fetch:
//
//	limiter := ratelimit.PerMinute(cfg.Catalog.RequestsPerMinute)
//	if err := limiter.Wait(ctx); err != nil {
//		return err
//	}
package ratelimit
