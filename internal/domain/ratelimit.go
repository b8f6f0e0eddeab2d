package domain

// RateLimitResult reports the outcome of consuming one request slot for a
// client identifier.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int
	ResetAt    int64 // unix seconds when the window resets
	RetryAfter int   // seconds until a retry may succeed
}
