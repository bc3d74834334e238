package rate

import "errors"

var (
	// ErrRateLimited indicates the caller exceeded the attempt budget and
	// must wait out the cooldown window.
	ErrRateLimited = errors.New("rate limited")

	// ErrRedisUnavailable wraps transport failures talking to Redis.
	ErrRedisUnavailable = errors.New("redis unavailable")
)
