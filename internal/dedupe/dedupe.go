// Package dedupe provides the shared singleflight group used to deduplicate
// concurrent reward-grant attempts. Only one application job runs for a
// given session while other callers wait for its result, so a client retry
// racing the original completion cannot start a second commit.
package dedupe

import "golang.org/x/sync/singleflight"

// RewardGroup deduplicates reward application keyed by session id.
var RewardGroup singleflight.Group
