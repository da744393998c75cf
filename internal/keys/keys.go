package keys

import "strings"

// RewardGrantKey is the canonical idempotency key for one session's reward
// commit. The persistence layer enforces uniqueness on the same value.
func RewardGrantKey(sessionID string) string {
	return "reward:" + strings.TrimSpace(sessionID)
}
