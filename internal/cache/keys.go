package cache

import "fmt"

// Cache key builders. Every read path and every invalidation goes through
// these so a key is never spelled twice.

// ScheduleKey keys the schedule of one season.
func ScheduleKey(year int) string {
	return fmt.Sprintf("schedule:%d", year)
}

// SessionKey keys the aggregated view of one session.
func SessionKey(year, round int, kind string) string {
	return fmt.Sprintf("session:%d:%d:%s", year, round, kind)
}

// LiveKey keys the short-lived live snapshot of one session.
func LiveKey(sessionKey string) string {
	return fmt.Sprintf("live:%s", sessionKey)
}

// DriversKey keys the driver roster.
func DriversKey(activeOnly bool) string {
	return fmt.Sprintf("drivers:%t", activeOnly)
}

// StrategyKey keys the per-driver stint breakdown of one session.
func StrategyKey(year, round int, kind string) string {
	return fmt.Sprintf("strategy:%d:%d:%s", year, round, kind)
}
