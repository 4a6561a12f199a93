package service

// Run-like activity types worth storing for threshold estimation
var storableTypes = map[string]bool{
	"Run":        true,
	"TrailRun":   true,
	"VirtualRun": true,
}

// IsStorableType reports whether an activity type feeds the estimator
func IsStorableType(t string) bool {
	return storableTypes[t]
}

const (
	// Pagination limits
	RecentSessionsLimit = 10
	RecentRatingsLimit  = 20

	// Chart sizing
	ChartSessionLimit = 60

	// Sync state keys
	lastSessionSyncKey = "last_session_sync"
)
