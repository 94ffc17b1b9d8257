package cache

// Key construction is centralized here so cache namespaces can never
// collide. Never build cache keys with raw string concatenation elsewhere.

// ApplicationStatsKey is the per-user key for aggregate application stats.
func ApplicationStatsKey(userID string) string {
	return "stats:applications:" + userID
}

// ResumeMetadataKey is the per-resume key for cached metadata reads.
func ResumeMetadataKey(resumeID string) string {
	return "metadata:resume:" + resumeID
}
