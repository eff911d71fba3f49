package version

// Build-time variables set by ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// String returns a single-line version description.
func String() string {
	return Version + " (commit: " + GitCommit + ", built: " + BuildDate + ")"
}
