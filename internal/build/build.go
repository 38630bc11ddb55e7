// Package build holds version metadata injected at link time via -ldflags.
package build

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func String() string {
	return Version + " (" + Commit + ", " + BuildTime + ")"
}
