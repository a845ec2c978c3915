package version

// Version is the current version of argo-crossover.
// Set at build time with:
// -ldflags "-X github.com/rxtech-lab/argo-crossover/internal/version.Version=1.2.3"
var Version = "v0.1.0"

// GetVersion returns the current version of the library.
func GetVersion() string {
	return Version
}
