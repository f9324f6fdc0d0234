package version

// Version is the service version, overridden at build time with
// -ldflags "-X github.com/hrygo/northstar/internal/version.Version=x.y.z".
var Version = "0.1.0"

// DevVersion is reported when running in dev or demo mode.
var DevVersion = "0.1.0-dev"

// GetCurrentVersion returns the version string for mode.
func GetCurrentVersion(mode string) string {
	if mode == "dev" || mode == "demo" {
		return DevVersion
	}
	return Version
}
