package version

import "runtime/debug"

// Build-time variables set by ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// DecoderModule is the module providing the default barcode decoder.
const DecoderModule = "github.com/makiuchi-d/gozxing"

// Info returns version information
func Info() (string, string, string) {
	return Version, GitCommit, BuildDate
}

// ModuleVersion reports the version of a dependency linked into the binary,
// or "unknown" when build info is unavailable (e.g. in tests).
func ModuleVersion(path string) string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, dep := range bi.Deps {
		if dep.Path == path {
			if dep.Replace != nil {
				return dep.Replace.Version
			}
			return dep.Version
		}
	}
	return "unknown"
}
