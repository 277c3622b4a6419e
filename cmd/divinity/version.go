package divinity

import "fmt"

// version can be set by the main package at startup using SetVersion, which
// in turn is populated via -ldflags.
var version = "dev"

// SetVersion initializes the version string if non-empty.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Version returns the current CLI version string.
func Version() string { return version }

// VersionCmd prints the version.
type VersionCmd struct{}

func (v *VersionCmd) Execute(_ []string) error {
	fmt.Println(Version())
	return nil
}
