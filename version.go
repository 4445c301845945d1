package wyc

import "github.com/maloquacious/semver"

// version is wyc's own semantic version, queryable by an editor integration
// or the CLI's `wycc version` subcommand, grounded on ottomap's main.go (a package-level
// semver.Version{Major, Minor, Patch, Build: semver.Commit()}).
var version = semver.Version{
	Major: 0,
	Minor: 1,
	Patch: 0,
	Build: semver.Commit(),
}

// Version returns wyc's semantic version.
func Version() semver.Version { return version }
