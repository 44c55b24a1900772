/*
Package bumper prepares a game repository for a new release.

Bumper reads the recent commit history from GitHub, finds the previous
release marker commit and derives from it:
  - the next version string (PATCH + 1)
  - a changelog section grouped by author

It then patches the working tree:
  - changelog.md gets the new section prepended
  - BuildConfig.kt gets the new version and build code number
  - a fastlane changelog snapshot is written for F-Droid
  - the generated version region in the game source is replaced

# Configuration

Bumper reads an optional YAML configuration file (.bumper.yaml). Every key has a
built-in default matching the Unciv repository layout, so the file is only needed
to point the tool at a different repository or file layout.

# Usage

	bumper run                 # Fetch, derive and patch the working tree
	bumper run --dry-run       # Show what would change without writing
	bumper changelog           # Preview the next changelog section
	bumper history             # List versions already in changelog.md
	bumper check               # Validate the configuration file
*/
package bumper

// Version is the current version of Bumper
const Version = "1.0.0"

// BuildDate is set at build time
var BuildDate string

// GitCommit is set at build time
var GitCommit string
