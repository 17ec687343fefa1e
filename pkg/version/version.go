// Package version holds the build metadata of pagelegend.
package version

import (
	"runtime"
	"runtime/debug"
)

const Name = "pagelegend"

const (
	unknownRevision  = "unknown"
	shortRevisionLen = 7
)

var (
	Version   string // Set via ldflags.
	Branch    string
	BuildUser string
	BuildDate string

	Revision  = getRevision()
	GoVersion = runtime.Version()
	GoOS      = runtime.GOOS
	GoArch    = runtime.GOARCH
)

// Info is the build metadata reported by the version flag.
type Info struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Revision  string `json:"revision"`
	Branch    string `json:"branch,omitempty"`
	BuildUser string `json:"buildUser,omitempty"`
	BuildDate string `json:"buildDate,omitempty"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// GetVersion returns the version reported by --version, the MCP server and
// trace resources: the ldflags release version if set, otherwise the VCS
// revision the binary was built from.
func GetVersion() string {
	if Version != "" {
		return Version
	}

	return Revision
}

// GetInfo returns the build metadata.
func GetInfo() Info {
	return Info{
		Name:      Name,
		Version:   GetVersion(),
		Revision:  Revision,
		Branch:    Branch,
		BuildUser: BuildUser,
		BuildDate: BuildDate,
		GoVersion: GoVersion,
		Platform:  GoOS + "/" + GoArch,
	}
}

func getRevision() string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return unknownRevision
	}

	return RevisionFromSettings(buildInfo.Settings)
}

// RevisionFromSettings returns the short VCS revision of the build settings,
// suffixed with "-dirty" when the work tree had local changes.
func RevisionFromSettings(settings []debug.BuildSetting) string {
	rev := unknownRevision
	dirty := false

	for _, bs := range settings {
		switch bs.Key {
		case "vcs.revision":
			rev = bs.Value[:min(len(bs.Value), shortRevisionLen)]
		case "vcs.modified":
			dirty = bs.Value == "true"
		}
	}

	if dirty {
		return rev + "-dirty"
	}

	return rev
}
