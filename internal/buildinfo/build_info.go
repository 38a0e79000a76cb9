package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Placeholders used when the linker did not stamp the build.
const (
	DefaultVersion    = "dev"
	DefaultCommitHash = "n/a"
	DefaultBuildDate  = "<unknown>"
)

// BuildInfo holds all sorts of information about the build of an executable artifact.
type BuildInfo struct {
	Version    string `json:"version"`
	CommitHash string `json:"commitHash"`
	BuildDate  string `json:"buildDate"`
	GoVersion  string `json:"goVersion"`
}

// New returns the build info of the running binary. Values stamped at link time win, placeholders
// are filled in from the module version and VCS metadata recorded by the toolchain.
func New(version, commitHash, buildDate string) BuildInfo {
	i := BuildInfo{
		Version:    orDefault(version, DefaultVersion),
		CommitHash: orDefault(commitHash, DefaultCommitHash),
		BuildDate:  orDefault(buildDate, DefaultBuildDate),
		GoVersion:  runtime.Version(),
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return i
	}
	if v := bi.Main.Version; i.Version == DefaultVersion && v != "" && v != "(devel)" {
		i.Version = v
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if i.CommitHash == DefaultCommitHash {
				i.CommitHash = s.Value
			}
		case "vcs.time":
			if i.BuildDate == DefaultBuildDate {
				i.BuildDate = s.Value
			}
		}
	}

	return i
}

// String returns the build into as a string.
func (i BuildInfo) String() string {
	s := fmt.Sprintf("version %s (%s) built on %s", i.Version, i.CommitHash, i.BuildDate)
	if i.GoVersion != "" {
		s += " with " + i.GoVersion
	}
	return s
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
