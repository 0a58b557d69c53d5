package common

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Overridden at link time, e.g.
// -ldflags "-X github.com/WangYihang/domain-triage/pkg/common.Version=1.2.0"
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)

// PV describes the running binary
var PV = CurrentVersion()

// ProgramVersion identifies one build of domain-triage
type ProgramVersion struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	GoVersion  string `json:"go_version"`
}

// CurrentVersion returns the linker-provided version. Fields the linker left
// at their defaults are filled from the VCS stamp the go tool embeds.
func CurrentVersion() ProgramVersion {
	v := ProgramVersion{
		Version:    Version,
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		v = v.withBuildInfo(info)
	}
	return v
}

func (v ProgramVersion) withBuildInfo(info *debug.BuildInfo) ProgramVersion {
	if v.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		v.Version = strings.TrimPrefix(info.Main.Version, "v")
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if v.CommitHash == "unknown" {
				v.CommitHash = shortHash(setting.Value)
			}
		case "vcs.time":
			if v.BuildTime == "unknown" {
				v.BuildTime = setting.Value
			}
		}
	}
	return v
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

// String renders the --version banner
func (v ProgramVersion) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "domain-triage v%s\n", v.Version)
	fmt.Fprintf(&b, "commit: %s\n", v.CommitHash)
	fmt.Fprintf(&b, "built:  %s\n", v.BuildTime)
	fmt.Fprintf(&b, "go:     %s", v.GoVersion)
	return b.String()
}
