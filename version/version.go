// Package version carries build information set through ldflags:
//
//	go build -ldflags "-X github.com/teranos/schemagen/version.Version=v0.3.0 -X github.com/teranos/schemagen/version.CommitHash=$(git rev-parse HEAD)"
package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

var (
	CommitHash = "dev"
	BuildTime  = "unknown"
	Version    = "dev"
)

// Info contains version and build information
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// Released reports whether Version is a semantic version rather than a dev build
func (i Info) Released() bool {
	_, err := semver.NewVersion(i.Version)
	return err == nil
}

// String returns a human-readable version string
func (i Info) String() string {
	name := "dev"
	if i.Released() {
		name = i.Version
	}
	return fmt.Sprintf("schemagen %s (commit %s, built %s)", name, i.Short(), i.BuildTime)
}

// Short returns the abbreviated commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
