// Package version exposes the interviewcrew release string.
package version

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var versionContent string

// Get returns the release version embedded at build time.
func Get() string {
	return strings.TrimSpace(versionContent)
}
