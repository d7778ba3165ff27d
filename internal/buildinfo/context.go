// Package buildinfo carries build-time metadata kept apart from user configuration.
package buildinfo

import (
	"fmt"
	"runtime"
)

// UnknownValue is reported for metadata that was not injected at build time.
const UnknownValue = "unknown"

// BuildInfo provides access to build-time metadata.
type BuildInfo interface {
	Version() string
	BuildDate() string
	UserAgent() string
	Release() string
}

// Context holds metadata injected via -ldflags at startup.
type Context struct {
	version   string
	buildDate string
}

// NewContext creates a build context.
func NewContext(version, buildDate string) *Context {
	return &Context{version: version, buildDate: buildDate}
}

// Version returns the release tag, or UnknownValue.
func (c *Context) Version() string {
	if c == nil || c.version == "" {
		return UnknownValue
	}
	return c.version
}

// BuildDate returns the build timestamp, or UnknownValue.
func (c *Context) BuildDate() string {
	if c == nil || c.buildDate == "" {
		return UnknownValue
	}
	return c.buildDate
}

// UserAgent returns the value sent in the User-Agent header, e.g. "sayah/1.2.0 (linux; amd64)".
func (c *Context) UserAgent() string {
	return fmt.Sprintf("sayah/%s (%s; %s)", c.Version(), runtime.GOOS, runtime.GOARCH)
}

// Release returns the release name used for error telemetry.
func (c *Context) Release() string {
	return "sayah@" + c.Version()
}
