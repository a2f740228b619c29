package dialect

import (
	"fmt"
	"regexp"

	"github.com/hashicorp/go-version"
)

// dottedRe finds the release number in a server banner, e.g.
// "Oracle Database 19c Enterprise Edition Release 19.0.0.0.0 - Production".
var (
	dottedRe = regexp.MustCompile(`\d+(?:\.\d+)+`)
	numberRe = regexp.MustCompile(`\d+`)
)

// ParseVersion parses a server version string or banner.
func ParseVersion(s string) (*version.Version, error) {
	m := dottedRe.FindString(s)
	if m == "" {
		m = numberRe.FindString(s)
	}
	if m == "" {
		return nil, fmt.Errorf("dialect: no version number in %q", s)
	}
	return version.NewVersion(m)
}

// Gate resolves syntax branches that depend on the connected server version.
// A Gate is immutable and safe for concurrent use.
type Gate struct {
	caps   *Capabilities
	server *version.Version
}

// NewGate returns a Gate for the given capabilities and server version
// string. An empty version means the server version is unknown, in which case
// every version-gated feature resolves to its legacy branch.
func NewGate(caps *Capabilities, serverVersion string) (*Gate, error) {
	if caps == nil {
		return nil, fmt.Errorf("dialect: gate requires capabilities")
	}
	g := &Gate{caps: caps}
	if serverVersion == "" {
		return g, nil
	}
	v, err := ParseVersion(serverVersion)
	if err != nil {
		return nil, err
	}
	g.server = v
	return g, nil
}

// ServerVersion returns the resolved server version, or nil if unknown.
func (g *Gate) ServerVersion() *version.Version {
	return g.server
}

// NativePagination reports if the server pages natively with the dialect's
// Pagination syntax rather than through row-numbering emulation.
func (g *Gate) NativePagination() bool {
	return g.caps.NativeLimitOffset && g.atLeast(g.caps.MinVersionForNativeLimitOffset)
}

// NativeMerge reports if the server accepts a MERGE statement.
func (g *Gate) NativeMerge() bool {
	return g.caps.SupportsMerge && g.atLeast(g.caps.MinVersionForMerge)
}

func (g *Gate) atLeast(min *version.Version) bool {
	if min == nil {
		return true
	}
	return g.server != nil && g.server.GreaterThanOrEqual(min)
}
