package validate

import (
	"regexp"
	"strings"
)

// HostingDomain is the well-known domain bare names are tried under.
const HostingDomain = "rocket.chat"

var (
	schemePattern    = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://`)
	localhostPattern = regexp.MustCompile(`^([^:]+:[^@]+@)?localhost(:\d+)?$`)
)

// HasScheme reports whether candidate begins with a URL scheme.
func HasScheme(candidate string) bool {
	return schemePattern.MatchString(candidate)
}

// HasDot reports whether candidate contains a dot anywhere.
func HasDot(candidate string) bool {
	return strings.Contains(candidate, ".")
}

// IsBareLocalhost matches localhost with optional credentials and port,
// e.g. "localhost:3000" or "user:pass@localhost".
func IsBareLocalhost(candidate string) bool {
	return localhostPattern.MatchString(candidate)
}

// rule rewrites a candidate after an unreachable probe. Each rule fires at
// most once per validation and every rewrite adds the shape its own
// predicate tests for, so the table bounds the retries at len(rewriteRules).
type rule struct {
	name    string
	applies func(candidate string) bool
	rewrite func(candidate string) string
}

var rewriteRules = []rule{
	{
		name: "subdomain",
		applies: func(c string) bool {
			return !HasScheme(c) && !HasDot(c) && !IsBareLocalhost(c)
		},
		rewrite: func(c string) string { return c + "." + HostingDomain },
	},
	{
		name:    "secure-scheme",
		applies: func(c string) bool { return !HasScheme(c) },
		rewrite: func(c string) string { return "https://" + c },
	},
}

// MaxRewrites is the largest number of rewrites a single validation performs.
func MaxRewrites() int {
	return len(rewriteRules)
}
