package app

import (
	"net/url"
	"strings"
)

// originAllowed reports whether a browser origin matches one of the
// configured allowed_origins entries. An entry is a bare host
// ("itd.example"), a host with port ("itd.example:3000") or a "*."
// subdomain wildcard ("*.itd.example"); "*" admits everything.
func originAllowed(patterns []string, origin string) bool {
	host := origin
	if u, err := url.Parse(origin); err == nil && u.Host != "" {
		host = u.Host
	}
	bare := host
	if i := strings.LastIndex(bare, ":"); i > 0 {
		bare = bare[:i]
	}

	for _, pattern := range patterns {
		switch {
		case pattern == "*":
			return true
		case pattern == host, pattern == bare, pattern == origin:
			return true
		case strings.HasPrefix(pattern, "*."):
			if strings.HasSuffix(bare, pattern[1:]) {
				return true
			}
		}
	}
	return false
}
