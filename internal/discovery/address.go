package discovery

import (
	"strings"
)

// parseAddress extracts city, state and zip from a formatted address like
// "123 Main St, Springfield, IL 62701, USA". Missing parts come back empty.
func parseAddress(addr string) (city, state, zip string) {
	var parts []string
	for _, p := range strings.Split(addr, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return "", "", ""
	}

	for i := len(parts) - 1; i > 0; i-- {
		if s, z := parseStateZip(parts[i]); s != "" {
			return parts[i-1], s, z
		}
	}
	return "", "", ""
}

// parseStateZip parses "IL 62701" or "IL".
func parseStateZip(s string) (state, zip string) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return "", ""
	}
	c := fields[0]
	if len(c) != 2 || c[0] < 'A' || c[0] > 'Z' || c[1] < 'A' || c[1] > 'Z' {
		return "", ""
	}
	if len(fields) == 2 {
		if !isZipCode(fields[1]) {
			return "", ""
		}
		zip = fields[1]
	}
	return c, zip
}

func isZipCode(s string) bool {
	if len(s) < 5 || len(s) > 10 {
		return false
	}
	for _, c := range s {
		if c != '-' && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
