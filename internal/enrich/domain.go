package enrich

import (
	"strings"

	"github.com/sells-group/lead-cli/internal/model"
)

// Domain derives a bare domain from a website value: the scheme, a leading
// "www." and anything from the first "/" or "?" are removed. It returns ""
// when nothing usable remains.
func Domain(website string) string {
	if !model.HasValue(website) {
		return ""
	}
	d := strings.ToLower(strings.TrimSpace(website))
	if i := strings.Index(d, "://"); i >= 0 {
		d = d[i+3:]
	}
	d = strings.TrimPrefix(d, "www.")
	if i := strings.IndexAny(d, "/?#"); i >= 0 {
		d = d[:i]
	}
	if i := strings.LastIndex(d, ":"); i >= 0 {
		d = d[:i]
	}
	if !strings.Contains(d, ".") {
		return ""
	}
	return d
}

func joinComma(parts []string) string {
	return strings.Join(parts, ", ")
}
