package canvas

import "strings"

// nextPageLink extracts the rel="next" target from an RFC 5988 Link
// header. Canvas paginates every collection endpoint this way. Returns
// "" when there is no next page.
func nextPageLink(header string) string {
	if header == "" {
		return ""
	}
	for _, part := range strings.Split(header, ",") {
		sections := strings.Split(part, ";")
		if len(sections) < 2 {
			continue
		}
		target := strings.Trim(strings.TrimSpace(sections[0]), "<>")
		for _, param := range sections[1:] {
			if strings.TrimSpace(param) == `rel="next"` {
				return target
			}
		}
	}
	return ""
}
