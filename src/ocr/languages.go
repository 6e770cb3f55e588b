package ocr

import "strings"

// splitLanguages turns "eng+ara" into ["eng", "ara"].
func splitLanguages(spec string) []string {
	var out []string
	for _, part := range strings.Split(spec, "+") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
