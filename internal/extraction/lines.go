package extraction

import "strings"

// SplitLines splits OCR text into trimmed, non-empty lines in their original order
func SplitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// IdentifyVendor returns the first line as the merchant name, or "" for an empty receipt
func IdentifyVendor(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}
