package scanning

import (
	"strings"
)

// transcribePrompt is shared by every vision backend
const transcribePrompt = `You are an OCR engine reading a photographed shop receipt.

Transcribe every piece of printed text exactly as it appears, top to bottom.

Rules:
- Output one printed receipt line per output line, keeping the original line order
- Keep item names, prices, quantities, dates, totals and payment details verbatim
- Keep prices exactly as printed, including the decimal point and any currency symbol
- Do not summarise, translate, correct spelling or add commentary
- Do not use markdown code blocks
- If the image contains no readable text, return an empty response`

// cleanTranscript strips wrapping code fences and blank edges from a model response
func cleanTranscript(text string) (string, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		// drop the opening fence line, which may carry a language tag
		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			text = text[nl+1:]
		} else {
			text = ""
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))

	if text == "" {
		return "", ErrEmptyTranscript
	}
	return text, nil
}
