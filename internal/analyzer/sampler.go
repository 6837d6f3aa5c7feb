package analyzer

import "unicode/utf8"

// Omission markers inserted between sampled sections.
const (
	markerMiddle = "[...middle section omitted...]"
	markerLater  = "[...later section omitted...]"
)

// DefaultSampleLimit bounds how many characters of book text reach a prompt.
const DefaultSampleLimit = 16000

// Sample bounds text to roughly limit characters. Text within the limit is
// returned unchanged; longer text becomes beginning + middle window + end with
// omission markers, the middle window taken just left of the halfway point.
// The markers count against the limit, so the output never exceeds it.
func Sample(content string, limit int) string {
	if limit <= 0 {
		limit = DefaultSampleLimit
	}
	if len(content) <= limit {
		return content
	}

	overhead := len(markerMiddle) + len(markerLater) + 8 // marker separators ("\n\n" x4)
	third := (limit - overhead) / 3
	if third < 1 {
		return content[:snapBack(content, limit)]
	}

	// Cut ends snap backward and section starts snap forward, so sections
	// only shrink and no multi-byte rune is ever split.
	beginning := content[:snapBack(content, third)]
	middleStart := snapForward(content, len(content)/2-third/2)
	middle := content[middleStart:snapBack(content, middleStart+third)]
	end := content[snapForward(content, len(content)-third):]

	return beginning + "\n\n" + markerMiddle + "\n\n" + middle + "\n\n" + markerLater + "\n\n" + end
}

// snapBack moves an index left to the nearest rune start.
func snapBack(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// snapForward moves an index right to the nearest rune start.
func snapForward(s string, i int) int {
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}

// excerpt truncates text to at most n bytes on a rune boundary.
func excerpt(text string, n int) string {
	if len(text) <= n {
		return text
	}
	return text[:snapBack(text, n)]
}
