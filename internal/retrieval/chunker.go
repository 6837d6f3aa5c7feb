package retrieval

import "strings"

// ChunkSize is the target chunk length in characters (~500 tokens).
const ChunkSize = 2000

// ChunkText splits text into roughly equal sized chunks, preferring to break
// at paragraph, line or word boundaries past the halfway point of a chunk.
func ChunkText(text string, size int) []string {
	if size <= 0 {
		size = ChunkSize
	}
	if len(text) == 0 {
		return []string{}
	}

	var chunks []string
	for len(text) > 0 {
		if len(text) <= size {
			chunks = append(chunks, text)
			break
		}

		cutPoint := size
		if idx := strings.LastIndex(text[:cutPoint], "\n\n"); idx > size/2 {
			cutPoint = idx + 2
		} else if idx := strings.LastIndex(text[:cutPoint], "\n"); idx > size/2 {
			cutPoint = idx + 1
		} else if idx := strings.LastIndex(text[:cutPoint], " "); idx > size/2 {
			cutPoint = idx + 1
		}

		chunks = append(chunks, text[:cutPoint])
		text = text[cutPoint:]
	}
	return chunks
}
