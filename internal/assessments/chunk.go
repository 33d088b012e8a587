package assessments

import "strings"

// Chunking bounds for pipeline text. Long entries and joined batch text are
// split so a single completion stays inside the model's effective context.
const (
	chunkWords    = 400
	chunkMinWords = 50
	chunkMaxParts = 2
)

// chunkText splits text into chunks of at most size words. A trailing chunk
// shorter than minTail words is folded into its predecessor, and at most
// maxParts chunks are kept; text beyond that is dropped.
func chunkText(text string, size, minTail, maxParts int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(words)+size-1)/size)
	for start := 0; start < len(words); start += size {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}

	if n := len(chunks); n > 1 && len(strings.Fields(chunks[n-1])) < minTail {
		chunks[n-2] = chunks[n-2] + " " + chunks[n-1]
		chunks = chunks[:n-1]
	}

	if len(chunks) > maxParts {
		chunks = chunks[:maxParts]
	}

	return chunks
}
