// Package splitters provides strategies for cutting document text into
// retrieval-sized chunks.
package splitters

// CharSplitter splits text into overlapping fixed-size character windows.
//
// Laying the chunks end-to-end with the overlaps removed reconstructs the
// original text exactly, and the final chunk always reaches the end of the
// text.
type CharSplitter struct {
	ChunkSize    int // maximum chunk length in characters
	ChunkOverlap int // characters shared with the previous chunk
}

// NewCharSplitter creates a CharSplitter. The overlap is clamped below the
// chunk size so the window always advances.
func NewCharSplitter(chunkSize, chunkOverlap int) *CharSplitter {
	if chunkSize < 1 {
		chunkSize = 1
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize - 1
	}
	return &CharSplitter{ChunkSize: chunkSize, ChunkOverlap: chunkOverlap}
}

// Split cuts text into chunks. Empty input yields no chunks.
func (s *CharSplitter) Split(text string) []string {
	runes := []rune(text)
	n := len(runes)

	var chunks []string
	start := 0
	for start < n {
		end := start + s.ChunkSize
		if end > n {
			end = n
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == n {
			break
		}
		// Advance by at least one rune so the loop terminates even when the
		// overlap window would step backwards.
		next := end - s.ChunkOverlap
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return chunks
}
