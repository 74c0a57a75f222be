// Package batch splits sentence lists into ordered, bounded-size chunks for
// submission.
package batch

// DefaultSize is the default number of sentences per chunk. Matches the
// server-side per-request sentence budget comfortably.
const DefaultSize = 25

// Split partitions sentences into ceil(N/size) chunks of at most size
// entries each, preserving the original order. The final chunk may be
// smaller. A non-positive size falls back to DefaultSize. The returned
// chunks alias the input slice; callers must not mutate the sentences.
func Split(sentences []string, size int) [][]string {
	if len(sentences) == 0 {
		return nil
	}

	if size <= 0 {
		size = DefaultSize
	}

	chunks := make([][]string, 0, (len(sentences)+size-1)/size)
	for start := 0; start < len(sentences); start += size {
		end := start + size
		if end > len(sentences) {
			end = len(sentences)
		}
		chunks = append(chunks, sentences[start:end])
	}

	return chunks
}
