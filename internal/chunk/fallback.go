package chunk

// FallbackChunk splits text into overlapping fixed-size windows. Given
// 0 <= overlap < size it is deterministic and total: every byte of text
// is covered, each non-final chunk has length size, consecutive chunks
// share overlap characters, and the final chunk may be shorter.
func FallbackChunk(text string, size, overlap int) []Boundary {
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	runes := []rune(text)
	n := len(runes)
	step := size - overlap

	var out []Boundary
	for start := 0; start < n; start += step {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, Boundary{
			Type:        "fallback",
			StartOffset: start,
			EndOffset:   end,
			Text:        string(runes[start:end]),
		})
		if end == n {
			break
		}
	}
	return out
}
