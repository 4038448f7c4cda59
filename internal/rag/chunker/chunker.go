package chunker

import (
	"iter"

	"github.com/chatlet/chatlet/internal/config"
)

// Split produces overlapping chunks of roughly size runes, each subsequent
// chunk starting overlap runes before the previous chunk's end. The sequence
// is lazy and restartable; ranging twice over the same text yields identical
// chunks. Empty input yields nothing, input shorter than size yields the
// whole text as one chunk.
//
// Cut points prefer a natural boundary near the target size: paragraph break,
// then line break, then sentence end, then word gap, searched within a
// bounded lookback window. A hard cut at size is the fallback, so no chunk
// ever exceeds size runes.
func Split(text string, size, overlap int) iter.Seq[string] {
	return func(yield func(string) bool) {
		runes := []rune(text)
		if len(runes) == 0 {
			return
		}
		if size <= 0 || overlap >= size {
			//nonsense parameters would loop forever, emit whole text once
			yield(text)
			return
		}

		start := 0
		for {
			end := start + size
			if end >= len(runes) {
				yield(string(runes[start:]))
				return
			}
			end = seekBoundary(runes, start, end, overlap)
			if !yield(string(runes[start:end])) {
				return
			}
			start = end - overlap
		}
	}
}

// SplitDefault chunks with the platform-wide size/overlap.
func SplitDefault(text string) iter.Seq[string] {
	return Split(text, config.ChunkSize, config.ChunkOverlap)
}

// Chunks collects the sequence, for callers that need len() up front.
func Chunks(text string, size, overlap int) []string {
	var out []string
	for c := range Split(text, size, overlap) {
		out = append(out, c)
	}
	return out
}

// boundary separators, best to worst
var separators = []string{"\n\n", "\n", ". ", " "}

// seekBoundary scans back from end looking for the best separator. The
// lookback window is capped so a chunk can shrink by at most window runes;
// it also never shrinks below overlap+1 or the next chunk would not advance.
func seekBoundary(runes []rune, start, end, overlap int) int {
	window := end - (start + overlap) - 1
	const maxWindow = 200
	if window > maxWindow {
		window = maxWindow
	}
	if window <= 0 {
		return end
	}

	region := string(runes[end-window : end])
	for _, sep := range separators {
		if idx := lastIndexRunes(region, sep); idx >= 0 {
			//cut after the separator so it stays with the earlier chunk
			return end - window + idx + len([]rune(sep))
		}
	}
	return end
}

// lastIndexRunes returns the rune index of the last occurrence of sep in s.
func lastIndexRunes(s, sep string) int {
	sr := []rune(s)
	pr := []rune(sep)
	for i := len(sr) - len(pr); i >= 0; i-- {
		match := true
		for j := range pr {
			if sr[i+j] != pr[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
