// Package chunk splits text into paragraph-aligned chunks bounded by a
// character limit and groups chunks into bounded batches. Both stages are
// lazy, restartable sequences: ranging over a returned iterator twice
// produces the same chunks twice, with no buffering beyond the chunk or
// batch under construction.
package chunk

import (
	"iter"
	"strings"
	"unicode/utf8"
)

// MaxChunkChars is the maximum chunk length in characters (runes).
// Translation endpoints commonly reject inputs above 5000 characters.
const MaxChunkChars = 5000

// DefaultBatchSize is the default number of chunks per batch.
const DefaultBatchSize = 5

// Split produces paragraph-aligned chunks of at most MaxChunkChars
// characters. Boundaries are only inserted between paragraphs (at "\n"),
// never inside one. Joining the produced chunks with "\n" reproduces the
// input exactly.
//
// Known limitation: a single paragraph longer than MaxChunkChars is emitted
// as one oversized chunk rather than split mid-paragraph.
func Split(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		var buf strings.Builder
		bufChars := 0

		for paragraph := range strings.SplitSeq(text, "\n") {
			// Flush before appending would reach the limit. The +2 accounts
			// for the paragraph's own separator plus the one stripped from
			// the chunk on flush.
			if utf8.RuneCountInString(paragraph)+bufChars+2 >= MaxChunkChars {
				if !yield(strings.TrimSuffix(buf.String(), "\n")) {
					return
				}
				buf.Reset()
				bufChars = 0
			}
			buf.WriteString(paragraph)
			buf.WriteString("\n")
			bufChars += utf8.RuneCountInString(paragraph) + 1
		}

		// Flush the remainder, even when it is empty: the trailing chunk
		// carries the separator stripped from the previous flush.
		yield(strings.TrimSuffix(buf.String(), "\n"))
	}
}

// Batches groups chunks into slices of exactly size elements, except
// possibly the last batch, which may hold fewer (at least one). Order is
// preserved; no chunk is dropped or duplicated. size below 1 is normalized
// to 1.
func Batches(chunks iter.Seq[string], size int) iter.Seq[[]string] {
	if size < 1 {
		size = 1
	}
	return func(yield func([]string) bool) {
		batch := make([]string, 0, size)
		for c := range chunks {
			batch = append(batch, c)
			if len(batch) == size {
				if !yield(batch) {
					return
				}
				batch = make([]string, 0, size)
			}
		}
		if len(batch) > 0 {
			yield(batch)
		}
	}
}
