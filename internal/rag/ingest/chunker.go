package ingest

import (
	"strings"
	"unicode/utf8"

	"github.com/akolanti/intelliquery/internal/config"
)

// Separators ordered from "best" to "worst" for semantic meaning
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter is a recursive character splitter. Sizes are counted in characters (runes).
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

type Option func(*Splitter)

func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

func NewSplitter(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize:  config.ChunkSize,
		overlap:    config.ChunkOverlap,
		separators: defaultSeparators,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}
	return s
}

// Split is pure: the same text always yields the same chunks in the same order.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var remaining []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			remaining = separators[i+1:]
			break
		}
	}

	var final, fitting []string
	for _, piece := range splitKeepingSeparator(text, separator) {
		if runeLen(piece) < s.chunkSize {
			fitting = append(fitting, piece)
			continue
		}
		if len(fitting) > 0 {
			final = append(final, s.merge(fitting)...)
			fitting = nil
		}
		if len(remaining) == 0 {
			//no smaller split exists, oversized piece goes out as is
			final = append(final, piece)
		} else {
			final = append(final, s.split(piece, remaining)...)
		}
	}
	if len(fitting) > 0 {
		final = append(final, s.merge(fitting)...)
	}
	return final
}

// splitKeepingSeparator cuts text on separator and glues each separator onto the front of
// the piece that follows it. Concatenating the pieces gives back text unchanged.
func splitKeepingSeparator(text, separator string) []string {
	parts := strings.Split(text, separator)
	pieces := make([]string, 0, len(parts))
	for i, part := range parts {
		if i > 0 {
			part = separator + part
		}
		if part != "" {
			pieces = append(pieces, part)
		}
	}
	return pieces
}

// merge packs pieces into chunks no longer than chunkSize. Pieces already carry their
// separators, so they are joined as they are. When a chunk is emitted the window slides
// forward, keeping at most overlap characters of its tail to seed the next one.
func (s *Splitter) merge(pieces []string) []string {
	var chunks []string
	var current []string
	total := 0

	for _, piece := range pieces {
		l := runeLen(piece)
		if total+l > s.chunkSize && len(current) > 0 {
			if chunk := strings.TrimSpace(strings.Join(current, "")); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for len(current) > 0 && (total > s.overlap || total+l > s.chunkSize) {
				total -= runeLen(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += l
	}

	if chunk := strings.TrimSpace(strings.Join(current, "")); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
