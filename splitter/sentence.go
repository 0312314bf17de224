package splitter

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tmc/langchaingo/textsplitter"
)

var _ textsplitter.TextSplitter = Sentence{}

// Sentence splits text at natural-language sentence boundaries, then packs
// whole sentences into character-bounded chunks. Paragraph separators are
// preserved, and the overlap re-includes trailing sentences of the previous
// chunk rather than cutting mid-sentence.
//
// langchaingo has no sentence-aligned splitter, so this one implements its
// TextSplitter interface directly.
type Sentence struct {
	chunkSize    int
	chunkOverlap int
}

// NewSentence creates a sentence-aligned splitter with the given character
// size bound and overlap.
func NewSentence(chunkSize, chunkOverlap int) Sentence {
	if chunkSize <= 0 {
		chunkSize = DefaultConfig().Size
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize - 1
	}
	return Sentence{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// piece is a single sentence plus whether a paragraph break precedes it.
type piece struct {
	text     string
	paraLead bool
}

// SplitText splits text into sentence-aligned overlapping chunks.
// A single sentence longer than the size bound is emitted on its own;
// unsplittable atoms are the one tolerated bound violation.
func (s Sentence) SplitText(text string) ([]string, error) {
	pieces := sentencePieces(text)
	if len(pieces) == 0 {
		return nil, nil
	}

	var chunks []string
	var cur []piece
	curLen := 0

	flush := func() {
		if len(cur) == 0 {
			return
		}
		chunks = append(chunks, joinPieces(cur))

		// Carry trailing sentences into the next chunk as overlap.
		var carry []piece
		carryLen := 0
		for i := len(cur) - 1; i >= 0; i-- {
			n := len(cur[i].text)
			if carryLen+n > s.chunkOverlap {
				break
			}
			carry = append([]piece{cur[i]}, carry...)
			carryLen += n
		}
		cur = carry
		curLen = carryLen
	}

	for _, p := range pieces {
		needed := curLen + len(p.text)
		if curLen > 0 {
			needed += sepLen(p.paraLead)
		}
		if needed > s.chunkSize && curLen > 0 {
			flush()
			// Recompute after the overlap carry-over.
			needed = curLen + len(p.text)
			if curLen > 0 {
				needed += sepLen(p.paraLead)
			}
			if needed > s.chunkSize && curLen > 0 {
				// Overlap alone does not leave room, start clean.
				cur = nil
				curLen = 0
			}
		}
		cur = append(cur, p)
		curLen += len(p.text)
	}
	if len(cur) > 0 {
		chunks = append(chunks, joinPieces(cur))
	}

	// pieces are trimmed and non-empty, but guard the invariant anyway
	out := chunks[:0]
	for _, c := range chunks {
		if strings.TrimSpace(c) != "" {
			out = append(out, c)
		}
	}
	return out, nil
}

func sepLen(paraLead bool) int {
	if paraLead {
		return 2 // "\n\n"
	}
	return 1 // " "
}

func joinPieces(pieces []piece) string {
	var b strings.Builder
	for i, p := range pieces {
		if i > 0 {
			if p.paraLead {
				b.WriteString("\n\n")
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(p.text)
	}
	return b.String()
}

// sentencePieces splits text into sentences, tagging each with whether it
// starts a new paragraph.
func sentencePieces(text string) []piece {
	var pieces []piece
	for pi, para := range strings.Split(strings.TrimSpace(text), "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		first := true
		for _, sent := range splitSentences(para) {
			pieces = append(pieces, piece{
				text:     sent,
				paraLead: first && pi > 0 && len(pieces) > 0,
			})
			first = false
		}
	}
	return pieces
}

// splitSentences cuts a paragraph at sentence boundaries.
func splitSentences(para string) []string {
	bounds := sentenceBoundaries(para)
	if len(bounds) == 0 {
		return []string{para}
	}

	var out []string
	start := 0
	for _, b := range bounds {
		sent := strings.TrimSpace(para[start:b])
		if sent != "" {
			out = append(out, sent)
		}
		start = b
	}
	if rest := strings.TrimSpace(para[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

// Abbreviations that should NOT end a sentence. Includes common Dutch legal
// shorthand since statutory texts lean on them heavily.
var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true,
	"prof": true, "vs": true, "etc": true,
	"e.g": true, "i.e": true, "o.a": true, "t.a.v": true,
	"art": true, "nr": true, "blz": true, "jo": true,
	"resp": true, "afd": true, "par": true,
}

// sentenceBoundaries returns byte positions where a new sentence starts,
// skipping abbreviations and decimal numbers.
func sentenceBoundaries(text string) []int {
	var bounds []int
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r != '.' && r != '!' && r != '?' {
			i += size
			continue
		}
		if r == '.' && (isDecimalDot(text, i) || isAbbreviation(text, i)) {
			i += size
			continue
		}

		// A boundary needs trailing whitespace; the next sentence starts
		// after it.
		j := i + size
		if j >= len(text) {
			break
		}
		next, nsize := utf8.DecodeRuneInString(text[j:])
		if next != ' ' && next != '\n' {
			i = j
			continue
		}
		bounds = append(bounds, j+nsize)
		i = j + nsize
	}
	return bounds
}

// isDecimalDot reports whether the dot at pos sits inside a number (3.14).
func isDecimalDot(text string, pos int) bool {
	if pos == 0 || pos+1 >= len(text) {
		return false
	}
	return text[pos-1] >= '0' && text[pos-1] <= '9' &&
		text[pos+1] >= '0' && text[pos+1] <= '9'
}

// isAbbreviation reports whether the word ending at the dot is a known
// abbreviation.
func isAbbreviation(text string, dotPos int) bool {
	start := dotPos
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if !unicode.IsLetter(r) && r != '.' {
			break
		}
		start -= size
	}
	word := strings.ToLower(strings.TrimSuffix(text[start:dotPos], "."))
	return abbreviations[strings.TrimPrefix(word, ".")]
}
