package unveil

import (
	"html"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// WordUnit is one non-whitespace run of text outside tags, wrapped by the
// tokenizer so it can be revealed on its own delay.
type WordUnit struct {
	// Index is the 0-based ordinal in document order across all text spans.
	Index int
	// Text is the run exactly as it appeared in the input.
	Text string
	// Offset is the byte offset of the run in the input markup.
	Offset int
	// Delay is Index times the tokenizer stride.
	Delay time.Duration
}

// TokenizeResult is the output of Tokenizer.Tokenize.
type TokenizeResult struct {
	// Markup is the annotated markup.
	Markup string
	// Units lists the wrapped words in document order.
	Units []WordUnit
	// Unterminated is set when the input ended inside a tag. The tag
	// interior was copied through verbatim.
	Unterminated bool
}

// Tokenizer wraps every word outside of tags in a span carrying a
// transition delay proportional to the word's ordinal.
type Tokenizer struct {
	// Stride is the delay step between consecutive words.
	Stride time.Duration
	// WordClass is the class given to each wrapping span.
	WordClass string
}

// NewTokenizer returns a Tokenizer with the given stride and the default
// word class.
func NewTokenizer(stride time.Duration) *Tokenizer {
	return &Tokenizer{Stride: stride, WordClass: "hero-word"}
}

// Tokenize is shorthand for NewTokenizer(stride).Tokenize(markup).Markup.
func Tokenize(markup string, stride time.Duration) string {
	return NewTokenizer(stride).Tokenize(markup).Markup
}

// --- Scanner state machine ---

// scanState is the mode of the left-to-right scan.
type scanState uint8

const (
	stateText scanState = iota // outside of any tag, characters are buffered
	stateTag                   // between '<' and '>', characters pass through
)

// charClass partitions input bytes for the transition table. '<' and '>'
// are ASCII, so they never occur inside a multi-byte UTF-8 sequence and the
// scan can work on bytes.
type charClass uint8

const (
	classOpen  charClass = iota // '<'
	classClose                  // '>'
	classOther                  // anything else
)

func classify(b byte) charClass {
	switch b {
	case '<':
		return classOpen
	case '>':
		return classClose
	default:
		return classOther
	}
}

// scanAction is what a transition does with the current byte.
type scanAction uint8

const (
	actBuffer    scanAction = iota // keep the byte in the pending text span
	actFlushEmit                   // flush the pending text span, then copy the byte
	actEmit                        // copy the byte verbatim
)

type transition struct {
	next scanState
	act  scanAction
}

// transitions is indexed by [state][class]. A '>' seen in text mode is
// ordinary text: it stays buffered so character order is preserved.
var transitions = [2][3]transition{
	stateText: {
		classOpen:  {next: stateTag, act: actFlushEmit},
		classClose: {next: stateText, act: actBuffer},
		classOther: {next: stateText, act: actBuffer},
	},
	stateTag: {
		classOpen:  {next: stateTag, act: actEmit},
		classClose: {next: stateText, act: actEmit},
		classOther: {next: stateTag, act: actEmit},
	},
}

// Tokenize scans markup once. Tag spans are copied unchanged; text spans
// are split into whitespace runs (copied verbatim) and word runs (wrapped
// as WordUnits with increasing ordinals).
func (t *Tokenizer) Tokenize(markup string) TokenizeResult {
	s := tokenScan{t: t}
	s.out.Grow(len(markup) * 2)

	state := stateText
	textStart := 0
	for i := 0; i < len(markup); i++ {
		tr := transitions[state][classify(markup[i])]
		switch tr.act {
		case actFlushEmit:
			s.flush(markup[textStart:i], textStart)
			s.out.WriteByte(markup[i])
		case actEmit:
			s.out.WriteByte(markup[i])
		}
		if state == stateTag && tr.next == stateText {
			textStart = i + 1
		}
		state = tr.next
	}

	res := TokenizeResult{}
	switch state {
	case stateText:
		s.flush(markup[textStart:], textStart)
	case stateTag:
		// Unterminated tag: everything after the last '<' was emitted as tag
		// interior. Kept as is rather than repaired.
		res.Unterminated = true
		Logger().Debug("tokenize: unterminated tag", "offset", strings.LastIndexByte(markup, '<'))
	}
	res.Markup = s.out.String()
	res.Units = s.units
	return res
}

// tokenScan accumulates the output of one Tokenize call.
type tokenScan struct {
	t     *Tokenizer
	out   strings.Builder
	units []WordUnit
}

// flush splits a text span into alternating whitespace and word runs.
func (s *tokenScan) flush(text string, offset int) {
	for i := 0; i < len(text); {
		r, _ := utf8.DecodeRuneInString(text[i:])
		space := isWordSeparator(r)
		j := i
		for j < len(text) {
			r, size := utf8.DecodeRuneInString(text[j:])
			if isWordSeparator(r) != space {
				break
			}
			j += size
		}
		if space {
			s.out.WriteString(text[i:j])
		} else {
			s.wrap(text[i:j], offset+i)
		}
		i = j
	}
}

// isWordSeparator is the whitespace class of ECMAScript regular
// expressions: unicode.IsSpace without U+0085, plus U+FEFF.
func isWordSeparator(r rune) bool {
	switch r {
	case '\u0085':
		return false
	case '\uFEFF':
		return true
	}
	return unicode.IsSpace(r)
}

func (s *tokenScan) wrap(word string, offset int) {
	u := WordUnit{
		Index:  len(s.units),
		Text:   word,
		Offset: offset,
		Delay:  time.Duration(len(s.units)) * s.t.Stride,
	}
	s.units = append(s.units, u)

	s.out.WriteString(`<span class="`)
	s.out.WriteString(html.EscapeString(s.t.WordClass))
	s.out.WriteString(`" style="transition-delay:`)
	s.out.WriteString(strconv.FormatInt(u.Delay.Milliseconds(), 10))
	s.out.WriteString(`ms">`)
	s.out.WriteString(word)
	s.out.WriteString(`</span>`)
}
