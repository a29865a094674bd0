package ops

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"quirk/internal/mask"
)

type token struct {
	text string
	sep  bool
	// glued tokens attach to the previous word without a separator
	glued bool
}

// layout tokenizes every unprotected segment into words and separators.
type layout struct {
	segs []mask.Segment
	toks [][]token
}

type wordRef struct {
	seg, tok int
}

func newLayout(segs []mask.Segment) *layout {
	l := &layout{segs: segs, toks: make([][]token, len(segs))}
	for i, s := range segs {
		if !s.Protected {
			l.toks[i] = tokenize(s.Text)
		}
	}
	return l
}

func tokenize(s string) []token {
	var out []token
	start := 0
	var inSep bool
	for i, r := range s {
		sp := unicode.IsSpace(r)
		if i == 0 {
			inSep = sp
			continue
		}
		if sp != inSep {
			out = append(out, token{text: s[start:i], sep: inSep})
			start, inSep = i, sp
		}
	}
	if start < len(s) {
		out = append(out, token{text: s[start:], sep: inSep})
	}
	return out
}

// words lists every word token of the eligible segments in text order.
func (l *layout) words() []wordRef {
	var out []wordRef
	for si, toks := range l.toks {
		for ti, t := range toks {
			if !t.sep {
				out = append(out, wordRef{seg: si, tok: ti})
			}
		}
	}
	return out
}

func (l *layout) word(r wordRef) string       { return l.toks[r.seg][r.tok].text }
func (l *layout) setWord(r wordRef, s string) { l.toks[r.seg][r.tok].text = s }
func (l *layout) glue(r wordRef)              { l.toks[r.seg][r.tok].glued = true }

// flush writes tokens back into the segments. Emptied words are dropped
// along with one neighbouring separator, so deleting a word never leaves a
// double gap behind.
func (l *layout) flush() {
	for si, toks := range l.toks {
		if l.segs[si].Protected {
			continue
		}
		var b strings.Builder
		var pending string
		havePending, pendingAfterDelete, dropNextSep := false, false, false
		for ti, t := range toks {
			if t.sep {
				if dropNextSep {
					dropNextSep = false
					continue
				}
				if !havePending {
					pending, havePending = t.text, true
				}
				continue
			}
			if t.text == "" {
				if ti == 0 || (b.Len() == 0 && !havePending) {
					dropNextSep = true
				}
				pendingAfterDelete = havePending
				continue
			}
			if havePending && !t.glued {
				b.WriteString(pending)
			}
			havePending, pendingAfterDelete = false, false
			b.WriteString(t.text)
		}
		if havePending && !(pendingAfterDelete && si == len(l.segs)-1) {
			b.WriteString(pending)
		}
		l.segs[si].Text = b.String()
	}
}

// splitAffixes separates leading and trailing punctuation from a word core.
func splitAffixes(w string) (prefix, core, suffix string) {
	start := strings.IndexFunc(w, isCore)
	if start < 0 {
		return w, "", ""
	}
	end := strings.LastIndexFunc(w, isCore)
	_, size := utf8.DecodeRuneInString(w[end:])
	end += size
	return w[:start], w[start:end], w[end:]
}

func isCore(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-'
}
