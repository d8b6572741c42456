package main

import (
	"regexp"
	"strings"
	"unicode"
)

// namespaceQualifier matches a target's head token (the text up to the
// first space) that looks like "Foo:Bar" — a namespace-qualified link
// such as File: or Category:, which must be rejected. Only the head
// token is tested, so a namespace whose name contains a space (e.g.
// "Wikipedia talk:Foo", head "Wikipedia") is not rejected.
var namespaceQualifier = regexp.MustCompile(`\w*:\S`)

// etymologyPrefix is the wikitext macro that cites a word's language
// of origin: {{etymology|<iso-639-code>...
const etymologyPrefix = "{{etymology|"

// extractLinks runs the link extractor (spec §4.C) against one page's
// wikitext and returns the set of normalized link targets it finds,
// covering both internal wiki-links ([[Target]], [[Target|Display]])
// and etymology language citations ({{etymology|xx}}).
func extractLinks(text string, languages map[string]string) map[string]struct{} {
	out := map[string]struct{}{}
	extractWikiLinks(text, out)
	extractEtymologyLinks(text, languages, out)
	return out
}

// extractWikiLinks hand-scans for [[...]] spans rather than running a
// regex over the whole page: the grammar is simple enough that a
// single pass beats a regex engine at the scale this parser runs at
// (multi-gigabyte dumps, millions of pages).
func extractWikiLinks(text string, out map[string]struct{}) {
	runes := []rune(text)
	i := 0
	for i < len(runes)-1 {
		if runes[i] == '[' && runes[i+1] == '[' {
			start := i + 2
			j := start
			for j < len(runes)-1 && isLinkRune(runes[j]) {
				j++
			}
			if j < len(runes)-1 && runes[j] == ']' && runes[j+1] == ']' {
				if target, ok := normalizeLinkTarget(string(runes[start:j])); ok {
					out[target] = struct{}{}
				}
				i = j + 2
				continue
			}
		}
		i++
	}
}

// isLinkRune reports whether r may appear inside a [[...]] span: the
// character class from spec §4.C — letters, digits, spaces, the fixed
// punctuation set, and anything above U+0080 to admit international
// titles.
func isLinkRune(r rune) bool {
	if r >= 0x80 {
		return true
	}
	if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
		return true
	}
	switch r {
	case '.', ',', ':', '(', ')', '\'', '&', '+', '-', '/', '|', '{', '}', '=', '?':
		return true
	}
	return false
}

// normalizeLinkTarget applies the normalization rules from spec §4.C
// to the raw contents of a [[...]] span: strip any "|display" suffix,
// reject leading-colon and namespace-qualified targets, and capitalize
// the first character.
func normalizeLinkTarget(raw string) (string, bool) {
	target := raw
	if idx := strings.IndexByte(raw, '|'); idx >= 0 {
		target = raw[:idx]
	}
	if strings.HasPrefix(target, ":") {
		return "", false
	}

	head := target
	if idx := strings.IndexByte(target, ' '); idx >= 0 {
		head = target[:idx]
	}
	if namespaceQualifier.MatchString(head) {
		return "", false
	}

	return capitalizeFirst(target), true
}

// capitalizeFirst upper-cases only the first character of s, matching
// the source behavior spec §9 calls out as possibly under-matching
// wiki titles whose first character is not a letter.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// extractEtymologyLinks finds every {{etymology|<code> citation in the
// text, resolves the 1-3 lowercase-letter ISO-639 code against the
// static language table, and emits the matched language name as a link
// target. Unknown codes are silently dropped.
func extractEtymologyLinks(text string, languages map[string]string, out map[string]struct{}) {
	lower := strings.ToLower(text)
	searchFrom := 0
	for {
		idx := strings.Index(lower[searchFrom:], etymologyPrefix)
		if idx < 0 {
			return
		}
		codeStart := searchFrom + idx + len(etymologyPrefix)
		codeEnd := codeStart
		for codeEnd < len(lower) && codeEnd-codeStart < 3 && isLowerLetter(lower[codeEnd]) {
			codeEnd++
		}
		if codeEnd > codeStart {
			code := lower[codeStart:codeEnd]
			if name, ok := languages[code]; ok {
				out[name] = struct{}{}
			}
		}
		searchFrom = codeStart
	}
}

func isLowerLetter(b byte) bool {
	return b >= 'a' && b <= 'z'
}
