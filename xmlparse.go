package main

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"
)

// pageState is the page parser's small state machine, one instance
// per shard, replaying across an unbounded stream of <page> elements.
type pageState int

const (
	stateIdle pageState = iota
	stateTitle
	stateNamespace
	stateText
	stateIgnore
)

// parseShard drives a pull-based XML reader over one shard of a dump,
// producing the pending-links and pending-redirects maps described in
// spec §3. It stops cleanly on two conditions: a normal io.EOF (a
// shard whose elements all balance: an interior shard, which runs out
// of bytes right after a </page>, or a whole unsplit dump) and any
// *xml.SyntaxError. The latter is what encoding/xml reports at the
// edges of a split dump: the first shard reaches end of input with
// <mediawiki> still open ("unexpected EOF"), and the last shard reads
// a </mediawiki> it never saw opened ("unexpected end element").
// Both are treated as "end of my shard", not as a parse error; a
// syntax error from malformed XML elsewhere in a shard likewise ends
// that shard early without an error. See shard.go for why the
// splitter guarantees every shard still ends on a page boundary.
func parseShard(shard string, languages map[string]string) (*shardResult, error) {
	result := newShardResult()
	decoder := xml.NewDecoder(strings.NewReader(shard))

	state := stateIdle
	currentTitle := ""

	for {
		token, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			var syn *xml.SyntaxError
			if errors.As(err, &syn) {
				break
			}
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "title":
				state = stateTitle
			case "ns":
				state = stateNamespace
			case "redirect":
				// Self-closing <redirect title="..."/> tags are
				// tokenized by encoding/xml as a StartElement with no
				// following CharData, so the redirect attribute is
				// read here rather than waiting on a Text event.
				state = stateIgnore
				delete(result.pendingLinks, currentTitle)
				if target, ok := redirectAttr(t); ok {
					result.pendingRedirects[currentTitle] = target
				}
			case "text":
				if state != stateIgnore {
					state = stateText
				}
			}

		case xml.CharData:
			switch state {
			case stateTitle:
				currentTitle = titleCleaner(string(t))
				result.pendingLinks[currentTitle] = map[string]struct{}{}
				state = stateIdle
			case stateNamespace:
				ns, err := strconv.Atoi(strings.TrimSpace(string(t)))
				if err != nil || ns != 0 {
					state = stateIgnore
					delete(result.pendingLinks, currentTitle)
				} else {
					state = stateIdle
				}
			case stateText:
				links := extractLinks(string(t), languages)
				if set, ok := result.pendingLinks[currentTitle]; ok {
					for link := range links {
						set[link] = struct{}{}
					}
				}
				state = stateIdle
			}
		}
	}

	return result, nil
}

// redirectAttr reads the "title" attribute off a <redirect/> element.
func redirectAttr(el xml.StartElement) (string, bool) {
	for _, attr := range el.Attr {
		if attr.Name.Local == "title" {
			return attr.Value, true
		}
	}
	return "", false
}

// titleCleaner trims surrounding whitespace off a raw <title> text
// node. Dump exports occasionally wrap long titles across lines.
func titleCleaner(raw string) string {
	return strings.TrimSpace(raw)
}
