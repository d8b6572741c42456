package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// pageCloseTag is the line suffix that marks the end of a <page> element.
// splitShards scans forward from a line-count boundary until it lands on
// one of these so that no shard ever cuts a page in half.
const pageCloseTag = "</page>"

// documentCloseTag is the root element's closing tag. Only the final
// shard is expected to carry it; every other shard's trailing
// </mediawiki>-less tail is what later signals end-of-shard to the page
// parser (see xmlparse.go).
const documentCloseTag = "</mediawiki>"

// splitShards cuts a decompressed XML byte stream into n page-aligned
// text chunks so that n independent workers can parse disjoint regions
// of the same dump. It counts the total number of lines up front, then
// walks forward chunk by chunk, extending each one line-by-line past
// its quota until it lands on a line ending in "</page>". The last
// chunk is simply "the rest of the stream" and is expected to end on
// the document's closing tag.
func splitShards(r io.Reader, n int) ([]string, error) {
	if n < 1 {
		return nil, fmt.Errorf("shard count must be at least 1: got %d", n)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	lines := splitKeepingNewlines(data)
	total := len(lines)
	perChunk := total / n

	chunks := make([]string, 0, n)
	var consumed int
	for i := 1; i < n; i++ {
		end := consumed + perChunk
		if end > total {
			end = total
		}
		if end == consumed && end < total {
			end++
		}

		// A chunk strictly smaller than one page is never emitted:
		// extend forward line by line until a page boundary is hit.
		// Once no page is left in the stream (more chunks than pages),
		// the remaining chunks hold only the trailing lines or nothing.
		for end < total && !bytes.HasSuffix(lines[end-1], []byte(pageCloseTag+"\n")) {
			end++
		}

		chunks = append(chunks, string(bytes.Join(lines[consumed:end], nil)))
		consumed = end
	}

	// The final chunk is the rest of the stream, including the
	// document-closing delimiter.
	chunks = append(chunks, string(bytes.Join(lines[consumed:], nil)))

	return chunks, nil
}

// splitKeepingNewlines breaks a byte slice into lines, each one still
// carrying its trailing "\n" (except possibly the very last), so that
// rejoining a contiguous sub-slice of lines reproduces the original
// bytes exactly.
func splitKeepingNewlines(data []byte) [][]byte {
	var lines [][]byte
	reader := bufio.NewReader(bytes.NewReader(data))
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			lines = append(lines, line)
		}
		if err != nil {
			return lines
		}
	}
}
