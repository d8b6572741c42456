package main

import (
	"strings"
	"testing"
)

func buildDump(pageCount int) string {
	var b strings.Builder
	b.WriteString("<mediawiki>\n")
	for i := 0; i < pageCount; i++ {
		b.WriteString("<page>\n<title>Page")
		b.WriteString(strings.Repeat("X", 1))
		b.WriteString("</title>\n<ns>0</ns>\n<revision>\n<text>body</text>\n</revision>\n</page>\n")
	}
	b.WriteString("</mediawiki>\n")
	return b.String()
}

func TestSplitShardsReassemblesExactly(t *testing.T) {
	dump := buildDump(30)

	shards, err := splitShards(strings.NewReader(dump), 4)
	if err != nil {
		t.Fatalf("splitShards: %v", err)
	}
	if len(shards) != 4 {
		t.Fatalf("expected 4 shards, got %d", len(shards))
	}

	joined := strings.Join(shards, "")
	if joined != dump {
		t.Error("expected concatenating shards to reproduce the original byte stream exactly")
	}
}

func TestSplitShardsEachEndsOnPageBoundary(t *testing.T) {
	dump := buildDump(30)

	shards, err := splitShards(strings.NewReader(dump), 4)
	if err != nil {
		t.Fatalf("splitShards: %v", err)
	}

	for i, shard := range shards[:len(shards)-1] {
		trimmed := strings.TrimRight(shard, "\n")
		if !strings.HasSuffix(trimmed, pageCloseTag) {
			t.Errorf("shard %d does not end on a page boundary: %q", i, shard[max(0, len(shard)-20):])
		}
	}

	last := shards[len(shards)-1]
	if !strings.Contains(last, documentCloseTag) {
		t.Error("expected the final shard to carry the document close tag")
	}
}

func TestSplitShardsSingleWorker(t *testing.T) {
	dump := buildDump(5)

	shards, err := splitShards(strings.NewReader(dump), 1)
	if err != nil {
		t.Fatalf("splitShards: %v", err)
	}
	if len(shards) != 1 {
		t.Fatalf("expected exactly 1 shard, got %d", len(shards))
	}
	if shards[0] != dump {
		t.Error("expected the single shard to equal the whole dump")
	}
}

func TestSplitShardsRejectsZeroWorkers(t *testing.T) {
	if _, err := splitShards(strings.NewReader(buildDump(1)), 0); err == nil {
		t.Error("expected an error for a zero shard count")
	}
}
