package utm

import (
	"fmt"
	"strings"
	"testing"

	"utm-builder-be/pkg/store"
)

func TestParseBulkInput(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantAccepted []string
		wantRejected []string
	}{
		{
			name:         "mixed forms",
			input:        "@mkbhd\nhttps://youtube.com/@LinusTech\nunbox_therapy",
			wantAccepted: []string{"mkbhd", "linustech", "unbox_therapy"},
		},
		{
			name:         "dedup keeps first occurrence",
			input:        "@a\na\nA ",
			wantAccepted: []string{"a"},
		},
		{
			name:         "blank lines dropped",
			input:        "\n\n@mkbhd\n\n",
			wantAccepted: []string{"mkbhd"},
		},
		{
			name:         "rejects preserved verbatim",
			input:        "@mkbhd\n???\n!!",
			wantAccepted: []string{"mkbhd"},
			wantRejected: []string{"???", "!!"},
		},
		{
			name:         "nothing usable",
			input:        "???\n\n!!",
			wantRejected: []string{"???", "!!"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseBulkInput(tt.input)
			if fmt.Sprint(res.Accepted) != fmt.Sprint(tt.wantAccepted) {
				t.Errorf("Accepted = %v, want %v", res.Accepted, tt.wantAccepted)
			}
			if fmt.Sprint(res.Rejected) != fmt.Sprint(tt.wantRejected) {
				t.Errorf("Rejected = %v, want %v", res.Rejected, tt.wantRejected)
			}
		})
	}
}

func bulkSession() *store.Session {
	return &store.Session{
		ID:             "1",
		Step:           store.StepConfirm,
		Page:           "/kling-3",
		ChannelType:    store.ChannelEarn,
		EarnVisibility: store.VisibilityPublic,
		HandleMode:     store.ModeBulk,
		BulkHandles:    []string{"mkbhd", "linustech"},
		CampaignSlug:   "kling_3",
		ContentType:    "sh",
	}
}

func TestBuildBulkBlocks(t *testing.T) {
	b := NewBuilder("https://higgsfield.ai")
	s := bulkSession()
	blocks := b.BuildBulkBlocks(s, s.BulkHandles)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if !strings.Contains(blocks[0], "`mkbhd`") || !strings.Contains(blocks[0], "utm_medium=mkbhd") {
		t.Errorf("block 0 wrong:\n%s", blocks[0])
	}
	if !strings.Contains(blocks[1], "utm_medium=linustech") {
		t.Errorf("block 1 wrong:\n%s", blocks[1])
	}
}

func TestBulkHeader(t *testing.T) {
	b := NewBuilder("https://higgsfield.ai")
	got := b.BulkHeader(bulkSession(), 2)
	for _, want := range []string{"2 handles", "`youtube_e_pu`", "`kling_3`", "`sh`"} {
		if !strings.Contains(got, want) {
			t.Errorf("header missing %q:\n%s", want, got)
		}
	}
}

func TestChunkForTransportSingleChunk(t *testing.T) {
	blocks := []string{"aaa", "bbb", "ccc"}
	chunks := ChunkForTransport(blocks, 100)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0] != "aaa\n\nbbb\n\nccc" {
		t.Errorf("chunk = %q", chunks[0])
	}
	if strings.Contains(chunks[0], "Part") {
		t.Error("single chunk must not carry a part header")
	}
}

func TestChunkForTransportSplitsAndNumbers(t *testing.T) {
	var blocks []string
	for i := 0; i < 10; i++ {
		blocks = append(blocks, strings.Repeat("x", 50))
	}
	limit := 150
	chunks := ChunkForTransport(blocks, limit)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want several", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > limit {
			t.Errorf("chunk %d length %d exceeds limit %d", i, len(c), limit)
		}
		if !strings.HasPrefix(c, fmt.Sprintf("Part %d/%d", i+1, len(chunks))) {
			t.Errorf("chunk %d missing part header: %q", i, c[:20])
		}
	}
}

// Concatenating chunk contents in order reproduces the block sequence.
func TestChunkForTransportPreservesOrder(t *testing.T) {
	var blocks []string
	for i := 0; i < 7; i++ {
		blocks = append(blocks, fmt.Sprintf("block-%d-%s", i, strings.Repeat("y", 40)))
	}
	chunks := ChunkForTransport(blocks, 130)

	var got []string
	for _, c := range chunks {
		c = strings.TrimPrefix(c, c[:strings.Index(c, "block")]) // strip part header
		got = append(got, strings.Split(c, "\n\n")...)
	}
	if len(got) != len(blocks) {
		t.Fatalf("reassembled %d blocks, want %d", len(got), len(blocks))
	}
	for i := range blocks {
		if got[i] != blocks[i] {
			t.Errorf("block %d = %q, want %q", i, got[i], blocks[i])
		}
	}
}

// A block that alone exceeds the limit still comes through, by itself.
func TestChunkForTransportOversizedBlock(t *testing.T) {
	big := strings.Repeat("z", 300)
	chunks := ChunkForTransport([]string{"small", big, "tiny"}, 100)
	found := false
	for _, c := range chunks {
		if strings.Contains(c, big) {
			found = true
			if strings.Count(c, "\n\n") > 1 { // part header only
				t.Errorf("oversized block shares a chunk: %d bytes", len(c))
			}
		}
	}
	if !found {
		t.Error("oversized block dropped")
	}
}

func TestChunkForTransportEmpty(t *testing.T) {
	if chunks := ChunkForTransport(nil, 100); chunks != nil {
		t.Errorf("ChunkForTransport(nil) = %v, want nil", chunks)
	}
}
