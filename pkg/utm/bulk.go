package utm

import (
	"fmt"
	"strings"

	"utm-builder-be/pkg/normalize"
	"utm-builder-be/pkg/store"
)

// blockSep joins handle blocks inside one message.
const blockSep = "\n\n"

// partLabelReserve is headroom kept per chunk for the "Part i/N" header
// added once packing shows more than one chunk is needed.
const partLabelReserve = 20

// BulkParseResult splits raw bulk input into usable handles and the lines
// that produced nothing, kept verbatim for operator feedback.
type BulkParseResult struct {
	Accepted []string
	Rejected []string
}

// ParseBulkInput parses one handle per line. Blank lines are dropped,
// each line goes through handle extraction, and accepted handles are
// deduplicated preserving first occurrence.
func ParseBulkInput(raw string) BulkParseResult {
	var res BulkParseResult
	seen := make(map[string]bool)
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		handle := normalize.ExtractHandle(trimmed)
		if handle == "" {
			res.Rejected = append(res.Rejected, trimmed)
			continue
		}
		if seen[handle] {
			continue
		}
		seen[handle] = true
		res.Accepted = append(res.Accepted, handle)
	}
	return res
}

// BulkHeader renders the leading block of a bulk summary.
func (b *Builder) BulkHeader(s *store.Session, count int) string {
	campaign := s.CampaignSlug
	if campaign == "" {
		campaign = missing
	}
	contentType := s.ContentType
	if contentType == "" {
		contentType = missing
	}
	return strings.Join([]string{
		fmt.Sprintf("📦 *Bulk UTM Links* — %d handles\n", count),
		fmt.Sprintf("🌐 *Source:* `%s`", DeriveSource(s.ChannelType, s.EarnVisibility)),
		fmt.Sprintf("🎯 *Campaign:* `%s`", campaign),
		fmt.Sprintf("📝 *Content type:* `%s`", contentType),
	}, "\n")
}

// BulkEntry pairs a handle with the URL rendered for it.
type BulkEntry struct {
	Handle string
	URL    string
}

// Block renders the entry as one transport block.
func (e BulkEntry) Block() string {
	return fmt.Sprintf("👤 `%s`\n`%s`", e.Handle, e.URL)
}

// BuildBulkEntries renders one link per handle, each with a fresh content
// id. Callers keep the entries so emitted messages and audit events agree
// on the exact URLs.
func (b *Builder) BuildBulkEntries(s *store.Session, handles []string) []BulkEntry {
	entries := make([]BulkEntry, 0, len(handles))
	for _, h := range handles {
		entries = append(entries, BulkEntry{Handle: h, URL: b.BuildURL(s, h)})
	}
	return entries
}

// BuildBulkBlocks renders one handle+link block per handle.
func (b *Builder) BuildBulkBlocks(s *store.Session, handles []string) []string {
	entries := b.BuildBulkEntries(s, handles)
	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		blocks = append(blocks, e.Block())
	}
	return blocks
}

// ChunkForTransport greedily packs blocks into the fewest messages whose
// rendered length stays under limit. A block that alone exceeds the limit
// is sent by itself, unsplit. Order is preserved across chunks, and chunks
// get a "Part i/N" header when more than one results.
func ChunkForTransport(blocks []string, limit int) []string {
	if len(blocks) == 0 {
		return nil
	}
	joined := strings.Join(blocks, blockSep)
	if len(joined) <= limit {
		return []string{joined}
	}

	budget := limit - partLabelReserve
	if budget < 1 {
		budget = 1
	}

	var chunks []string
	var cur strings.Builder
	for _, block := range blocks {
		need := len(block)
		if cur.Len() > 0 {
			need += len(blockSep)
		}
		if cur.Len() > 0 && cur.Len()+need > budget {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteString(blockSep)
		}
		cur.WriteString(block)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}

	if len(chunks) == 1 {
		return chunks
	}
	for i, c := range chunks {
		chunks[i] = fmt.Sprintf("Part %d/%d\n\n%s", i+1, len(chunks), c)
	}
	return chunks
}
