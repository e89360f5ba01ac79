package utm

import (
	"fmt"
	"strings"

	"utm-builder-be/pkg/identifier"
	"utm-builder-be/pkg/store"
)

// missing is the placeholder for fields not answered yet.
const missing = "—"

// Builder assembles tracking URLs and operator-facing summaries from a
// session's answers.
type Builder struct {
	BaseURL  string // fixed origin, no trailing slash
	IDLength int    // hex chars kept per content id
}

func NewBuilder(baseURL string) *Builder {
	return &Builder{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		IDLength: identifier.DefaultLength,
	}
}

// WithIDLength overrides the content id length.
func (b *Builder) WithIDLength(n int) *Builder {
	if n > 0 {
		b.IDLength = n
	}
	return b
}

// NewID generates a content id for the given answers at the configured
// length.
func (b *Builder) NewID(handle, campaign, contentType string) string {
	return identifier.GenerateN(handle, campaign, contentType, b.IDLength)
}

// DeriveSource maps the channel-type branch onto the utm_source value.
// Earn defaults to public when visibility was never asked.
func DeriveSource(channelType, visibility string) string {
	switch channelType {
	case store.ChannelEarn:
		if visibility == "" {
			visibility = store.VisibilityPublic
		}
		return "youtube_e_" + visibility
	case store.ChannelMain:
		return "youtube_m"
	default:
		return "youtube_s"
	}
}

// BuildURL renders the tracking URL for a completed session. A non-empty
// handleOverride switches to bulk semantics: the override becomes the
// medium and a fresh id is generated for it, so re-rendering a bulk summary
// yields new content ids. Parameter order is fixed (source, medium,
// campaign, content); url.Values would sort it.
func (b *Builder) BuildURL(s *store.Session, handleOverride string) string {
	medium := s.Handle
	uid := s.UID
	if handleOverride != "" {
		medium = handleOverride
		uid = b.NewID(handleOverride, s.CampaignSlug, s.ContentType)
	} else if uid == "" {
		uid = b.NewID(medium, s.CampaignSlug, s.ContentType)
	}
	return fmt.Sprintf(
		"%s%s?utm_source=%s&utm_medium=%s&utm_campaign=%s&utm_content=%s_%s",
		b.BaseURL,
		s.Page,
		DeriveSource(s.ChannelType, s.EarnVisibility),
		medium,
		s.CampaignSlug,
		s.ContentType,
		uid,
	)
}

// BuildSummary renders the single-link summary block. Unanswered fields
// show the placeholder so partial sessions render cleanly.
func (b *Builder) BuildSummary(s *store.Session) string {
	handle := s.Handle
	if handle == "" {
		handle = missing
	}
	campaign := s.CampaignSlug
	if campaign == "" {
		campaign = missing
	}
	contentType := s.ContentType
	if contentType == "" {
		contentType = missing
	}
	uid := s.UID
	if uid == "" {
		uid = missing
	}
	return strings.Join([]string{
		"📋 *UTM Link Summary*\n",
		fmt.Sprintf("🌐 *Source:* `%s`", DeriveSource(s.ChannelType, s.EarnVisibility)),
		fmt.Sprintf("📡 *Medium:* `%s`", handle),
		fmt.Sprintf("🎯 *Campaign:* `%s`", campaign),
		fmt.Sprintf("📝 *Content:* `%s_%s`", contentType, uid),
	}, "\n")
}
