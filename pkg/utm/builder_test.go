package utm

import (
	"regexp"
	"strings"
	"testing"

	"utm-builder-be/pkg/store"
)

func TestDeriveSource(t *testing.T) {
	tests := []struct {
		channelType string
		visibility  string
		want        string
	}{
		{"earn", "pr", "youtube_e_pr"},
		{"earn", "pu", "youtube_e_pu"},
		{"earn", "", "youtube_e_pu"}, // visibility missing defaults to public
		{"main", "", "youtube_m"},
		{"selected", "", "youtube_s"},
		{"", "", "youtube_s"},
	}

	for _, tt := range tests {
		if got := DeriveSource(tt.channelType, tt.visibility); got != tt.want {
			t.Errorf("DeriveSource(%q, %q) = %q, want %q", tt.channelType, tt.visibility, got, tt.want)
		}
	}
}

func singleSession() *store.Session {
	return &store.Session{
		ID:           "1",
		Step:         store.StepConfirm,
		Page:         "/kling-3",
		ChannelType:  store.ChannelSelected,
		HandleMode:   store.ModeSingle,
		Handle:       "creatorx",
		CampaignSlug: "kling_3",
		ContentType:  "de",
		UID:          "ab12f",
	}
}

func TestBuildURLSingle(t *testing.T) {
	b := NewBuilder("https://higgsfield.ai")
	want := "https://higgsfield.ai/kling-3?utm_source=youtube_s&utm_medium=creatorx&utm_campaign=kling_3&utm_content=de_ab12f"
	if got := b.BuildURL(singleSession(), ""); got != want {
		t.Errorf("BuildURL = %q, want %q", got, want)
	}
}

// Single mode with a precomputed uid is idempotent.
func TestBuildURLSingleIdempotent(t *testing.T) {
	b := NewBuilder("https://higgsfield.ai")
	s := singleSession()
	if first, second := b.BuildURL(s, ""), b.BuildURL(s, ""); first != second {
		t.Errorf("BuildURL not idempotent: %q vs %q", first, second)
	}
}

// Bulk override generates a fresh id per render: the two URLs agree on
// everything except the trailing content id.
func TestBuildURLOverrideFreshIds(t *testing.T) {
	b := NewBuilder("https://higgsfield.ai")
	s := singleSession()
	s.UID = ""

	pattern := regexp.MustCompile(`^https://higgsfield\.ai/kling-3\?utm_source=youtube_s&utm_medium=mkbhd&utm_campaign=kling_3&utm_content=de_[0-9a-f]{5}$`)
	first := b.BuildURL(s, "mkbhd")
	second := b.BuildURL(s, "mkbhd")
	if !pattern.MatchString(first) {
		t.Fatalf("override URL shape wrong: %q", first)
	}
	trim := func(u string) string { return u[:strings.LastIndex(u, "_")] }
	if trim(first) != trim(second) {
		t.Errorf("override URLs differ outside content id: %q vs %q", first, second)
	}
}

func TestBuildURLTrimsBaseSlash(t *testing.T) {
	b := NewBuilder("https://higgsfield.ai/")
	if got := b.BuildURL(singleSession(), ""); !strings.HasPrefix(got, "https://higgsfield.ai/kling-3?") {
		t.Errorf("base slash not trimmed: %q", got)
	}
}

func TestWithIDLength(t *testing.T) {
	b := NewBuilder("https://higgsfield.ai").WithIDLength(8)
	s := singleSession()
	s.UID = ""

	pattern := regexp.MustCompile(`utm_content=de_[0-9a-f]{8}$`)
	if got := b.BuildURL(s, ""); !pattern.MatchString(got) {
		t.Errorf("want 8-char content id, got %q", got)
	}

	// Non-positive lengths keep the default.
	b = NewBuilder("https://higgsfield.ai").WithIDLength(0)
	if got := b.NewID("h", "c", "de"); len(got) != 5 {
		t.Errorf("want default 5-char id, got %q", got)
	}
}

func TestBuildSummary(t *testing.T) {
	b := NewBuilder("https://higgsfield.ai")
	got := b.BuildSummary(singleSession())
	for _, want := range []string{
		"*Source:* `youtube_s`",
		"*Medium:* `creatorx`",
		"*Campaign:* `kling_3`",
		"*Content:* `de_ab12f`",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestBuildSummaryPlaceholders(t *testing.T) {
	b := NewBuilder("https://higgsfield.ai")
	s := &store.Session{ID: "1", ChannelType: store.ChannelEarn, EarnVisibility: store.VisibilityPrivate}
	got := b.BuildSummary(s)
	for _, want := range []string{
		"*Source:* `youtube_e_pr`",
		"*Medium:* `—`",
		"*Campaign:* `—`",
		"*Content:* `—_—`",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}
