package service

import (
	"regexp"
	"testing"

	"utm-builder-be/internal/dto"
	"utm-builder-be/pkg/utm"

	"github.com/stretchr/testify/assert"
)

func newTestLinkService() ILinkService {
	return NewLinkService(utm.NewBuilder("https://higgsfield.ai"), "higgsfieldai")
}

func TestBuildLink(t *testing.T) {
	svc := newTestLinkService()

	tests := []struct {
		name    string
		req     dto.BuildLinkRequest
		wantURL string
		wantErr bool
	}{
		{
			name: "selected single",
			req: dto.BuildLinkRequest{
				Page:        "/kling-3",
				ChannelType: "selected",
				Handle:      "@CreatorX",
				Campaign:    "kling_3",
				ContentType: "dedicated",
			},
			wantURL: `^https://higgsfield\.ai/kling-3\?utm_source=youtube_s&utm_medium=creatorx&utm_campaign=kling_3&utm_content=de_[0-9a-f]{5}$`,
		},
		{
			name: "earn private",
			req: dto.BuildLinkRequest{
				Page:        "https://higgsfield.ai/soul",
				ChannelType: "earn",
				Visibility:  "pr",
				Handle:      "mkbhd",
				Campaign:    "general",
				ContentType: "shorts",
			},
			wantURL: `^https://higgsfield\.ai/soul\?utm_source=youtube_e_pr&utm_medium=mkbhd&utm_campaign=general&utm_content=sh_[0-9a-f]{5}$`,
		},
		{
			name: "main uses fixed handle",
			req: dto.BuildLinkRequest{
				Page:        "/page",
				ChannelType: "main",
				Campaign:    "general",
				ContentType: "integrated",
			},
			wantURL: `utm_source=youtube_m&utm_medium=higgsfieldai`,
		},
		{
			name: "free-text campaign is sanitized",
			req: dto.BuildLinkRequest{
				Page:        "/page",
				ChannelType: "selected",
				Handle:      "creator",
				Campaign:    "Soul Launch Feb",
				ContentType: "dedicated",
			},
			wantURL: `utm_campaign=soul_launch_feb`,
		},
		{
			name: "missing handle outside main",
			req: dto.BuildLinkRequest{
				Page:        "/page",
				ChannelType: "selected",
				Campaign:    "general",
				ContentType: "dedicated",
			},
			wantErr: true,
		},
		{
			name: "unknown content type",
			req: dto.BuildLinkRequest{
				Page:        "/page",
				ChannelType: "main",
				Campaign:    "general",
				ContentType: "vlog",
			},
			wantErr: true,
		},
		{
			name: "unknown channel type",
			req: dto.BuildLinkRequest{
				Page:        "/page",
				ChannelType: "tiktok",
				Handle:      "creator",
				Campaign:    "general",
				ContentType: "dedicated",
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.BuildLink(tt.req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Regexp(t, regexp.MustCompile(tt.wantURL), resp.URL)
		})
	}
}

func TestListCampaignsKeepsOrder(t *testing.T) {
	svc := newTestLinkService()
	campaigns := svc.ListCampaigns()
	assert.NotEmpty(t, campaigns)
	assert.Equal(t, "cinema_studio", campaigns[0].Key)

	types := svc.ListContentTypes()
	assert.Len(t, types, 3)
	assert.Equal(t, "de", types[0].Code)
}
