package dto

// BuildLinkRequest is the ops API's non-interactive build path. Channel
// type drives the same branching as the wizard: visibility only matters
// for earn, handle is ignored for main.
type BuildLinkRequest struct {
	Page        string `json:"page" validate:"required"`
	ChannelType string `json:"channel_type" validate:"required,oneof=earn selected main"`
	Visibility  string `json:"visibility" validate:"omitempty,oneof=pu pr"`
	Handle      string `json:"handle" validate:"required_unless=ChannelType main"`
	Campaign    string `json:"campaign" validate:"required"`
	ContentType string `json:"content_type" validate:"required,oneof=dedicated integrated shorts"`
}

// BuildLinkResponse returns the assembled URL plus its parts.
type BuildLinkResponse struct {
	URL      string `json:"url"`
	Source   string `json:"source"`
	Medium   string `json:"medium"`
	Campaign string `json:"campaign"`
	Content  string `json:"content"`
}

// CampaignResponse is one registry entry for the ops API listing.
type CampaignResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

// ContentTypeResponse is one content-type registry entry.
type ContentTypeResponse struct {
	Key  string `json:"key"`
	Code string `json:"code"`
}

// StatsResponse summarizes link generation since process start.
type StatsResponse struct {
	TotalLinks    int            `json:"total_links"`
	BulkLinks     int            `json:"bulk_links"`
	ByCampaign    map[string]int `json:"by_campaign"`
	BySource      map[string]int `json:"by_source"`
	LastGenerated string         `json:"last_generated,omitempty"` // RFC3339
}
