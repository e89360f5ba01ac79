package registry

import "fmt"

// Campaign is one selectable campaign preset.
type Campaign struct {
	Key   string // selection token, stable
	Label string // button text
	Slug  string // utm_campaign value
}

// ContentType maps a content format to its two-letter utm_content prefix.
type ContentType struct {
	Key  string
	Code string
}

// CustomCampaignKey is the sentinel token for the free-text campaign path.
const CustomCampaignKey = "custom"

// Campaigns in display order. The order is part of the operator-facing
// contract (buttons render top to bottom).
var Campaigns = []Campaign{
	{Key: "cinema_studio", Label: "🎥 Cinema Studio", Slug: "cinema_studio"},
	{Key: "soul_2", Label: "🖼 Soul 2.0", Slug: "soul_2"},
	{Key: "kling_3", Label: "🎬 Kling 3.0", Slug: "kling_3"},
	{Key: "seedance_2", Label: "🌱 Seedance 2.0", Slug: "seedance_2"},
	{Key: "general", Label: "🌐 General", Slug: "general"},
}

// ContentTypes in display order.
var ContentTypes = []ContentType{
	{Key: "dedicated", Code: "de"},
	{Key: "integrated", Code: "in"},
	{Key: "shorts", Code: "sh"},
}

// CampaignByKey resolves a campaign selection token. Keys only ever come
// from our own option tokens, so a miss is a programming error, not
// operator input.
func CampaignByKey(key string) (Campaign, error) {
	for _, c := range Campaigns {
		if c.Key == key {
			return c, nil
		}
	}
	return Campaign{}, fmt.Errorf("campaign not found: %s", key)
}

// ContentTypeByKey resolves a content-type selection token.
func ContentTypeByKey(key string) (ContentType, error) {
	for _, ct := range ContentTypes {
		if ct.Key == key {
			return ct, nil
		}
	}
	return ContentType{}, fmt.Errorf("content type not found: %s", key)
}
