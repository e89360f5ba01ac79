package service

import (
	"fmt"

	"utm-builder-be/internal/dto"
	"utm-builder-be/pkg/normalize"
	"utm-builder-be/pkg/registry"
	"utm-builder-be/pkg/store"
	"utm-builder-be/pkg/utm"

	"github.com/go-playground/validator/v10"
)

// ILinkService is the non-interactive build path used by the ops API:
// same derivation rules as the wizard, one request per link.
type ILinkService interface {
	BuildLink(req dto.BuildLinkRequest) (*dto.BuildLinkResponse, error)
	ListCampaigns() []dto.CampaignResponse
	ListContentTypes() []dto.ContentTypeResponse
}

type linkService struct {
	builder    *utm.Builder
	validate   *validator.Validate
	mainHandle string
}

func NewLinkService(builder *utm.Builder, mainHandle string) ILinkService {
	return &linkService{
		builder:    builder,
		validate:   validator.New(),
		mainHandle: mainHandle,
	}
}

func (l *linkService) BuildLink(req dto.BuildLinkRequest) (*dto.BuildLinkResponse, error) {
	if err := l.validate.Struct(req); err != nil {
		return nil, err
	}

	// Campaign accepts a registry key or free text (custom path).
	slug := req.Campaign
	if camp, err := registry.CampaignByKey(req.Campaign); err == nil {
		slug = camp.Slug
	} else {
		slug = normalize.SanitizeSlug(req.Campaign)
		if slug == "" {
			return nil, fmt.Errorf("campaign %q has no usable characters", req.Campaign)
		}
	}

	ct, err := registry.ContentTypeByKey(req.ContentType)
	if err != nil {
		return nil, err
	}

	handle := l.mainHandle
	if req.ChannelType != store.ChannelMain {
		handle = normalize.ExtractHandle(req.Handle)
		if handle == "" {
			return nil, fmt.Errorf("handle %q could not be parsed", req.Handle)
		}
	}

	uid := l.builder.NewID(handle, slug, ct.Code)
	session := &store.Session{
		Page:           normalize.NormalizePagePath(req.Page),
		ChannelType:    req.ChannelType,
		EarnVisibility: req.Visibility,
		Handle:         handle,
		CampaignSlug:   slug,
		ContentType:    ct.Code,
		UID:            uid,
	}

	return &dto.BuildLinkResponse{
		URL:      l.builder.BuildURL(session, ""),
		Source:   utm.DeriveSource(req.ChannelType, req.Visibility),
		Medium:   handle,
		Campaign: slug,
		Content:  ct.Code + "_" + uid,
	}, nil
}

func (l *linkService) ListCampaigns() []dto.CampaignResponse {
	out := make([]dto.CampaignResponse, 0, len(registry.Campaigns))
	for _, c := range registry.Campaigns {
		out = append(out, dto.CampaignResponse{Key: c.Key, Label: c.Label, Slug: c.Slug})
	}
	return out
}

func (l *linkService) ListContentTypes() []dto.ContentTypeResponse {
	out := make([]dto.ContentTypeResponse, 0, len(registry.ContentTypes))
	for _, ct := range registry.ContentTypes {
		out = append(out, dto.ContentTypeResponse{Key: ct.Key, Code: ct.Code})
	}
	return out
}
