package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"utm-builder-be/internal/dto"
	"utm-builder-be/internal/pkg/logger"
	"utm-builder-be/internal/repository/contract"
	"utm-builder-be/pkg/events"
	"utm-builder-be/pkg/normalize"
	"utm-builder-be/pkg/registry"
	"utm-builder-be/pkg/store"
	"utm-builder-be/pkg/utm"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// Option tokens. The transport passes these back verbatim as callback data.
const (
	tokenChannelPrefix    = "chtype_"
	tokenVisibilityPrefix = "visibility_"
	tokenModePrefix       = "mode_"
	tokenCampaignPrefix   = "campaign_"
	tokenContentPrefix    = "content_"
	tokenNavBack          = "nav_back"
	tokenNavCancel        = "nav_cancel"
	tokenCopyLink         = "copy_link"
	tokenCopyBulk         = "copy_bulk"
	tokenRestart          = "restart"
)

// rejectedPreviewCap bounds how many rejected bulk lines are echoed back.
const rejectedPreviewCap = 15

// bulkConfirmPreviewCap bounds the handle preview on the bulk confirm screen.
const bulkConfirmPreviewCap = 10

// IFlowService is the wizard state machine. The transport serializes
// events per chat; each call here owns its session exclusively for the
// duration of the call.
type IFlowService interface {
	OnSessionStart(ctx context.Context, sessionID string) (*dto.RenderInstruction, error)
	OnTextInput(ctx context.Context, sessionID, text string) (*dto.RenderInstruction, error)
	OnOptionSelected(ctx context.Context, sessionID, token string) (*dto.RenderInstruction, error)
	OnCancel(ctx context.Context, sessionID string) (*dto.RenderInstruction, error)
}

type flowService struct {
	sessions     contract.ISessionRepository
	builder      *utm.Builder
	pubSub       *gochannel.GoChannel
	log          logger.ILogger
	mainHandle   string
	messageLimit int
}

func NewFlowService(
	sessions contract.ISessionRepository,
	builder *utm.Builder,
	pubSub *gochannel.GoChannel,
	log logger.ILogger,
	mainHandle string,
	messageLimit int,
) IFlowService {
	return &flowService{
		sessions:     sessions,
		builder:      builder,
		pubSub:       pubSub,
		log:          log,
		mainHandle:   mainHandle,
		messageLimit: messageLimit,
	}
}

// OnSessionStart begins (or restarts) the wizard for a chat. Any prior
// answers are dropped.
func (f *flowService) OnSessionStart(ctx context.Context, sessionID string) (*dto.RenderInstruction, error) {
	session := store.NewSession(sessionID)
	if err := f.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	f.log.Info("flow", "session started", map[string]interface{}{"session_id": sessionID})
	return f.promptPage(), nil
}

// OnCancel ends the session from any step and clears all answers.
func (f *flowService) OnCancel(ctx context.Context, sessionID string) (*dto.RenderInstruction, error) {
	if err := f.sessions.Delete(ctx, sessionID); err != nil {
		return nil, err
	}
	f.log.Info("flow", "session cancelled", map[string]interface{}{"session_id": sessionID})
	return dto.Prompt("❌ Cancelled. Send /start to begin again."), nil
}

func (f *flowService) OnTextInput(ctx context.Context, sessionID, text string) (*dto.RenderInstruction, error) {
	session, found, err := f.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !found {
		return f.expiredPrompt(), nil
	}

	var out *dto.RenderInstruction
	switch session.Step {
	case store.StepAwaitingPage:
		out = f.handlePageInput(session, text)
	case store.StepInputHandle:
		out = f.handleHandleInput(session, text)
	case store.StepInputBulkHandles:
		out = f.handleBulkInput(session, text)
	case store.StepEnterCustomCampaign:
		out = f.handleCustomCampaignInput(session, text)
	default:
		// Free text during a button step: repeat the step.
		out = f.renderStep(session)
	}

	if err := f.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *flowService) OnOptionSelected(ctx context.Context, sessionID, token string) (*dto.RenderInstruction, error) {
	if token == tokenNavCancel {
		return f.OnCancel(ctx, sessionID)
	}
	if token == tokenRestart {
		return f.OnSessionStart(ctx, sessionID)
	}

	session, found, err := f.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !found {
		return f.expiredPrompt(), nil
	}

	var out *dto.RenderInstruction
	switch {
	case token == tokenNavBack:
		out = f.handleBack(session)
	case token == tokenCopyLink:
		out = f.handleCopyLink(session)
	case token == tokenCopyBulk:
		out = f.handleCopyBulk(session)
	case strings.HasPrefix(token, tokenChannelPrefix):
		out = f.handleChannelType(session, strings.TrimPrefix(token, tokenChannelPrefix))
	case strings.HasPrefix(token, tokenVisibilityPrefix):
		out = f.handleVisibility(session, strings.TrimPrefix(token, tokenVisibilityPrefix))
	case strings.HasPrefix(token, tokenModePrefix):
		out = f.handleHandleMode(session, strings.TrimPrefix(token, tokenModePrefix))
	case strings.HasPrefix(token, tokenCampaignPrefix):
		out, err = f.handleCampaign(session, strings.TrimPrefix(token, tokenCampaignPrefix))
	case strings.HasPrefix(token, tokenContentPrefix):
		out, err = f.handleContentType(session, strings.TrimPrefix(token, tokenContentPrefix))
	default:
		f.log.Warn("flow", "unknown option token", map[string]interface{}{
			"session_id": sessionID,
			"token":      token,
			"step":       string(session.Step),
		})
		out = f.renderStep(session)
	}
	if err != nil {
		return nil, err
	}

	if err := f.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return out, nil
}

// -- Step handlers ----------------------------------------------------------

func (f *flowService) handlePageInput(s *store.Session, text string) *dto.RenderInstruction {
	s.Page = normalize.NormalizePagePath(text)
	f.advance(s, store.StepChannelType)
	return f.renderStep(s)
}

func (f *flowService) handleChannelType(s *store.Session, chtype string) *dto.RenderInstruction {
	if s.Step != store.StepChannelType {
		return f.renderStep(s)
	}
	switch chtype {
	case store.ChannelEarn:
		s.ChannelType = chtype
		f.advance(s, store.StepEarnVisibility)
	case store.ChannelMain:
		// Main channel has a fixed medium and skips visibility and
		// handle-mode entirely.
		s.ChannelType = chtype
		s.EarnVisibility = ""
		s.HandleMode = store.ModeSingle
		s.Handle = f.mainHandle
		s.BulkHandles = nil
		f.advance(s, store.StepCampaign)
	case store.ChannelSelected:
		s.ChannelType = chtype
		s.EarnVisibility = ""
		f.advance(s, store.StepHandleMode)
	default:
		return f.renderStep(s)
	}
	return f.renderStep(s)
}

func (f *flowService) handleVisibility(s *store.Session, vis string) *dto.RenderInstruction {
	if s.Step != store.StepEarnVisibility || (vis != store.VisibilityPublic && vis != store.VisibilityPrivate) {
		return f.renderStep(s)
	}
	s.EarnVisibility = vis
	f.advance(s, store.StepHandleMode)
	return f.renderStep(s)
}

func (f *flowService) handleHandleMode(s *store.Session, mode string) *dto.RenderInstruction {
	if s.Step != store.StepHandleMode {
		return f.renderStep(s)
	}
	switch mode {
	case store.ModeSingle:
		s.HandleMode = mode
		s.BulkHandles = nil
		f.advance(s, store.StepInputHandle)
	case store.ModeBulk:
		s.HandleMode = mode
		s.Handle = ""
		f.advance(s, store.StepInputBulkHandles)
	default:
		return f.renderStep(s)
	}
	return f.renderStep(s)
}

func (f *flowService) handleHandleInput(s *store.Session, text string) *dto.RenderInstruction {
	handle := normalize.ExtractHandle(text)
	if handle == "" {
		// Invalid input never advances; the operator just tries again.
		return dto.Prompt(
			"⚠️ Couldn't parse that. Try `@handle` or a YouTube URL.",
			f.navRow(),
		)
	}
	s.Handle = handle
	s.BulkHandles = nil
	f.advance(s, store.StepCampaign)
	return f.renderStep(s)
}

func (f *flowService) handleBulkInput(s *store.Session, text string) *dto.RenderInstruction {
	res := utm.ParseBulkInput(text)
	if len(res.Accepted) == 0 {
		return dto.Prompt(
			"⚠️ No usable handles found. Send one handle per line:\n`@handle`, a YouTube URL, or a name.",
			f.navRow(),
		)
	}
	s.BulkHandles = res.Accepted
	s.Handle = ""
	f.advance(s, store.StepCampaign)

	prompt := f.renderStep(s)
	report := f.acceptedPreview(res.Accepted)
	if len(res.Rejected) > 0 {
		report += "\n\n" + f.rejectedPreview(res.Rejected)
	}
	prompt.Text = report + "\n\n" + prompt.Text
	return prompt
}

func (f *flowService) handleCampaign(s *store.Session, key string) (*dto.RenderInstruction, error) {
	if s.Step != store.StepCampaign {
		return f.renderStep(s), nil
	}
	if key == registry.CustomCampaignKey {
		// The free-text detour stays inside the campaign step, so it adds
		// no back target of its own; the slug handler pushes Campaign once.
		s.Step = store.StepEnterCustomCampaign
		return f.renderStep(s), nil
	}
	camp, err := registry.CampaignByKey(key)
	if err != nil {
		// Keys originate from our own buttons; a miss is a bug, not
		// operator error.
		return nil, fmt.Errorf("campaign selection: %w", err)
	}
	s.CampaignSlug = camp.Slug
	s.CampaignLabel = camp.Label
	f.advance(s, store.StepContentType)
	return f.renderStep(s), nil
}

func (f *flowService) handleCustomCampaignInput(s *store.Session, text string) *dto.RenderInstruction {
	slug := normalize.SanitizeSlug(text)
	if slug == "" {
		return dto.Prompt("⚠️ Invalid name. Try again.")
	}
	s.CampaignSlug = slug
	s.CampaignLabel = strings.TrimSpace(text)
	// Custom entry is part of the campaign step: back from content type
	// returns to the campaign list, not the free-text prompt.
	s.PushBack(store.StepCampaign)
	s.Step = store.StepContentType
	return f.renderStep(s)
}

func (f *flowService) handleContentType(s *store.Session, key string) (*dto.RenderInstruction, error) {
	if s.Step != store.StepContentType {
		return f.renderStep(s), nil
	}
	ct, err := registry.ContentTypeByKey(key)
	if err != nil {
		return nil, fmt.Errorf("content type selection: %w", err)
	}
	s.ContentType = ct.Code
	if !s.IsBulk() {
		// Single mode locks its id here, once; bulk ids are generated
		// per handle at render time.
		s.UID = f.builder.NewID(s.Handle, s.CampaignSlug, s.ContentType)
	}
	f.advance(s, store.StepConfirm)
	return f.renderStep(s), nil
}

func (f *flowService) handleBack(s *store.Session) *dto.RenderInstruction {
	target, ok := s.PopBack()
	if !ok {
		return f.renderStep(s)
	}
	if target == store.StepAwaitingPage {
		// Back to the very start behaves like a restart.
		s.Reset()
	} else {
		s.Step = target
	}
	return f.renderStep(s)
}

func (f *flowService) handleCopyLink(s *store.Session) *dto.RenderInstruction {
	if s.Step != store.StepConfirm || s.IsBulk() {
		return f.renderStep(s)
	}
	url := f.builder.BuildURL(s, "")
	f.publishLink(s, s.Handle, url, false)
	return dto.Messages(url)
}

func (f *flowService) handleCopyBulk(s *store.Session) *dto.RenderInstruction {
	if s.Step != store.StepConfirm || !s.IsBulk() {
		return f.renderStep(s)
	}
	entries := f.builder.BuildBulkEntries(s, s.BulkHandles)
	blocks := make([]string, 0, len(entries)+1)
	blocks = append(blocks, f.builder.BulkHeader(s, len(entries)))
	for _, e := range entries {
		blocks = append(blocks, e.Block())
	}
	chunks := utm.ChunkForTransport(blocks, f.messageLimit)

	for _, e := range entries {
		f.publishLink(s, e.Handle, e.URL, true)
	}
	f.log.Info("flow", "bulk links emitted", map[string]interface{}{
		"session_id": s.ID,
		"handles":    len(s.BulkHandles),
		"chunks":     len(chunks),
	})
	return dto.Messages(chunks...)
}

// advance pushes the step being left and moves to the next one.
func (f *flowService) advance(s *store.Session, to store.Step) {
	s.PushBack(s.Step)
	s.Step = to
}

// -- Rendering --------------------------------------------------------------

// renderStep builds the prompt for the session's current step. Back
// targets come from the session's back stack, so one nav row serves every
// state.
func (f *flowService) renderStep(s *store.Session) *dto.RenderInstruction {
	switch s.Step {
	case store.StepAwaitingPage:
		return f.promptPage()
	case store.StepChannelType:
		return f.promptChannelType(s)
	case store.StepEarnVisibility:
		return f.promptVisibility()
	case store.StepHandleMode:
		return f.promptHandleMode(s)
	case store.StepInputHandle:
		return f.promptHandle(s)
	case store.StepInputBulkHandles:
		return f.promptBulkHandles(s)
	case store.StepCampaign:
		return f.promptCampaign(s)
	case store.StepEnterCustomCampaign:
		return f.promptCustomCampaign()
	case store.StepContentType:
		return f.promptContentType()
	case store.StepConfirm:
		return f.promptConfirm(s)
	default:
		return f.promptPage()
	}
}

func (f *flowService) promptPage() *dto.RenderInstruction {
	text := "👋 *Higgsfield UTM Builder*\n\n" +
		"Paste the page link or type the path.\n\n" +
		"Examples:\n" +
		"• `https://higgsfield.ai/cinema-studio`\n" +
		"• `/kling-3`\n" +
		"• `/image/soul-v2`"
	return dto.Prompt(text, []dto.Option{{Label: "❌ Cancel", Token: tokenNavCancel}})
}

func (f *flowService) promptChannelType(s *store.Session) *dto.RenderInstruction {
	text := fmt.Sprintf("✅ Page: `%s`\n\n▶️ YouTube — Earn, Selected, or Main Channel?", s.Page)
	return dto.Prompt(text,
		[]dto.Option{
			{Label: "🌍 Earn", Token: tokenChannelPrefix + store.ChannelEarn},
			{Label: "🎯 Selected", Token: tokenChannelPrefix + store.ChannelSelected},
		},
		[]dto.Option{{Label: "📺 Main Channel", Token: tokenChannelPrefix + store.ChannelMain}},
		f.navRow(),
	)
}

func (f *flowService) promptVisibility() *dto.RenderInstruction {
	return dto.Prompt("✅ *Earn*\n\nPublic or Private?",
		[]dto.Option{
			{Label: "🔓 Public", Token: tokenVisibilityPrefix + store.VisibilityPublic},
			{Label: "🔒 Private", Token: tokenVisibilityPrefix + store.VisibilityPrivate},
		},
		f.navRow(),
	)
}

func (f *flowService) promptHandleMode(s *store.Session) *dto.RenderInstruction {
	source := utm.DeriveSource(s.ChannelType, s.EarnVisibility)
	text := fmt.Sprintf("✅ Source: `%s`\n\nOne creator or a bulk list?", source)
	return dto.Prompt(text,
		[]dto.Option{
			{Label: "👤 Single", Token: tokenModePrefix + store.ModeSingle},
			{Label: "📦 Bulk", Token: tokenModePrefix + store.ModeBulk},
		},
		f.navRow(),
	)
}

func (f *flowService) promptHandle(s *store.Session) *dto.RenderInstruction {
	source := utm.DeriveSource(s.ChannelType, s.EarnVisibility)
	text := fmt.Sprintf("✅ Source: `%s`\n\n"+
		"Send the creator handle.\n\n"+
		"• `@handle`\n"+
		"• YouTube channel URL\n"+
		"• Or just the name", source)
	return dto.Prompt(text, f.navRow())
}

func (f *flowService) promptBulkHandles(s *store.Session) *dto.RenderInstruction {
	source := utm.DeriveSource(s.ChannelType, s.EarnVisibility)
	text := fmt.Sprintf("✅ Source: `%s`\n\n"+
		"Send the handles, one per line.\n\n"+
		"• `@handle`\n"+
		"• YouTube channel URL\n"+
		"• Or just the name\n\n"+
		"Duplicates are removed automatically.", source)
	return dto.Prompt(text, f.navRow())
}

func (f *flowService) promptCampaign(s *store.Session) *dto.RenderInstruction {
	var text string
	if s.IsBulk() {
		text = fmt.Sprintf("✅ Handles: `%d`\n\nPick the campaign.", len(s.BulkHandles))
	} else {
		text = fmt.Sprintf("✅ Handle: `%s`\n\nPick the campaign.", s.Handle)
	}
	rows := make([][]dto.Option, 0, len(registry.Campaigns)+2)
	for _, camp := range registry.Campaigns {
		rows = append(rows, []dto.Option{{Label: camp.Label, Token: tokenCampaignPrefix + camp.Key}})
	}
	rows = append(rows, []dto.Option{{Label: "✏️ Custom campaign", Token: tokenCampaignPrefix + registry.CustomCampaignKey}})
	rows = append(rows, f.navRow())
	return dto.Prompt(text, rows...)
}

func (f *flowService) promptCustomCampaign() *dto.RenderInstruction {
	text := "Type your custom campaign name.\n" +
		"Auto-formatted to snake\\_case.\n\n" +
		"Example: `soul_launch_feb`"
	return dto.Prompt(text, []dto.Option{{Label: "❌ Cancel", Token: tokenNavCancel}})
}

func (f *flowService) promptContentType() *dto.RenderInstruction {
	emoji := map[string]string{"dedicated": "🎬", "integrated": "🔗", "shorts": "📱"}
	row := make([]dto.Option, 0, len(registry.ContentTypes))
	for _, ct := range registry.ContentTypes {
		label := emoji[ct.Key]
		if label == "" {
			label = "📝"
		}
		row = append(row, dto.Option{
			Label: label + " " + strings.ToUpper(ct.Key[:1]) + ct.Key[1:],
			Token: tokenContentPrefix + ct.Key,
		})
	}
	return dto.Prompt("Pick the content type.", row, f.navRow())
}

func (f *flowService) promptConfirm(s *store.Session) *dto.RenderInstruction {
	if s.IsBulk() {
		return f.promptConfirmBulk(s)
	}
	url := f.builder.BuildURL(s, "")
	text := fmt.Sprintf("%s\n\n───────────────\n🔗 *Your UTM link:*\n\n`%s`\n\n───────────────\nTap the link above to copy.",
		f.builder.BuildSummary(s), url)
	return dto.Prompt(text,
		[]dto.Option{{Label: "📋 Copy as plain text", Token: tokenCopyLink}},
		[]dto.Option{
			{Label: "⬅️ Back", Token: tokenNavBack},
			{Label: "🔄 Start over", Token: tokenRestart},
		},
	)
}

func (f *flowService) promptConfirmBulk(s *store.Session) *dto.RenderInstruction {
	preview := s.BulkHandles
	more := 0
	if len(preview) > bulkConfirmPreviewCap {
		more = len(preview) - bulkConfirmPreviewCap
		preview = preview[:bulkConfirmPreviewCap]
	}
	var sb strings.Builder
	sb.WriteString(f.builder.BulkHeader(s, len(s.BulkHandles)))
	sb.WriteString("\n\n")
	for _, h := range preview {
		sb.WriteString("• `" + h + "`\n")
	}
	if more > 0 {
		sb.WriteString(fmt.Sprintf("…and %d more\n", more))
	}
	sb.WriteString("\nEach handle gets its own link and id.")
	return dto.Prompt(sb.String(),
		[]dto.Option{{Label: "📋 Generate all links", Token: tokenCopyBulk}},
		[]dto.Option{
			{Label: "⬅️ Back", Token: tokenNavBack},
			{Label: "🔄 Start over", Token: tokenRestart},
		},
	)
}

func (f *flowService) navRow() []dto.Option {
	return []dto.Option{
		{Label: "⬅️ Back", Token: tokenNavBack},
		{Label: "❌ Cancel", Token: tokenNavCancel},
	}
}

func (f *flowService) expiredPrompt() *dto.RenderInstruction {
	return dto.Prompt("Session expired. Send /start to begin a new link.")
}

func (f *flowService) acceptedPreview(accepted []string) string {
	shown := accepted
	more := 0
	if len(shown) > bulkConfirmPreviewCap {
		more = len(shown) - bulkConfirmPreviewCap
		shown = shown[:bulkConfirmPreviewCap]
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✅ Parsed %d handle(s):\n", len(accepted)))
	for _, h := range shown {
		sb.WriteString("• `" + h + "`\n")
	}
	if more > 0 {
		sb.WriteString(fmt.Sprintf("…and %d more\n", more))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (f *flowService) rejectedPreview(rejected []string) string {
	shown := rejected
	more := 0
	if len(shown) > rejectedPreviewCap {
		more = len(shown) - rejectedPreviewCap
		shown = shown[:rejectedPreviewCap]
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚠️ Skipped %d line(s):\n", len(rejected)))
	for _, line := range shown {
		sb.WriteString("• `" + line + "`\n")
	}
	if more > 0 {
		sb.WriteString(fmt.Sprintf("…and %d more\n", more))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// publishLink emits a LINK_GENERATED event on the in-process bus. Emission
// is best effort: a bus failure never blocks the operator's link.
func (f *flowService) publishLink(s *store.Session, handle, url string, bulk bool) {
	if f.pubSub == nil {
		return
	}
	if url == "" {
		url = f.builder.BuildURL(s, handle)
	}
	event := events.LinkGeneratedEvent{
		SessionID:  s.ID,
		Source:     utm.DeriveSource(s.ChannelType, s.EarnVisibility),
		Medium:     handle,
		Campaign:   s.CampaignSlug,
		Content:    s.ContentType,
		URL:        url,
		Bulk:       bulk,
		OccurredAt: time.Now(),
	}
	payload, err := json.Marshal(event.Payload())
	if err != nil {
		f.log.Error("flow", "failed to marshal link event", map[string]interface{}{"error": err.Error()})
		return
	}
	msg := message.NewMessage(uuid.NewString(), payload)
	if err := f.pubSub.Publish(event.EventType(), msg); err != nil {
		f.log.Error("flow", "failed to publish link event", map[string]interface{}{"error": err.Error()})
	}
}
