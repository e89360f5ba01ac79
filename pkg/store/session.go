package store

// Step names the wizard state a session is waiting in.
type Step string

const (
	StepAwaitingPage        Step = "AWAITING_PAGE"
	StepChannelType         Step = "CHANNEL_TYPE"
	StepEarnVisibility      Step = "EARN_VISIBILITY"
	StepHandleMode          Step = "HANDLE_MODE"
	StepInputHandle         Step = "INPUT_HANDLE"
	StepInputBulkHandles    Step = "INPUT_BULK_HANDLES"
	StepCampaign            Step = "CAMPAIGN"
	StepEnterCustomCampaign Step = "ENTER_CUSTOM_CAMPAIGN"
	StepContentType         Step = "CONTENT_TYPE"
	StepConfirm             Step = "CONFIRM"
)

// Channel types (utm_source branch).
const (
	ChannelEarn     = "earn"
	ChannelSelected = "selected"
	ChannelMain     = "main"
)

// Earn visibility codes.
const (
	VisibilityPublic  = "pu"
	VisibilityPrivate = "pr"
)

// Handle modes.
const (
	ModeSingle = "single"
	ModeBulk   = "bulk"
)

// Session is the active wizard state for one chat. It lives only in memory
// (or redis with a TTL) and is cleared on cancel, restart and completion.
type Session struct {
	ID string `json:"id"` // chat id

	Step Step `json:"step"`

	// Every forward transition pushes the step it left, the back button
	// pops. Context-dependent back targets fall out of this instead of
	// being recomputed per state.
	BackStack []Step `json:"back_stack"`

	// Accumulated answers.
	Page           string   `json:"page"`            // leading-slash path
	ChannelType    string   `json:"channel_type"`    // earn | selected | main
	EarnVisibility string   `json:"earn_visibility"` // pu | pr, set iff earn
	HandleMode     string   `json:"handle_mode"`     // single | bulk
	Handle         string   `json:"handle"`          // single mode (or fixed main handle)
	BulkHandles    []string `json:"bulk_handles"`    // bulk mode, first-seen order
	CampaignSlug   string   `json:"campaign_slug"`
	CampaignLabel  string   `json:"campaign_label"`
	ContentType    string   `json:"content_type"` // two-letter code
	UID            string   `json:"uid"`          // generated once, single mode only
}

// NewSession returns a fresh session at the first step.
func NewSession(id string) *Session {
	return &Session{ID: id, Step: StepAwaitingPage}
}

// Reset clears every answer and puts the session back at the first step.
func (s *Session) Reset() {
	*s = Session{ID: s.ID, Step: StepAwaitingPage}
}

// PushBack records the step being left by a forward transition.
func (s *Session) PushBack(step Step) {
	s.BackStack = append(s.BackStack, step)
}

// PopBack returns the most recently recorded step, or false when there is
// nothing to go back to.
func (s *Session) PopBack() (Step, bool) {
	if len(s.BackStack) == 0 {
		return "", false
	}
	step := s.BackStack[len(s.BackStack)-1]
	s.BackStack = s.BackStack[:len(s.BackStack)-1]
	return step, true
}

// IsBulk reports whether the session is collecting many handles.
func (s *Session) IsBulk() bool {
	return s.HandleMode == ModeBulk && len(s.BulkHandles) > 0
}
