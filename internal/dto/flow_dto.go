package dto

// RenderKind discriminates what the transport should do with a render
// instruction.
type RenderKind string

const (
	// RenderPrompt replaces/sends the wizard message, with option buttons.
	RenderPrompt RenderKind = "prompt"
	// RenderMessage sends standalone plain messages (emitted links).
	RenderMessage RenderKind = "message"
)

// Option is one selectable button. Tokens are opaque to the transport; it
// passes them back verbatim through OnOptionSelected.
type Option struct {
	Label string
	Token string
}

// RenderInstruction is what the flow hands back for every inbound event.
// A prompt carries Text plus Options laid out in rows. A message carries
// one or more standalone texts (bulk output arrives pre-chunked).
type RenderInstruction struct {
	Kind    RenderKind
	Text    string
	Options [][]Option // button rows, in order

	// Messages is set for RenderMessage: each entry is sent as its own
	// message, in order.
	Messages []string
}

// Prompt builds a prompt instruction.
func Prompt(text string, rows ...[]Option) *RenderInstruction {
	return &RenderInstruction{Kind: RenderPrompt, Text: text, Options: rows}
}

// Messages builds a standalone-message instruction.
func Messages(texts ...string) *RenderInstruction {
	return &RenderInstruction{Kind: RenderMessage, Messages: texts}
}
