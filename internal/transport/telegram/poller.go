package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"utm-builder-be/internal/dto"
	"utm-builder-be/internal/pkg/logger"
	"utm-builder-be/internal/service"
)

const helpText = "*Higgsfield UTM Builder* 🔗\n\n" +
	"*Flow:*\n" +
	"Page → Earn/Selected/Main → (Public/Private) → Single/Bulk → Handle(s) → Campaign → Content → Link\n\n" +
	"*Source codes:*\n" +
	"`youtube_e_pu` — Earn Public\n" +
	"`youtube_e_pr` — Earn Private\n" +
	"`youtube_s` — Selected\n" +
	"`youtube_m` — Main Channel\n\n" +
	"*Commands:*\n" +
	"/start — New UTM link\n" +
	"/myid — Show your Telegram ID\n" +
	"/help — This message\n" +
	"/cancel — Cancel\n"

// Poller drives the wizard over Telegram long polling. One loop handles
// all chats, so events are processed strictly one at a time; that is the
// serialization the flow service relies on.
type Poller struct {
	client      *Client
	flow        service.IFlowService
	log         logger.ILogger
	allowed     map[int64]bool
	pollTimeout int
}

func NewPoller(client *Client, flow service.IFlowService, log logger.ILogger, allowedIDs []int64, pollTimeout int) *Poller {
	allowed := make(map[int64]bool, len(allowedIDs))
	for _, id := range allowedIDs {
		allowed[id] = true
	}
	return &Poller{
		client:      client,
		flow:        flow,
		log:         log,
		allowed:     allowed,
		pollTimeout: pollTimeout,
	}
}

// Run polls until ctx is done. Poll errors back off and retry; a dead
// Telegram connection should not kill the process.
func (p *Poller) Run(ctx context.Context) error {
	var offset int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, err := p.client.GetUpdates(ctx, offset, p.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.log.Error("telegram", "poll failed", map[string]interface{}{"error": err.Error()})
			time.Sleep(3 * time.Second)
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			p.handleUpdate(ctx, update)
		}
	}
}

func (p *Poller) handleUpdate(ctx context.Context, update Update) {
	switch {
	case update.Message != nil:
		p.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		p.handleCallback(ctx, update.CallbackQuery)
	}
}

func (p *Poller) handleMessage(ctx context.Context, msg *Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	if !p.allowed[chatID] {
		p.accessDenied(ctx, chatID)
		return
	}

	var (
		instr *dto.RenderInstruction
		err   error
	)
	switch {
	case text == "/start":
		instr, err = p.flow.OnSessionStart(ctx, sessionID(chatID))
	case text == "/cancel":
		instr, err = p.flow.OnCancel(ctx, sessionID(chatID))
	case text == "/help":
		p.send(ctx, chatID, helpText, nil)
		return
	case text == "/myid":
		p.send(ctx, chatID, fmt.Sprintf("Your Telegram ID: `%d`", chatID), nil)
		return
	case strings.HasPrefix(text, "/"):
		p.send(ctx, chatID, "Unknown command. /help lists what I can do.", nil)
		return
	default:
		instr, err = p.flow.OnTextInput(ctx, sessionID(chatID), msg.Text)
	}
	if err != nil {
		p.reportFailure(ctx, chatID, err)
		return
	}
	// Text input cannot edit the operator's own message; always prompt anew.
	p.render(ctx, chatID, 0, instr)
}

func (p *Poller) handleCallback(ctx context.Context, cb *CallbackQuery) {
	if err := p.client.AnswerCallbackQuery(ctx, cb.ID); err != nil {
		p.log.Warn("telegram", "answerCallbackQuery failed", map[string]interface{}{"error": err.Error()})
	}
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	if !p.allowed[chatID] {
		p.accessDenied(ctx, chatID)
		return
	}

	instr, err := p.flow.OnOptionSelected(ctx, sessionID(chatID), cb.Data)
	if err != nil {
		p.reportFailure(ctx, chatID, err)
		return
	}
	p.render(ctx, chatID, cb.Message.MessageID, instr)
}

// render turns a flow instruction into Telegram calls. editMsgID, when
// non-zero, is the prompt message a button press came from.
func (p *Poller) render(ctx context.Context, chatID, editMsgID int64, instr *dto.RenderInstruction) {
	if instr == nil {
		return
	}
	switch instr.Kind {
	case dto.RenderMessage:
		for _, text := range instr.Messages {
			p.send(ctx, chatID, text, nil)
		}
	case dto.RenderPrompt:
		markup := buildMarkup(instr.Options)
		if editMsgID != 0 {
			if err := p.client.EditMessageText(ctx, chatID, editMsgID, instr.Text, markup); err == nil {
				return
			}
			// Editing can fail when the message is too old; fall through
			// to a fresh send.
		}
		if _, err := p.client.SendMessage(ctx, chatID, instr.Text, markup); err != nil {
			p.log.Error("telegram", "send prompt failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (p *Poller) send(ctx context.Context, chatID int64, text string, markup *InlineKeyboardMarkup) {
	if _, err := p.client.SendMessage(ctx, chatID, text, markup); err != nil {
		p.log.Error("telegram", "send failed", map[string]interface{}{
			"chat_id": chatID,
			"error":   err.Error(),
		})
	}
}

func (p *Poller) accessDenied(ctx context.Context, chatID int64) {
	p.log.Warn("telegram", "access denied", map[string]interface{}{"chat_id": chatID})
	p.send(ctx, chatID, fmt.Sprintf(
		"🚫 Access denied.\n\nYour Telegram ID: `%d`\n\nSend this ID to your admin to get access.",
		chatID), nil)
}

func (p *Poller) reportFailure(ctx context.Context, chatID int64, err error) {
	p.log.Error("telegram", "flow event failed", map[string]interface{}{
		"chat_id": chatID,
		"error":   err.Error(),
	})
	p.send(ctx, chatID, "Something went wrong on our side. Send /start to try again.", nil)
}

func buildMarkup(rows [][]dto.Option) *InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	markup := &InlineKeyboardMarkup{InlineKeyboard: make([][]InlineKeyboardButton, 0, len(rows))}
	for _, row := range rows {
		buttons := make([]InlineKeyboardButton, 0, len(row))
		for _, opt := range row {
			buttons = append(buttons, InlineKeyboardButton{Text: opt.Label, CallbackData: opt.Token})
		}
		markup.InlineKeyboard = append(markup.InlineKeyboard, buttons)
	}
	return markup
}

func sessionID(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
