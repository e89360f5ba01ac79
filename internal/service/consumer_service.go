package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"utm-builder-be/internal/dto"
	"utm-builder-be/internal/pkg/logger"
	"utm-builder-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IConsumerService drains LINK_GENERATED events off the in-process bus,
// writes the audit log and keeps in-memory counters for the ops API.
type IConsumerService interface {
	Consume(ctx context.Context) error
	Stats() dto.StatsResponse
}

type consumerService struct {
	pubSub *gochannel.GoChannel
	log    logger.ILogger

	mu         sync.Mutex
	total      int
	bulk       int
	byCampaign map[string]int
	bySource   map[string]int
	last       time.Time
}

func NewConsumerService(pubSub *gochannel.GoChannel, log logger.ILogger) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		log:        log,
		byCampaign: make(map[string]int),
		bySource:   make(map[string]int),
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, events.TopicLinkGenerated)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload struct {
		SessionID string `json:"session_id"`
		Source    string `json:"source"`
		Medium    string `json:"medium"`
		Campaign  string `json:"campaign"`
		Content   string `json:"content"`
		URL       string `json:"url"`
		Bulk      bool   `json:"bulk"`
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "failed to unmarshal link event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed, retrying will not help
		return
	}

	cs.mu.Lock()
	cs.total++
	if payload.Bulk {
		cs.bulk++
	}
	cs.byCampaign[payload.Campaign]++
	cs.bySource[payload.Source]++
	cs.last = time.Now()
	cs.mu.Unlock()

	// The audit trail lives in the structured log.
	cs.log.Info("consumer", "link generated", map[string]interface{}{
		"session_id": payload.SessionID,
		"source":     payload.Source,
		"medium":     payload.Medium,
		"campaign":   payload.Campaign,
		"content":    payload.Content,
		"url":        payload.URL,
		"bulk":       payload.Bulk,
	})
	msg.Ack()
}

func (cs *consumerService) Stats() dto.StatsResponse {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	byCampaign := make(map[string]int, len(cs.byCampaign))
	for k, v := range cs.byCampaign {
		byCampaign[k] = v
	}
	bySource := make(map[string]int, len(cs.bySource))
	for k, v := range cs.bySource {
		bySource[k] = v
	}

	res := dto.StatsResponse{
		TotalLinks: cs.total,
		BulkLinks:  cs.bulk,
		ByCampaign: byCampaign,
		BySource:   bySource,
	}
	if !cs.last.IsZero() {
		res.LastGenerated = cs.last.Format(time.RFC3339)
	}
	return res
}
