package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"rainpath-cases/internal/casegraph"
	"rainpath-cases/internal/domain"
	"rainpath-cases/internal/service"

	"go.uber.org/zap"
)

const (
	EventCaseCreated = "case.created"
	EventCaseDeleted = "case.deleted"
)

// Publisher is satisfied by common/mqtt.Client.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

// CaseEvent payload published on <prefix>/created and <prefix>/deleted.
type CaseEvent struct {
	Event      string             `json:"event"`
	CaseID     int64              `json:"caseId"`
	Identifier string             `json:"identifier,omitempty"`
	Summary    *casegraph.Summary `json:"summary,omitempty"`
	At         string             `json:"at"`
}

// CaseEventPublisher implements service.CaseEventNotifier over MQTT.
type CaseEventPublisher struct {
	pub    Publisher
	prefix string
	qos    byte
	now    func() time.Time
	logger *zap.Logger
}

var _ service.CaseEventNotifier = (*CaseEventPublisher)(nil)

func NewCaseEventPublisher(pub Publisher, topicPrefix string, qos byte, logger *zap.Logger) *CaseEventPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CaseEventPublisher{
		pub:    pub,
		prefix: strings.TrimRight(topicPrefix, "/"),
		qos:    qos,
		now:    time.Now,
		logger: logger,
	}
}

func (p *CaseEventPublisher) CaseCreated(_ context.Context, c *domain.Case) error {
	summary := casegraph.Summarize(c)
	return p.publish(p.prefix+"/created", CaseEvent{
		Event:      EventCaseCreated,
		CaseID:     c.ID,
		Identifier: c.Identifier,
		Summary:    &summary,
		At:         p.now().UTC().Format(service.TimestampLayout),
	})
}

func (p *CaseEventPublisher) CaseDeleted(_ context.Context, id int64) error {
	return p.publish(p.prefix+"/deleted", CaseEvent{
		Event:  EventCaseDeleted,
		CaseID: id,
		At:     p.now().UTC().Format(service.TimestampLayout),
	})
}

func (p *CaseEventPublisher) publish(topic string, event CaseEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Event, err)
	}
	if err := p.pub.Publish(topic, p.qos, false, payload); err != nil {
		return err
	}
	p.logger.Debug("case event published", zap.String("topic", topic), zap.Int64("case_id", event.CaseID))
	return nil
}
