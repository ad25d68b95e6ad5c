// Package worker consumes user lifecycle events published by the API.
package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/business-card-api/internal/domain/entity"
	"github.com/oksasatya/business-card-api/pkg/mailer"
)

// Sender delivers a rendered email.
type Sender interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// Outcome tells the consumer what to do with the delivery.
type Outcome int

const (
	Ack Outcome = iota
	Drop
	Retry
)

func (o Outcome) String() string {
	switch o {
	case Drop:
		return "drop"
	case Retry:
		return "retry"
	default:
		return "ack"
	}
}

// EventProcessor writes an audit line for every event and sends the welcome
// mail for registrations when a sender is configured.
type EventProcessor struct {
	AppName string
	Logger  *logrus.Logger
	Mail    Sender
}

func NewEventProcessor(appName string, logger *logrus.Logger, mail Sender) *EventProcessor {
	return &EventProcessor{AppName: appName, Logger: logger, Mail: mail}
}

// Handle processes one delivery. Undecodable payloads are dropped; failed
// mail sends are retried.
func (p *EventProcessor) Handle(ctx context.Context, body []byte) (Outcome, error) {
	var ev entity.UserEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return Drop, fmt.Errorf("decode user event: %w", err)
	}
	if ev.Type == "" || ev.UserID == "" {
		return Drop, fmt.Errorf("user event missing type or user id")
	}

	p.Logger.WithFields(logrus.Fields{
		"event":       ev.Type,
		"user_id":     ev.UserID,
		"actor_id":    ev.ActorID,
		"is_admin":    ev.IsAdmin,
		"is_business": ev.IsBusiness,
		"occurred_at": ev.OccurredAt,
	}).Info("user event")

	if ev.Type != entity.EventUserRegistered || p.Mail == nil {
		return Ack, nil
	}
	msg, err := mailer.Welcome(p.AppName, ev.Name, ev.Email, ev.IsBusiness)
	if err != nil {
		return Drop, err
	}
	if err := p.Mail.Send(ctx, msg); err != nil {
		return Retry, fmt.Errorf("send welcome mail: %w", err)
	}
	return Ack, nil
}
