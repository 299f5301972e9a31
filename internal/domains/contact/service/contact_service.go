package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"oneshot-backend/internal/domains/contact/model"
	"oneshot-backend/internal/infrastructure/email"
	"oneshot-backend/internal/infrastructure/queue"
	"oneshot-backend/internal/shared"

	"github.com/rs/zerolog/log"
)

type ServiceInterface interface {
	Submit(ctx context.Context, req model.ContactRequest) (*model.SubmitResult, error)
	Deliver(ctx context.Context, payload shared.ContactPayload) error
}

type ContactService struct {
	sender    email.Sender
	queue     queue.Enqueuer
	recipient string
	now       func() time.Time
}

// NewContactService sends to recipient through sender, or through the
// worker when q is set.
func NewContactService(sender email.Sender, q queue.Enqueuer, recipient string) ServiceInterface {
	return &ContactService{
		sender:    sender,
		queue:     q,
		recipient: strings.TrimSpace(recipient),
		now:       time.Now,
	}
}

func (s *ContactService) Submit(ctx context.Context, req model.ContactRequest) (*model.SubmitResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.recipient == "" {
		log.Error().Msg("CONTACT_EMAIL_RECIPIENT is not configured")
		return nil, model.NewSendFailed(email.ErrNoRecipient)
	}

	payload := req.ToPayload(s.now().UTC())

	if s.queue != nil {
		if _, err := queue.EnqueueJSON(s.queue, shared.TypeSendContact, payload, queue.ContactOptions()...); err != nil {
			return nil, model.NewSendFailed(err)
		}
		return &model.SubmitResult{Queued: true, SubmittedAt: payload.SubmittedAt}, nil
	}

	if err := s.Deliver(ctx, payload); err != nil {
		return nil, err
	}
	return &model.SubmitResult{SubmittedAt: payload.SubmittedAt}, nil
}

// Deliver sends one submission to the configured recipient.
func (s *ContactService) Deliver(ctx context.Context, payload shared.ContactPayload) error {
	if s.recipient == "" {
		return model.NewSendFailed(email.ErrNoRecipient)
	}

	msg := email.Message{
		To:      []string{s.recipient},
		ReplyTo: payload.Email,
		Subject: subject(payload),
		Body:    body(payload),
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return model.NewSendFailed(err)
	}

	log.Info().
		Str("from", payload.Email).
		Str("athlete_slug", payload.AthleteSlug).
		Msg("Contact message delivered")
	return nil
}

func subject(p shared.ContactPayload) string {
	if p.AthleteSlug != "" {
		return fmt.Sprintf("OneShot contact about %s from %s", p.AthleteSlug, p.FullName)
	}
	return "OneShot contact from " + p.FullName
}

func body(p shared.ContactPayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", p.FullName)
	fmt.Fprintf(&b, "Email: %s\n", p.Email)
	if p.AthleteSlug != "" {
		fmt.Fprintf(&b, "Athlete: %s\n", p.AthleteSlug)
	}
	fmt.Fprintf(&b, "Submitted: %s\n\n", p.SubmittedAt.Format(time.RFC3339))
	b.WriteString(p.Message)
	b.WriteString("\n")
	return b.String()
}
