package mailer

import (
	"context"

	"github.com/satriohq/blognest-api/pkg/helpers"
)

// QueueMailer delivers email by enqueueing jobs on RabbitMQ; the email
// worker picks them up and sends through Mailgun. A failed publish is a
// failed delivery as far as callers are concerned.
type QueueMailer struct {
	Pub     *helpers.RabbitPublisher
	Enabled bool
}

func NewQueueMailer(pub *helpers.RabbitPublisher, enabled bool) *QueueMailer {
	return &QueueMailer{Pub: pub, Enabled: enabled}
}

// SendPasswordReset enqueues the reset email carrying the plain token URL.
func (q *QueueMailer) SendPasswordReset(ctx context.Context, to, firstName, resetURL string, expiresIn string) error {
	return q.publish(ctx, EmailJob{
		To:       to,
		Template: TemplatePasswordReset,
		Data: map[string]any{
			"FirstName": firstName,
			"ResetURL":  resetURL,
			"ExpiresIn": expiresIn,
		},
	})
}

// SendWelcome enqueues the welcome email with the account verification URL.
func (q *QueueMailer) SendWelcome(ctx context.Context, to, firstName, verifyURL string) error {
	return q.publish(ctx, EmailJob{
		To:       to,
		Template: TemplateWelcome,
		Data: map[string]any{
			"FirstName": firstName,
			"VerifyURL": verifyURL,
		},
	})
}

func (q *QueueMailer) publish(ctx context.Context, job EmailJob) error {
	if !q.Enabled || q.Pub == nil {
		return nil
	}
	return q.Pub.PublishJSON(ctx, job)
}
