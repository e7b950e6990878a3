package mailer

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/habbitapp/habbit/pkg/helpers"
)

// SendVerification sends the verification email synchronously via Mailgun.
func (m *Mailgun) SendVerification(ctx context.Context, to, link string) error {
	job := VerificationJob(to, link)
	return m.Send(ctx, job.To, job.Subject, job.Text, job.HTML)
}

// QueueMailer hands verification emails to the RabbitMQ email queue; the
// email worker drains it and talks to Mailgun. A publish failure is a
// delivery failure from the caller's point of view.
type QueueMailer struct {
	Pub *helpers.RabbitPublisher
}

func NewQueueMailer(pub *helpers.RabbitPublisher) *QueueMailer {
	return &QueueMailer{Pub: pub}
}

func (m *QueueMailer) SendVerification(ctx context.Context, to, link string) error {
	return m.Pub.PublishJSON(ctx, VerificationJob(to, link))
}

// LogMailer stands in when mail sending is disabled; it logs the link
// instead of dispatching anything.
type LogMailer struct {
	Logger *logrus.Logger
}

func (m *LogMailer) SendVerification(_ context.Context, to, link string) error {
	if m.Logger != nil {
		m.Logger.WithFields(logrus.Fields{"to": to, "link": link}).Info("mail sending disabled; verification link not dispatched")
	}
	return nil
}
