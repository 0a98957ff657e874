// Package mailer sends transactional email through MailerSend. Delivery is a
// collaborator boundary: callers observe success or failure but never let it
// gate their own outcome.
package mailer

// Service is the outbound email contract consumed by the registration engine.
type Service interface {
	Send(toEmail, toName, subject, text, html string) (string, error)
}
