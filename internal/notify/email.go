package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"os"

	"ipwatch/internal/config"
	ntpl "ipwatch/internal/notify/template"
	"ipwatch/internal/types"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// sender delivers composed messages; *gomail.Dialer satisfies it
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier represents email notifier
type EmailNotifier struct {
	config    *config.MailConfig
	logger    *zap.Logger
	tplLoader *ntpl.Loader
	sender    sender
	hostname  string
}

// NewEmailNotifier creates new Email notifier
func NewEmailNotifier(cfg *config.MailConfig, loader *ntpl.Loader, logger *zap.Logger) (*EmailNotifier, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.Template != "" {
		if err := loader.SetCustomTemplate(ntpl.Email, ntpl.IPChange, cfg.Template); err != nil {
			return nil, types.ConfigError("load mail template", err)
		}
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	return &EmailNotifier{
		config:    cfg,
		logger:    logger,
		tplLoader: loader,
		sender:    newDialer(cfg),
		hostname:  hostname,
	}, nil
}

// newDialer builds an authenticated relay dialer. Implicit TLS is used when
// SSL is set or the port is 465; otherwise STARTTLS is negotiated when the
// relay offers it. Credentials are only sent once the connection is encrypted,
// unless AllowInsecureAuth is set.
func newDialer(cfg *config.MailConfig) *gomail.Dialer {
	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	if cfg.SSL {
		d.SSL = true
	}
	d.Auth = newRelayAuth(cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost, cfg.AllowInsecureAuth)
	d.TLSConfig = &tls.Config{
		ServerName:         cfg.SMTPHost,
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}
	return d
}

// NotifyIPChange sends IP change notification
func (n *EmailNotifier) NotifyIPChange(ctx context.Context, record *types.IPChangeRecord) (Result, error) {
	if !n.config.HasRecipients() {
		n.logger.Info("No recipients found. Skipping email.")
		return Skipped, nil
	}

	body, err := n.tplLoader.Render(ntpl.Email, ntpl.IPChange, ntpl.NewIPChangeData(record, n.hostname))
	if err != nil {
		return Failed, types.NotificationError("render message", err)
	}

	msg := n.buildMessage(body)
	if err := n.send(ctx, msg); err != nil {
		return Failed, types.NotificationError("send email", err)
	}

	n.logger.Info("Email notification sent.",
		zap.Strings("to", n.config.ToAddresses),
		zap.String("relay", fmt.Sprintf("%s:%d", n.config.SMTPHost, n.config.SMTPPort)))

	return Sent, nil
}

// buildMessage builds the plaintext notification message
func (n *EmailNotifier) buildMessage(body string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", n.config.FromAddress)
	msg.SetHeader("To", n.config.ToAddresses...)
	msg.SetHeader("Subject", n.config.Subject)
	msg.SetHeader("X-Mailer", "ipwatch")
	msg.SetBody("text/plain", body)
	return msg
}

// send delivers msg, giving up when ctx or the configured timeout expires
func (n *EmailNotifier) send(ctx context.Context, msg *gomail.Message) error {
	if n.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.config.Timeout)
		defer cancel()
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- n.sender.DialAndSend(msg)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("relay did not respond in time: %w", ctx.Err())
		}
		return ctx.Err()
	}
}
