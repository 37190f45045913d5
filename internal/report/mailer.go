package report

import (
	"context"
	"errors"
	"fmt"
	"net/textproto"
	"os"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

var (
	ErrReportNotFound = errors.New("report file not found")
	ErrAuthentication = errors.New("smtp authentication failed")
)

const (
	DefaultSMTPHost = "smtp.gmail.com"
	DefaultSMTPPort = 587
)

// MailSettings describes the SMTP account the report is sent from.
type MailSettings struct {
	Host     string
	Port     int
	From     string
	Password string
	To       []string
	Company  string
}

type mailClient interface {
	DialWithContext(ctx context.Context) error
	Send(messages ...*mail.Msg) error
	Close() error
}

type Mailer struct {
	settings MailSettings
	logger   *zap.Logger
	dial     func(MailSettings) (mailClient, error)
}

func NewMailer(settings MailSettings, logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if settings.Host == "" {
		settings.Host = DefaultSMTPHost
	}
	if settings.Port == 0 {
		settings.Port = DefaultSMTPPort
	}

	return &Mailer{settings: settings, logger: logger, dial: newSMTPClient}
}

func newSMTPClient(settings MailSettings) (mailClient, error) {
	client, err := mail.NewClient(settings.Host,
		mail.WithPort(settings.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(settings.From),
		mail.WithPassword(settings.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, err
	}

	return client, nil
}

// Send mails the report at path as an attachment. The connection is closed
// only when it was established.
func (m *Mailer) Send(ctx context.Context, path string, count int, day time.Time) error {
	msg, err := m.compose(path, count, day)
	if err != nil {
		return err
	}

	client, err := m.dial(m.settings)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	connected := false
	defer func() {
		if !connected {
			return
		}
		if err := client.Close(); err != nil {
			m.logger.Warn("closing smtp connection", zap.Error(err))
		}
	}()

	if err := client.DialWithContext(ctx); err != nil {
		return classifySMTPError("connect", err)
	}
	connected = true

	if err := client.Send(msg); err != nil {
		return classifySMTPError("send", err)
	}

	return nil
}

func (m *Mailer) compose(path string, count int, day time.Time) (*mail.Msg, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrReportNotFound, path)
		}
		return nil, fmt.Errorf("stat report: %w", err)
	}

	body, err := renderBody(day, m.settings.Company, count)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(SenderName(m.settings.Company), m.settings.From); err != nil {
		return nil, fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(m.settings.To...); err != nil {
		return nil, fmt.Errorf("set recipients: %w", err)
	}
	msg.Subject(Subject(day))
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextHTML, body)
	msg.AttachFile(path, mail.WithFileName(AttachmentName(day)))

	return msg, nil
}

func classifySMTPError(stage string, err error) error {
	if isAuthError(err) {
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	return fmt.Errorf("smtp %s: %w", stage, err)
}

func isAuthError(err error) bool {
	var protoErr *textproto.Error
	if !errors.As(err, &protoErr) {
		return false
	}

	switch protoErr.Code {
	case 530, 534, 535:
		return true
	default:
		return false
	}
}
