package notify

import (
	"bytes"
	"context"
	"mime"
	"net"
	"net/smtp"
	"strconv"

	"github.com/pkg/errors"
)

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender отправляет письма через SMTP сервер.
type SMTPSender struct {
	addr     string
	auth     smtp.Auth
	sendMail sendMailFunc
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
	}
	return &SMTPSender{
		addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		auth:     auth,
		sendMail: smtp.SendMail,
	}
}

// Send отправляет письмо. net/smtp не принимает контекст, поэтому отмена проверяется только перед отправкой.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "smtp send")
	}
	if err := s.sendMail(s.addr, s.auth, msg.From, []string{msg.To}, buildMIME(msg)); err != nil {
		return errors.Wrapf(err, "smtp send to %s", msg.To)
	}
	return nil
}

func buildMIME(msg Message) []byte {
	var buf bytes.Buffer
	buf.WriteString("From: " + msg.From + "\r\n")
	buf.WriteString("To: " + msg.To + "\r\n")
	buf.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(msg.HTML)
	return buf.Bytes()
}
