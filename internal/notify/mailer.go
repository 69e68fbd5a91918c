package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"gopkg.in/gomail.v2"
)

//go:embed templates/lead_alert.html
var templateFS embed.FS

var leadAlertTmpl = template.Must(template.ParseFS(templateFS, "templates/lead_alert.html"))

// SMTPMailer sends alerts through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	to     []string
}

// NewSMTPMailer builds a mailer for a comma-separated recipient list.
func NewSMTPMailer(host string, port int, user, password, from, to string) (*SMTPMailer, error) {
	var recipients []string
	for _, addr := range strings.Split(to, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			recipients = append(recipients, addr)
		}
	}
	if host == "" || from == "" || len(recipients) == 0 {
		return nil, fmt.Errorf("smtp mailer needs host, sender and at least one recipient")
	}

	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
		to:     recipients,
	}, nil
}

func (m *SMTPMailer) SendLeadAlert(ev LeadEvent) error {
	body, err := renderLeadAlert(ev)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to...)
	msg.SetHeader("Subject", leadAlertSubject(ev))
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send smtp: %w", err)
	}
	return nil
}

func leadAlertSubject(ev LeadEvent) string {
	return fmt.Sprintf("New lead: %s (%s)", ev.Name, ev.Source)
}

func renderLeadAlert(ev LeadEvent) (string, error) {
	var body bytes.Buffer
	if err := leadAlertTmpl.Execute(&body, ev); err != nil {
		return "", fmt.Errorf("render lead alert: %w", err)
	}
	return body.String(), nil
}
