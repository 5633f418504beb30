package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/fsdevblog/study-billing/internal/domain"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	SubjectExpiring      = "Уведомление об окончании аренды курсов"
	subjectReportPattern = "Ваш отчет об оплаченных курсах за период %s - %s"

	dateLayout     = "02.01.2006"
	dateTimeLayout = "02.01.2006 15:04"
)

// Message письмо в формате html.
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

//go:embed templates/*.html.tmpl
var templatesFS embed.FS

var templates = template.Must(
	template.New("").
		Funcs(template.FuncMap{
			"date":     func(t time.Time) string { return t.Format(dateLayout) },
			"datetime": func(t time.Time) string { return t.Format(dateTimeLayout) },
			"money":    func(d decimal.Decimal) string { return d.StringFixed(2) },
		}).
		ParseFS(templatesFS, "templates/*.html.tmpl"),
)

// ExpiringMessage письмо со списком курсов, аренда которых заканчивается.
func ExpiringMessage(from string, digest domain.RentalDigest) (Message, error) {
	body, err := render("expiring.html.tmpl", digest)
	if err != nil {
		return Message{}, err
	}
	return Message{From: from, To: digest.Email, Subject: SubjectExpiring, HTML: body}, nil
}

// ReportMessage письмо с отчетом об оплатах за период.
func ReportMessage(from string, report domain.PaymentReport) (Message, error) {
	body, err := render("payment_report.html.tmpl", report)
	if err != nil {
		return Message{}, err
	}
	return Message{
		From:    from,
		To:      report.Email,
		Subject: ReportSubject(report.StartDate, report.EndDate),
		HTML:    body,
	}, nil
}

func ReportSubject(start, end time.Time) string {
	return fmt.Sprintf(subjectReportPattern, start.Format(dateLayout), end.Format(dateLayout))
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", errors.Wrapf(err, "render %s", name)
	}
	return buf.String(), nil
}
