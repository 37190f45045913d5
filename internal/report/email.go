package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"
	"time"
)

const (
	subjectPrefix    = "Kết Quả Chấm Điểm CV Ứng Viên - "
	attachmentPrefix = "Ket_Qua_Cham_Diem_CV_"
	dateLayout       = "02/01/2006"
)

//go:embed email.html
var emailTemplateText string

var emailTemplate = template.Must(template.New("email").Parse(emailTemplateText))

type emailData struct {
	Date    string
	Company string
	Count   int
}

// Subject returns the mail subject for a report produced on day.
func Subject(day time.Time) string {
	return subjectPrefix + day.Format(dateLayout)
}

// AttachmentName returns the attachment file name for a report produced on day.
func AttachmentName(day time.Time) string {
	return attachmentPrefix + strings.ReplaceAll(day.Format(dateLayout), "/", "_") + ".csv"
}

// SenderName is the display name shown in the From header.
func SenderName(company string) string {
	return strings.TrimSpace("HR " + company)
}

func renderBody(day time.Time, company string, count int) (string, error) {
	var buf bytes.Buffer
	err := emailTemplate.Execute(&buf, emailData{
		Date:    day.Format(dateLayout),
		Company: company,
		Count:   count,
	})
	if err != nil {
		return "", fmt.Errorf("render email body: %w", err)
	}

	return buf.String(), nil
}
