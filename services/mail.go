package services

import (
	"fmt"
	"html/template"
	"log"

	"city-report-api/config"
	"city-report-api/models"
)

// emailStatus sends a best-effort email copy of a status notification when
// SMTP is configured. Like the realtime push, a failure here never touches
// the outcome of the report mutation.
func (s *ReportService) emailStatus(report *models.Report, notification *models.Notification) {
	if !config.MailConfigured() {
		return
	}

	var author models.User
	if report.Author != nil {
		author = *report.Author
	} else if err := s.db.Where("id = ?", report.AuthorID).First(&author).Error; err != nil {
		return
	}
	if author.Email == "" {
		return
	}

	subject := fmt.Sprintf("Update on your report: %s", report.Title)
	body := fmt.Sprintf("<p>%s</p><p>Report: %s</p>",
		template.HTMLEscapeString(notification.Message),
		template.HTMLEscapeString(report.Title),
	)
	if err := config.SendMail([]string{author.Email}, subject, body); err != nil {
		log.Printf("Failed to send status email to %s: %v", author.Email, err)
	}
}
