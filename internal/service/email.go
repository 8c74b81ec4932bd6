package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"library-backend/internal/config"
	"library-backend/internal/logger"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(cfg config.SendGridConfig) EmailService {
	return &emailService{
		apiKey:    cfg.APIKey,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

func (s *emailService) send(ctx context.Context, to, toName, subject, plainText, htmlContent string) error {
	if s.apiKey == "" {
		// No credentials configured, e.g. local development.
		logger.InfoContext(ctx, "email delivery skipped", "to", to, "subject", subject)
		return nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendOverdueNotice(ctx context.Context, email, name, bookTitle string, daysOverdue int64) error {
	subject := fmt.Sprintf("Overdue: %s", bookTitle)
	plainText := fmt.Sprintf("Your loan of %q is %d day(s) overdue. Please return it to avoid further fines.", bookTitle, daysOverdue)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Overdue Loan</h2>
				<p>Your loan of <strong>%s</strong> is <strong>%d day(s)</strong> overdue.</p>
				<p>Please return it as soon as possible to avoid further fines.</p>
			</body>
		</html>
	`, bookTitle, daysOverdue)
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *emailService) SendFineIssuedNotice(ctx context.Context, email, name, bookTitle string, amountCents int64) error {
	subject := fmt.Sprintf("Fine issued: %s", bookTitle)
	plainText := fmt.Sprintf("A fine of %s has been issued for your loan of %q.", formatCents(amountCents), bookTitle)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Fine Issued</h2>
				<p>A fine of <strong>%s</strong> has been issued for your loan of <strong>%s</strong>.</p>
			</body>
		</html>
	`, formatCents(amountCents), bookTitle)
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *emailService) SendFinePaidReceipt(ctx context.Context, email, name string, amountCents int64) error {
	subject := "Payment received"
	plainText := fmt.Sprintf("We received your fine payment of %s. Thank you.", formatCents(amountCents))
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Payment Received</h2>
				<p>We received your fine payment of <strong>%s</strong>. Thank you.</p>
			</body>
		</html>
	`, formatCents(amountCents))
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *emailService) SendReservationCancelledNotice(ctx context.Context, email, name, bookTitle, reason string) error {
	subject := fmt.Sprintf("Reservation cancelled: %s", bookTitle)
	plainText := fmt.Sprintf("Your reservation for %q was cancelled: %s.", bookTitle, reason)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Reservation Cancelled</h2>
				<p>Your reservation for <strong>%s</strong> was cancelled: %s.</p>
			</body>
		</html>
	`, bookTitle, reason)
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
