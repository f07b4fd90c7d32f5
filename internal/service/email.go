package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/logger"
)

const timeLayout = "2006-01-02 15:04"

type sendClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type emailService struct {
	client    sendClient
	fromEmail string
	fromName  string
}

// NewEmailService returns a SendGrid-backed EmailService. With an empty API
// key messages are only logged.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	if apiKey == "" {
		logger.Warn("SendGrid API key not configured, emails will be logged only")
		return &emailService{fromEmail: fromEmail, fromName: fromName}
	}
	return &emailService{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func newEmailServiceWithClient(client sendClient, fromEmail, fromName string) *emailService {
	return &emailService{client: client, fromEmail: fromEmail, fromName: fromName}
}

func (s *emailService) send(ctx context.Context, to, toName, subject, body string) error {
	if to == "" {
		logger.DebugContext(ctx, "Skipping email, recipient has no address", "subject", subject)
		return nil
	}
	if s.client == nil {
		logger.InfoContext(ctx, "Email (not sent)", "to", to, "subject", subject)
		return nil
	}

	message := mail.NewSingleEmail(
		mail.NewEmail(s.fromName, s.fromEmail),
		subject,
		mail.NewEmail(toName, to),
		body,
		"",
	)

	started := time.Now()
	logger.ExternalServiceCall(ctx, "sendgrid", "send", "to", to, "subject", subject)
	response, err := s.client.SendWithContext(ctx, message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult(ctx, "sendgrid", "send", err, "duration_ms", time.Since(started).Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *emailService) SendRentalConfirmation(ctx context.Context, user *domain.User, boat *domain.Boat, rental *domain.Rental) error {
	subject := fmt.Sprintf("Boat rented: %s", boat.Name)
	body := fmt.Sprintf("Hello %s,\n\nYou rented %s at %s for %s.\nPlease return it through the app when you are back ashore.\n\nSailing Club",
		user.Username, boat.Name, rental.RentalTime.Format(timeLayout), rental.Price)
	return s.send(ctx, user.Email, user.Username, subject, body)
}

func (s *emailService) SendReturnConfirmation(ctx context.Context, user *domain.User, boat *domain.Boat, rental *domain.Rental) error {
	returned := time.Now()
	if rental.ReturnTime != nil {
		returned = *rental.ReturnTime
	}
	subject := fmt.Sprintf("Boat returned: %s", boat.Name)
	body := fmt.Sprintf("Hello %s,\n\nThanks for returning %s at %s.\n\nSailing Club",
		user.Username, boat.Name, returned.Format(timeLayout))
	return s.send(ctx, user.Email, user.Username, subject, body)
}

func (s *emailService) SendRentalReminder(ctx context.Context, user *domain.User, boat *domain.Boat, rental *domain.Rental) error {
	subject := fmt.Sprintf("Reminder: %s is still checked out", boat.Name)
	body := fmt.Sprintf("Hello %s,\n\nYou have had %s since %s. If you are back, please return it in the app.\n\nSailing Club",
		user.Username, boat.Name, rental.RentalTime.Format(timeLayout))
	return s.send(ctx, user.Email, user.Username, subject, body)
}

func (s *emailService) SendSignupConfirmation(ctx context.Context, user *domain.User, activity *domain.Activity) error {
	subject := fmt.Sprintf("Signed up: %s", activity.Title)
	body := fmt.Sprintf("Hello %s,\n\nYou are signed up for %s on %s at %s.\n\nSailing Club",
		user.Username, activity.Title, activity.StartTime.Format(timeLayout), activity.Location)
	return s.send(ctx, user.Email, user.Username, subject, body)
}
