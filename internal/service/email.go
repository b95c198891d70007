package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"clubstay-backend/internal/domain"
	"clubstay-backend/internal/logger"
	"clubstay-backend/internal/utils"
)

// mailClient is satisfied by *sendgrid.Client.
type mailClient interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

type emailService struct {
	client    mailClient
	fromEmail string
	fromName  string
	loc       *time.Location
}

// NewEmailService sends through SendGrid. Without an API key messages are
// only logged, which keeps local setups and the cron binary usable.
func NewEmailService(apiKey, fromEmail, fromName string, loc *time.Location) EmailService {
	var client mailClient = logOnlyClient{}
	if apiKey != "" {
		client = sendgrid.NewSendClient(apiKey)
	}
	return newEmailService(client, fromEmail, fromName, loc)
}

func newEmailService(client mailClient, fromEmail, fromName string, loc *time.Location) *emailService {
	return &emailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
		loc:       locationOrDefault(loc),
	}
}

func (s *emailService) SendArrivalsDigest(ctx context.Context, to string, day time.Time, checkIns, checkOuts []domain.Reservation) error {
	subject := fmt.Sprintf("Arrivals and departures for %s", day.In(s.loc).Format(utils.DateLayout))

	var b strings.Builder
	fmt.Fprintf(&b, "Expected check-ins: %d\n", len(checkIns))
	for _, r := range checkIns {
		fmt.Fprintf(&b, "  %s  %s  %s, %s (%d guests)\n", r.Code, r.GuestName, r.AccommodationName, r.Location, r.GuestCount)
	}
	fmt.Fprintf(&b, "\nExpected check-outs: %d\n", len(checkOuts))
	for _, r := range checkOuts {
		fmt.Fprintf(&b, "  %s  %s  %s, %s\n", r.Code, r.GuestName, r.AccommodationName, r.Location)
	}

	return s.send(to, subject, b.String())
}

func (s *emailService) SendPendingBillingReminder(ctx context.Context, to string, stats *domain.BillingStats, pending []domain.BillingRecord) error {
	subject := fmt.Sprintf("%d companion charges pending (%s)", stats.PendingCount, utils.FormatCents(stats.PendingAmountCents))

	var b strings.Builder
	fmt.Fprintf(&b, "Pending billing records: %d, total %s\n", stats.PendingCount, utils.FormatCents(stats.PendingAmountCents))
	fmt.Fprintf(&b, "Processed today: %d, total %s\n\n", stats.ProcessedTodayCount, utils.FormatCents(stats.ProcessedTodayCents))
	for _, r := range pending {
		fmt.Fprintf(&b, "  %s  %s (%s)  %d companions  %s  %s\n",
			r.AccessTime.In(s.loc).Format("2006-01-02 15:04"), r.MemberName, r.MemberCode,
			r.CompanionsCount, r.Location, utils.FormatCents(r.TotalAmountCents))
	}

	return s.send(to, subject, b.String())
}

func (s *emailService) send(to, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	logger.ExternalServiceCall("sendgrid", "send", "to", to, "subject", subject)
	response, err := s.client.Send(message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "send", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		err := fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "send", err)
		return err
	}
	logger.ExternalServiceResult("sendgrid", "send", nil, "status", response.StatusCode)
	return nil
}

type logOnlyClient struct{}

func (logOnlyClient) Send(email *mail.SGMailV3) (*rest.Response, error) {
	logger.Info("Email not sent, no SendGrid API key configured", "subject", email.Subject)
	return &rest.Response{StatusCode: 202}, nil
}
