package services

import (
	"fmt"
	"log"
	"os"

	"github.com/resend/resend-go/v2"

	"github.com/FGSParent/models"
)

// EmailService sends transactional email via Resend. It is the fallback
// channel for parents who have no registered push device.
type EmailService struct {
	client *resend.Client
	from   string
}

// NewEmailService builds the service from RESEND_API_KEY and
// EMAIL_FROM_ADDRESS. Without an API key the service stays inert and every
// send returns an error, which callers log and move on from.
func NewEmailService() *EmailService {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		log.Println("WARNING: RESEND_API_KEY not set. Email service will not be available.")
		return &EmailService{}
	}

	from := os.Getenv("EMAIL_FROM_ADDRESS")
	if from == "" {
		from = "FGS Parent <notifications@fgsparent.app>"
	}

	log.Println("Email service initialized successfully with Resend")
	return &EmailService{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// SendClaimSubmittedEmail tells a parent that a child submitted a prayer
// claim awaiting their review.
func (s *EmailService) SendClaimSubmittedEmail(toEmail string, parentName string, childName string, claim models.PrayerClaim) error {
	if s.client == nil {
		return fmt.Errorf("email service not initialized")
	}

	greeting := "Hi"
	if parentName != "" {
		greeting = fmt.Sprintf("Hi %s", parentName)
	}

	backdatedNote := ""
	if claim.Backdated {
		backdatedNote = `<p><em>This claim was backdated, so it may be worth a closer look.</em></p>`
	}

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #90c590;">New prayer claim</h2>
    <p>%s,</p>
    <p><strong>%s</strong> says they prayed <strong>%s</strong> on %s and is waiting for your approval (%d points).</p>
    %s
    <p>Open the FGS Parent app to approve or deny this claim.</p>
</body>
</html>`, greeting, childName, claim.PrayerName, claim.ClaimedDate, claim.Points, backdatedNote)

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: fmt.Sprintf("%s claimed %s", childName, claim.PrayerName),
		Html:    htmlBody,
	}

	if _, err := s.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send claim email to %s: %v", toEmail, err)
	}
	return nil
}
