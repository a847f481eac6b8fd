package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/codecraftwt/yau-coach-panel/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/resend/resend-go/v2"
)

var (
	ErrNoRecipients    = errors.New("roster has no parent emails")
	ErrMessageNotFound = errors.New("parent message not found")
)

// Resend caps batch sends at 100 emails per call.
const mailBatchSize = 100

type mailSender interface {
	Send(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
	SendBatch(ctx context.Context, params []*resend.SendEmailRequest) (*resend.BatchEmailResponse, error)
}

type resendSender struct {
	client *resend.Client
}

func (s resendSender) Send(
	ctx context.Context,
	params *resend.SendEmailRequest,
) (*resend.SendEmailResponse, error) {
	return s.client.Emails.SendWithContext(ctx, params)
}

func (s resendSender) SendBatch(
	ctx context.Context,
	params []*resend.SendEmailRequest,
) (*resend.BatchEmailResponse, error) {
	return s.client.Batch.SendWithContext(ctx, params)
}

type parentMessageGetter interface {
	GetByID(ctx context.Context, id string) (*models.ParentMessage, error)
}

// MailService sends one-off emails to the parents of a roster through
// Resend. Each parent gets an individual email rather than a shared To list.
type MailService struct {
	rosterRepo     rosterReader
	parentMessages parentMessageGetter
	sender         mailSender
	from           string
}

func NewMailService(
	rosterRepo rosterReader,
	parentMessageRepo parentMessageGetter,
	apiKey string,
	from string,
) *MailService {
	return &MailService{
		rosterRepo:     rosterRepo,
		parentMessages: parentMessageRepo,
		sender:         resendSender{client: resend.NewClient(apiKey)},
		from:           from,
	}
}

func newMailServiceWithSender(
	rosterRepo rosterReader,
	parentMessages parentMessageGetter,
	sender mailSender,
	from string,
) *MailService {
	return &MailService{
		rosterRepo:     rosterRepo,
		parentMessages: parentMessages,
		sender:         sender,
		from:           from,
	}
}

type BulkEmailInput struct {
	RosterID string
	Subject  string
	Body     string
}

// EmailRosterParents sends input.Body to every distinct parent email on the
// roster and returns how many emails were queued. The roster must belong to
// the coach.
func (s *MailService) EmailRosterParents(
	ctx context.Context,
	coachID int64,
	input BulkEmailInput,
) (int, error) {
	input.Subject = strings.TrimSpace(input.Subject)
	input.Body = strings.TrimSpace(input.Body)
	if input.RosterID == "" || input.Subject == "" || input.Body == "" {
		return 0, ErrInvalidInput
	}

	roster, err := s.rosterRepo.GetByID(ctx, input.RosterID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrRosterNotFound
		}
		return 0, err
	}
	if roster.CoachID != coachID {
		return 0, ErrForbidden
	}

	recipients := parentEmails(roster)
	if len(recipients) == 0 {
		return 0, ErrNoRecipients
	}

	params := make([]*resend.SendEmailRequest, 0, len(recipients))
	for _, to := range recipients {
		params = append(params, &resend.SendEmailRequest{
			From:    s.from,
			To:      []string{to},
			Subject: input.Subject,
			Text:    input.Body,
		})
	}

	sent := 0
	for start := 0; start < len(params); start += mailBatchSize {
		end := start + mailBatchSize
		if end > len(params) {
			end = len(params)
		}
		if _, err := s.sender.SendBatch(ctx, params[start:end]); err != nil {
			return sent, fmt.Errorf("batch send failed: %w", err)
		}
		sent += end - start
	}
	log.Printf("mail: queued %d parent emails for roster %s", sent, roster.ID)
	return sent, nil
}

// ReplyToParent emails a response to a single inbound parent message. The
// message's roster must belong to the coach.
func (s *MailService) ReplyToParent(
	ctx context.Context,
	coachID int64,
	messageID string,
	body string,
) error {
	body = strings.TrimSpace(body)
	if messageID == "" || body == "" {
		return ErrInvalidInput
	}

	message, err := s.parentMessages.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrMessageNotFound
		}
		return err
	}
	roster, err := s.rosterRepo.GetByID(ctx, message.RosterID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrRosterNotFound
		}
		return err
	}
	if roster.CoachID != coachID {
		return ErrForbidden
	}

	subject := "Message from your coach"
	if message.Subject != nil && strings.TrimSpace(*message.Subject) != "" {
		subject = "Re: " + strings.TrimSpace(*message.Subject)
	}
	if _, err := s.sender.Send(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{message.ParentEmail},
		Subject: subject,
		Text:    body,
	}); err != nil {
		return fmt.Errorf("reply send failed: %w", err)
	}
	log.Printf("mail: replied to parent message %s", message.ID)
	return nil
}

func parentEmails(roster *models.Roster) []string {
	seen := make(map[string]struct{})
	emails := make([]string, 0, len(roster.Participants))
	for _, player := range roster.Participants {
		if player.ParentEmail == nil {
			continue
		}
		email := strings.ToLower(strings.TrimSpace(*player.ParentEmail))
		if email == "" {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		emails = append(emails, email)
	}
	return emails
}
