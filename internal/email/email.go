// Package email sends the tournament's transactional mail: player invites
// with check-in links, pre-tournament reminders, and password resets.
//
// The service has a dev mode: when no SMTP host is configured it logs what it
// would have sent (including the check-in URL, so you can click it locally)
// and reports success. That keeps every flow usable without mail credentials.
package email

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/trentd187/open-invitational/internal/config"
	"github.com/trentd187/open-invitational/internal/models"
	"github.com/wneessen/go-mail"
)

// Service sends mail over SMTP, or logs in dev mode.
type Service struct {
	cfg *config.Config
	log *logrus.Logger
}

// NewService builds the email service. It never dials at construction time;
// a connection is opened per send so a flaky SMTP server can't stop boot.
func NewService(cfg *config.Config, log *logrus.Logger) *Service {
	return &Service{cfg: cfg, log: log}
}

// devMode reports whether we should log instead of sending real mail.
func (s *Service) devMode() bool {
	return s.cfg.SMTPHost == ""
}

// CheckInURL builds the frontend link a player taps to confirm they're in.
func (s *Service) CheckInURL(inviteToken string) string {
	return fmt.Sprintf("%s/checkin/%s", s.cfg.FrontendURL, inviteToken)
}

// send delivers one message, building the SMTP client fresh each time.
func (s *Service) send(to, subject, textBody, htmlBody string) error {
	m := mail.NewMsg()
	if err := m.From(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(to); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextPlain, textBody)
	m.AddAlternativeString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(s.cfg.SMTPHost,
		mail.WithPort(s.cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.SMTPUser),
		mail.WithPassword(s.cfg.SMTPPass),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSend(m)
}

// formatDate renders a tournament date the way the emails show it,
// e.g. "Saturday, 12 September 2026".
func formatDate(t time.Time) string {
	return t.Format("Monday, 2 January 2006")
}

// SendPlayerInvite emails a player their game code and check-in link.
func (s *Service) SendPlayerInvite(player *models.GamePlayer, game *models.Game) error {
	checkInURL := s.CheckInURL(player.InviteToken)

	if s.devMode() {
		s.log.WithFields(logrus.Fields{
			"to":         player.Email,
			"checkInURL": checkInURL,
		}).Info("email dev mode: would send player invite")
		return nil
	}

	subject := fmt.Sprintf("You're invited to %s!", game.Name)
	text := fmt.Sprintf(
		"Hey %s!\n\nYou've been invited to %s!\n\nDate: %s\nGame Code: %s\n\nCheck in here: %s\n\nOr visit %s/tournament/%s\n\nSee you on the first tee!",
		player.Name, game.Name, formatDate(game.TournamentDate), game.GameCode, checkInURL, s.cfg.FrontendURL, game.GameCode,
	)
	html := inviteHTML(player.Name, game.Name, formatDate(game.TournamentDate), game.GameCode, checkInURL)

	if err := s.send(player.Email, subject, text, html); err != nil {
		s.log.WithError(err).WithField("to", player.Email).Error("failed to send invite")
		return err
	}
	s.log.WithField("to", player.Email).Info("invite sent")
	return nil
}

// SendReminder nudges a player who hasn't checked in yet.
func (s *Service) SendReminder(player *models.GamePlayer, game *models.Game, hoursUntil int) error {
	checkInURL := s.CheckInURL(player.InviteToken)

	if s.devMode() {
		s.log.WithField("to", player.Email).Info("email dev mode: would send reminder")
		return nil
	}

	subject := fmt.Sprintf("Reminder: %s is in %d hours!", game.Name, hoursUntil)
	text := fmt.Sprintf(
		"Hey %s!\n\nREMINDER: %s starts in %d hours and you haven't checked in yet.\n\nDate: %s\nGame Code: %s\n\nCheck in now: %s\n\nDon't miss out!",
		player.Name, game.Name, hoursUntil, formatDate(game.TournamentDate), game.GameCode, checkInURL,
	)
	html := reminderHTML(player.Name, game.Name, formatDate(game.TournamentDate), game.GameCode, checkInURL, hoursUntil)

	if err := s.send(player.Email, subject, text, html); err != nil {
		s.log.WithError(err).WithField("to", player.Email).Error("failed to send reminder")
		return err
	}
	s.log.WithField("to", player.Email).Info("reminder sent")
	return nil
}

// SendPasswordReset emails an account-holder their reset link.
func (s *Service) SendPasswordReset(to, name, resetToken string) error {
	resetURL := fmt.Sprintf("%s/reset-password/%s", s.cfg.FrontendURL, resetToken)

	if s.devMode() {
		s.log.WithFields(logrus.Fields{
			"to":       to,
			"resetURL": resetURL,
		}).Info("email dev mode: would send password reset")
		return nil
	}

	subject := "Reset your password"
	text := fmt.Sprintf(
		"Hi %s,\n\nSomeone requested a password reset for your account. The link below is valid for one hour:\n\n%s\n\nIf this wasn't you, you can ignore this email.",
		name, resetURL,
	)
	html := resetHTML(name, resetURL)

	if err := s.send(to, subject, text, html); err != nil {
		s.log.WithError(err).WithField("to", to).Error("failed to send password reset")
		return err
	}
	s.log.WithField("to", to).Info("password reset sent")
	return nil
}
