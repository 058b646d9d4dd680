package templates

import (
	"time"

	"github.com/oksasatya/deploydash/config"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithInviter(name string) Option { return func(d *EmailData) { d.InviterName = name } }

// NewBaseEmailData fills the common fields from config, then applies options.
func NewBaseEmailData(cfg *config.Config, typ string, name, email, recipient string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: recipient,
		Type:           typ,

		CompanyName: cfg.CompanyName,
		AppName:     cfg.AppName,

		LogoURL:    cfg.LogoURL,
		SupportURL: cfg.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewTeamInvitationData(cfg *config.Config, recipient, teamName, token string, opts ...Option) map[string]any {
	d := NewBaseEmailData(cfg, TeamInvitation, "", recipient, recipient, opts...)
	d.TeamName = teamName
	d.AcceptURL = cfg.AcceptInvitationURL(token)
	return ToMap(d)
}
