package mailer

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/deploydash/config"
	tpl "github.com/oksasatya/deploydash/pkg/mailer/templates"
)

// InvitationNotice describes one invitation email to send.
type InvitationNotice struct {
	To          string
	TeamName    string
	Token       string
	InviterName string
}

// QueueNotifier turns invitation notices into template jobs on the dispatcher.
type QueueNotifier struct {
	Dispatcher *Dispatcher
	Cfg        *config.Config
}

func NewQueueNotifier(d *Dispatcher, cfg *config.Config) *QueueNotifier {
	return &QueueNotifier{Dispatcher: d, Cfg: cfg}
}

func (n *QueueNotifier) NotifyInvitation(_ context.Context, notice InvitationNotice) {
	data := tpl.NewTeamInvitationData(n.Cfg, notice.To, notice.TeamName, notice.Token,
		tpl.WithInviter(notice.InviterName),
		tpl.WithTime(time.Now()),
	)
	n.Dispatcher.Enqueue(EmailJob{To: notice.To, Template: tpl.TeamInvitation, Data: data})
}

// LogNotifier only logs; used when mail sending is disabled or the queue is unreachable.
type LogNotifier struct {
	Logger *logrus.Logger
}

func (n LogNotifier) NotifyInvitation(_ context.Context, notice InvitationNotice) {
	n.Logger.WithFields(logrus.Fields{
		"to":   notice.To,
		"team": notice.TeamName,
	}).Info("invitation email not sent: mail sending disabled")
}
