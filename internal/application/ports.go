package application

import (
	"context"

	"github.com/oksasatya/deploydash/pkg/deployagent"
	"github.com/oksasatya/deploydash/pkg/mailer"
)

// Identity is what an external identity provider vouches for.
type Identity struct {
	Email   string
	Name    string
	Picture string
	Subject string
}

// IdentityVerifier validates an opaque assertion issued by the identity provider.
type IdentityVerifier interface {
	Verify(ctx context.Context, assertion string) (Identity, error)
}

// AvatarStore copies a provider avatar to storage we control and returns its URL.
type AvatarStore interface {
	MirrorAvatar(ctx context.Context, userID, sourceURL string) (string, error)
}

// InvitationNotifier must not block the caller; delivery is best-effort.
type InvitationNotifier interface {
	NotifyInvitation(ctx context.Context, notice mailer.InvitationNotice)
}

// DeployAgent runs a deployment on the external agent, reporting log lines as they arrive.
type DeployAgent interface {
	Deploy(ctx context.Context, req deployagent.Request, onLog func(line string)) (*deployagent.Result, error)
}
