package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/deploydash/pkg/mailer"
)

func TestEnsureRecipientAndEmail(t *testing.T) {
	job := mailer.EmailJob{To: "a@x.com", Template: "team_invitation"}
	EnsureRecipientAndEmail(&job)
	require.Equal(t, "a@x.com", job.Data["Email"])
	require.Equal(t, "a@x.com", job.Data["RecipientEmail"])

	job = mailer.EmailJob{To: "a@x.com", Template: "team_invitation", Data: map[string]any{"Email": "other@x.com"}}
	EnsureRecipientAndEmail(&job)
	require.Equal(t, "other@x.com", job.Data["Email"])

	raw := mailer.EmailJob{To: "a@x.com", Subject: "s", Text: "t"}
	EnsureRecipientAndEmail(&raw)
	require.Nil(t, raw.Data)
}
