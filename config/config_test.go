package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_TTL", "")
	t.Setenv("SEARCH_BACKEND", "")
	t.Setenv("STORAGE_DRIVER", "")

	cfg := Load()
	require.Equal(t, 24*time.Hour, cfg.JWTTTL)
	require.False(t, cfg.UseMemoryStorage())
	require.Equal(t, "postgres", cfg.SearchBackend)
	require.False(t, cfg.UseElasticsearch())
}

func TestLoadOverridesAndFallbacks(t *testing.T) {
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("DB_MAX_CONNS", "not-a-number")
	t.Setenv("MAIL_SEND_ENABLED", "false")
	t.Setenv("SEARCH_BACKEND", "Elasticsearch")
	t.Setenv("ELASTICSEARCH_ADDRS", " http://es1:9200, ,http://es2:9200 ")
	t.Setenv("STORAGE_DRIVER", "MEMORY")

	cfg := Load()
	require.Equal(t, 2*time.Hour, cfg.JWTTTL)
	require.Equal(t, int32(10), cfg.DBMaxConns)
	require.False(t, cfg.MailSendEnabled)
	require.True(t, cfg.UseElasticsearch())
	require.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, cfg.ESAddrs())
	require.True(t, cfg.UseMemoryStorage())
}

func TestAcceptInvitationURL(t *testing.T) {
	cfg := &Config{ClientURL: "https://app.example.com/"}
	require.Equal(t, "https://app.example.com/accept-invitation/abc", cfg.AcceptInvitationURL("abc"))
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	require.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", cfg.PostgresDSN())
}
