package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AUTH_JWT_SECRET", "test-signing-key-with-enough-length")
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("AUTH_VALIDATOR_MODE", "")
	t.Setenv("AUTH_CREDENTIAL_MODE", "")
	t.Setenv("AUTH_USER_HASHES", "")
	t.Setenv("AUTH_TOKEN_TTL_MINUTES", "")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	require.Equal(t, ValidatorModeLocal, cfg.Auth.ValidatorMode)
	require.Equal(t, CredentialModeStatic, cfg.Auth.CredentialMode)
	require.Equal(t, []string{"user", "admin"}, cfg.Auth.DemoUsers)
	require.Equal(t, "admin", cfg.Auth.AdminIdentity)
	require.Equal(t, 60, cfg.Auth.TokenTTLMinutes)
	require.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
}

func TestLoad_DSNSelectsPgx(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("POSTGRES_DSN", "postgres://localhost/products")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, StoreDriverPgx, cfg.Store.Driver)
}

func TestLoad_FailsFast(t *testing.T) {
	cases := []struct {
		name  string
		env   map[string]string
		field string
	}{
		{name: "missing signing key", env: map[string]string{"AUTH_JWT_SECRET": ""}, field: "AUTH_JWT_SECRET"},
		{name: "non positive ttl", env: map[string]string{"AUTH_TOKEN_TTL_MINUTES": "0"}, field: "AUTH_TOKEN_TTL_MINUTES"},
		{name: "oidc without tenant", env: map[string]string{"AUTH_VALIDATOR_MODE": "oidc", "OIDC_TENANT_ID": "", "OIDC_CLIENT_ID": "client"}, field: "OIDC_TENANT_ID"},
		{name: "gorm without dsn", env: map[string]string{"STORE_DRIVER": "gorm"}, field: "POSTGRES_DSN"},
		{name: "bcrypt without users", env: map[string]string{"AUTH_CREDENTIAL_MODE": "bcrypt"}, field: "AUTH_USER_HASHES"},
		{name: "malformed hashes", env: map[string]string{"AUTH_USER_HASHES": "alice"}, field: "AUTH_USER_HASHES"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			require.Equal(t, tc.field, cfgErr.Field)
		})
	}
}

func TestOIDCConfig_IssuerURL(t *testing.T) {
	o := OIDCConfig{Instance: "https://login.microsoftonline.com/", TenantID: "tenant-1", ClientID: "client-1"}
	require.Equal(t, "https://login.microsoftonline.com/tenant-1/v2.0", o.IssuerURL())
	require.Equal(t, "client-1", o.ExpectedAudience())

	o.Audience = "api://products"
	require.Equal(t, "api://products", o.ExpectedAudience())
}

func TestParseUserHashes(t *testing.T) {
	hashes, err := parseUserHashes("alice:$2a$10$abc, bob:$2a$10$def")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"alice": "$2a$10$abc", "bob": "$2a$10$def"}, hashes)
}
