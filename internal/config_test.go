package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled"}
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.AuthEnabled())
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, AuthModeDisabled, cfg.Mode)
}

func TestAuthConfig_TokenMode(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.AuthEnabled())

	cfg.Token = ""
	assert.ErrorContains(t, cfg.Validate(), "token is empty")
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	assert.Error(t, cfg.Validate())
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.SQLite.Enabled())
}

func TestLibraryConfig_Validation(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Library.Path = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Regexp(t, `^library: `, err.Error())

	cfg = NewDefaultConfig()
	cfg.Library.Concurrency = -1
	assert.Error(t, cfg.Validate(), "negative concurrency")
}

func TestHTTPConfig_Port(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.HTTP.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg.App.HTTP.Port = 9090
	assert.Equal(t, ":9090", cfg.App.HTTP.Address())
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	assert.Error(t, cfg.Validate())
}
