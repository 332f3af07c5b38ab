package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSecretVersionAcceptedTypes(t *testing.T) {
	for name, input := range map[string]any{
		"int64":   int64(42),
		"float64": float64(42.0),
		"string":  "42",
	} {
		t.Run(name, func(t *testing.T) {
			version, err := parseSecretVersion(input, "secret/test")
			require.NoError(t, err)
			assert.Equal(t, int64(42), version)
		})
	}
}

func TestParseSecretVersionRejected(t *testing.T) {
	for name, input := range map[string]any{
		"non-numeric string": "not-a-number",
		"nil":                nil,
		"slice":              []string{"42"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseSecretVersion(input, "secret/test")
			assert.Error(t, err)
		})
	}
}

func TestApplyGeminiKeyFillsEmptySlots(t *testing.T) {
	cfg := &Config{}
	applyGeminiKeyToConfig(cfg, "vault-gemini-key")

	assert.Equal(t, "vault-gemini-key", cfg.AI.APIKey)
	assert.Equal(t, "vault-gemini-key", cfg.AI.Analyze.APIKey)
	assert.Equal(t, "vault-gemini-key", cfg.AI.Suggest.APIKey)
}

func TestApplyGeminiKeyKeepsExplicitOperationKeys(t *testing.T) {
	cfg := &Config{
		AI: AIConfig{
			Analyze: OperationAIConfig{APIKey: "analyze-only-key"},
		},
	}
	applyGeminiKeyToConfig(cfg, "vault-gemini-key")

	assert.Equal(t, "vault-gemini-key", cfg.AI.APIKey)
	assert.Equal(t, "analyze-only-key", cfg.AI.Analyze.APIKey)
	assert.Equal(t, "vault-gemini-key", cfg.AI.Suggest.APIKey)
}

func writeTokenFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vault-token")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestResolveVaultTokenDirect(t *testing.T) {
	token, err := resolveVaultToken(VaultConfig{Token: "direct-token"})
	require.NoError(t, err)
	assert.Equal(t, "direct-token", token)
}

func TestResolveVaultTokenFromFile(t *testing.T) {
	path := writeTokenFile(t, "  file-token  \n")

	token, err := resolveVaultToken(VaultConfig{TokenFile: path})
	require.NoError(t, err)
	assert.Equal(t, "file-token", token, "token should be trimmed")
}

func TestResolveVaultTokenMissingFile(t *testing.T) {
	_, err := resolveVaultToken(VaultConfig{TokenFile: "/nonexistent/token/file"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read vault token file")
}

func TestResolveVaultTokenAbsent(t *testing.T) {
	_, err := resolveVaultToken(VaultConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vault token is required")
}

func TestResolveVaultTokenWhitespaceOnlyFile(t *testing.T) {
	path := writeTokenFile(t, "   \n  \n")

	_, err := resolveVaultToken(VaultConfig{TokenFile: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vault token is required")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "abcd****ijkl", maskSecret("abcdefghijkl"))
	assert.Equal(t, "****", maskSecret("short"))
	assert.Equal(t, "", maskSecret(""))
}

func TestGetSecretV2NilClient(t *testing.T) {
	var vc *VaultClient

	_, err := vc.GetSecretV2("secret/data/anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

func TestApplyVaultSecretsDisabledIsNoop(t *testing.T) {
	cfg := &Config{Vault: VaultConfig{Enabled: false}}
	assert.NoError(t, ApplyVaultSecrets(cfg, nil))
}

func TestNewVaultClientDisabled(t *testing.T) {
	client, err := NewVaultClient(VaultConfig{Enabled: false}, nil)
	require.NoError(t, err)
	assert.Nil(t, client)
}
