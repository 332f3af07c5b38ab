package server

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeforge/internal/config"
	"resumeforge/internal/errors"
)

type fakeVaultClient struct {
	secrets map[string]*config.VaultSecret
}

func (f *fakeVaultClient) GetSecretV2(path string) (*config.VaultSecret, error) {
	if secret, exists := f.secrets[path]; exists {
		return secret, nil
	}
	return nil, nil
}

func (f *fakeVaultClient) GetStringSecret(path, key string) (string, error) {
	if secret, exists := f.secrets[path]; exists {
		if value, ok := secret.Data[key].(string); ok {
			return value, nil
		}
	}
	return "", nil
}

func (f *fakeVaultClient) GetStringSliceSecret(path, key string) ([]string, error) {
	if secret, exists := f.secrets[path]; exists {
		if value, ok := secret.Data[key].([]string); ok {
			return value, nil
		}
	}
	return nil, nil
}

func newTestVaultWatcher(client VaultClientInterface) *VaultWatcher {
	return NewVaultWatcher(
		client,
		"secret/data/tls",
		time.Minute,
		func(data *CertificateData, err error) {},
		errors.NewLogger(slog.LevelError),
	)
}

func TestVaultWatcherFetchCertificateData(t *testing.T) {
	client := &fakeVaultClient{
		secrets: map[string]*config.VaultSecret{
			"secret/data/tls": {
				Data: map[string]any{
					"cert": "new-cert-content",
					"key":  "new-key-content",
					"ca":   "new-ca-content",
				},
				Version: 1,
			},
		},
	}

	vw := newTestVaultWatcher(client)

	data, err := vw.fetchCertificateData()
	require.NoError(t, err)

	assert.Equal(t, "new-cert-content", data.CertContent)
	assert.Equal(t, "new-key-content", data.KeyContent)
	assert.Equal(t, "new-ca-content", data.CAContent)
}

func TestVaultWatcherCheckForUpdates(t *testing.T) {
	client := &fakeVaultClient{
		secrets: map[string]*config.VaultSecret{
			"secret/data/tls": {
				Data:    map[string]any{},
				Version: 2,
			},
		},
	}

	vw := newTestVaultWatcher(client)

	// First check sees version 2 against the initial zero
	changed, err := vw.checkForUpdates()
	require.NoError(t, err)
	assert.True(t, changed)

	// Version has not advanced, so no change
	changed, err = vw.checkForUpdates()
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestVaultWatcherStartStop(t *testing.T) {
	client := &fakeVaultClient{secrets: map[string]*config.VaultSecret{}}
	vw := newTestVaultWatcher(client)

	require.NoError(t, vw.Start())
	assert.Error(t, vw.Start())

	status := vw.Status()
	assert.Equal(t, true, status["running"])

	require.NoError(t, vw.Stop())
	require.NoError(t, vw.Stop())
}
