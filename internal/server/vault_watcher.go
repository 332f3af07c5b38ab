package server

import (
	"fmt"
	"sync"
	"time"

	"resumeforge/internal/config"
	"resumeforge/internal/errors"
)

// VaultClientInterface defines the Vault operations the watcher needs
type VaultClientInterface interface {
	GetSecretV2(path string) (*config.VaultSecret, error)
	GetStringSecret(path, key string) (string, error)
	GetStringSliceSecret(path, key string) ([]string, error)
}

// CertificateData holds certificate material fetched from Vault
type CertificateData struct {
	CertContent string
	KeyContent  string
	CAContent   string
}

// VaultReloadCallback receives new certificate data, or the fetch error
type VaultReloadCallback func(data *CertificateData, err error)

// VaultWatcher polls a Vault KV v2 secret and fires the callback whenever
// the secret version advances. Version comparison keeps the callback quiet
// while the secret is unchanged, so the poll interval can be short.
type VaultWatcher struct {
	mu sync.RWMutex

	client       VaultClientInterface
	secretPath   string
	pollInterval time.Duration
	onReload     VaultReloadCallback
	logger       *errors.Logger

	lastVersion int64
	running     bool
	stop        chan struct{}
}

// NewVaultWatcher creates a watcher over the given secret path
func NewVaultWatcher(client VaultClientInterface, secretPath string, pollInterval time.Duration, onReload VaultReloadCallback, logger *errors.Logger) *VaultWatcher {
	return &VaultWatcher{
		client:       client,
		secretPath:   secretPath,
		pollInterval: pollInterval,
		onReload:     onReload,
		logger:       logger,
		stop:         make(chan struct{}),
	}
}

// Start begins polling Vault
func (vw *VaultWatcher) Start() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()

	if vw.running {
		return fmt.Errorf("vault watcher is already running")
	}
	vw.running = true
	go vw.poll()

	vw.logger.Info("Vault watcher started", "secret_path", vw.secretPath, "poll_interval", vw.pollInterval)
	return nil
}

// Stop halts the polling loop
func (vw *VaultWatcher) Stop() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()

	if !vw.running {
		return nil
	}
	close(vw.stop)
	vw.running = false

	vw.logger.Info("Vault watcher stopped")
	return nil
}

func (vw *VaultWatcher) poll() {
	ticker := time.NewTicker(vw.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			vw.sync()
		case <-vw.stop:
			return
		}
	}
}

// sync checks the secret version and pushes fresh certificate data to the
// callback when it advanced
func (vw *VaultWatcher) sync() {
	changed, err := vw.checkForUpdates()
	if err != nil {
		vw.logger.LogError(err, "Failed to check Vault for updates")
		return
	}
	if !changed {
		return
	}

	vw.logger.Info("Vault secret changed, fetching new certificate data...")
	data, err := vw.fetchCertificateData()
	if err != nil {
		vw.logger.LogError(err, "Failed to fetch new certificate data from Vault")
		vw.onReload(nil, err)
		return
	}

	vw.logger.Info("New certificate data fetched from Vault, triggering reload")
	vw.onReload(data, nil)
}

// checkForUpdates reports whether the secret version has advanced
func (vw *VaultWatcher) checkForUpdates() (bool, error) {
	secret, err := vw.client.GetSecretV2(vw.secretPath)
	if err != nil {
		return false, fmt.Errorf("failed to read secret: %w", err)
	}
	if secret == nil || secret.Version <= vw.lastVersion {
		return false, nil
	}
	vw.lastVersion = secret.Version
	return true, nil
}

func (vw *VaultWatcher) fetchCertificateData() (*CertificateData, error) {
	secret, err := vw.client.GetSecretV2(vw.secretPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch new TLS data from vault: %w", err)
	}
	if secret == nil {
		return nil, fmt.Errorf("secret not found at %s", vw.secretPath)
	}

	data := &CertificateData{}
	targets := map[string]*string{
		"cert": &data.CertContent,
		"key":  &data.KeyContent,
		"ca":   &data.CAContent,
	}
	for key, dst := range targets {
		if value, ok := secret.Data[key].(string); ok {
			*dst = value
		}
	}
	return data, nil
}

// Status reports watcher state for health endpoints
func (vw *VaultWatcher) Status() map[string]any {
	vw.mu.RLock()
	defer vw.mu.RUnlock()

	return map[string]any{
		"running":       vw.running,
		"poll_interval": vw.pollInterval.String(),
		"secret_path":   vw.secretPath,
		"last_version":  vw.lastVersion,
	}
}
