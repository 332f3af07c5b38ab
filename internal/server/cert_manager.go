package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"
	"time"

	"resumeforge/internal/config"
	"resumeforge/internal/errors"
	"resumeforge/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ReloadCallback is invoked after each certificate reload attempt
type ReloadCallback func(success bool, err error)

// CertificateManager holds the live TLS certificates and keeps them fresh.
// File-based certificates are refreshed through a filesystem watcher,
// Vault-delivered content through a polling watcher. All certificate reads
// during handshakes go through the manager so a reload swaps material
// without restarting the listener.
type CertificateManager struct {
	mu sync.RWMutex

	serverCert       *tls.Certificate
	clientCert       *tls.Certificate
	caCertPool       *x509.CertPool
	serverCertExpiry time.Time
	clientCertExpiry time.Time

	config           *config.TLSConfig
	autoReloadConfig *config.AutoReloadConfig
	vaultClient      VaultClientInterface

	files *CertWatcher
	vault *VaultWatcher

	reloadCallbacks []ReloadCallback
	reloads         int64
	lastReload      time.Time

	observabilityManager *observability.ObservabilityManager
	logger               *errors.Logger

	done      chan struct{}
	closeOnce sync.Once
}

// NewCertificateManager creates a certificate manager for the given TLS config
func NewCertificateManager(tlsConfig *config.TLSConfig, autoReloadConfig *config.AutoReloadConfig, vaultClient VaultClientInterface, om *observability.ObservabilityManager, logger *errors.Logger) *CertificateManager {
	return &CertificateManager{
		config:               tlsConfig,
		autoReloadConfig:     autoReloadConfig,
		vaultClient:          vaultClient,
		observabilityManager: om,
		logger:               logger,
		done:                 make(chan struct{}),
	}
}

// Start loads the initial certificates and launches the configured watchers
func (cm *CertificateManager) Start() error {
	if err := cm.refresh(); err != nil {
		return fmt.Errorf("failed to load initial certificates: %w", err)
	}

	cm.monitorExpiry()

	if err := cm.watchFiles(); err != nil {
		return err
	}
	return cm.watchVault()
}

// Stop halts all watchers and the expiry monitor
func (cm *CertificateManager) Stop() error {
	cm.closeOnce.Do(func() { close(cm.done) })

	if cm.files != nil {
		if err := cm.files.Stop(); err != nil {
			cm.logger.LogError(err, "Failed to stop file watcher")
			return err
		}
	}
	if cm.vault != nil {
		if err := cm.vault.Stop(); err != nil {
			cm.logger.LogError(err, "Failed to stop Vault watcher")
			return err
		}
	}

	cm.logger.Info("Certificate manager stopped")
	return nil
}

// watchFiles starts the filesystem watcher when file-based certs are in use
func (cm *CertificateManager) watchFiles() error {
	if cm.autoReloadConfig == nil || !cm.autoReloadConfig.FileWatcher.Enabled {
		return nil
	}
	if cm.config.CertFile == "" && cm.config.KeyFile == "" && cm.config.CAFile == "" {
		return nil
	}

	watcher, err := NewCertWatcher(
		cm.config.CertFile,
		cm.config.KeyFile,
		cm.config.CAFile,
		cm.autoReloadConfig.FileWatcher.DebounceDelay,
		cm.reload,
		cm.logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	cm.files = watcher

	cm.logger.Info("Certificate file watcher started",
		"cert_file", cm.config.CertFile,
		"key_file", cm.config.KeyFile,
		"ca_file", cm.config.CAFile)
	return nil
}

// watchVault starts the Vault poller when content-based certs are in use
func (cm *CertificateManager) watchVault() error {
	if cm.autoReloadConfig == nil || !cm.autoReloadConfig.VaultWatcher.Enabled {
		return nil
	}
	if cm.config.CertContent == "" && cm.config.KeyContent == "" && cm.config.CAContent == "" {
		return nil
	}
	if cm.vaultClient == nil {
		cm.logger.Warn("Vault watcher enabled but Vault client is nil")
		return nil
	}

	watcher := NewVaultWatcher(
		cm.vaultClient,
		cm.autoReloadConfig.VaultWatcher.SecretPath,
		cm.autoReloadConfig.VaultWatcher.PollInterval,
		cm.applyVaultCertificates,
		cm.logger,
	)
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("failed to start Vault watcher: %w", err)
	}
	cm.vault = watcher

	cm.logger.Info("Vault watcher started",
		"secret_path", cm.autoReloadConfig.VaultWatcher.SecretPath,
		"poll_interval", cm.autoReloadConfig.VaultWatcher.PollInterval)
	return nil
}

// applyVaultCertificates swaps in new material delivered by the Vault watcher
func (cm *CertificateManager) applyVaultCertificates(data *CertificateData, err error) {
	if err != nil {
		cm.logger.LogError(err, "Failed to fetch new certificate data from Vault")
		return
	}

	cm.mu.Lock()
	if data.CertContent != "" {
		cm.config.CertContent = data.CertContent
	}
	if data.KeyContent != "" {
		cm.config.KeyContent = data.KeyContent
	}
	if data.CAContent != "" {
		cm.config.CAContent = data.CAContent
	}
	cm.mu.Unlock()

	cm.reload()
}

// GetServerCertificate serves the current certificate during TLS handshakes.
// When the certificate is inside the preemptive renewal window a background
// reload is kicked off so the next handshake gets fresh material.
func (cm *CertificateManager) GetServerCertificate(hello *tls.ClientHelloInfo) (*tls.Certificate, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.serverCert == nil {
		return nil, fmt.Errorf("no server certificate available")
	}
	if time.Now().After(cm.serverCertExpiry) {
		cm.logger.LogError(fmt.Errorf("server certificate expired"), "Server certificate expired",
			"expiry", cm.serverCertExpiry,
			"server_name", hello.ServerName)
		return nil, fmt.Errorf("server certificate expired")
	}

	if window := cm.renewalWindow(); window > 0 && time.Now().After(cm.serverCertExpiry.Add(-window)) {
		go cm.reload()
	}

	return cm.serverCert, nil
}

func (cm *CertificateManager) renewalWindow() time.Duration {
	if cm.autoReloadConfig == nil {
		return 0
	}
	return cm.autoReloadConfig.PreemptiveRenewal
}

// GetClientCertificate returns the current client certificate for mutual TLS
func (cm *CertificateManager) GetClientCertificate() (*tls.Certificate, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.clientCert == nil {
		return nil, fmt.Errorf("no client certificate available")
	}
	if time.Now().After(cm.clientCertExpiry) {
		cm.logger.LogError(fmt.Errorf("client certificate expired"), "Client certificate expired", "expiry", cm.clientCertExpiry)
		return nil, fmt.Errorf("client certificate expired")
	}
	return cm.clientCert, nil
}

// VerifyPeerCertificate validates a peer certificate against the current CA pool
func (cm *CertificateManager) VerifyPeerCertificate(rawCerts [][]byte, verifiedChains [][]*x509.Certificate) error {
	if len(rawCerts) == 0 {
		return fmt.Errorf("no peer certificates provided")
	}

	cert, err := x509.ParseCertificate(rawCerts[0])
	if err != nil {
		return fmt.Errorf("failed to parse peer certificate: %w", err)
	}

	cm.mu.RLock()
	pool := cm.caCertPool
	cm.mu.RUnlock()
	if pool == nil {
		return fmt.Errorf("no CA certificate pool available")
	}

	if _, err := cert.Verify(x509.VerifyOptions{Roots: pool}); err != nil {
		return fmt.Errorf("peer certificate verification failed: %w", err)
	}
	return nil
}

// AddReloadCallback registers a callback for reload outcomes
func (cm *CertificateManager) AddReloadCallback(callback ReloadCallback) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.reloadCallbacks = append(cm.reloadCallbacks, callback)
}

// GetCertificateExpiry returns when the server certificate expires
func (cm *CertificateManager) GetCertificateExpiry() (time.Time, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.serverCertExpiry.IsZero() {
		return time.Time{}, fmt.Errorf("no certificates loaded")
	}
	return cm.serverCertExpiry, nil
}

// ReloadCount returns the number of reload attempts so far
func (cm *CertificateManager) ReloadCount() int64 {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.reloads
}

// refresh parses the configured certificate material and swaps it in under
// the write lock. Inline content takes precedence over file paths.
func (cm *CertificateManager) refresh() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	serverCert, expiry, err := cm.loadServerPair()
	if err != nil {
		return err
	}

	var caPool *x509.CertPool
	if cm.config.Mode == "mutual" {
		if caPool, err = cm.loadCAPool(); err != nil {
			return err
		}
	}

	cm.serverCert = serverCert
	if serverCert != nil {
		cm.serverCertExpiry = expiry
	}
	cm.caCertPool = caPool
	cm.reloads++
	cm.lastReload = time.Now()
	cm.emitReloadMetric(true, nil)

	for _, callback := range cm.reloadCallbacks {
		go callback(true, nil)
	}

	cm.logger.Info("Certificates reloaded successfully",
		"server_cert_expiry", cm.serverCertExpiry,
		"reload_time", cm.lastReload)
	return nil
}

func (cm *CertificateManager) loadServerPair() (*tls.Certificate, time.Time, error) {
	var cert tls.Certificate
	var err error

	switch {
	case cm.config.CertContent != "" && cm.config.KeyContent != "":
		cert, err = tls.X509KeyPair([]byte(cm.config.CertContent), []byte(cm.config.KeyContent))
	case cm.config.CertFile != "" && cm.config.KeyFile != "":
		cert, err = tls.LoadX509KeyPair(cm.config.CertFile, cm.config.KeyFile)
	default:
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}

	var expiry time.Time
	if len(cert.Certificate) > 0 {
		leaf, err := x509.ParseCertificate(cert.Certificate[0])
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("failed to parse server certificate: %w", err)
		}
		expiry = leaf.NotAfter
	}
	return &cert, expiry, nil
}

func (cm *CertificateManager) loadCAPool() (*x509.CertPool, error) {
	var pem []byte
	switch {
	case cm.config.CAContent != "":
		pem = []byte(cm.config.CAContent)
	case cm.config.CAFile != "":
		data, err := os.ReadFile(cm.config.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA file: %w", err)
		}
		pem = data
	default:
		return nil, nil
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("failed to parse CA certificate")
	}
	return pool, nil
}

// reload is invoked by the watchers when certificate material changes
func (cm *CertificateManager) reload() {
	cm.logger.Info("Certificate reload triggered")

	if err := cm.refresh(); err != nil {
		cm.noteReloadFailure(err)
	}
}

func (cm *CertificateManager) noteReloadFailure(err error) {
	cm.mu.Lock()
	cm.reloads++
	cm.emitReloadMetric(false, err)
	callbacks := make([]ReloadCallback, len(cm.reloadCallbacks))
	copy(callbacks, cm.reloadCallbacks)
	cm.mu.Unlock()

	cm.logger.LogError(err, "Failed to reload certificates")
	for _, callback := range callbacks {
		go callback(false, err)
	}
}

// emitReloadMetric records the reload counter and refreshes the expiry
// gauge. Callers hold the lock.
func (cm *CertificateManager) emitReloadMetric(success bool, err error) {
	metrics := cm.certMetrics()
	if metrics == nil {
		return
	}

	attrs := []attribute.KeyValue{attribute.String("cert_type", "server")}
	if success {
		attrs = append(attrs, attribute.String("status", "success"))
	} else {
		msg := ""
		if err != nil {
			msg = err.Error()
		}
		attrs = append(attrs,
			attribute.String("status", "failure"),
			attribute.String("error", msg))
	}
	metrics.CertReloadCount.Add(context.Background(), 1, metric.WithAttributes(attrs...))

	cm.emitExpiryGauge()
}

func (cm *CertificateManager) certMetrics() *observability.Metrics {
	if cm.observabilityManager == nil {
		return nil
	}
	return cm.observabilityManager.GetMetrics()
}

// emitExpiryGauge publishes seconds-until-expiry per certificate type.
// Callers hold at least the read lock.
func (cm *CertificateManager) emitExpiryGauge() {
	metrics := cm.certMetrics()
	if metrics == nil {
		return
	}

	ctx := context.Background()
	now := time.Now()
	if !cm.serverCertExpiry.IsZero() {
		metrics.CertExpiryTime.Record(ctx, cm.serverCertExpiry.Sub(now).Seconds(),
			metric.WithAttributes(attribute.String("cert_type", "server")))
	}
	if !cm.clientCertExpiry.IsZero() {
		metrics.CertExpiryTime.Record(ctx, cm.clientCertExpiry.Sub(now).Seconds(),
			metric.WithAttributes(attribute.String("cert_type", "client")))
	}
}

// monitorExpiry refreshes the expiry gauge once a minute until Stop
func (cm *CertificateManager) monitorExpiry() {
	if cm.observabilityManager == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-cm.done:
				return
			case <-ticker.C:
				cm.mu.RLock()
				cm.emitExpiryGauge()
				cm.mu.RUnlock()
			}
		}
	}()

	cm.logger.Info("Certificate expiry monitoring started")
}
