// internal/common/tls/tls.go
package tls

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"
)

// Config представляет конфигурацию HTTPS сервера дашборда
type Config struct {
	CertFile   string
	KeyFile    string
	MinVersion string
}

// selfSignedValidity срок действия самоподписанного сертификата
const selfSignedValidity = 365 * 24 * time.Hour

// ServerConfig загружает пару сертификат/ключ и строит *tls.Config // v1.0
func ServerConfig(config Config) (*tls.Config, error) {
	if config.CertFile == "" || config.KeyFile == "" {
		return nil, fmt.Errorf("cert_file and key_file are required for TLS server")
	}

	minVersion, err := parseVersion(config.MinVersion)
	if err != nil {
		return nil, err
	}

	cert, err := tls.LoadX509KeyPair(config.CertFile, config.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load certificate and key: %w", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   minVersion,
		MaxVersion:   tls.VersionTLS13,
		CipherSuites: getSecureCipherSuites(),
	}, nil
}

// parseVersion переводит "1.2"/"1.3" в константу crypto/tls. Пусто означает 1.2. // v1.0
func parseVersion(v string) (uint16, error) {
	switch v {
	case "", "1.2":
		return tls.VersionTLS12, nil
	case "1.3":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("unsupported tls min_version %q: use 1.2 or 1.3", v)
	}
}

// getSecureCipherSuites возвращает безопасные наборы шифров TLS 1.2 // v1.0
func getSecureCipherSuites() []uint16 {
	return []uint16{
		tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
		tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
		tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
		tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
		tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305,
		tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305,
	}
}

// EnsureSelfSigned создает самоподписанную пару для localhost, если файлов еще нет.
// Возвращает true, если пара была сгенерирована. // v1.0
func EnsureSelfSigned(config Config, commonName string) (bool, error) {
	_, certErr := os.Stat(config.CertFile)
	_, keyErr := os.Stat(config.KeyFile)
	if certErr == nil && keyErr == nil {
		return false, nil
	}

	if err := GenerateSelfSignedCert(commonName, config.CertFile, config.KeyFile, selfSignedValidity); err != nil {
		return false, err
	}
	return true, nil
}

// GenerateSelfSignedCert генерирует самоподписанный сертификат // v1.0
func GenerateSelfSignedCert(commonName, certFile, keyFile string, validFor time.Duration) error {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return fmt.Errorf("failed to generate private key: %w", err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 62))
	if err != nil {
		return fmt.Errorf("failed to generate serial: %w", err)
	}

	now := time.Now()
	template := x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName:   commonName,
			Organization: []string{"honeydash"},
		},
		NotBefore:             now.Add(-time.Minute),
		NotAfter:              now.Add(validFor),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IPAddresses:           []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
		DNSNames:              []string{commonName, "localhost"},
	}

	derBytes, err := x509.CreateCertificate(rand.Reader, &template, &template, &privateKey.PublicKey, privateKey)
	if err != nil {
		return fmt.Errorf("failed to create certificate: %w", err)
	}

	if err := writePEM(certFile, 0o644, &pem.Block{Type: "CERTIFICATE", Bytes: derBytes}); err != nil {
		return fmt.Errorf("failed to write cert: %w", err)
	}

	keyBlock := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(privateKey)}
	if err := writePEM(keyFile, 0o600, keyBlock); err != nil {
		return fmt.Errorf("failed to write key: %w", err)
	}

	return nil
}

func writePEM(path string, perm os.FileMode, block *pem.Block) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer f.Close()

	return pem.Encode(f, block)
}

// CertificateInfo возвращает сведения о сертификате для логов // v1.0
func CertificateInfo(certFile string) (map[string]interface{}, error) {
	certPEM, err := os.ReadFile(certFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate file: %w", err)
	}

	block, _ := pem.Decode(certPEM)
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block")
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}

	return map[string]interface{}{
		"subject":   cert.Subject.CommonName,
		"issuer":    cert.Issuer.CommonName,
		"not_after": cert.NotAfter.UTC().Format(time.RFC3339),
		"dns_names": cert.DNSNames,
	}, nil
}
