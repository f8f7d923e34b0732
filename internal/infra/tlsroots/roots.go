package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// MinVersion is the lowest TLS version either side accepts.
const MinVersion = tls.VersionTLS12

// ErrNoCertsFound is returned when PEM data holds no certificate.
var ErrNoCertsFound = errors.New("tlsroots: no certificates found in PEM data")

// Pool is a set of trusted CA certificates.
type Pool struct {
	certPool *x509.CertPool
}

// NewPool creates a pool seeded with the system roots. It falls back to an
// empty pool where the system store is unavailable.
func NewPool() *Pool {
	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}
	return &Pool{certPool: pool}
}

// NewEmptyPool creates a pool without system roots.
func NewEmptyPool() *Pool {
	return &Pool{certPool: x509.NewCertPool()}
}

// LoadCAFile returns an empty pool holding only the certificates in path.
func LoadCAFile(path string) (*Pool, error) {
	p := NewEmptyPool()
	if err := p.AddCertFile(path); err != nil {
		return nil, err
	}
	return p, nil
}

// AddCertFile adds every certificate in a PEM file.
func (p *Pool) AddCertFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("tlsroots: read %s: %w", path, err)
	}
	if err := p.AddCertPEM(data); err != nil {
		return fmt.Errorf("%w: %s", err, path)
	}
	return nil
}

// AddCertPEM adds every CERTIFICATE block in pemData. Other block types
// are skipped.
func (p *Pool) AddCertPEM(pemData []byte) error {
	added := 0
	for len(pemData) > 0 {
		var block *pem.Block
		block, pemData = pem.Decode(pemData)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return fmt.Errorf("tlsroots: parse certificate: %w", err)
		}
		p.certPool.AddCert(cert)
		added++
	}

	if added == 0 {
		return ErrNoCertsFound
	}
	return nil
}

// CertPool returns the underlying x509.CertPool.
func (p *Pool) CertPool() *x509.CertPool {
	return p.certPool
}

// ClientConfig returns a client TLS config that verifies servers against
// the pool. serverName overrides the name checked in the certificate.
func (p *Pool) ClientConfig(serverName string) *tls.Config {
	return &tls.Config{
		RootCAs:    p.certPool,
		ServerName: serverName,
		MinVersion: MinVersion,
	}
}
