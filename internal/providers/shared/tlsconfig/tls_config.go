package tlsconfig

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"strings"

	"github.com/crmarques/shopctl/config"
	"github.com/crmarques/shopctl/faults"
)

// ForShop returns nil when the shop keeps the default verification.
func ForShop(shop config.Shop) (*tls.Config, error) {
	settings := shop.TLS
	if settings == nil {
		return nil, nil
	}

	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: settings.InsecureSkipVerify, //nolint:gosec // opt-in for local mocks
	}

	caFile := strings.TrimSpace(settings.CACertFile)
	if caFile == "" {
		return tlsConfig, nil
	}

	caBytes, err := os.ReadFile(caFile)
	if err != nil {
		return nil, validationError("shop.tls.ca-cert-file could not be read", err)
	}

	pool := x509.NewCertPool()
	if ok := pool.AppendCertsFromPEM(caBytes); !ok {
		return nil, validationError("shop.tls.ca-cert-file is not valid PEM", nil)
	}
	tlsConfig.RootCAs = pool

	return tlsConfig, nil
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}
