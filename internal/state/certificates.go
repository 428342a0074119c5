package state

import (
	"sync"

	"github.com/atomicstack/shell-sync/internal/logging/events"
)

// CertificateStore keeps the user's TLS trust decisions keyed by server URL.
type CertificateStore interface {
	Trust(url, fingerprint string)
	Trusted(url string) (string, bool)
	Len() int
	Clear() error
}

type certificateStore struct {
	mu      sync.Mutex
	trusted map[string]string
}

// NewCertificateStore creates an empty trust store.
func NewCertificateStore() CertificateStore {
	return &certificateStore{trusted: map[string]string{}}
}

func (c *certificateStore) Trust(url, fingerprint string) {
	url = NormalizeURL(url)
	if url == "" {
		return
	}
	c.mu.Lock()
	c.trusted[url] = fingerprint
	c.mu.Unlock()
	events.Registry.Trust(url)
}

func (c *certificateStore) Trusted(url string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fp, ok := c.trusted[NormalizeURL(url)]
	return fp, ok
}

func (c *certificateStore) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.trusted)
}

func (c *certificateStore) Clear() error {
	c.mu.Lock()
	n := len(c.trusted)
	c.trusted = map[string]string{}
	c.mu.Unlock()
	events.Registry.ClearCertificates(n)
	return nil
}
