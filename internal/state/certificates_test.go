package state

import "testing"

func TestCertificateStoreTrustAndClear(t *testing.T) {
	certs := NewCertificateStore()
	certs.Trust("https://chat.example/", "AA:BB")
	certs.Trust("  ", "ignored")

	if fp, ok := certs.Trusted("https://chat.example"); !ok || fp != "AA:BB" {
		t.Fatalf("expected trusted fingerprint, got %q %v", fp, ok)
	}
	if certs.Len() != 1 {
		t.Fatalf("expected one decision, got %d", certs.Len())
	}
	if err := certs.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := certs.Trusted("https://chat.example"); ok || certs.Len() != 0 {
		t.Fatalf("expected store to be empty after clear")
	}
}
