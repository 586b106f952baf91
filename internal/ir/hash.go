package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for algorithm migration.
const (
	DomainContainer = "diwire/container/v1"
	DomainLocator   = "diwire/locator/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ContainerHash computes the content hash of a compiled container: its
// service definitions and the pass schedule that produced them. The Hash
// field itself is not part of the input.
func ContainerHash(c *CompiledContainer) (string, error) {
	canonical, err := MarshalCanonical(c.canonicalObject())
	if err != nil {
		return "", fmt.Errorf("ContainerHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainContainer, canonical), nil
}

// LocatorHash computes the content hash of a locator's reference map.
// Two locators over the same key->id pairs share a hash.
func LocatorHash(refs ReferenceMap) (string, error) {
	canonical, err := MarshalCanonical(refs.Object())
	if err != nil {
		return "", fmt.Errorf("LocatorHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainLocator, canonical), nil
}
