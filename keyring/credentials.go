// Package keyring stores the Gemini API key in the operating system
// keychain (Secret Service, macOS Keychain, or Windows Credential Manager).
package keyring

import (
	"errors"

	"github.com/nekyl/twob"
	"github.com/zalando/go-keyring"
)

// Keychain entry identifiers.
const (
	service = "2b"
	account = "gemini_api_key"
)

// Ensure CredentialStore implements twob.CredentialStore at compile time.
var _ twob.CredentialStore = (*CredentialStore)(nil)

// CredentialStore implements twob.CredentialStore using go-keyring.
type CredentialStore struct{}

// NewCredentialStore creates a new CredentialStore.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{}
}

// SetAPIKey stores the key securely.
func (s *CredentialStore) SetAPIKey(key string) error {
	if key == "" {
		return twob.Errorf(twob.EINVALID, "API key required")
	}
	if err := keyring.Set(service, account, key); err != nil {
		return wrapBackendError(err, "could not store the API key in the system keychain")
	}
	return nil
}

// APIKey retrieves the stored key.
func (s *CredentialStore) APIKey() (string, error) {
	key, err := keyring.Get(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", twob.Errorf(twob.ENOTFOUND, "no API key stored")
	}
	if err != nil {
		return "", wrapBackendError(err, "could not read the API key from the system keychain")
	}
	return key, nil
}

// DeleteAPIKey removes the stored key. Deleting an absent key is not an
// error.
func (s *CredentialStore) DeleteAPIKey() error {
	err := keyring.Delete(service, account)
	if err == nil || errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return wrapBackendError(err, "could not remove the API key from the system keychain")
}

// wrapBackendError maps missing-backend failures to EUNAVAILABLE so callers
// can fall back to insecure storage.
func wrapBackendError(err error, msg string) error {
	if errors.Is(err, keyring.ErrUnsupportedPlatform) {
		return twob.Errorf(twob.EUNAVAILABLE, "no system keychain available on this platform")
	}
	return twob.Errorf(twob.EUNAVAILABLE, "%s: %v", msg, err)
}
