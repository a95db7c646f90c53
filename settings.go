package twob

import "context"

// Setting keys.
const (
	SettingUser        = "user"
	SettingPersonality = "personality"

	// SettingInsecureAPIKey holds the API key only when no keychain backend
	// is available (emergency mode). The startup self-heal pass migrates it
	// to the keychain and deletes this row as soon as it can.
	SettingInsecureAPIKey = "api_key"
)

// DefaultUserName is used when no user name has been configured.
const DefaultUserName = "friend"

// SettingsService represents a key-value store for persistent settings.
type SettingsService interface {
	// Get returns the value for key, or "" if unset.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value for key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// All returns every stored key-value pair.
	All(ctx context.Context) (map[string]string, error)
}

// CredentialStore stores the API key in the operating system keychain.
type CredentialStore interface {
	// SetAPIKey stores the key securely.
	// Returns EUNAVAILABLE if no keychain backend is available.
	SetAPIKey(key string) error

	// APIKey retrieves the stored key.
	// Returns ENOTFOUND if no key is stored and EUNAVAILABLE if no
	// keychain backend is available.
	APIKey() (string, error)

	// DeleteAPIKey removes the stored key. Deleting an absent key is not
	// an error.
	DeleteAPIKey() error
}
