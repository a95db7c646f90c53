package mock

import (
	"context"

	"github.com/nekyl/twob"
)

var _ twob.SettingsService = (*SettingsService)(nil)

// SettingsService is a mock implementation of twob.SettingsService.
type SettingsService struct {
	GetFn    func(ctx context.Context, key string) (string, error)
	SetFn    func(ctx context.Context, key, value string) error
	DeleteFn func(ctx context.Context, key string) error
	AllFn    func(ctx context.Context) (map[string]string, error)
}

func (s *SettingsService) Get(ctx context.Context, key string) (string, error) {
	return s.GetFn(ctx, key)
}

func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	return s.SetFn(ctx, key, value)
}

func (s *SettingsService) Delete(ctx context.Context, key string) error {
	return s.DeleteFn(ctx, key)
}

func (s *SettingsService) All(ctx context.Context) (map[string]string, error) {
	return s.AllFn(ctx)
}

var _ twob.CredentialStore = (*CredentialStore)(nil)

// CredentialStore is a mock implementation of twob.CredentialStore.
type CredentialStore struct {
	SetAPIKeyFn    func(key string) error
	APIKeyFn       func() (string, error)
	DeleteAPIKeyFn func() error
}

func (s *CredentialStore) SetAPIKey(key string) error {
	return s.SetAPIKeyFn(key)
}

func (s *CredentialStore) APIKey() (string, error) {
	return s.APIKeyFn()
}

func (s *CredentialStore) DeleteAPIKey() error {
	return s.DeleteAPIKeyFn()
}
