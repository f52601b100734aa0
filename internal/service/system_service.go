package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avanderwijk/lotkeeper/internal/database"
	"github.com/avanderwijk/lotkeeper/internal/model"
	"github.com/avanderwijk/lotkeeper/internal/repository"
	"github.com/avanderwijk/lotkeeper/internal/version"
	"github.com/fernet/fernet-go"
	"github.com/google/uuid"
)

// SystemService handles health, version, and system settings. Secret settings
// (API tokens) are fernet-encrypted at rest; plain settings are stored as is.
type SystemService struct {
	db          *sql.DB
	settingRepo *repository.SettingRepository
	fernetKey   *fernet.Key
}

// NewSystemService creates a new SystemService. fernetKey may be empty, in
// which case storing or reading encrypted settings fails with a clear error
// rather than silently persisting secrets in the clear.
func NewSystemService(db *sql.DB, settingRepo *repository.SettingRepository, fernetKey string) (*SystemService, error) {
	s := &SystemService{db: db, settingRepo: settingRepo}

	if fernetKey != "" {
		key, err := fernet.DecodeKey(fernetKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decode fernet key: %w", err)
		}
		s.fernetKey = key
	}

	return s, nil
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion returns the application version string.
func (s *SystemService) CheckVersion() string {
	return version.Version
}

// SetSetting stores a system setting. When encrypt is true the value is
// fernet-encrypted before it reaches the database.
func (s *SystemService) SetSetting(ctx context.Context, key, value string, encrypt bool) error {
	stored := value

	if encrypt {
		if s.fernetKey == nil {
			return fmt.Errorf("cannot store encrypted setting %q: no fernet key configured", key)
		}
		token, err := fernet.EncryptAndSign([]byte(value), s.fernetKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt setting: %w", err)
		}
		stored = string(token)
	}

	return s.settingRepo.Upsert(ctx, &model.SystemSetting{
		ID:        uuid.New().String(),
		Key:       key,
		Value:     stored,
		Encrypted: encrypt,
		UpdatedAt: time.Now().UTC(),
	})
}

// GetSetting retrieves a system setting, decrypting it when it was stored
// encrypted.
func (s *SystemService) GetSetting(key string) (string, error) {
	setting, err := s.settingRepo.Get(key)
	if err != nil {
		return "", err
	}

	if !setting.Encrypted {
		return setting.Value, nil
	}

	if s.fernetKey == nil {
		return "", fmt.Errorf("cannot read encrypted setting %q: no fernet key configured", key)
	}

	plaintext := fernet.VerifyAndDecrypt([]byte(setting.Value), 0, []*fernet.Key{s.fernetKey})
	if plaintext == nil {
		return "", fmt.Errorf("failed to decrypt setting %q", key)
	}

	return string(plaintext), nil
}
