package secrets

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService groups the app's secrets in the OS keychain.
	KeyringService = "upwork-jobs-agent"
)

var ErrNotFound = errors.New("sheets credentials not found in keychain")

// GetSheetsCredentials returns the service account JSON stored for account.
func GetSheetsCredentials(account string) ([]byte, error) {
	if strings.TrimSpace(account) == "" {
		return nil, ErrNotFound
	}
	v, err := keyring.Get(KeyringService, account)
	if err != nil || strings.TrimSpace(v) == "" {
		return nil, ErrNotFound
	}
	return []byte(v), nil
}

func SetSheetsCredentials(account string, credJSON []byte) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if !json.Valid(credJSON) {
		return errors.New("credentials are not valid JSON")
	}
	return keyring.Set(KeyringService, account, string(credJSON))
}

func DeleteSheetsCredentials(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}
