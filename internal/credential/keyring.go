package credential

import (
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "ietf-ma"

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/ietf-ma/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("ietf-ma-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// passwordKey namespaces IMAP passwords per account.
func passwordKey(username string) string {
	return "imap:password:" + username
}

// GetPassword retrieves the stored IMAP password for username.
func GetPassword(username string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(passwordKey(username))
	if err != nil {
		return "", fmt.Errorf("getting credential for %q: %w", username, err)
	}

	return string(item.Data), nil
}

// SetPassword stores the IMAP password for username in the system keyring.
func SetPassword(username, password string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  passwordKey(username),
		Data: []byte(password),
	})
	if err != nil {
		return fmt.Errorf("setting credential for %q: %w", username, err)
	}

	return nil
}

// DeletePassword removes the stored IMAP password for username.
func DeletePassword(username string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	if err := ring.Remove(passwordKey(username)); err != nil {
		return fmt.Errorf("deleting credential for %q: %w", username, err)
	}

	return nil
}
