package config

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"
)

// CredentialStore manages encrypted API credentials, keyed by provider ID.
// Keys are sealed with ChaCha20-Poly1305 under a locally generated key file
// so credentials at rest are never plain text.
type CredentialStore struct {
	dataDir     string
	credentials map[string]string // providerID → API key
}

// NewCredentialStore creates a credential store rooted at the data directory.
func NewCredentialStore(dataDir string) *CredentialStore {
	return &CredentialStore{
		dataDir:     dataDir,
		credentials: make(map[string]string),
	}
}

func (c *CredentialStore) keyPath() string {
	return filepath.Join(c.dataDir, "credentials.key")
}

func (c *CredentialStore) credPath() string {
	return filepath.Join(c.dataDir, "credentials.enc")
}

// loadOrCreateKey returns the local sealing key, generating it on first use.
func (c *CredentialStore) loadOrCreateKey() ([]byte, error) {
	if FileExists(c.keyPath()) {
		key, err := os.ReadFile(c.keyPath())
		if err != nil {
			return nil, fmt.Errorf("failed to read credential key: %w", err)
		}
		if len(key) != chacha20poly1305.KeySize {
			return nil, fmt.Errorf("credential key has wrong size: %d bytes", len(key))
		}
		return key, nil
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate credential key: %w", err)
	}

	// 0600 - the key protects every stored API credential
	if err := os.WriteFile(c.keyPath(), key, 0600); err != nil {
		return nil, fmt.Errorf("failed to write credential key: %w", err)
	}

	return key, nil
}

// Load reads and decrypts credentials from disk. A missing credentials file
// is not an error; it simply means no keys have been stored yet.
func (c *CredentialStore) Load() error {
	if !FileExists(c.credPath()) {
		c.credentials = make(map[string]string)
		return nil
	}

	key, err := c.loadOrCreateKey()
	if err != nil {
		return err
	}

	sealed, err := os.ReadFile(c.credPath())
	if err != nil {
		return fmt.Errorf("failed to read credentials: %w", err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return fmt.Errorf("failed to initialize cipher: %w", err)
	}

	if len(sealed) < aead.NonceSize() {
		return fmt.Errorf("credentials file is truncated")
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return fmt.Errorf("failed to decrypt credentials: %w", err)
	}

	creds := make(map[string]string)
	if err := json.Unmarshal(plaintext, &creds); err != nil {
		return fmt.Errorf("failed to parse credentials: %w", err)
	}

	c.credentials = creds
	return nil
}

// Save encrypts and writes credentials to disk.
func (c *CredentialStore) Save() error {
	key, err := c.loadOrCreateKey()
	if err != nil {
		return err
	}

	plaintext, err := json.Marshal(c.credentials)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return fmt.Errorf("failed to initialize cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, plaintext, nil)

	if err := os.WriteFile(c.credPath(), sealed, 0600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}

	return nil
}

// Get retrieves a credential for a provider
func (c *CredentialStore) Get(providerID string) string {
	return c.credentials[providerID]
}

// Set stores a credential for a provider
func (c *CredentialStore) Set(providerID string, apiKey string) {
	c.credentials[providerID] = apiKey
}

// Delete removes a credential for a provider
func (c *CredentialStore) Delete(providerID string) {
	delete(c.credentials, providerID)
}
