// internal/config/secrets.go
//
// Vault reference resolution.  A config string of the form
//
//	vault:<mount>/<path>#<key>
//
// is replaced in place with the secret value.  Only fields listed in
// secretFields are inspected.

package config

import (
	"context"
	"fmt"
	"strings"
)

const vaultPrefix = "vault:"

// SecretGetter is the subset of *vault.Client used here.
type SecretGetter interface {
	GetKV(ctx context.Context, secretPath, key string) (string, error)
}

// NeedsVault reports whether any secret-bearing field holds a vault reference.
func (c *Config) NeedsVault() bool {
	for _, p := range c.secretFields() {
		if strings.HasPrefix(*p, vaultPrefix) {
			return true
		}
	}
	return false
}

// ResolveSecrets swaps every vault reference for its plain value.
func (c *Config) ResolveSecrets(ctx context.Context, sg SecretGetter) error {
	for _, p := range c.secretFields() {
		if !strings.HasPrefix(*p, vaultPrefix) {
			continue
		}
		path, key, ok := strings.Cut(strings.TrimPrefix(*p, vaultPrefix), "#")
		if !ok || path == "" || key == "" {
			return fmt.Errorf("malformed vault reference %q", *p)
		}
		val, err := sg.GetKV(ctx, path, key)
		if err != nil {
			return fmt.Errorf("resolve %s#%s: %w", path, key, err)
		}
		*p = val
	}
	return nil
}

func (c *Config) secretFields() []*string {
	return []*string{&c.Security.CSRFKey}
}
