package config

import (
	"fmt"
	"os"
	"strings"
)

// SecretSource describes how to load a secret value.
type SecretSource struct {
	// Name is used in error messages.
	Name string
	// Value is an inline secret.
	Value string
	// File holds the secret. When set it takes precedence over Value.
	File string
}

// LoadSecret returns the trimmed secret from src. It fails when neither
// File nor Value holds a usable secret.
func LoadSecret(src SecretSource) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		src.Value = string(data)
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		if file != "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return "", fmt.Errorf("%s is not configured", name)
	}
	return secret, nil
}
