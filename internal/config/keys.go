package config

import (
	"errors"
	"fmt"
	"os"
)

// ErrMissingCredential is returned when the selected backend has no credential.
var ErrMissingCredential = errors.New("missing credential")

// CredentialEnv returns the environment variable the provider authenticates with.
// Bedrock resolves credentials through the AWS chain and only needs a region.
func CredentialEnv(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	case ProviderBedrock:
		return "AWS_REGION"
	default:
		return "ANTHROPIC_API_KEY"
	}
}

// GetAPIKey returns the credential for the configured provider.
// For bedrock this is the region, taken from config or the environment.
func GetAPIKey(cfg *Config) (string, error) {
	provider := providerOf(cfg)
	if provider == ProviderBedrock && cfg != nil && cfg.Backend.AWSRegion != "" {
		return cfg.Backend.AWSRegion, nil
	}

	name := CredentialEnv(provider)
	if key := os.Getenv(name); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("%w: %s is not set", ErrMissingCredential, name)
}

// CheckCredentials is the startup precondition: it fails before any backend
// is constructed when the selected provider has nothing to authenticate with.
func CheckCredentials(cfg *Config) error {
	provider := providerOf(cfg)
	if !ValidProvider(provider) {
		return fmt.Errorf("unknown provider %q", provider)
	}
	_, err := GetAPIKey(cfg)
	return err
}

// MaskAPIKey returns a masked version of the API key for display.
// Shows the first 7 characters and last 4 characters.
func MaskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}

	if len(key) <= 15 {
		return "***"
	}

	return key[:7] + "..." + key[len(key)-4:]
}

// KeySource represents where a credential was loaded from.
type KeySource string

const (
	KeySourceEnv    KeySource = "environment"
	KeySourceConfig KeySource = "config_file"
	KeySourceNone   KeySource = "none"
)

// GetAPIKeySource returns where the provider credential was sourced from.
func GetAPIKeySource(cfg *Config) KeySource {
	provider := providerOf(cfg)
	if provider == ProviderBedrock && cfg != nil && cfg.Backend.AWSRegion != "" {
		if os.Getenv("AWS_REGION") == cfg.Backend.AWSRegion {
			return KeySourceEnv
		}
		return KeySourceConfig
	}
	if os.Getenv(CredentialEnv(provider)) != "" {
		return KeySourceEnv
	}
	return KeySourceNone
}

func providerOf(cfg *Config) string {
	if cfg == nil || cfg.Backend.Provider == "" {
		return ProviderAnthropic
	}
	return cfg.Backend.Provider
}
