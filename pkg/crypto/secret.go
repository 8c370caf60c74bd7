package crypto

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// SecretSource defines where the bot secret is read from.
type SecretSource string

const (
	SecretSourceNone   SecretSource = ""
	SecretSourceValue  SecretSource = "value"
	SecretSourceFile   SecretSource = "file"
	SecretSourceEnv    SecretSource = "env"
	SecretSourcePrompt SecretSource = "prompt"
)

// DefaultSecretEnvVar is the environment variable consulted for the secret
// when no other source is given.
const DefaultSecretEnvVar = "BOTCONFIG_SECRET"

// SecretOptions holds configuration for loading the bot secret.
type SecretOptions struct {
	Source   SecretSource
	Value    string
	FilePath string
	EnvVar   string // e.g., BOTCONFIG_SECRET

	// Prompt reads the secret interactively. Defaults to a no-echo terminal
	// prompt on stdin.
	Prompt func(label string) (string, error)
}

// LoadSecret loads the bot secret according to opts. Surrounding whitespace
// is trimmed from file contents. SecretSourceNone yields an empty secret,
// meaning fields are left encrypted.
func LoadSecret(opts SecretOptions) (string, error) {
	switch opts.Source {
	case SecretSourceNone:
		return "", nil
	case SecretSourceValue:
		if opts.Value == "" {
			return "", errors.New("secret value is empty")
		}
		return opts.Value, nil
	case SecretSourceFile:
		if opts.FilePath == "" {
			return "", errors.New("secret file path is required")
		}
		data, err := os.ReadFile(opts.FilePath)
		if err != nil {
			return "", fmt.Errorf("failed to read secret file: %w", err)
		}
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("secret file %s is empty", opts.FilePath)
		}
		return secret, nil
	case SecretSourceEnv:
		envVar := opts.EnvVar
		if envVar == "" {
			envVar = DefaultSecretEnvVar
		}
		val := os.Getenv(envVar)
		if val == "" {
			return "", fmt.Errorf("env var %s is empty", envVar)
		}
		return val, nil
	case SecretSourcePrompt:
		prompt := opts.Prompt
		if prompt == nil {
			prompt = promptTerminal
		}
		secret, err := prompt("Bot secret: ")
		if err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}
		if secret == "" {
			return "", errors.New("secret is empty")
		}
		return secret, nil
	default:
		return "", fmt.Errorf("unknown secret source: %s", opts.Source)
	}
}

func promptTerminal(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
