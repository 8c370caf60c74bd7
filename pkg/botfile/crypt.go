package botfile

import (
	"github.com/rzbill/botconfig/pkg/crypto"
	"github.com/rzbill/botconfig/pkg/types"
)

// Decrypt returns a copy of cfg with every non-empty encrypted field of
// every service decrypted with secret. Services of unknown type are copied
// unchanged.
func Decrypt(cfg *types.BotConfig, secret string) (*types.BotConfig, error) {
	return transform(cfg, secret, (*crypto.LegacyCipher).Decrypt)
}

// Encrypt returns a copy of cfg with every non-empty encrypted field of
// every service encrypted with secret.
func Encrypt(cfg *types.BotConfig, secret string) (*types.BotConfig, error) {
	return transform(cfg, secret, (*crypto.LegacyCipher).Encrypt)
}

func transform(cfg *types.BotConfig, secret string, fn func(*crypto.LegacyCipher, string) (string, error)) (*types.BotConfig, error) {
	if cfg == nil {
		return nil, types.NewValidationError("bot configuration is nil")
	}
	c, err := crypto.NewLegacyCipher(secret)
	if err != nil {
		return nil, types.NewDecryptionError("", "", err)
	}
	defer c.Zeroize()

	out := cfg.Copy()
	for _, svc := range out.Services {
		for _, field := range svc.EncryptedFields() {
			value, _ := svc.Field(field)
			if value == "" {
				continue
			}
			result, err := fn(c, value)
			if err != nil {
				return nil, types.NewDecryptionError(svc.Key(), field, err)
			}
			if err := svc.SetField(field, result); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
