package botfile

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rzbill/botconfig/pkg/log"
	"github.com/rzbill/botconfig/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const (
	testSecret = "s3cr3t"

	// openssl enc -aes-192-cbc -md md5 -nosalt -pass pass:s3cr3t
	encAuthoringKey    = "0f7f2c744eef49243fcb626e4d48116325e32f240f7b2ac8e13bb2034c1dfaff" // luis-authoring-key
	encSubscriptionKey = "55d683f12f6b8412b086dd2a43a58b07"                                 // luis-sub-key
	encPassword        = "b35c8eacde00723e7559e494b1f9fba4"                                 // p@ss w0rd
)

const myBot = `{
  "name": "MyBot",
  "services": [
    {
      "type": "luis",
      "id": "l1",
      "authoringKey": "` + encAuthoringKey + `",
      "subscriptionKey": "` + encSubscriptionKey + `"
    }
  ]
}`

const multiBot = `{
  "name": "MultiBot",
  "description": "bot with one of everything",
  "services": [
    {"type": "endpoint", "id": "e1", "name": "production", "endpoint": "https://bot.example.com/api/messages", "appId": "app", "appPassword": "` + encPassword + `"},
    {"type": "luis", "id": "l1", "name": "weather", "appId": "luis-app", "version": "0.1", "authoringKey": "` + encAuthoringKey + `", "subscriptionKey": "` + encSubscriptionKey + `"},
    {"type": "qna", "id": "q1", "name": "faq", "kbId": "kb", "subscriptionKey": "` + encSubscriptionKey + `", "endpointKey": "not-encrypted"},
    {"type": "luis", "id": "l2", "name": "home", "authoringKey": "", "subscriptionKey": "` + encSubscriptionKey + `"},
    {"type": "file", "id": "f1", "name": "readme"}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_DecryptsExample(t *testing.T) {
	path := writeFile(t, "my.bot", myBot)

	cfg, err := Load(path, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "MyBot", cfg.Name)
	require.Len(t, cfg.Services, 1)
	svc := cfg.Services[0]
	assert.Equal(t, types.ServiceTypeLUIS, svc.Type)
	assert.Equal(t, "l1", svc.ID)
	assert.Equal(t, "luis-authoring-key", svc.AuthoringKey)
	assert.Equal(t, "luis-sub-key", svc.SubscriptionKey)
}

func TestLoad_WithoutSecretLeavesCiphertext(t *testing.T) {
	path := writeFile(t, "my.bot", myBot)

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, encAuthoringKey, cfg.Services[0].AuthoringKey)
}

func TestLoad_UsesFileSecretKey(t *testing.T) {
	content := `{"name":"MyBot","secretKey":"s3cr3t","services":[{"type":"endpoint","id":"e1","appPassword":"` + encPassword + `"}]}`
	path := writeFile(t, "my.bot", content)

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "p@ss w0rd", cfg.Services[0].AppPassword)
	assert.Equal(t, "s3cr3t", cfg.SecretKey)
}

func TestLoad_ArgumentSecretWinsOverFileSecretKey(t *testing.T) {
	content := `{"name":"MyBot","secretKey":"wrong","services":[{"type":"endpoint","id":"e1","appPassword":"` + encPassword + `"}]}`
	path := writeFile(t, "my.bot", content)

	cfg, err := Load(path, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "p@ss w0rd", cfg.Services[0].AppPassword)
}

func TestLoad_OnlyEncryptedFieldsAreTouched(t *testing.T) {
	path := writeFile(t, "multi.bot", multiBot)

	cfg, err := Load(path, testSecret)
	require.NoError(t, err)
	require.Len(t, cfg.Services, 5)

	endpoint, err := cfg.GetService("e1")
	require.NoError(t, err)
	assert.Equal(t, "p@ss w0rd", endpoint.AppPassword)
	assert.Equal(t, "app", endpoint.AppID)

	qna, err := cfg.GetService("faq")
	require.NoError(t, err)
	assert.Equal(t, "luis-sub-key", qna.SubscriptionKey)
	assert.Equal(t, "not-encrypted", qna.EndpointKey)

	home, err := cfg.GetService("l2")
	require.NoError(t, err)
	assert.Empty(t, home.AuthoringKey)
	assert.Equal(t, "luis-sub-key", home.SubscriptionKey)

	file, err := cfg.GetService("f1")
	require.NoError(t, err)
	assert.Equal(t, types.ServiceType("file"), file.Type)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		secret  string
		check   func(error) bool
	}{
		{
			name:    "malformed json",
			file:    "bad.bot",
			content: `{"name": "MyBot", "services": [`,
			check:   types.IsParseError,
		},
		{
			name:    "empty file",
			file:    "empty.bot",
			content: "  \n",
			check:   types.IsParseError,
		},
		{
			name:    "top level array",
			file:    "array.bot",
			content: `[1, 2, 3]`,
			check:   types.IsParseError,
		},
		{
			name:    "missing services",
			file:    "noservices.bot",
			content: `{"name": "MyBot"}`,
			check:   types.IsValidationError,
		},
		{
			name:    "missing name",
			file:    "noname.bot",
			content: `{"services": []}`,
			check:   types.IsValidationError,
		},
		{
			name:    "null services",
			file:    "null.bot",
			content: `{"name": "MyBot", "services": null}`,
			check:   types.IsValidationError,
		},
		{
			name:    "service without type",
			file:    "notype.bot",
			content: `{"name": "MyBot", "services": [{"id": "x"}]}`,
			check:   types.IsValidationError,
		},
		{
			name:    "services of wrong kind",
			file:    "kind.bot",
			content: `{"name": "MyBot", "services": "luis"}`,
			check:   types.IsValidationError,
		},
		{
			name:    "wrong secret",
			file:    "my.bot",
			content: myBot,
			secret:  "wrong",
			check:   types.IsDecryptionError,
		},
		{
			name:    "corrupt ciphertext",
			file:    "corrupt.bot",
			content: `{"name": "MyBot", "services": [{"type": "qna", "id": "q", "subscriptionKey": "plain-text-key"}]}`,
			secret:  testSecret,
			check:   types.IsDecryptionError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			cfg, err := Load(path, tt.secret)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, tt.check(err), "unexpected error type: %T %v", err, err)
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.bot")
	_, err := Load(path, testSecret)
	require.Error(t, err)
	assert.True(t, types.IsFileNotFoundError(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_DecryptionErrorNamesField(t *testing.T) {
	path := writeFile(t, "my.bot", myBot)
	_, err := Load(path, "wrong")
	require.Error(t, err)

	var de *types.DecryptionError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "l1", de.Service)
	assert.Equal(t, "authoringKey", de.Field)
}

func TestLoad_UnknownKeys(t *testing.T) {
	content := `{"name": "MyBot", "version": "2.0", "services": [{"type": "luis", "id": "l1", "region": "westus"}]}`
	path := writeFile(t, "extra.bot", content)

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "MyBot", cfg.Name)

	_, err = Load(path, "", WithStrict(true))
	require.Error(t, err)
	assert.True(t, types.IsValidationError(err))
	assert.Contains(t, err.Error(), "version")

	nested := writeFile(t, "nested.bot", `{"name": "MyBot", "services": [{"type": "luis", "region": "westus"}]}`)
	_, err = Load(nested, "", WithStrict(true))
	require.Error(t, err)
	assert.True(t, types.IsValidationError(err))
	assert.Contains(t, err.Error(), "region")

	yamlPath := writeFile(t, "extra.yaml", "name: MyBot\nservices:\n  - type: qna\n    region: westus\n")
	_, err = Load(yamlPath, "", WithStrict(true))
	assert.True(t, types.IsValidationError(err))
	cfg, err = Load(yamlPath, "")
	require.NoError(t, err)
	assert.Equal(t, "westus", cfg.Services[0].Extra["region"])
}

func TestLoad_DuplicateIDs(t *testing.T) {
	path := writeFile(t, "dup.bot", `{"name": "MyBot", "services": [{"type": "luis", "id": "a", "name": "first"}, {"type": "qna", "id": "a", "name": "second"}]}`)

	cfg, err := Load(path, "")
	require.NoError(t, err)
	require.Len(t, cfg.Services, 2)

	svc, err := cfg.GetService("a")
	require.NoError(t, err)
	assert.Equal(t, "first", svc.Name)
}

func TestLoad_YAML(t *testing.T) {
	content := `
name: MyBot
description: yaml flavoured
services:
  - type: luis
    id: l1
    authoringKey: ` + encAuthoringKey + `
    subscriptionKey: ` + encSubscriptionKey + `
  - type: endpoint
    id: e1
    appPassword: ` + encPassword + `
`
	path := writeFile(t, "my.yaml", content)

	cfg, err := Load(path, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "yaml flavoured", cfg.Description)
	require.Len(t, cfg.Services, 2)
	assert.Equal(t, "luis-authoring-key", cfg.Services[0].AuthoringKey)
	assert.Equal(t, "p@ss w0rd", cfg.Services[1].AppPassword)

	bad := writeFile(t, "bad.yml", "name: [unclosed\n")
	_, err = Load(bad, "")
	assert.True(t, types.IsParseError(err))
}

func TestLoad_LogsWithoutSecrets(t *testing.T) {
	path := writeFile(t, "my.bot", myBot)
	logger := log.NewTestLogger()

	_, err := Load(path, "", WithLogger(logger))
	require.NoError(t, err)
	assert.True(t, logger.AssertLoggedWithField(log.DebugLevel, "no secret", log.BotFileKey, path))
	assert.True(t, logger.AssertLoggedWithField(log.DebugLevel, "no secret", log.ComponentKey, "botfile"))

	logger.ClearEntries()
	_, err = Load(path, "wrong", WithLogger(logger))
	require.Error(t, err)
	// the caller reports the error; the loader only traces it
	assert.True(t, logger.AssertLogged(log.DebugLevel, "failed to decrypt"))
	assert.False(t, logger.AssertLogged(log.WarnLevel, "failed to decrypt"))

	logger.ClearEntries()
	_, err = Load(path, testSecret, WithLogger(logger), WithStrict(true))
	require.NoError(t, err)
	assert.True(t, logger.AssertLoggedWithField(log.DebugLevel, "loaded bot file", "strict", true))
	assert.NotContains(t, fmt.Sprint(logger.GetEntries()), "luis-authoring-key")
}

func TestListServicesAfterLoad(t *testing.T) {
	path := writeFile(t, "multi.bot", multiBot)
	cfg, err := Load(path, testSecret)
	require.NoError(t, err)

	var ids []string
	for _, s := range cfg.ListServices() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"e1", "l1", "q1", "l2", "f1"}, ids)

	ids = nil
	for _, s := range cfg.ListServices(types.ServiceTypeLUIS) {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"l1", "l2"}, ids)

	_, err = cfg.GetService("nope")
	assert.True(t, types.IsNotFoundError(err))
}

func TestFind(t *testing.T) {
	t.Run("single", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "my.bot"), []byte(myBot), 0600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600))

		path, err := Find(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "my.bot"), path)
	})

	t.Run("none", func(t *testing.T) {
		_, err := Find(t.TempDir())
		assert.True(t, types.IsFileNotFoundError(err))
	})

	t.Run("multiple", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.bot"), []byte(myBot), 0600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "b.bot"), []byte(myBot), 0600))

		_, err := Find(dir)
		assert.True(t, types.IsValidationError(err))
	})

	t.Run("missing dir", func(t *testing.T) {
		_, err := Find(filepath.Join(t.TempDir(), "nope"))
		assert.True(t, types.IsFileNotFoundError(err))
	})
}

func TestSave_RoundTrip(t *testing.T) {
	cfg := types.NewBotConfig(&types.BotConfigOptions{
		Name: "SavedBot",
		Services: []*types.Service{
			{Type: types.ServiceTypeDispatch, ID: "d1", AuthoringKey: "auth", SubscriptionKey: "sub"},
			{Type: types.ServiceTypeAzureBotService, ID: "a1", AppPassword: "pw", TenantID: "tenant"},
		},
	})

	for _, name := range []string{"saved.bot", "saved.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Save(path, cfg, testSecret))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

			raw, err := Load(path, "")
			require.NoError(t, err)
			assert.NotEqual(t, "auth", raw.Services[0].AuthoringKey)
			assert.Equal(t, "tenant", raw.Services[1].TenantID)

			loaded, err := Load(path, testSecret)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}

	// Save must not mutate its input.
	assert.Equal(t, "auth", cfg.Services[0].AuthoringKey)
}

const botWithExtras = `{
  "name": "b",
  "version": "2.0",
  "padlock": "x",
  "services": [
    {"type": "luis", "id": "1", "authoringKey": "` + encAuthoringKey + `", "region": "westus"},
    {"type": "dispatch", "id": "2", "serviceIds": ["1"]}
  ]
}`

func TestSave_KeepsUnknownKeys(t *testing.T) {
	path := writeFile(t, "extras.bot", botWithExtras)

	cfg, err := Load(path, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "luis-authoring-key", cfg.Services[0].AuthoringKey)

	for _, name := range []string{"saved.bot", "saved.yaml"} {
		t.Run(name, func(t *testing.T) {
			target := filepath.Join(t.TempDir(), name)
			require.NoError(t, Save(target, cfg, testSecret))

			saved, err := Read(target)
			require.NoError(t, err)
			assert.Equal(t, "2.0", saved.Extra["version"])
			assert.Equal(t, "x", saved.Extra["padlock"])
			assert.Equal(t, "westus", saved.Services[0].Extra["region"])
			assert.Equal(t, []interface{}{"1"}, saved.Services[1].Extra["serviceIds"])
			assert.Equal(t, encAuthoringKey, saved.Services[0].AuthoringKey)
		})
	}

	// rewriting the file in place keeps it byte-for-byte equivalent
	require.NoError(t, Save(path, cfg, testSecret))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, botWithExtras, string(data))
}

func TestSave_RestrictsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.bot")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
	require.NoError(t, os.Chmod(path, 0644))

	cfg, err := Parse([]byte(myBot), "my.bot")
	require.NoError(t, err)
	decrypted, err := Decrypt(cfg, testSecret)
	require.NoError(t, err)
	require.NoError(t, Save(path, decrypted, ""))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSave_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.bot")
	assert.True(t, types.IsValidationError(Save(path, nil, "")))
	assert.True(t, types.IsValidationError(Save(path, &types.BotConfig{Name: "x"}, "")))
}

func TestEncryptDecrypt_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		secret := rapid.StringMatching(`[a-z0-9]{4,24}`).Draw(t, "secret")
		wrong := rapid.StringMatching(`[A-Z]{4,24}`).Draw(t, "wrong")
		password := rapid.StringN(1, 64, -1).Draw(t, "password")
		key := rapid.StringMatching(`[0-9a-f]{32}`).Draw(t, "key")

		cfg := types.NewBotConfig(&types.BotConfigOptions{
			Name: "PropBot",
			Services: []*types.Service{
				{Type: types.ServiceTypeEndpoint, ID: "e", AppPassword: password},
				{Type: types.ServiceTypeQnA, ID: "q", SubscriptionKey: key},
			},
		})

		enc, err := Encrypt(cfg, secret)
		if err != nil {
			t.Fatalf("Encrypt: %v", err)
		}
		dec, err := Decrypt(enc, secret)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if dec.Services[0].AppPassword != password || dec.Services[1].SubscriptionKey != key {
			t.Fatalf("roundtrip mismatch")
		}

		if _, err := Decrypt(enc, wrong); !types.IsDecryptionError(err) {
			t.Fatalf("expected DecryptionError with wrong secret, got %v", err)
		}
	})
}

func TestRead_NeverDecrypts(t *testing.T) {
	withKey := `{"name": "MyBot", "secretKey": "` + testSecret + `", "services": [{"type": "qna", "id": "q1", "subscriptionKey": "` + encSubscriptionKey + `"}]}`
	path := writeFile(t, "my.bot", withKey)

	cfg, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, testSecret, cfg.SecretKey)
	assert.Equal(t, encSubscriptionKey, cfg.Services[0].SubscriptionKey)

	_, err = Read(filepath.Join(t.TempDir(), "missing.bot"))
	assert.True(t, types.IsFileNotFoundError(err))
}
