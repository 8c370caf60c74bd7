package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// botConfigFileKeys are the top-level keys BotConfig has typed fields for.
var botConfigFileKeys = []string{"name", "description", "secretKey", "services"}

// UnmarshalJSON decodes a bot file object. Keys without a typed field are
// kept in Extra.
func (c *BotConfig) UnmarshalJSON(data []byte) error {
	type plain BotConfig
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := unknownKeys(data, botConfigFileKeys)
	if err != nil {
		return err
	}
	p.Extra = extra
	*c = BotConfig(p)
	return nil
}

// MarshalJSON encodes the typed fields followed by the keys in Extra.
func (c BotConfig) MarshalJSON() ([]byte, error) {
	type plain BotConfig
	data, err := json.Marshal(plain(c))
	if err != nil {
		return nil, err
	}
	return appendUnknownKeys(data, c.Extra, botConfigFileKeys)
}

// UnmarshalJSON decodes a service object. Fields without a typed
// counterpart are kept in Extra.
func (s *Service) UnmarshalJSON(data []byte) error {
	type plain Service
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := unknownKeys(data, ServiceFieldNames)
	if err != nil {
		return err
	}
	p.Extra = extra
	*s = Service(p)
	return nil
}

// MarshalJSON encodes the typed fields followed by the fields in Extra.
func (s Service) MarshalJSON() ([]byte, error) {
	type plain Service
	data, err := json.Marshal(plain(s))
	if err != nil {
		return nil, err
	}
	return appendUnknownKeys(data, s.Extra, ServiceFieldNames)
}

// ExtraKeys returns the sorted top-level keys that have no typed field.
func (c *BotConfig) ExtraKeys() []string { return sortedKeys(c.Extra) }

// ExtraKeys returns the sorted field names that have no typed field.
func (s *Service) ExtraKeys() []string { return sortedKeys(s.Extra) }

// isKnownKey matches the way encoding/json binds keys to struct fields.
func isKnownKey(known []string, key string) bool {
	for _, k := range known {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

func unknownKeys(data []byte, known []string) (map[string]interface{}, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	var extra map[string]interface{}
	for k, v := range raw {
		if isKnownKey(known, k) {
			continue
		}
		var value interface{}
		if err := json.Unmarshal(v, &value); err != nil {
			return nil, err
		}
		if extra == nil {
			extra = make(map[string]interface{})
		}
		extra[k] = value
	}
	return extra, nil
}

// appendUnknownKeys splices the entries of extra into the encoded object
// data, after its own keys. Entries shadowing a typed field are skipped.
func appendUnknownKeys(data []byte, extra map[string]interface{}, known []string) ([]byte, error) {
	filtered := make(map[string]interface{}, len(extra))
	for k, v := range extra {
		if !isKnownKey(known, k) {
			filtered[k] = v
		}
	}
	if len(filtered) == 0 {
		return data, nil
	}

	tail, err := json.Marshal(filtered)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) < 2 || data[len(data)-1] != '}' {
		return nil, fmt.Errorf("cannot merge extra keys into %q", data)
	}
	out := make([]byte, 0, len(data)+len(tail))
	out = append(out, data[:len(data)-1]...)
	if len(data) > 2 {
		out = append(out, ',')
	}
	return append(out, tail[1:]...), nil
}

func sortedKeys(m map[string]interface{}) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyExtra(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
