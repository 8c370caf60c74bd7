package types

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// BotConfig is the in-memory form of a bot file: identifying metadata, the
// secret key and the ordered list of services the bot depends on.
type BotConfig struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	SecretKey   string     `json:"secretKey,omitempty" yaml:"secretKey,omitempty"`
	Services    []*Service `json:"services" yaml:"services"`

	// Extra holds top-level keys without a typed field, such as version or
	// padlock, so that rewriting a file keeps them.
	Extra map[string]interface{} `json:"-" yaml:",inline"`
}

// BotConfigOptions holds the values a BotConfig can be built from.
type BotConfigOptions struct {
	Name        string
	Description string
	SecretKey   string
	Services    []*Service
}

// NewBotConfig builds a BotConfig from opts. A nil opts yields an empty
// configuration. Services are copied; no decryption takes place.
func NewBotConfig(opts *BotConfigOptions) *BotConfig {
	cfg := &BotConfig{Services: []*Service{}}
	if opts == nil {
		return cfg
	}
	cfg.Name = opts.Name
	cfg.Description = opts.Description
	cfg.SecretKey = opts.SecretKey
	for _, svc := range opts.Services {
		if svc == nil {
			continue
		}
		cfg.Services = append(cfg.Services, svc.Copy())
	}
	return cfg
}

// botConfigKeys are the top-level keys accepted by NewBotConfigFromMap.
// secret_key is accepted as an alias of secretKey.
var botConfigKeys = map[string]bool{
	"name":        true,
	"description": true,
	"secretKey":   true,
	"secret_key":  true,
	"services":    true,
}

// NewBotConfigFromMap builds a BotConfig from an untyped mapping such as a
// decoded JSON object. Unknown keys, unknown service fields and values of the
// wrong kind are rejected with a ValidationError.
func NewBotConfigFromMap(m map[string]interface{}) (*BotConfig, error) {
	cfg := NewBotConfig(nil)

	var unknown []string
	for k := range m {
		if !botConfigKeys[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, NewValidationError(fmt.Sprintf("unknown bot configuration keys: %v", unknown))
	}

	for _, k := range []string{"name", "description", "secretKey", "secret_key"} {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, NewValidationError(fmt.Sprintf("%s must be a string, got %T", k, v))
		}
		switch k {
		case "name":
			cfg.Name = s
		case "description":
			cfg.Description = s
		default:
			cfg.SecretKey = s
		}
	}

	raw, ok := m["services"]
	if !ok || raw == nil {
		return cfg, nil
	}
	switch services := raw.(type) {
	case []*Service:
		for _, svc := range services {
			if svc != nil {
				cfg.Services = append(cfg.Services, svc.Copy())
			}
		}
	case []interface{}:
		for i, item := range services {
			svc, err := serviceFromValue(item)
			if err != nil {
				return nil, WrapValidationError(err, "services[%d]", i)
			}
			cfg.Services = append(cfg.Services, svc)
		}
	default:
		return nil, NewValidationError(fmt.Sprintf("services must be a list, got %T", raw))
	}
	return cfg, nil
}

func serviceFromValue(v interface{}) (*Service, error) {
	switch item := v.(type) {
	case *Service:
		return item.Copy(), nil
	case Service:
		return item.Copy(), nil
	case map[string]interface{}:
		svc := &Service{}
		for k, fv := range item {
			s, ok := fv.(string)
			if !ok && fv != nil {
				return nil, NewValidationError(fmt.Sprintf("field %s must be a string, got %T", k, fv))
			}
			if err := svc.SetField(k, s); err != nil {
				return nil, err
			}
		}
		return svc, nil
	default:
		return nil, NewValidationError(fmt.Sprintf("service must be an object, got %T", v))
	}
}

// Validate checks the fields a loaded bot configuration must carry. Service
// ids are not required to be unique; GetService returns the first match.
func (c *BotConfig) Validate() error {
	if c.Services == nil {
		return NewValidationError("services is required")
	}
	for i, svc := range c.Services {
		if svc == nil {
			return NewValidationError(fmt.Sprintf("services[%d] is empty", i))
		}
		if err := svc.Validate(); err != nil {
			return WrapValidationError(err, "services[%d]", i)
		}
	}
	return nil
}

// GetService looks a service up by id, then by name.
func (c *BotConfig) GetService(idOrName string) (*Service, error) {
	for _, svc := range c.Services {
		if svc.ID != "" && svc.ID == idOrName {
			return svc, nil
		}
	}
	for _, svc := range c.Services {
		if svc.Name != "" && svc.Name == idOrName {
			return svc, nil
		}
	}
	return nil, NewNotFoundError("service", idOrName)
}

// ListServices returns the services in file order, optionally restricted to
// the given types. Each call returns a fresh slice.
func (c *BotConfig) ListServices(types ...ServiceType) []*Service {
	out := make([]*Service, 0, len(c.Services))
	for _, svc := range c.Services {
		if len(types) == 0 || containsType(types, svc.Type) {
			out = append(out, svc)
		}
	}
	return out
}

func containsType(types []ServiceType, t ServiceType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

// ServicesOfType returns the services of type t. Unlike ListServices it
// fails on an unknown type and when the bot has no service of that type.
func (c *BotConfig) ServicesOfType(t ServiceType) ([]*Service, error) {
	if !t.IsKnown() {
		return nil, NewValidationError(fmt.Sprintf("invalid service type %q", t))
	}
	services := c.ListServices(t)
	if len(services) == 0 {
		return nil, NewNotFoundError("service of type", string(t))
	}
	return services, nil
}

// Endpoints returns the endpoint services.
func (c *BotConfig) Endpoints() []*Service { return c.ListServices(ServiceTypeEndpoint) }

// AzureBotServices returns the Azure Bot Service registrations.
func (c *BotConfig) AzureBotServices() []*Service {
	return c.ListServices(ServiceTypeAzureBotService)
}

// LUIS returns the LUIS models.
func (c *BotConfig) LUIS() []*Service { return c.ListServices(ServiceTypeLUIS) }

// QnAMakers returns the QnA Maker knowledge bases.
func (c *BotConfig) QnAMakers() []*Service { return c.ListServices(ServiceTypeQnA) }

// Dispatches returns the dispatch models.
func (c *BotConfig) Dispatches() []*Service { return c.ListServices(ServiceTypeDispatch) }

// AddService appends svc, assigning a random id when it has none. An id
// already used by another service is rejected.
func (c *BotConfig) AddService(svc *Service) error {
	if svc == nil {
		return NewValidationError("service is nil")
	}
	if err := svc.Validate(); err != nil {
		return err
	}
	if svc.ID == "" {
		svc.ID = uuid.New().String()
	}
	for _, existing := range c.Services {
		if existing.ID == svc.ID {
			return NewValidationError(fmt.Sprintf("duplicate service id %q", svc.ID))
		}
	}
	c.Services = append(c.Services, svc)
	return nil
}

// RemoveService removes the service with the given id or name.
func (c *BotConfig) RemoveService(idOrName string) error {
	target, err := c.GetService(idOrName)
	if err != nil {
		return err
	}
	for i, svc := range c.Services {
		if svc == target {
			c.Services = append(c.Services[:i], c.Services[i+1:]...)
			break
		}
	}
	return nil
}

// Copy returns a deep copy of the configuration.
func (c *BotConfig) Copy() *BotConfig {
	if c == nil {
		return nil
	}
	out := *c
	out.Extra = copyExtra(c.Extra)
	out.Services = make([]*Service, 0, len(c.Services))
	for _, svc := range c.Services {
		out.Services = append(out.Services, svc.Copy())
	}
	return &out
}
