package types

import (
	"fmt"
	"strings"
)

// ServiceType identifies the kind of external dependency a service
// descriptor points at.
type ServiceType string

const (
	// ServiceTypeEndpoint is a bot messaging endpoint.
	ServiceTypeEndpoint ServiceType = "endpoint"

	// ServiceTypeAzureBotService is an Azure Bot Service registration.
	ServiceTypeAzureBotService ServiceType = "abs"

	// ServiceTypeLUIS is a LUIS language-understanding model.
	ServiceTypeLUIS ServiceType = "luis"

	// ServiceTypeQnA is a QnA Maker knowledge base.
	ServiceTypeQnA ServiceType = "qna"

	// ServiceTypeDispatch is a dispatch model routing between LUIS and QnA.
	ServiceTypeDispatch ServiceType = "dispatch"
)

// KnownServiceTypes lists the service types in table order.
var KnownServiceTypes = []ServiceType{
	ServiceTypeEndpoint,
	ServiceTypeAzureBotService,
	ServiceTypeLUIS,
	ServiceTypeQnA,
	ServiceTypeDispatch,
}

// encryptedFieldsByType lists the fields holding ciphertext for each service
// type. Other fields are stored in plain text.
var encryptedFieldsByType = map[ServiceType][]string{
	ServiceTypeEndpoint:        {"appPassword"},
	ServiceTypeAzureBotService: {"appPassword"},
	ServiceTypeLUIS:            {"authoringKey", "subscriptionKey"},
	ServiceTypeQnA:             {"subscriptionKey"},
	ServiceTypeDispatch:        {"authoringKey", "subscriptionKey"},
}

// EncryptedFields returns the names of the encrypted fields for a service
// type. Unknown types have none. The returned slice is a copy.
func EncryptedFields(t ServiceType) []string {
	fields := encryptedFieldsByType[t]
	if len(fields) == 0 {
		return nil
	}
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

// IsEncryptedField reports whether field holds ciphertext for type t.
func IsEncryptedField(t ServiceType, field string) bool {
	for _, f := range encryptedFieldsByType[t] {
		if f == field {
			return true
		}
	}
	return false
}

// ParseServiceType parses a service type name, case-insensitively.
func ParseServiceType(s string) (ServiceType, error) {
	t := ServiceType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsKnown() {
		return "", NewValidationError(fmt.Sprintf("invalid service type %q (expected one of endpoint, abs, luis, qna, dispatch)", s))
	}
	return t, nil
}

// IsKnown reports whether t is one of the recognised service types.
func (t ServiceType) IsKnown() bool {
	_, ok := encryptedFieldsByType[t]
	return ok
}

// Service describes one external dependency a bot uses at runtime.
// Which fields are meaningful depends on Type.
type Service struct {
	Type ServiceType `json:"type" yaml:"type"`
	ID   string      `json:"id,omitempty" yaml:"id,omitempty"`
	Name string      `json:"name,omitempty" yaml:"name,omitempty"`

	// endpoint / abs
	AppID          string `json:"appId,omitempty" yaml:"appId,omitempty"`
	AppPassword    string `json:"appPassword,omitempty" yaml:"appPassword,omitempty"`
	Endpoint       string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	TenantID       string `json:"tenantId,omitempty" yaml:"tenantId,omitempty"`
	ResourceGroup  string `json:"resourceGroup,omitempty" yaml:"resourceGroup,omitempty"`
	SubscriptionID string `json:"subscriptionId,omitempty" yaml:"subscriptionId,omitempty"`

	// luis / dispatch
	Version          string `json:"version,omitempty" yaml:"version,omitempty"`
	AuthoringKey     string `json:"authoringKey,omitempty" yaml:"authoringKey,omitempty"`
	SubscriptionKey  string `json:"subscriptionKey,omitempty" yaml:"subscriptionKey,omitempty"`
	EndpointBasePath string `json:"endpointBasePath,omitempty" yaml:"endpointBasePath,omitempty"`

	// qna
	EndpointKey string `json:"endpointKey,omitempty" yaml:"endpointKey,omitempty"`
	KbID        string `json:"kbId,omitempty" yaml:"kbId,omitempty"`
	Hostname    string `json:"hostname,omitempty" yaml:"hostname,omitempty"`

	// Extra holds fields without a typed counterpart, e.g. region or a
	// dispatch model's serviceIds.
	Extra map[string]interface{} `json:"-" yaml:",inline"`
}

// ServiceFieldNames lists every recognised service field by its file name.
var ServiceFieldNames = []string{
	"type", "id", "name",
	"appId", "appPassword", "endpoint", "tenantId", "resourceGroup", "subscriptionId",
	"version", "authoringKey", "subscriptionKey", "endpointBasePath",
	"endpointKey", "kbId", "hostname",
}

func (s *Service) fieldPtr(name string) *string {
	switch name {
	case "id":
		return &s.ID
	case "name":
		return &s.Name
	case "appId":
		return &s.AppID
	case "appPassword":
		return &s.AppPassword
	case "endpoint":
		return &s.Endpoint
	case "tenantId":
		return &s.TenantID
	case "resourceGroup":
		return &s.ResourceGroup
	case "subscriptionId":
		return &s.SubscriptionID
	case "version":
		return &s.Version
	case "authoringKey":
		return &s.AuthoringKey
	case "subscriptionKey":
		return &s.SubscriptionKey
	case "endpointBasePath":
		return &s.EndpointBasePath
	case "endpointKey":
		return &s.EndpointKey
	case "kbId":
		return &s.KbID
	case "hostname":
		return &s.Hostname
	}
	return nil
}

// Field returns the value of the named field. The second result is false for
// unrecognised names.
func (s *Service) Field(name string) (string, bool) {
	if name == "type" {
		return string(s.Type), true
	}
	p := s.fieldPtr(name)
	if p == nil {
		return "", false
	}
	return *p, true
}

// SetField sets the named field. It returns a ValidationError for
// unrecognised names.
func (s *Service) SetField(name, value string) error {
	if name == "type" {
		s.Type = ServiceType(value)
		return nil
	}
	p := s.fieldPtr(name)
	if p == nil {
		return NewValidationError(fmt.Sprintf("unknown service field %q", name))
	}
	*p = value
	return nil
}

// RemoveField clears the named field.
func (s *Service) RemoveField(name string) error {
	return s.SetField(name, "")
}

// Key returns the identifier used in logs and errors: the id when set,
// otherwise the name.
func (s *Service) Key() string {
	if s.ID != "" {
		return s.ID
	}
	return s.Name
}

// EncryptedFields returns the names of this service's encrypted fields.
func (s *Service) EncryptedFields() []string {
	return EncryptedFields(s.Type)
}

// Validate checks that the service has the fields every descriptor needs.
func (s *Service) Validate() error {
	if s.Type == "" {
		return NewValidationError("service type is required")
	}
	return nil
}

// Copy returns a copy of the service.
func (s *Service) Copy() *Service {
	if s == nil {
		return nil
	}
	c := *s
	c.Extra = copyExtra(s.Extra)
	return &c
}
