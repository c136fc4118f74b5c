package upload

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"filedrop/internal/config"
	"filedrop/internal/domain"
	"filedrop/internal/domain/models"
)

//go:embed policy.yaml
var defaultPolicyYAML []byte

// Policy decides which raw items may enter the pipeline
type Policy struct {
	AllowedTypes     []string `yaml:"allowed_types"`
	MaxItemSizeBytes int64    `yaml:"max_item_size_bytes"`

	allowed map[string]bool
}

// DefaultPolicy returns the embedded policy
func DefaultPolicy() *Policy {
	p, err := parsePolicy(defaultPolicyYAML)
	if err != nil {
		// embedded file is part of the build
		panic(fmt.Sprintf("invalid embedded upload policy: %v", err))
	}
	return p
}

// LoadPolicy reads a policy from a YAML file. An empty path returns DefaultPolicy.
func LoadPolicy(path string) (*Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload policy %s: %w", path, err)
	}
	p, err := parsePolicy(data)
	if err != nil {
		return nil, fmt.Errorf("upload policy %s: %w", path, err)
	}
	return p, nil
}

// NewPolicy builds a validated policy from explicit values
func NewPolicy(allowedTypes []string, maxItemSizeBytes int64) (*Policy, error) {
	p := &Policy{AllowedTypes: allowedTypes, MaxItemSizeBytes: maxItemSizeBytes}
	if err := p.init(); err != nil {
		return nil, err
	}
	return p, nil
}

func parsePolicy(data []byte) (*Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal: %w", err)
	}
	if err := p.init(); err != nil {
		return nil, err
	}
	return &p, nil
}

// init fills defaults and builds the lookup set. An omitted size limit falls back
// to config.DefaultMaxItemSizeBytes.
func (p *Policy) init() error {
	if p.MaxItemSizeBytes == 0 {
		p.MaxItemSizeBytes = config.DefaultMaxItemSizeBytes
	}
	err := validation.ValidateStruct(p,
		validation.Field(&p.AllowedTypes, validation.Required, validation.Each(validation.Required)),
		validation.Field(&p.MaxItemSizeBytes, validation.Min(int64(1))),
	)
	if err != nil {
		return fmt.Errorf("invalid policy: %w", err)
	}
	p.allowed = make(map[string]bool, len(p.AllowedTypes))
	for _, t := range p.AllowedTypes {
		p.allowed[t] = true
	}
	return nil
}

// Allows reports whether mimeType is on the allow-list
func (p *Policy) Allows(mimeType string) bool {
	return p.allowed[mimeType]
}

// LimitMB renders the size limit the way rejection messages show it
func (p *Policy) LimitMB() string {
	return strconv.FormatFloat(float64(p.MaxItemSizeBytes)/(1<<20), 'f', -1, 64)
}

// Check validates one raw item. The name is checked first, then type, then size.
// Names follow the same rules the item store applies, so an item that passes here
// can always be persisted.
func (p *Policy) Check(raw models.RawItem) error {
	err := validation.Validate(strings.TrimSpace(raw.Name),
		validation.Required.Error("must not be blank"),
		validation.RuneLength(1, config.MaxItemNameLength).
			Error(fmt.Sprintf("must be at most %d characters", config.MaxItemNameLength)),
	)
	if err != nil {
		return domain.NewValidation("%s: File name %v", raw.Name, err)
	}
	if !p.Allows(raw.Type) {
		return domain.NewValidation("%s: File type %s is not supported", raw.Name, raw.Type)
	}
	if raw.Size > p.MaxItemSizeBytes {
		return domain.NewValidation("%s: File size must be less than %sMB", raw.Name, p.LimitMB())
	}
	if raw.Size < 0 {
		return domain.NewValidation("%s: File size must not be negative", raw.Name)
	}
	return nil
}
