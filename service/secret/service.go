// Package secret resolves collaborator credentials kept as scy secrets.
package secret

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/viant/scy"
	"github.com/viant/scy/cred"
	_ "github.com/viant/scy/kms/blowfish"
	"github.com/viant/toolbox"
)

// DefaultKey is the scy key used when a resource does not name one
const DefaultKey = "blowfish://default"

// Resource locates a secret
type Resource struct {
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
	Key string `json:"key,omitempty" yaml:"key,omitempty"`
}

// IsEmpty returns true when no secret is configured
func (r *Resource) IsEmpty() bool {
	return r == nil || r.URL == ""
}

func (r *Resource) resource(target interface{}) *scy.Resource {
	key := r.Key
	if key == "" {
		key = DefaultKey
	}
	return scy.NewResource(target, r.URL, key)
}

// Service loads and stores secrets
type Service struct {
	scy *scy.Service
}

// Basic loads username and password credentials
func (s *Service) Basic(ctx context.Context, resource *Resource) (*cred.Basic, error) {
	if resource.IsEmpty() {
		return nil, fmt.Errorf("secret URL was empty")
	}
	targetType, err := cred.TargetType("basic")
	if err != nil {
		return nil, err
	}
	secret, err := s.scy.Load(ctx, resource.resource(targetType))
	if err != nil {
		return nil, fmt.Errorf("failed to load secret from %s: %w", resource.URL, err)
	}
	if basic, ok := secret.Target.(*cred.Basic); ok {
		return basic, nil
	}
	ret := &cred.Basic{}
	if err := toolbox.DefaultConverter.AssignConverted(ret, secret.Target); err != nil {
		return nil, fmt.Errorf("failed to convert secret %s: %w", resource.URL, err)
	}
	return ret, nil
}

// Text loads a plain secret such as an API key; surrounding whitespace is trimmed
func (s *Service) Text(ctx context.Context, resource *Resource) (string, error) {
	if resource.IsEmpty() {
		return "", fmt.Errorf("secret URL was empty")
	}
	secret, err := s.scy.Load(ctx, resource.resource(nil))
	if err != nil {
		return "", fmt.Errorf("failed to load secret from %s: %w", resource.URL, err)
	}
	return strings.TrimSpace(secret.String()), nil
}

// StoreBasic encrypts credentials at resource
func (s *Service) StoreBasic(ctx context.Context, resource *Resource, basic *cred.Basic) error {
	secret := scy.NewSecret(basic, resource.resource(reflect.TypeOf(*basic)))
	if err := s.scy.Store(ctx, secret); err != nil {
		return fmt.Errorf("failed to store secret %s: %w", resource.URL, err)
	}
	return nil
}

// StoreText encrypts text at resource
func (s *Service) StoreText(ctx context.Context, resource *Resource, text string) error {
	secret := scy.NewSecret(text, resource.resource(nil))
	if err := s.scy.Store(ctx, secret); err != nil {
		return fmt.Errorf("failed to store secret %s: %w", resource.URL, err)
	}
	return nil
}

// New creates a secret service
func New() *Service {
	return &Service{scy: scy.New()}
}
