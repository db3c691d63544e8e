// Package meta loads YAML or JSON documents (workflows, seeds, config)
// from any afs supported location, expanding ${env.KEY} expressions first.
package meta

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service loads documents; relative locations resolve against baseURL
type Service struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
}

// URL returns the absolute location of a document
func (s *Service) URL(location string) string {
	if s.baseURL != "" && url.IsRelative(location) {
		return url.Join(s.baseURL, location)
	}
	return location
}

// Download returns the document at URL with environment expressions expanded
func (s *Service) Download(ctx context.Context, URL string) ([]byte, error) {
	URL = s.URL(URL)
	data, err := s.fs.DownloadWithURL(ctx, URL, s.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to download %v: %w", URL, err)
	}
	return []byte(ExpandEnv(string(data))), nil
}

// Load decodes the document at URL into target; JSON documents are decoded
// as YAML flow documents.
func (s *Service) Load(ctx context.Context, URL string, target interface{}) error {
	data, err := s.Download(ctx, URL)
	if err != nil {
		return err
	}
	if err = yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode %v: %w", URL, err)
	}
	return nil
}

// Exists returns true if URL exists
func (s *Service) Exists(ctx context.Context, URL string) (bool, error) {
	return s.fs.Exists(ctx, s.URL(URL), s.options...)
}

// FS returns the underlying storage service
func (s *Service) FS() afs.Service {
	return s.fs
}

// New creates a meta service; nil fs uses afs.New(). Options are passed to
// every storage call, e.g. an embed.FS for embed:// locations.
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	if fs == nil {
		fs = afs.New()
	}
	return &Service{fs: fs, baseURL: baseURL, options: options}
}
