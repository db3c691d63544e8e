package workflow

import "github.com/viant/hireflow/service/meta"

// Option customises the loader
type Option func(*Service)

// WithMetaService sets the document loader
func WithMetaService(meta *meta.Service) Option {
	return func(s *Service) {
		s.metaService = meta
	}
}

// WithDefaultExtension sets the extension appended to URLs without one
func WithDefaultExtension(ext string) Option {
	return func(s *Service) {
		s.defaultExt = ext
	}
}
