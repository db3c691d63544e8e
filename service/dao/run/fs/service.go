// Package fs provides a run record store persisting JSON files through afs,
// so any afs backed location (file, mem, gs, s3) can hold runs.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"github.com/viant/hireflow/runtime/execution"
	"github.com/viant/hireflow/service/dao"
	"github.com/viant/hireflow/service/dao/criteria"
	"github.com/viant/hireflow/service/dao/run"
)

// Service implements a file based run storage
type Service struct {
	basePath string
	fs       afs.Service
	logger   *slog.Logger
	mu       sync.RWMutex
}

var _ dao.Service[string, execution.Run] = (*Service)(nil)

// Option customises the store
type Option func(*Service)

// WithFS sets the storage service
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithLogger sets the logger used to report unreadable records
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// Save persists a run
func (s *Service) Save(ctx context.Context, aRun *execution.Run) error {
	if aRun == nil {
		return dao.ErrNilEntity
	}
	if aRun.ID == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(aRun.Clone())
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}
	filePath := s.runPath(aRun.ID)
	if err = s.fs.Upload(ctx, filePath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save run to file %s: %w", filePath, err)
	}
	return nil
}

// Load retrieves a run or dao.ErrNotFound
func (s *Service) Load(ctx context.Context, id string) (*execution.Run, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	filePath := s.runPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to check if run exists: %w", err)
	}
	if !exists {
		return nil, dao.ErrNotFound
	}
	data, err := s.fs.DownloadWithURL(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read run file: %w", err)
	}
	return decode(data)
}

// Delete removes a run
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	filePath := s.runPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return fmt.Errorf("failed to check if run exists: %w", err)
	}
	if !exists {
		return dao.ErrNotFound
	}
	if err = s.fs.Delete(ctx, filePath); err != nil {
		return fmt.Errorf("failed to delete run file: %w", err)
	}
	return nil
}

// List returns the stored runs matching parameters, oldest first
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*execution.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	objects, err := s.fs.List(ctx, s.basePath, option.NewRecursive(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list run files: %w", err)
	}
	var runs []*execution.Run
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			s.logger.Warn("skipping unreadable run", "url", object.URL(), "error", err)
			continue
		}
		aRun, err := decode(data)
		if err != nil {
			s.logger.Warn("skipping malformed run", "url", object.URL(), "error", err)
			continue
		}
		if criteria.MatchRun(aRun, parameters) {
			runs = append(runs, aRun)
		}
	}
	sort.SliceStable(runs, func(i, j int) bool { return run.Less(runs[i], runs[j]) })
	return runs, nil
}

func decode(data []byte) (*execution.Run, error) {
	ret := &execution.Run{}
	if err := json.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return ret, nil
}

func (s *Service) runPath(id string) string {
	return url.Join(s.basePath, fmt.Sprintf("%s.json", path.Base(id)))
}

// New creates a file based run store rooted at basePath
func New(ctx context.Context, basePath string, opts ...Option) (*Service, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	ret := &Service{basePath: url.Normalize(basePath, file.Scheme)}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	exists, _ := ret.fs.Exists(ctx, ret.basePath)
	if !exists {
		if err := ret.fs.Create(ctx, ret.basePath, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}
	return ret, nil
}
