// Package memory provides an in-memory run record store.
package memory

import (
	"github.com/viant/hireflow/runtime/execution"
	"github.com/viant/hireflow/service/dao"
	"github.com/viant/hireflow/service/dao/criteria"
	"github.com/viant/hireflow/service/dao/run"
	"github.com/viant/hireflow/service/dao/store"
)

// Service stores copies of run records in memory
type Service struct {
	*store.MemoryStore[string, execution.Run]
}

var _ dao.Service[string, execution.Run] = (*Service)(nil)

// New creates an in-memory run store
func New() *Service {
	return &Service{
		MemoryStore: store.NewMemoryStore[string, execution.Run](
			func(r *execution.Run) string { return r.ID },
			store.WithClone[string, execution.Run](func(r *execution.Run) *execution.Run { return r.Clone() }),
			store.WithFilter[string, execution.Run](criteria.MatchRun),
			store.WithOrder[string, execution.Run](run.Less),
		),
	}
}
