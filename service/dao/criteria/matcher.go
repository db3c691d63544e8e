// Package criteria matches run records against list parameters.
package criteria

import (
	"strings"

	"github.com/viant/hireflow/runtime/execution"
	"github.com/viant/hireflow/service/dao"
)

// Field returns the run attribute addressed by a parameter name
func Field(run *execution.Run, name string) (string, bool) {
	switch strings.ToLower(name) {
	case strings.ToLower(dao.ParamState):
		return string(run.GetState()), true
	case strings.ToLower(dao.ParamWorkflowID):
		return run.WorkflowID, true
	case strings.ToLower(dao.ParamWorkflowName):
		return run.WorkflowName, true
	case strings.ToLower(dao.ParamJobID):
		if run.Seed == nil {
			return "", true
		}
		return run.Seed.JobID, true
	}
	return "", false
}

// MatchRun returns true when run satisfies every parameter. Unknown
// parameter names are ignored.
func MatchRun(run *execution.Run, parameters []*dao.Parameter) bool {
	if run == nil {
		return false
	}
	for _, parameter := range parameters {
		if parameter == nil {
			continue
		}
		actual, ok := Field(run, parameter.Name)
		if !ok {
			continue
		}
		if !contains(parameter.Values(), actual) {
			return false
		}
	}
	return true
}

func contains(values []string, actual string) bool {
	for _, value := range values {
		if value == actual {
			return true
		}
	}
	return false
}
