package dao

// Well known list parameters
const (
	ParamState        = "State"
	ParamWorkflowID   = "WorkflowID"
	ParamWorkflowName = "WorkflowName"
	ParamJobID        = "JobID"
)

// Parameter filters List results; Value is a string or []string
type Parameter struct {
	Name  string
	Value interface{}
}

// Values returns the accepted values
func (p *Parameter) Values() []string {
	switch actual := p.Value.(type) {
	case string:
		return []string{actual}
	case []string:
		return actual
	}
	return nil
}

// NewParameter creates a parameter; more than one value matches any of them
func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}
