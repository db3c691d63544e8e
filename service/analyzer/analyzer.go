// Package analyzer defines the document analysis collaborator used by
// analyze-resume nodes.
package analyzer

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/hireflow/service/retry"
)

// ErrInvalidResponse reports malformed analysis output
var ErrInvalidResponse = errors.New("invalid analysis response")

type (
	// Config carries the job requirements a document is scored against.
	Config struct {
		RequiredSkills          []string `json:"requiredSkills,omitempty" yaml:"requiredSkills,omitempty"`
		RequiredExperienceYears float64  `json:"requiredExperienceYears,omitempty" yaml:"requiredExperienceYears,omitempty"`
		MatchThreshold          float64  `json:"matchThreshold,omitempty" yaml:"matchThreshold,omitempty"`
		EnableVideoAnalysis     bool     `json:"enableVideoAnalysis,omitempty" yaml:"enableVideoAnalysis,omitempty"`
	}

	// Request asks for one document to be analysed.
	Request struct {
		DocumentURL string  `json:"documentUrl"`
		FileType    string  `json:"fileType,omitempty"`
		Config      *Config `json:"config,omitempty"`
	}

	// Response is the analysis outcome.
	Response struct {
		MatchScore      float64                `json:"matchScore"`
		ExtractedSkills []string               `json:"extractedSkills"`
		Experience      map[string]interface{} `json:"experience,omitempty"`
		Education       map[string]interface{} `json:"education,omitempty"`
	}
)

// Validate checks the response is usable
func (r *Response) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: empty response", ErrInvalidResponse)
	}
	if r.MatchScore < 0 || r.MatchScore > 100 {
		return fmt.Errorf("%w: matchScore %v out of range 0-100", ErrInvalidResponse, r.MatchScore)
	}
	return nil
}

// Analyzer scores a document against job requirements.
type Analyzer interface {
	Analyze(ctx context.Context, request *Request) (*Response, error)
}

// Func adapts a function to Analyzer
type Func func(ctx context.Context, request *Request) (*Response, error)

func (f Func) Analyze(ctx context.Context, request *Request) (*Response, error) {
	return f(ctx, request)
}

type retrying struct {
	analyzer Analyzer
	policy   *retry.Policy
}

func (r *retrying) Analyze(ctx context.Context, request *Request) (*Response, error) {
	var response *Response
	err := retry.Do(ctx, r.policy, func(ctx context.Context) error {
		var err error
		response, err = r.analyzer.Analyze(ctx, request)
		if errors.Is(err, ErrInvalidResponse) {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// WithRetry wraps analyzer with a retry policy. Invalid responses are not
// retried.
func WithRetry(analyzer Analyzer, policy *retry.Policy) Analyzer {
	if policy == nil {
		return analyzer
	}
	return &retrying{analyzer: analyzer, policy: policy}
}
