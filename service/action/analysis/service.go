// Package analysis implements the analyze-resume card: the submitted
// document is scored by the analyzer collaborator against the job
// requirements configured on the node.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/viant/hireflow/model"
	"github.com/viant/hireflow/model/graph"
	"github.com/viant/hireflow/runtime/execution"
	"github.com/viant/hireflow/runtime/expander"
	"github.com/viant/hireflow/service/analyzer"
	"github.com/viant/hireflow/service/executor"
)

// ErrDocumentNotResolved is reported when the document reference cannot be resolved
var ErrDocumentNotResolved = errors.New("document reference not resolved")

// Config is the node configuration
type Config struct {
	Document                string   `json:"document,omitempty"`
	FileType                string   `json:"fileType,omitempty"`
	RequiredSkills          []string `json:"requiredSkills,omitempty"`
	RequiredExperienceYears float64  `json:"requiredExperienceYears,omitempty"`
	MatchThreshold          float64  `json:"matchThreshold,omitempty"`
	EnableVideoAnalysis     bool     `json:"enableVideoAnalysis,omitempty"`
}

// Result is the analysis node result. On failure it carries the fallback:
// score 0, no skills, not passed.
type Result struct {
	MatchScore      float64                `json:"matchScore"`
	ExtractedSkills []string               `json:"extractedSkills"`
	Experience      map[string]interface{} `json:"experience,omitempty"`
	Education       map[string]interface{} `json:"education,omitempty"`
	Passed          bool                   `json:"passed"`
	Document        string                 `json:"document,omitempty"`
}

// Service handles analyze-resume cards
type Service struct {
	analyzer analyzer.Analyzer
	timeout  time.Duration
}

// Option customises the handler
type Option func(s *Service)

// WithTimeout bounds each analyzer call
func WithTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		s.timeout = timeout
	}
}

// CardTypes returns the handled card types
func (s *Service) CardTypes() []graph.CardType {
	return []graph.CardType{graph.CardAnalyzeResume}
}

// Handle calls the analyzer and publishes matchScore, extractedSkills,
// experience, education and passed variables. Every failure is an
// AnalysisFailure returned with the fallback output.
func (s *Service) Handle(ctx context.Context, node *graph.Node, run *execution.Context) (*executor.Output, error) {
	config := &Config{}
	if err := executor.Decode(node, config); err != nil {
		return fallback(""), execution.AnalysisFailure(err)
	}
	if config.Document == "" {
		config.Document = "{" + model.VarDocumentURL + "}"
	}
	if config.FileType == "" {
		config.FileType = "{" + model.VarDocumentFileType + "}"
	}
	document := strings.TrimSpace(expander.Expand(config.Document, run.Variables.Lookup))
	if document == "" || len(expander.Placeholders(document)) > 0 {
		return fallback(document), execution.AnalysisFailure(fmt.Errorf("%w: %q", ErrDocumentNotResolved, config.Document))
	}
	fileType := expander.Expand(config.FileType, run.Variables.Lookup)
	if len(expander.Placeholders(fileType)) > 0 {
		fileType = ""
	}
	if s.analyzer == nil {
		return fallback(document), execution.AnalysisFailure(errors.New("analyzer is not configured"))
	}

	request := &analyzer.Request{
		DocumentURL: document,
		FileType:    fileType,
		Config: &analyzer.Config{
			RequiredSkills:          config.RequiredSkills,
			RequiredExperienceYears: config.RequiredExperienceYears,
			MatchThreshold:          config.MatchThreshold,
			EnableVideoAnalysis:     config.EnableVideoAnalysis,
		},
	}
	response, err := executor.Call(ctx, executor.Timeout(node, s.timeout), func(ctx context.Context) (*analyzer.Response, error) {
		return s.analyzer.Analyze(ctx, request)
	})
	if err == nil {
		err = response.Validate()
	}
	if err != nil {
		return fallback(document), execution.AnalysisFailure(fmt.Errorf("analyze %v: %w", document, err))
	}
	result := &Result{
		MatchScore:      response.MatchScore,
		ExtractedSkills: response.ExtractedSkills,
		Experience:      response.Experience,
		Education:       response.Education,
		Passed:          response.MatchScore >= config.MatchThreshold,
		Document:        document,
	}
	if result.ExtractedSkills == nil {
		result.ExtractedSkills = []string{}
	}
	return output(result), nil
}

func fallback(document string) *executor.Output {
	return output(&Result{ExtractedSkills: []string{}, Document: document})
}

func output(result *Result) *executor.Output {
	variables := map[string]interface{}{
		"matchScore":      result.MatchScore,
		"extractedSkills": result.ExtractedSkills,
		"passed":          result.Passed,
	}
	if result.Experience != nil {
		variables["experience"] = result.Experience
		for key, value := range result.Experience {
			variables["experience."+key] = value
		}
	}
	if result.Education != nil {
		variables["education"] = result.Education
		for key, value := range result.Education {
			variables["education."+key] = value
		}
	}
	return &executor.Output{Value: result, Variables: variables}
}

// New creates an analysis handler
func New(analyzer analyzer.Analyzer, options ...Option) *Service {
	ret := &Service{analyzer: analyzer, timeout: executor.DefaultTimeout}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
