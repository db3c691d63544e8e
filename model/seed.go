package model

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Seed variable keys populated before a run starts.
const (
	VarCandidateName    = "candidate.name"
	VarCandidateEmail   = "candidate.email"
	VarCandidatePhone   = "candidate.phone"
	VarDocumentURL      = "document.url"
	VarDocumentFileType = "document.fileType"
	VarJobID            = "jobId"
	VarWorkflowID       = "workflowId"
	VarExecutionID      = "executionId"
)

var seedValidate = validator.New()

type (
	// Seed is the payload a run starts from: the submitting candidate, the
	// submitted document and correlation ids copied verbatim into the report.
	Seed struct {
		Candidate   Candidate              `json:"candidate" yaml:"candidate"`
		Document    Document               `json:"document" yaml:"document"`
		JobID       string                 `json:"jobId,omitempty" yaml:"jobId,omitempty"`
		WorkflowID  string                 `json:"workflowId,omitempty" yaml:"workflowId,omitempty"`
		ExecutionID string                 `json:"executionId,omitempty" yaml:"executionId,omitempty"`
		Data        map[string]interface{} `json:"data,omitempty" yaml:"data,omitempty"`
	}

	// Candidate identifies the person behind a submission
	Candidate struct {
		Name  string `json:"name" yaml:"name" validate:"required"`
		Email string `json:"email" yaml:"email" validate:"required,email"`
		Phone string `json:"phone,omitempty" yaml:"phone,omitempty"`
	}

	// Document references the submitted artifact (resume, video, ...)
	Document struct {
		URL      string `json:"url" yaml:"url" validate:"required"`
		FileType string `json:"fileType,omitempty" yaml:"fileType,omitempty"`
	}
)

// Validate checks required candidate and document fields
func (s *Seed) Validate() error {
	if s == nil {
		return fmt.Errorf("seed is nil")
	}
	if err := seedValidate.Struct(s); err != nil {
		return fmt.Errorf("invalid seed: %w", err)
	}
	return nil
}

// Variables flattens the seed into the initial variable set. Empty seed
// fields are left out so templates referencing them stay unresolved.
func (s *Seed) Variables() map[string]interface{} {
	result := make(map[string]interface{}, 8+len(s.Data))
	for k, v := range s.Data {
		result[k] = v
	}
	setPresent(result, VarCandidateName, s.Candidate.Name)
	setPresent(result, VarCandidateEmail, s.Candidate.Email)
	setPresent(result, VarCandidatePhone, s.Candidate.Phone)
	setPresent(result, VarDocumentURL, s.Document.URL)
	setPresent(result, VarDocumentFileType, s.Document.FileType)
	for key, value := range s.Correlation() {
		result[key] = value
	}
	return result
}

// Correlation returns the non-empty correlation ids of the seed
func (s *Seed) Correlation() map[string]string {
	result := make(map[string]string, 3)
	for key, value := range map[string]string{
		VarJobID:       s.JobID,
		VarWorkflowID:  s.WorkflowID,
		VarExecutionID: s.ExecutionID,
	} {
		if value != "" {
			result[key] = value
		}
	}
	return result
}

// Fields returns the non-empty candidate and document fields keyed by their
// short names.
func (s *Seed) Fields() map[string]interface{} {
	result := make(map[string]interface{}, 5)
	setPresent(result, "candidateName", s.Candidate.Name)
	setPresent(result, "candidateEmail", s.Candidate.Email)
	setPresent(result, "candidatePhone", s.Candidate.Phone)
	setPresent(result, "documentUrl", s.Document.URL)
	setPresent(result, "fileType", s.Document.FileType)
	return result
}

func setPresent(target map[string]interface{}, key, value string) {
	if value != "" {
		target[key] = value
	}
}

// Clone creates a copy of the seed; Data is copied one level deep.
func (s *Seed) Clone() *Seed {
	if s == nil {
		return nil
	}
	clone := *s
	if s.Data != nil {
		clone.Data = make(map[string]interface{}, len(s.Data))
		for k, v := range s.Data {
			clone.Data[k] = v
		}
	}
	return &clone
}
