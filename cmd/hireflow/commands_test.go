package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/hireflow/model/graph"
	"github.com/viant/hireflow/service/secret"
)

const workflowYAML = `name: screening
nodes:
  - id: submission
    cardType: new-submission
  - id: resume
    cardType: analyze-resume
  - id: fit
    cardType: condition
    data:
      variable: resume.matchScore
      operator: gte
      value: 70
  - id: invite
    cardType: send-invite
  - id: survey
    cardType: send-survey
edges:
  - {source: submission, target: resume}
  - {source: resume, target: fit}
  - {source: fit, target: invite, sourceHandle: "true"}
`

const seedYAML = `candidate:
  name: Grace
  email: grace@example.com
document:
  url: mem://localhost/resumes/grace.pdf
jobId: job-9
`

func writeFixtures(t *testing.T) (string, string) {
	dir := t.TempDir()
	workflowURL := filepath.Join(dir, "screening.yaml")
	seedURL := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(workflowURL, []byte(workflowYAML), 0o644))
	require.NoError(t, os.WriteFile(seedURL, []byte(seedYAML), 0o644))
	return workflowURL, seedURL
}

func execute(t *testing.T, args ...string) (string, error) {
	out := &bytes.Buffer{}
	cmd := newRootCmd(out)
	cmd.SetArgs(args)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	workflowURL, seedURL := writeFixtures(t)
	output, err := execute(t, "run", "-w", workflowURL, "-s", seedURL, "--score", "85", "--log-level", "error")
	require.NoError(t, err)

	result := map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, "completed", result["status"])
	assert.Equal(t, false, result["success"], "unknown card type is a warning")
	assert.Equal(t, "job-9", result["jobId"])
	results := result["results"].(map[string]interface{})
	assert.Equal(t, true, results["fit"])
	assert.Contains(t, results, "invite")
	errs := result["errors"].([]interface{})
	require.Len(t, errs, 1)
	assert.Equal(t, "UnknownNodeType", errs[0].(map[string]interface{})["kind"])
}

func TestRunCommand_Errors(t *testing.T) {
	workflowURL, seedURL := writeFixtures(t)
	_, err := execute(t, "run", "-w", workflowURL)
	assert.Error(t, err, "seed is required")

	_, err = execute(t, "run", "-s", seedURL)
	assert.Error(t, err)

	cyclic := filepath.Join(t.TempDir(), "cyclic.yaml")
	require.NoError(t, os.WriteFile(cyclic, []byte("nodes:\n  - id: a\n    cardType: new-submission\nedges:\n  - {source: a, target: a}\n"), 0o644))
	output, err := execute(t, "run", "-w", cyclic, "-s", seedURL, "--log-level", "error")
	require.Error(t, err)
	assert.True(t, errors.Is(err, graph.ErrCyclicGraph))
	assert.Contains(t, output, `"status": "failed"`)
}

func TestValidateCommand(t *testing.T) {
	workflowURL, _ := writeFixtures(t)
	output, err := execute(t, "validate", "-w", workflowURL, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, output, "workflow screening is valid: submission -> survey -> resume -> fit -> invite")
	assert.Contains(t, output, `unknown card type "send-survey"`)
}

func TestSecretCommand(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "smtp.json")
	output, err := execute(t, "secret", "-d", dest, "-u", "jobs", "-p", "s3cret")
	require.NoError(t, err)
	assert.Contains(t, output, "secret stored at "+dest)

	basic, err := secret.New().Basic(context.Background(), &secret.Resource{URL: dest})
	require.NoError(t, err)
	assert.Equal(t, "jobs", basic.Username)
	assert.Equal(t, "s3cret", basic.Password)

	_, err = execute(t, "secret", "-d", dest)
	assert.Error(t, err)
}
