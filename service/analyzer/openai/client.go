// Package openai implements analyzer.Analyzer with an OpenAI chat model
// that returns its verdict as a JSON object.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai"
	"github.com/viant/afs"
	"github.com/viant/hireflow/internal/logging"
	"github.com/viant/hireflow/service/analyzer"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gpt-4o-mini"

const systemPrompt = `You screen job applicants. Analyse the referenced document against the job requirements and reply with a single JSON object:
{"matchScore": number 0-100, "extractedSkills": [string], "experience": {"years": number, "roles": [string]}, "education": {"degree": string, "field": string}}`

// Client is an OpenAI backed analyzer
type Client struct {
	client       *openai.Client
	model        string
	temperature  float32
	fs           afs.Service
	contentLimit int
}

// Option customises the client
type Option func(c *Client)

// WithModel sets the chat model
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTemperature sets sampling temperature
func WithTemperature(temperature float32) Option {
	return func(c *Client) {
		c.temperature = temperature
	}
}

// WithDocumentContent makes the client download the document with fs and
// include up to limit bytes of it in the prompt.
func WithDocumentContent(fs afs.Service, limit int) Option {
	return func(c *Client) {
		c.fs = fs
		c.contentLimit = limit
	}
}

// New creates a client; baseURL may be empty for the public endpoint.
func New(apiKey, baseURL string, options ...Option) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	ret := &Client{client: openai.NewClientWithConfig(config), model: DefaultModel}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Analyze implements analyzer.Analyzer
func (c *Client) Analyze(ctx context.Context, request *analyzer.Request) (*analyzer.Response, error) {
	logger := logging.FromContext(ctx)
	prompt, err := c.prompt(ctx, request)
	if err != nil {
		return nil, err
	}
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}
	logger.Debug("requesting document analysis", "model", c.model, "document", request.DocumentURL)
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: openai returned no choices", analyzer.ErrInvalidResponse)
	}
	return decode(resp.Choices[0].Message.Content)
}

func (c *Client) prompt(ctx context.Context, request *analyzer.Request) (string, error) {
	builder := strings.Builder{}
	builder.WriteString("Document: ")
	builder.WriteString(request.DocumentURL)
	if request.FileType != "" {
		builder.WriteString(" (" + request.FileType + ")")
	}
	builder.WriteString("\n")
	if cfg := request.Config; cfg != nil {
		if len(cfg.RequiredSkills) > 0 {
			builder.WriteString("Required skills: " + strings.Join(cfg.RequiredSkills, ", ") + "\n")
		}
		if cfg.RequiredExperienceYears > 0 {
			builder.WriteString(fmt.Sprintf("Required experience: %v years\n", cfg.RequiredExperienceYears))
		}
		if cfg.EnableVideoAnalysis {
			builder.WriteString("The document may be a video interview; assess communication skills too.\n")
		}
	}
	if c.fs != nil && request.DocumentURL != "" {
		fileType := documentType(request)
		if fileType != "" && !textTypes[fileType] {
			return builder.String(), nil
		}
		data, err := c.fs.DownloadWithURL(ctx, request.DocumentURL)
		if err != nil {
			return "", fmt.Errorf("failed to download document %v: %w", request.DocumentURL, err)
		}
		if fileType == "" && !isText(data) {
			return builder.String(), nil
		}
		builder.WriteString("Content:\n")
		builder.WriteString(strings.ToValidUTF8(string(truncate(data, c.contentLimit)), ""))
	}
	return builder.String(), nil
}

// textTypes lists the document types embedded in the prompt; other documents
// are referenced by URL only.
var textTypes = map[string]bool{
	"txt": true, "text": true, "md": true, "markdown": true, "csv": true,
	"json": true, "html": true, "htm": true, "xml": true, "yaml": true, "yml": true,
}

func documentType(request *analyzer.Request) string {
	fileType := request.FileType
	if fileType == "" {
		location := request.DocumentURL
		if index := strings.IndexAny(location, "?#"); index != -1 {
			location = location[:index]
		}
		fileType = path.Ext(location)
	}
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(fileType), "."))
}

func isText(data []byte) bool {
	contentType := http.DetectContentType(data)
	return strings.HasPrefix(contentType, "text/") || strings.HasPrefix(contentType, "application/json")
}

// truncate cuts data to at most limit bytes without splitting a rune
func truncate(data []byte, limit int) []byte {
	if limit <= 0 || len(data) <= limit {
		return data
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(data[cut]) {
		cut--
	}
	return data[:cut]
}

func decode(content string) (*analyzer.Response, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	response := &analyzer.Response{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), response); err != nil {
		return nil, fmt.Errorf("%w: %v", analyzer.ErrInvalidResponse, err)
	}
	if response.ExtractedSkills == nil {
		response.ExtractedSkills = []string{}
	}
	if err := response.Validate(); err != nil {
		return nil, err
	}
	return response, nil
}
