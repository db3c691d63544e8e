package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/hireflow/service/analyzer"
)

func newServer(t *testing.T, content string, seen *openai.ChatCompletionRequest) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:     "chatcmpl-1",
			Object: "chat.completion",
			Model:  DefaultModel,
			Choices: []openai.ChatCompletionChoice{{
				Index:        0,
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
				FinishReason: openai.FinishReasonStop,
			}},
		})
	}))
}

func TestClient_Analyze(t *testing.T) {
	testCases := []struct {
		name        string
		content     string
		expectScore float64
		expectErr   bool
	}{
		{
			name:        "valid json",
			content:     `{"matchScore": 85, "extractedSkills": ["go", "sql"], "experience": {"years": 6}, "education": {"degree": "BSc"}}`,
			expectScore: 85,
		},
		{
			name:        "fenced json",
			content:     "```json\n{\"matchScore\": 40}\n```",
			expectScore: 40,
		},
		{name: "not json", content: "the candidate looks great", expectErr: true},
		{name: "score out of range", content: `{"matchScore": 140}`, expectErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			seen := openai.ChatCompletionRequest{}
			server := newServer(t, tc.content, &seen)
			defer server.Close()
			client := New("test-key", server.URL+"/v1", WithModel("gpt-test"))
			response, err := client.Analyze(context.Background(), &analyzer.Request{
				DocumentURL: "https://cdn.example.com/cv.pdf",
				Config:      &analyzer.Config{RequiredSkills: []string{"go"}, MatchThreshold: 70},
			})
			assert.Equal(t, "gpt-test", seen.Model)
			require.NotNil(t, seen.ResponseFormat)
			assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, seen.ResponseFormat.Type)
			if tc.expectErr {
				assert.ErrorIs(t, err, analyzer.ErrInvalidResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectScore, response.MatchScore)
			assert.NotNil(t, response.ExtractedSkills)
		})
	}
}

func TestClient_DocumentContent(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	URL := "mem://localhost/hireflow/cv.txt"
	require.NoError(t, fs.Upload(ctx, URL, file.DefaultFileOsMode, strings.NewReader("Senior Go engineer, 8 years")))

	seen := openai.ChatCompletionRequest{}
	server := newServer(t, `{"matchScore": 90, "extractedSkills": ["go"]}`, &seen)
	defer server.Close()
	client := New("test-key", server.URL+"/v1", WithDocumentContent(fs, 12))
	_, err := client.Analyze(ctx, &analyzer.Request{DocumentURL: URL})
	require.NoError(t, err)
	require.Len(t, seen.Messages, 2)
	assert.Contains(t, seen.Messages[1].Content, "Senior Go en")
	assert.NotContains(t, seen.Messages[1].Content, "8 years")
}

func TestClient_DocumentContent_Types(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	testCases := []struct {
		description string
		URL         string
		fileType    string
		content     string
		limit       int
		embedded    bool
		expect      string
	}{
		{description: "pdf by file type", URL: "mem://localhost/hireflow/types/cv", fileType: "pdf", content: "%PDF-1.7\x00\x01\x02", embedded: false},
		{description: "pdf by extension", URL: "mem://localhost/hireflow/types/cv.pdf", content: "%PDF-1.7\x00\x01\x02", embedded: false},
		{description: "binary without type", URL: "mem://localhost/hireflow/types/blob", content: "%PDF-1.7\x00\x01\x02", embedded: false},
		{description: "markdown", URL: "mem://localhost/hireflow/types/cv.md", content: "# Ada\nGo, SQL", embedded: true, expect: "# Ada\nGo, SQL"},
		{description: "text without type", URL: "mem://localhost/hireflow/types/notes", content: "Ada Lovelace, analyst", embedded: true, expect: "Ada Lovelace"},
		{description: "cut on rune boundary", URL: "mem://localhost/hireflow/types/zoe.txt", content: "Zoë Zürich", limit: 3, embedded: true, expect: "Content:\nZo"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			require.NoError(t, fs.Upload(ctx, testCase.URL, file.DefaultFileOsMode, strings.NewReader(testCase.content)))
			seen := openai.ChatCompletionRequest{}
			server := newServer(t, `{"matchScore": 90, "extractedSkills": ["go"]}`, &seen)
			defer server.Close()
			client := New("test-key", server.URL+"/v1", WithDocumentContent(fs, testCase.limit))
			_, err := client.Analyze(ctx, &analyzer.Request{DocumentURL: testCase.URL, FileType: testCase.fileType})
			require.NoError(t, err)
			require.Len(t, seen.Messages, 2)
			prompt := seen.Messages[1].Content
			assert.True(t, utf8.ValidString(prompt))
			if !testCase.embedded {
				assert.NotContains(t, prompt, "Content:")
				assert.NotContains(t, prompt, "%PDF")
				return
			}
			assert.Contains(t, prompt, testCase.expect)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Zo", string(truncate([]byte("Zoë"), 3)))
	assert.Equal(t, "Zoë", string(truncate([]byte("Zoë"), 4)))
	assert.Equal(t, "Zoë", string(truncate([]byte("Zoë"), 0)))
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()
	client := New("test-key", server.URL+"/v1")
	_, err := client.Analyze(context.Background(), &analyzer.Request{DocumentURL: "cv.pdf"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, analyzer.ErrInvalidResponse)
}
