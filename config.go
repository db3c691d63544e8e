package hireflow

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/viant/hireflow/service/executor"
	mqueue "github.com/viant/hireflow/service/messaging/memory"
	"github.com/viant/hireflow/service/meta"
	"github.com/viant/hireflow/service/notifier/smtp"
	"github.com/viant/hireflow/service/processor"
	"github.com/viant/hireflow/service/retry"
	"github.com/viant/hireflow/service/secret"
)

// Notifier providers
const (
	NotifierRecorder = "recorder"
	NotifierSMTP     = "smtp"
)

// AnalyzerOpenAI selects the OpenAI chat completion analyzer
const AnalyzerOpenAI = "openai"

// Config is a serialisable representation of the engine configuration. The
// zero value of every section falls back to DefaultConfig.
type Config struct {
	Engine    EngineConfig     `json:"engine" yaml:"engine"`
	Processor processor.Config `json:"processor" yaml:"processor"`
	Queue     mqueue.Config    `json:"queue" yaml:"queue"`
	Store     StoreConfig      `json:"store" yaml:"store"`
	Log       LogConfig        `json:"log" yaml:"log"`
	Analyzer  AnalyzerConfig   `json:"analyzer" yaml:"analyzer"`
	Notifier  NotifierConfig   `json:"notifier" yaml:"notifier"`
	Tracing   TracingConfig    `json:"tracing" yaml:"tracing"`
}

// EngineConfig controls run execution
type EngineConfig struct {
	// CallTimeout bounds every collaborator call unless a node sets timeoutMs
	CallTimeout time.Duration `json:"callTimeout" yaml:"callTimeout" validate:"gt=0"`
	// Concurrency bounds ExecuteAll fan-out
	Concurrency int `json:"concurrency" yaml:"concurrency" validate:"gte=1"`
}

// StoreConfig selects the run record store; an empty URL keeps runs in memory
type StoreConfig struct {
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// LogConfig configures the structured logger
type LogConfig struct {
	Level  string `json:"level" yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `json:"format" yaml:"format" validate:"omitempty,oneof=text json"`
}

// AnalyzerConfig configures the document analysis collaborator
type AnalyzerConfig struct {
	Provider      string           `json:"provider,omitempty" yaml:"provider,omitempty" validate:"omitempty,oneof=openai"`
	Model         string           `json:"model,omitempty" yaml:"model,omitempty"`
	BaseURL       string           `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
	APIKeyEnv     string           `json:"apiKeyEnv,omitempty" yaml:"apiKeyEnv,omitempty"`
	// Secret holds the API key; it takes precedence over APIKeyEnv
	Secret        *secret.Resource `json:"secret,omitempty" yaml:"secret,omitempty"`
	DocumentLimit int              `json:"documentLimit,omitempty" yaml:"documentLimit,omitempty" validate:"gte=0"`
	Retry         retry.Policy     `json:"retry" yaml:"retry"`
}

// APIKey returns the key read from APIKeyEnv
func (c *AnalyzerConfig) APIKey() string {
	return os.Getenv(c.APIKeyEnv)
}

// ResolveAPIKey returns the key stored at Secret, or the APIKeyEnv value
// when no secret is configured
func (c *AnalyzerConfig) ResolveAPIKey(ctx context.Context, secrets *secret.Service) (string, error) {
	if c.Secret.IsEmpty() {
		return c.APIKey(), nil
	}
	return secrets.Text(ctx, c.Secret)
}

// NotifierConfig configures the communication collaborator
type NotifierConfig struct {
	Provider string           `json:"provider,omitempty" yaml:"provider,omitempty" validate:"omitempty,oneof=recorder smtp"`
	SMTP     smtp.Config      `json:"smtp" yaml:"smtp"`
	// Secret holds SMTP username and password; it overrides smtp.username and smtp.password
	Secret   *secret.Resource `json:"secret,omitempty" yaml:"secret,omitempty"`
	Retry    retry.Policy     `json:"retry" yaml:"retry"`
}

// ResolveSMTP returns a copy of the SMTP settings with the credentials
// stored at Secret applied
func (c *NotifierConfig) ResolveSMTP(ctx context.Context, secrets *secret.Service) (*smtp.Config, error) {
	ret := c.SMTP
	if c.Secret.IsEmpty() {
		return &ret, nil
	}
	basic, err := secrets.Basic(ctx, c.Secret)
	if err != nil {
		return nil, err
	}
	ret.Username = basic.Username
	ret.Password = basic.Password
	return &ret, nil
}

// TracingConfig enables the stdout span exporter
type TracingConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Service string `json:"service,omitempty" yaml:"service,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Output  string `json:"output,omitempty" yaml:"output,omitempty"`
}

// DefaultConfig returns the configuration used when none is supplied
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			CallTimeout: executor.DefaultTimeout,
			Concurrency: 4,
		},
		Processor: processor.DefaultConfig(),
		Queue:     mqueue.DefaultConfig(),
		Log:       LogConfig{Level: "info", Format: "text"},
		Analyzer: AnalyzerConfig{
			Provider:      AnalyzerOpenAI,
			APIKeyEnv:     "OPENAI_API_KEY",
			DocumentLimit: 32 * 1024,
			Retry:         retry.Policy{Strategy: retry.StrategyExponential, Attempts: 3, Delay: 500 * time.Millisecond, MaxDelay: 5 * time.Second, Jitter: 0.2},
		},
		Notifier: NotifierConfig{
			Provider: NotifierRecorder,
			SMTP:     smtp.Config{Port: 25, Rate: 5, Burst: 5},
			Retry:    retry.Policy{Strategy: retry.StrategyFixed, Attempts: 2, Delay: time.Second},
		},
		Tracing: TracingConfig{Service: "hireflow"},
	}
}

var configValidator = validator.New()

// Validate returns an error describing the first invalid settings or nil
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Notifier.Provider == NotifierSMTP && (c.Notifier.SMTP.Host == "" || c.Notifier.SMTP.From == "") {
		return fmt.Errorf("invalid config: notifier.smtp host and from are required")
	}
	return nil
}

// LoadConfig loads YAML or JSON configuration at URL on top of DefaultConfig
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	ret := DefaultConfig()
	if err := meta.New(nil, "").Load(ctx, URL, ret); err != nil {
		return nil, err
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}
