package hireflow

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/hireflow/internal/logging"
	"github.com/viant/hireflow/service/retry"
	"github.com/viant/hireflow/service/secret"
	"github.com/viant/scy/cred"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("HF_LOG_LEVEL", "warn")
	location, err := filepath.Abs(filepath.Join("testdata", "config.yaml"))
	require.NoError(t, err)
	config, err := LoadConfig(context.Background(), location)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, config.Engine.CallTimeout)
	assert.Equal(t, 2, config.Engine.Concurrency)
	assert.Equal(t, 2, config.Processor.WorkerCount)
	assert.Equal(t, 10, config.Processor.QueueBuffer)
	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "gpt-4o", config.Analyzer.Model)
	assert.Equal(t, retry.StrategyExponential, config.Analyzer.Retry.Strategy, "defaults survive partial documents")
	assert.Equal(t, retry.StrategyNone, config.Notifier.Retry.Strategy)

	t.Setenv("HF_TEST_OPENAI_KEY", "sk-test")
	assert.Equal(t, "sk-test", config.Analyzer.APIKey())

	_, err = LoadConfig(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		description string
		mutate      func(c *Config)
		valid       bool
	}{
		{description: "default", mutate: func(c *Config) {}, valid: true},
		{description: "zero timeout", mutate: func(c *Config) { c.Engine.CallTimeout = 0 }},
		{description: "zero workers", mutate: func(c *Config) { c.Processor.WorkerCount = 0 }},
		{description: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }},
		{description: "bad retry strategy", mutate: func(c *Config) { c.Analyzer.Retry.Strategy = "forever" }},
		{description: "smtp without host", mutate: func(c *Config) { c.Notifier.Provider = NotifierSMTP }},
		{description: "smtp", mutate: func(c *Config) {
			c.Notifier.Provider = NotifierSMTP
			c.Notifier.SMTP.Host = "mail.example.com"
			c.Notifier.SMTP.From = "jobs@example.com"
		}, valid: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			config := DefaultConfig()
			testCase.mutate(config)
			err := config.Validate()
			assert.Equal(t, testCase.valid, err == nil, err)
		})
	}
	var config *Config
	assert.NoError(t, config.Validate())
}

func TestConfig_ResolveSecrets(t *testing.T) {
	ctx := context.Background()
	secrets := secret.New()
	dir := t.TempDir()
	smtpSecret := &secret.Resource{URL: filepath.Join(dir, "smtp.json")}
	keySecret := &secret.Resource{URL: filepath.Join(dir, "openai.key")}
	require.NoError(t, secrets.StoreBasic(ctx, smtpSecret, &cred.Basic{Username: "jobs", Password: "s3cret"}))
	require.NoError(t, secrets.StoreText(ctx, keySecret, "sk-from-secret"))

	config := DefaultConfig()
	config.Notifier.SMTP.Host = "mail.example.com"
	config.Notifier.SMTP.Username = "plain"
	config.Notifier.Secret = smtpSecret
	smtpConfig, err := config.Notifier.ResolveSMTP(ctx, secrets)
	require.NoError(t, err)
	assert.Equal(t, "jobs", smtpConfig.Username)
	assert.Equal(t, "s3cret", smtpConfig.Password)
	assert.Equal(t, "mail.example.com", smtpConfig.Host)
	assert.Equal(t, "plain", config.Notifier.SMTP.Username)

	t.Setenv("HF_TEST_API_KEY", "sk-from-env")
	config.Analyzer.APIKeyEnv = "HF_TEST_API_KEY"
	apiKey, err := config.Analyzer.ResolveAPIKey(ctx, secrets)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", apiKey)
	config.Analyzer.Secret = keySecret
	apiKey, err = config.Analyzer.ResolveAPIKey(ctx, secrets)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-secret", apiKey)

	config.Notifier.Provider = NotifierSMTP
	config.Notifier.SMTP.From = "jobs@example.com"
	config.Notifier.Secret = &secret.Resource{URL: filepath.Join(dir, "missing.json")}
	_, err = New(WithConfig(config), WithLogger(logging.Discard()), WithSecretService(secrets))
	assert.Error(t, err)
}
