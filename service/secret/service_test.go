package secret

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/scy/cred"
)

func TestService_Basic(t *testing.T) {
	ctx := context.Background()
	srv := New()
	resource := &Resource{URL: filepath.Join(t.TempDir(), "smtp.json")}
	require.NoError(t, srv.StoreBasic(ctx, resource, &cred.Basic{Username: "jobs", Password: "s3cret"}))

	basic, err := srv.Basic(ctx, resource)
	require.NoError(t, err)
	assert.Equal(t, "jobs", basic.Username)
	assert.Equal(t, "s3cret", basic.Password)
}

func TestService_Text(t *testing.T) {
	ctx := context.Background()
	srv := New()
	resource := &Resource{URL: filepath.Join(t.TempDir(), "openai.key"), Key: DefaultKey}
	require.NoError(t, srv.StoreText(ctx, resource, "sk-test\n"))

	text, err := srv.Text(ctx, resource)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", text)
}

func TestService_Errors(t *testing.T) {
	ctx := context.Background()
	srv := New()
	_, err := srv.Text(ctx, &Resource{})
	assert.Error(t, err)
	_, err = srv.Basic(ctx, nil)
	assert.Error(t, err)
	_, err = srv.Text(ctx, &Resource{URL: filepath.Join(t.TempDir(), "missing.key")})
	assert.Error(t, err)
}
