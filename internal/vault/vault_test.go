package vault

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkkniu-techhub/techhub/internal/config"
)

var _ config.SecretGetter = (*Client)(nil)

// kvServer answers KV-v2 reads for secret/techhub.
func kvServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/secret/data/techhub" {
			http.NotFound(w, r)
			return
		}
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "data": {
    "data": {"csrf": "s3cr3t", "count": 3},
    "metadata": {"created_time": "2025-01-01T00:00:00Z", "deletion_time": "", "destroyed": false, "version": 1}
  }
}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetKV(t *testing.T) {
	var hits atomic.Int32
	srv := kvServer(t, &hits)

	cli, err := New(context.Background(), nil, Options{Address: srv.URL, Token: "test", CacheTTL: time.Minute})
	require.NoError(t, err)

	got, err := cli.GetKV(context.Background(), "secret/techhub", "csrf")
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", got)

	_, err = cli.GetKV(context.Background(), "secret/techhub", "csrf")
	require.NoError(t, err)
	assert.EqualValues(t, 1, hits.Load(), "second read is cached")
}

func TestGetKV_Errors(t *testing.T) {
	var hits atomic.Int32
	srv := kvServer(t, &hits)
	cli, err := New(context.Background(), nil, Options{Address: srv.URL, Token: "test"})
	require.NoError(t, err)

	cases := map[string][2]string{
		"empty key":      {"secret/techhub", ""},
		"mount only":     {"secret", "csrf"},
		"missing key":    {"secret/techhub", "nope"},
		"non-string":     {"secret/techhub", "count"},
		"missing secret": {"secret/other", "csrf"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := cli.GetKV(context.Background(), in[0], in[1])
			assert.Error(t, err)
		})
	}
}

func TestResolveSecretsThroughVault(t *testing.T) {
	var hits atomic.Int32
	srv := kvServer(t, &hits)
	cli, err := New(context.Background(), nil, Options{Address: srv.URL, Token: "test"})
	require.NoError(t, err)

	cfg := &config.Config{Security: config.Security{CSRFKey: "vault:secret/techhub#csrf"}}
	require.NoError(t, cfg.ResolveSecrets(context.Background(), cli))
	assert.Equal(t, "s3cr3t", cfg.Security.CSRFKey)
}

func TestSplitMount(t *testing.T) {
	m, r := splitMount("/secret/apps/techhub/")
	assert.Equal(t, "secret", m)
	assert.Equal(t, "apps/techhub", r)
}
