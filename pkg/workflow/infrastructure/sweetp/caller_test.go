package sweetp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tss-calculator/go-lib/pkg/infrastructure/logger"

	"github.com/tss-calculator/project-workflow/pkg/workflow/application/model"
)

func newTestCaller(serverURL string) interface {
	Call(ctx context.Context, service string, params model.ServiceParams) (json.RawMessage, error)
} {
	return NewCallerProvider(nil, logger.NewTextLogger()).Caller(model.Target{
		ServerURL:   serverURL + "/",
		ProjectName: "test",
	})
}

func TestCall(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"service": "scm/branch/create reply"}`))
	}))
	defer server.Close()

	reply, err := newTestCaller(server.URL).Call(context.Background(), "scm/branch/create", model.ServiceParams{
		"name":  "feature/myTest24",
		"force": false,
	})
	require.NoError(t, err)

	assert.Equal(t, "/services/test/scm/branch/create", gotPath)
	assert.Equal(t, "force=false&name=feature%2FmyTest24", gotQuery)
	assert.JSONEq(t, `"scm/branch/create reply"`, string(reply))
}

func TestCallWithoutParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/test/scm/branch/name", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"service": "develop"}`))
	}))
	defer server.Close()

	reply, err := newTestCaller(server.URL).Call(context.Background(), "scm/branch/name", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `"develop"`, string(reply))
}

func TestCallServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestCaller(server.URL).Call(context.Background(), "scm/checkout", model.ServiceParams{"name": "develop"})
	require.Error(t, err)

	assert.Equal(t, "Error during call to service scm/checkout: unexpected status 500: boom", err.Error())
}

func TestCallInvalidReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := newTestCaller(server.URL).Call(context.Background(), "scm/branch/name", nil)
	require.Error(t, err)

	assert.Contains(t, err.Error(), "during call to service scm/branch/name")
	assert.Contains(t, err.Error(), "failed to decode reply")
}

func TestCallWithoutTarget(t *testing.T) {
	c := NewCallerProvider(nil, logger.NewTextLogger()).Caller(model.Target{ProjectName: "test"})

	_, err := c.Call(context.Background(), "scm/checkout", nil)
	require.Error(t, err)
	assert.Equal(t, "Error during call to service scm/checkout: server url is empty", err.Error())
}

func TestCallCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestCaller(server.URL).Call(ctx, "scm/branch/name", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
