// filepath: internal/audit/logger_auditor_test.go
package audit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mpvshelf/internal/logging"
)

func TestLoggerAuditorDisabled(t *testing.T) {
	hook := test.NewLocal(logging.Log)
	defer hook.Reset()

	NewLoggerAuditor(false).Log(context.Background(), "get_default_user", "client", "/api/command/get_default_user", nil)
	assert.Empty(t, hook.Entries)
}

func TestLoggerAuditorEnabled(t *testing.T) {
	hook := test.NewLocal(logging.Log)
	defer hook.Reset()

	NewLoggerAuditor(true).Log(context.Background(), "update_user", "client",
		"/api/command/update_user", map[string]interface{}{"status": 200})

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, "AUDIT EVENT", entry.Message)
	assert.Equal(t, "update_user", entry.Data["audit_action"])
	assert.Equal(t, "client", entry.Data["audit_actor"])
	assert.Equal(t, 200, entry.Data["detail.status"])
}

func TestCommandMiddlewareAuditsDispatch(t *testing.T) {
	hook := test.NewLocal(logging.Log)
	defer hook.Reset()

	r := mux.NewRouter()
	r.Use(CommandMiddleware(NewLoggerAuditor(true)))
	r.HandleFunc("/api/command/{name}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods("POST")
	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	// A command dispatch is audited with its outcome.
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/command/get_os_folders", nil))
	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, "get_os_folders", entry.Data["audit_action"])
	assert.Equal(t, http.StatusNotFound, entry.Data["detail.status"])

	// Non-command routes are not audited.
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Len(t, hook.Entries, 1)
}
