package health

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(bytes.NewBuffer(nil))
	return logger
}

func TestCheckAnswerTableHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("question,answer\n"))
	}))
	defer srv.Close()

	checker := NewChecker(nil, nil, quietLogger(), srv.URL)
	result := checker.CheckAnswerTable(context.Background())

	assert.Equal(t, "healthy", result.Status)
	assert.Empty(t, result.Error)
}

func TestCheckAnswerTableUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	checker := NewChecker(nil, nil, quietLogger(), srv.URL)
	result := checker.CheckAnswerTable(context.Background())

	assert.Equal(t, "unhealthy", result.Status)
	assert.Contains(t, result.Error, "502")
}

func TestCheckAllUnreachableTableIsUnhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	checker := NewChecker(nil, nil, quietLogger(), srv.URL)
	overall := checker.CheckAll(context.Background())

	assert.Equal(t, "unhealthy", overall.Status)
}

func TestCheckAllWithoutDatabaseIsDegraded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	checker := NewChecker(nil, nil, quietLogger(), srv.URL)
	overall := checker.CheckAll(context.Background())

	// Analytics stores are down but answering still works.
	assert.Equal(t, "degraded", overall.Status)
	assert.Len(t, overall.Services, 3)
}
