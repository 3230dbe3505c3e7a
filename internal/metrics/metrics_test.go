package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheus_CountsByStatus(t *testing.T) {
	p := NewPrometheus()

	p.ObserveLLM("openai", 100*time.Millisecond, nil)
	p.ObserveLLM("openai", 200*time.Millisecond, errors.New("boom"))
	p.ObserveTool("get_weather", time.Millisecond, false)
	p.ObserveTool("get_weather", time.Millisecond, true)
	p.ObserveTool("get_weather", time.Millisecond, true)

	assert.Equal(t, 1.0, testutil.ToFloat64(p.llmRequests.WithLabelValues("openai", StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.llmRequests.WithLabelValues("openai", StatusError)))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.toolCalls.WithLabelValues("get_weather", StatusError)))
}

func TestPrometheus_Handler(t *testing.T) {
	p := NewPrometheus()
	p.ObserveTool("press_key", time.Millisecond, false)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `jarvis_tool_calls_total{status="ok",tool="press_key"} 1`)
}

func TestPrometheus_WatchQueue(t *testing.T) {
	p := NewPrometheus()
	depth := 3
	p.WatchQueue("inbound", func() int { return depth })

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `jarvis_queue_depth{queue="inbound"} 3`)

	depth = 0
	rec = httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `jarvis_queue_depth{queue="inbound"} 0`)
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	r.ObserveLLM("x", 0, nil)
	r.ObserveTool("y", 0, true)
}
