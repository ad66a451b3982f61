package tracer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitTracerDisabled(t *testing.T) {
	shutdown := InitTracer("kb-agent-test", false, "")
	assert.NoError(t, shutdown(context.Background()))
}
