package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	defer func() {
		log.SetLevel(log.InfoLevel)
		log.SetOutput(os.Stderr)
	}()

	closer, err := Configure("debug", filepath.Join(t.TempDir(), "calc.log"))
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	require.NoError(t, closer.Close())

	_, err = Configure("loud", "")
	assert.ErrorContains(t, err, `log level "loud"`)
}

func TestWithStacktrace(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New()
	logger.Out = &buf

	err := errors.Wrap(errors.New("boom"), "lookup")
	entry := WithStacktrace(log.NewEntry(logger), err)
	assert.Contains(t, entry.Data, Stacktrace)
	assert.Equal(t, err, entry.Data[log.ErrorKey])

	plain := WithStacktrace(log.NewEntry(logger), assert.AnError)
	assert.NotContains(t, plain.Data, Stacktrace)
}

func TestNullLogger(t *testing.T) {
	entry := NullLogger()
	entry.Error("dropped")
	assert.Equal(t, log.PanicLevel, entry.Logger.Level)
}
