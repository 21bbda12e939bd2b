package eventful_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ThreeDotsLabs/eventful"
)

func TestStdLogger_with(t *testing.T) {
	buf := bytes.NewBuffer([]byte{})

	cleanLogger := eventful.NewStdLoggerWithOut(buf, true, true)

	withLogFieldsLogger := cleanLogger.With(eventful.LogFields{"foo": "1"})

	for name, logger := range map[string]eventful.LoggerAdapter{"clean": cleanLogger, "with": withLogFieldsLogger} {
		logger.Error(name, nil, eventful.LogFields{"bar": "2"})
		logger.Info(name, eventful.LogFields{"bar": "2"})
		logger.Debug(name, eventful.LogFields{"bar": "2"})
		logger.Trace(name, eventful.LogFields{"bar": "2"})
	}

	cleanLoggerOut := buf.String()
	assert.Contains(t, cleanLoggerOut, `level=ERROR msg="clean" bar=2 err=<nil>`)
	assert.Contains(t, cleanLoggerOut, `level=INFO  msg="clean" bar=2`)
	assert.Contains(t, cleanLoggerOut, `level=TRACE msg="clean" bar=2`)

	assert.Contains(t, cleanLoggerOut, `level=ERROR msg="with" bar=2 err=<nil> foo=1`)
	assert.Contains(t, cleanLoggerOut, `level=INFO  msg="with" bar=2 foo=1`)
	assert.Contains(t, cleanLoggerOut, `level=TRACE msg="with" bar=2 foo=1`)
}

func TestCaptureLoggerAdapter(t *testing.T) {
	logger := eventful.NewCaptureLogger()

	logger.Info("info msg", eventful.LogFields{"foo": "bar"})
	logger.With(eventful.LogFields{"baz": "1"}).Debug("debug msg", nil)

	assert.True(t, logger.Has(eventful.CapturedMessage{
		Level:  eventful.InfoLogLevel,
		Fields: eventful.LogFields{"foo": "bar"},
		Msg:    "info msg",
	}))
	assert.True(t, logger.Has(eventful.CapturedMessage{
		Level:  eventful.DebugLogLevel,
		Fields: eventful.LogFields{"baz": "1"},
		Msg:    "debug msg",
	}))
	assert.False(t, logger.Has(eventful.CapturedMessage{
		Level: eventful.ErrorLogLevel,
		Msg:   "missing",
	}))
}
