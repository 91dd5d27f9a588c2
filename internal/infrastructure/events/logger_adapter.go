package events

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

// LoggerAdapter conecta zerolog con watermill.LoggerAdapter.
type LoggerAdapter struct {
	log zerolog.Logger
}

// NewLoggerAdapter envuelve un zerolog.Logger.
func NewLoggerAdapter(log zerolog.Logger) *LoggerAdapter {
	return &LoggerAdapter{log: log}
}

func (a *LoggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error().Err(err).Fields(map[string]interface{}(fields)).Msg(msg)
}

func (a *LoggerAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Info().Fields(map[string]interface{}(fields)).Msg(msg)
}

func (a *LoggerAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug().Fields(map[string]interface{}(fields)).Msg(msg)
}

func (a *LoggerAdapter) Trace(msg string, fields watermill.LogFields) {
	a.log.Trace().Fields(map[string]interface{}(fields)).Msg(msg)
}

func (a *LoggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &LoggerAdapter{log: a.log.With().Fields(map[string]interface{}(fields)).Logger()}
}
