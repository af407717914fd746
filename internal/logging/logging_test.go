package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/plus3/isoarena/ecs"
	"github.com/plus3/isoarena/internal/logging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("json carries a session id", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := logging.New(logging.Options{Level: "info", Format: "json", Output: &buf})
		require.NoError(t, err)

		logger.Debug().Msg("hidden")
		logger.Info().Msg("shown")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "shown", line["message"])
		_, err = uuid.Parse(line["session"].(string))
		assert.NoError(t, err)
	})

	t.Run("console", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := logging.New(logging.Options{Level: "debug", Output: &buf})
		require.NoError(t, err)

		logger.Debug().Msg("ready")
		assert.Contains(t, buf.String(), "ready")
		assert.Contains(t, buf.String(), "session=")
	})

	t.Run("rejects bad options", func(t *testing.T) {
		_, err := logging.New(logging.Options{Level: "shouty"})
		assert.Error(t, err)
		_, err = logging.New(logging.Options{Level: "info", Format: "xml"})
		assert.Error(t, err)
	})
}

type marker struct{}

func TestStorageAndSystems(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[marker](registry)
	storage := ecs.NewStorage(registry)
	storage.Spawn(marker{})
	storage.Spawn(marker{})
	storage.AddSingleton(struct{ Round int }{Round: 1})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(ecs.SystemFunc(func(*ecs.UpdateFrame) {}))
	scheduler.Once(0.016)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	logging.Storage(&logger, storage.CollectStats(), zerolog.InfoLevel)
	assert.Contains(t, buf.String(), `"total_entities":2`)
	assert.Contains(t, buf.String(), `"entities":2`)
	assert.Contains(t, buf.String(), "logging_test.marker")

	buf.Reset()
	logging.Systems(&logger, scheduler.GetStats(), zerolog.InfoLevel)
	assert.Contains(t, buf.String(), `"frames":1`)
	assert.Contains(t, buf.String(), `"runs":1`)
}
