package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/fabric-tools/dataagent/pkg/utils/logging"
	"github.com/m-mizutani/gt"
)

func TestJSONLoggerMasksAuthorization(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelInfo, logging.FormatJSON, false)

	logger.Info("request sent", slog.String("Authorization", "Bearer super-secret-token"))

	var record map[string]any
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	gt.NotEqual(t, record["Authorization"], "Bearer super-secret-token")
}

func TestFromReturnsContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelDebug, logging.FormatJSON, false)
	ctx := logging.With(context.Background(), logger)

	gt.Value(t, logging.From(ctx)).Equal(logger)
	gt.Value(t, logging.From(context.Background())).Equal(logging.Default())
}
