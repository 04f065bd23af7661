package server

import (
	"bytes"
	"context"
	"testing"

	"github.com/dmitrijs2005/postkeeper/internal/logging"
	"github.com/dmitrijs2005/postkeeper/internal/server/config"
	"github.com/stretchr/testify/assert"
)

func TestWarnInsecureConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	var buf bytes.Buffer
	warnInsecureConfig(context.Background(), logging.NewJSON(&buf, "info"), cfg)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), config.EnvSecretKey)

	buf.Reset()
	cfg.SecretKey = "from-env"
	warnInsecureConfig(context.Background(), logging.NewJSON(&buf, "info"), cfg)
	assert.Empty(t, buf.String())
}
