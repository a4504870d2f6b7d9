package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProctoringConfig_WithDefaults(t *testing.T) {
	cfg := ProctoringConfig{}.WithDefaults()

	assert.Equal(t, 5*time.Second, cfg.Debounce)
	assert.Equal(t, 5*time.Second, cfg.ContinuousInterval)
	assert.Equal(t, 3, cfg.MaxViolations)
	assert.Equal(t, 3*time.Second, cfg.ContextMenuCooldown)
	assert.Equal(t, 2*time.Second, cfg.RedirectDelay)
	assert.Equal(t, 160, cfg.DevtoolsThreshold)
	assert.Equal(t, DefaultResultPathTemplate, cfg.ResultPathTemplate)
}

func TestProctoringConfig_WithDefaults_KeepsOverrides(t *testing.T) {
	cfg := ProctoringConfig{
		Debounce:      10 * time.Second,
		MaxViolations: 5,
	}.WithDefaults()

	assert.Equal(t, 10*time.Second, cfg.Debounce)
	assert.Equal(t, 5, cfg.MaxViolations)
	assert.Equal(t, DefaultContinuousInterval, cfg.ContinuousInterval)
}

func TestLoad_ReadsYAML(t *testing.T) {
	dir := t.TempDir()
	content := `
server:
  admin_port: 8080
  proctor_port: 8081
database:
  host: localhost
proctoring:
  debounce: 7s
  max_violations: 4
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600))

	require.NoError(t, Load(dir))
	cfg := GetConfig()

	assert.Equal(t, 8080, cfg.Server.AdminPort)
	assert.Equal(t, 8081, cfg.Server.ProctorPort)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 7*time.Second, cfg.Proctoring.Debounce)
	assert.Equal(t, 4, cfg.Proctoring.MaxViolations)
	assert.Equal(t, DefaultContinuousInterval, cfg.Proctoring.ContinuousInterval)
	assert.Equal(t, 1000, cfg.WebSocket.MaxConnections)
}
