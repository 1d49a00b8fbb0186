package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aseptimu/nag/internal/app/config"
	"github.com/aseptimu/nag/internal/app/orchestrator"
	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "nag dev (commit none)\n", out.String())
}

func TestVetCmd_RequiresLinterDir(t *testing.T) {
	t.Setenv("NAG_LINTER_DIR", "")
	require.NoError(t, os.Unsetenv("NAG_LINTER_DIR"))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"vet", "./..."})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NAG_LINTER_DIR")
}

// TestEndToEnd собирает cmd/examplenag и запускает настоящий go vet на
// testdata/target. Нужен тулчейн Go, поэтому тест включается через NAG_E2E=1.
func TestEndToEnd(t *testing.T) {
	if os.Getenv("NAG_E2E") == "" {
		t.Skip("set NAG_E2E=1 to run against the real go command")
	}

	linterDir, err := filepath.Abs("../examplenag")
	require.NoError(t, err)
	target, err := filepath.Abs("testdata/target")
	require.NoError(t, err)

	cfg, err := config.Load(env.Options{Environment: map[string]string{
		"NAG_LINTER_DIR": linterDir,
		"NAG_WORK_DIR":   t.TempDir(),
	}})
	require.NoError(t, err)

	t.Chdir(target)

	var stdout, stderr bytes.Buffer
	runner := orchestrator.NewExecRunner()
	runner.Stdout = &stdout
	runner.Stderr = &stderr

	err = orchestrator.New(cfg, runner, zap.NewNop().Sugar()).Vet(context.Background(), []string{"."})
	require.NoError(t, err, stderr.String())

	out := stderr.String()
	assert.Equal(t, 1, strings.Count(out, "warning:"), out)
	assert.Contains(t, out, "main.go:6:2: warning: direct call to os.Exit in main [exitmain]")
}
