// Package logger создаёт zap-логгер nag. Логгер пишет только в stderr:
// stdout занят протоколом режима отчёта и выводом go vet -json.
package logger

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelEnv задаёт уровень логирования и для оркестратора, и для драйвера.
const LevelEnv = "NAG_LOG_LEVEL"

// New возвращает логгер уровня level ("debug", "info", "warn", "error").
// Уровни раскрашиваются, если stderr - терминал.
func New(level string) (*zap.SugaredLogger, error) {
	return build(level, os.Stderr, isatty.IsTerminal(os.Stderr.Fd()))
}

func build(level string, w io.Writer, color bool) (*zap.SugaredLogger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	if color {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(zapcore.AddSync(w)), lvl)
	return zap.New(core).Named("nag").Sugar(), nil
}
