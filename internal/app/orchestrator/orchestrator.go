// Package orchestrator реализует команду «nag vet»:
//  1. узнаёт корень тулчейна (go env GOROOT);
//  2. собирает и запускает обёртку в режиме отчёта (go run), чтобы
//     узнать абсолютный путь к её бинарнику и её окружение;
//  3. запускает go vet с обёрткой в роли vet-инструмента.
//
// Шаги выполняются строго по очереди, каждый подпроцесс дожидается
// завершения. Любая ошибка прерывает работу, повторов нет.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/aseptimu/nag/internal/app/config"
	"github.com/aseptimu/nag/pkg/execparams"
	"go.uber.org/zap"
)

const substitutionEnv = "GOFLAGS"

var (
	ErrSysroot     = errors.New("failed to determine sysroot")
	ErrReportBuild = errors.New("failed to build linter in report mode")
	ErrBinaryPath  = errors.New("linter binary path cannot be passed through GOFLAGS")
)

// ExitError - ненулевой код завершения подпроцесса, который нужно вернуть
// как код самого nag.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

type Orchestrator struct {
	cfg     *config.ConfigType
	runner  Runner
	logger  *zap.SugaredLogger
	environ func() []string
}

func New(cfg *config.ConfigType, runner Runner, logger *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{
		cfg:     cfg,
		runner:  runner,
		logger:  logger,
		environ: os.Environ,
	}
}

// Sysroot возвращает вывод "<compiler> env GOROOT" как есть.
func (o *Orchestrator) Sysroot(ctx context.Context) (string, error) {
	out, err := o.runner.Output(ctx, Command{
		Name: o.cfg.Compiler,
		Args: []string{"env", "GOROOT"},
		Env:  o.environ(),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSysroot, err)
	}
	if !utf8.Valid(out) {
		return "", fmt.Errorf("%w: output is not valid UTF-8", ErrSysroot)
	}
	if strings.TrimSpace(string(out)) == "" {
		return "", fmt.Errorf("%w: empty output", ErrSysroot)
	}
	return string(out), nil
}

// ExecutionParams собирает обёртку и запускает её в режиме отчёта.
// Временные файлы сборки пишутся в workDir (GOTMPDIR). Сам бинарник go run
// кладёт в кэш сборки (начиная с Go 1.24), там он доступен и для go vet.
func (o *Orchestrator) ExecutionParams(ctx context.Context, workDir string) (execparams.Params, error) {
	environ := o.environ()
	env := withEnv(environ,
		execparams.DumpEnv+"=please",
		o.gate(environ),
		"GOTMPDIR="+workDir,
	)
	out, err := o.runner.Output(ctx, Command{
		Name: o.cfg.BuildTool,
		Args: []string{"run", "."},
		Dir:  o.cfg.LinterDir,
		Env:  env,
	})
	if err != nil {
		return execparams.Params{}, fmt.Errorf("%w: %w", ErrReportBuild, err)
	}
	return execparams.Decode(out)
}

// Vet выполняет весь конвейер и запускает go vet с args.
func (o *Orchestrator) Vet(ctx context.Context, args []string) error {
	sysroot, err := o.Sysroot(ctx)
	if err != nil {
		return err
	}
	sysroot = strings.TrimSpace(sysroot)
	o.logger.Debugw("Sysroot resolved", "sysroot", sysroot)

	workDir, err := o.makeWorkDir()
	if err != nil {
		return err
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			o.logger.Warnw("Failed to remove work dir", "dir", workDir, "error", err)
		}
	}()

	o.logger.Debugw("Building linter", "dir", o.cfg.LinterDir, "module", o.cfg.LinterModule)
	params, err := o.ExecutionParams(ctx, workDir)
	if err != nil {
		return err
	}
	o.logger.Debugw("Linter reported", "binary", params.Binary(), "env", params.Len())

	cmd, err := o.vetCommand(params, sysroot, args)
	if err != nil {
		return err
	}

	o.logger.Infow("Running go vet", "linter", params.Binary(), "args", cmd.Args)
	if err := o.runner.Run(ctx, cmd); err != nil {
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) && coder.ExitCode() > 0 {
			return &ExitError{Code: coder.ExitCode(), Err: err}
		}
		return fmt.Errorf("run %s vet: %w", o.cfg.BuildTool, err)
	}
	return nil
}

func (o *Orchestrator) makeWorkDir() (string, error) {
	root := o.cfg.WorkDir
	if root == "" {
		cache, err := os.UserCacheDir()
		if err != nil {
			cache = os.TempDir()
		}
		root = filepath.Join(cache, "nag")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}
	dir, err := os.MkdirTemp(root, "run-")
	if err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}
	return dir, nil
}

// vetCommand собирает запуск go vet: флаги уровней из файла конфигурации,
// затем аргументы пользователя без изменений.
func (o *Orchestrator) vetCommand(params execparams.Params, sysroot string, args []string) (Command, error) {
	env, err := o.vetEnv(params, sysroot)
	if err != nil {
		return Command{}, err
	}

	vetArgs := []string{"vet"}
	vetArgs = append(vetArgs, o.cfg.LevelFlags()...)
	vetArgs = append(vetArgs, args...)
	return Command{Name: o.cfg.BuildTool, Args: vetArgs, Env: env}, nil
}

// vetEnv: унаследованное окружение, -vettool в GOFLAGS, NAG_SYSROOT и
// переменные из списка пропуска, взятые из снимка обёртки. Остальной
// снимок не используется.
func (o *Orchestrator) vetEnv(params execparams.Params, sysroot string) ([]string, error) {
	binary := params.Binary()
	if strings.ContainsAny(binary, " \t\n") {
		return nil, fmt.Errorf("%w: %q contains whitespace", ErrBinaryPath, binary)
	}

	environ := o.environ()
	set := []string{
		substitutionEnv + "=" + joinFlags(lookup(environ, substitutionEnv), "-vettool="+binary),
		execparams.SysrootEnv + "=" + sysroot,
	}
	for _, name := range o.cfg.PassthroughEnv {
		if v, ok := params.Lookup(name); ok {
			set = append(set, name+"="+v)
		}
	}
	return withEnv(environ, set...), nil
}

// gate - переменная, открывающая нестабильные возможности сборки. Если это
// GOFLAGS, значение дописывается к унаследованному.
func (o *Orchestrator) gate(environ []string) string {
	value := o.cfg.GateValue
	if o.cfg.GateEnv == substitutionEnv {
		value = joinFlags(lookup(environ, substitutionEnv), value)
	}
	return o.cfg.GateEnv + "=" + value
}

func joinFlags(prev, flags string) string {
	switch {
	case prev == "":
		return flags
	case flags == "":
		return prev
	}
	return prev + " " + flags
}

// withEnv возвращает копию environ, где переменные из set заменяют
// одноимённые.
func withEnv(environ []string, set ...string) []string {
	names := make(map[string]bool, len(set))
	for _, kv := range set {
		k, _, _ := strings.Cut(kv, "=")
		names[k] = true
	}
	out := make([]string, 0, len(environ)+len(set))
	for _, kv := range environ {
		k, _, _ := strings.Cut(kv, "=")
		if !names[k] {
			out = append(out, kv)
		}
	}
	return append(out, set...)
}

func lookup(environ []string, key string) string {
	v := ""
	for _, kv := range environ {
		if k, val, ok := strings.Cut(kv, "="); ok && k == key {
			v = val
		}
	}
	return v
}
