// Package driver - точка входа пользовательского линтера. Бинарник, собранный
// с драйвером, подставляется в go vet вместо стандартного vet-инструмента и
// ведёт себя как хост плюс зарегистрированные проверки.
//
// Использование:
//
//	func main() {
//		os.Exit(driver.New(
//			driver.WithCfg("nag"),
//			driver.WithCallbacks(lints.Register, otherlints.Register),
//		).Run())
//	}
//
// Режим выбирается один раз при старте: если задана переменная
// execparams.DumpEnv, драйвер только сообщает о себе (путь и окружение) и
// хост не запускает.
package driver

import (
	"io"
	"os"

	"github.com/aseptimu/nag/internal/app/logger"
	"github.com/aseptimu/nag/pkg/execparams"
	"github.com/aseptimu/nag/pkg/host"
	"go.uber.org/zap"
)

// Compiler - хост, который драйвер запускает.
type Compiler interface {
	// DefaultRegistrar возвращает регистрацию, которую хост выполнил бы сам.
	DefaultRegistrar() host.Registrar
	// Run запускает хост с argv (argv[0] - имя программы).
	Run(args []string, register host.Registrar) error
}

// Mode - режим процесса.
type Mode int

const (
	ModeDriver Mode = iota
	ModeReport
)

type Driver struct {
	cfg       []string
	callbacks []host.Registrar
	compiler  Compiler
	logger    *zap.SugaredLogger
	stdout    io.Writer
	lookupEnv func(string) (string, bool)
	report    func(io.Writer) error
}

type Option func(*Driver)

// WithCfg добавляет флаг --cfg=<cfg> к запуску хоста.
func WithCfg(cfg string) Option {
	return func(d *Driver) {
		d.cfg = append(d.cfg, cfg)
	}
}

func WithCallback(cb host.Registrar) Option {
	return func(d *Driver) {
		d.callbacks = append(d.callbacks, cb)
	}
}

func WithCallbacks(cbs ...host.Registrar) Option {
	return func(d *Driver) {
		d.callbacks = append(d.callbacks, cbs...)
	}
}

func WithCompiler(c Compiler) Option {
	return func(d *Driver) {
		d.compiler = c
	}
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(d *Driver) {
		d.logger = l
	}
}

// WithOutput задаёт поток для режима отчёта. По умолчанию os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(d *Driver) {
		d.stdout = w
	}
}

func New(opts ...Option) *Driver {
	d := &Driver{
		compiler:  host.Vet{},
		stdout:    os.Stdout,
		lookupEnv: os.LookupEnv,
		report:    execparams.Report,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = defaultLogger()
	}
	return d
}

func defaultLogger() *zap.SugaredLogger {
	level, ok := os.LookupEnv(logger.LevelEnv)
	if !ok {
		level = "warn"
	}
	l, err := logger.New(level)
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l
}

// Run запускает драйвер с аргументами процесса.
func (d *Driver) Run() int {
	return d.RunWithArgs(os.Args)
}

// RunWithArgs запускает драйвер с явными аргументами; args[0] - имя программы.
// Возвращает код завершения процесса.
func (d *Driver) RunWithArgs(args []string) int {
	if d.mode() == ModeReport {
		if err := d.report(d.stdout); err != nil {
			d.logger.Errorw("Failed to report execution params", "error", err)
			return 1
		}
		return 0
	}

	assembled := d.assemble(args)
	d.logger.Debugw("Running host", "args", assembled, "callbacks", len(d.callbacks))

	if err := d.compiler.Run(assembled, d.registrar()); err != nil {
		d.logger.Errorw("Host run failed", "error", err)
		return 1
	}
	return 0
}

func (d *Driver) mode() Mode {
	if _, ok := d.lookupEnv(execparams.DumpEnv); ok {
		return ModeReport
	}
	return ModeDriver
}

// assemble дописывает к копии args флаги --cfg и --sysroot.
func (d *Driver) assemble(args []string) []string {
	out := make([]string, 0, len(args)+len(d.cfg)+1)
	out = append(out, args...)
	for _, cfg := range d.cfg {
		out = append(out, "--cfg="+cfg)
	}
	if sysroot, ok := d.lookupEnv(execparams.SysrootEnv); ok {
		out = append(out, "--sysroot="+sysroot)
	}
	return out
}

// registrar: сначала регистрация хоста по умолчанию, затем колбэки в порядке
// добавления.
func (d *Driver) registrar() host.Registrar {
	list := make([]host.Registrar, 0, len(d.callbacks)+1)
	list = append(list, d.compiler.DefaultRegistrar())
	list = append(list, d.callbacks...)
	return host.Compose(list...)
}

// Run - сокращение для New(WithCfg(cfg), WithCallbacks(callbacks...)).Run().
func Run(cfg string, callbacks ...host.Registrar) int {
	return New(WithCfg(cfg), WithCallbacks(callbacks...)).Run()
}
