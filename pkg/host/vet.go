package host

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/unitchecker"
)

// Vet - хост, работающий как vet-инструмент: go vet -vettool=<бинарник>
// вызывает его по одному разу на пакет.
type Vet struct {
	// Stderr получает предупреждения. По умолчанию os.Stderr.
	Stderr io.Writer
}

// DefaultRegistrar - регистрация, которую хост выполняет сам.
func (Vet) DefaultRegistrar() Registrar {
	return RegisterDefaults
}

// Run готовит сессию, регистрирует проверки и передаёт управление
// unitchecker. При успешной подготовке Run не возвращается: unitchecker
// завершает процесс сам (1, если есть диагностики уровня deny).
func (v Vet) Run(args []string, register Registrar) error {
	inv, err := parseInvocation(args)
	if err != nil {
		return err
	}
	sess := NewSession(inv.progname, inv.args(), inv.cfg, inv.sysroot)

	analyzers, err := v.prepare(inv, sess, register)
	if err != nil {
		return err
	}
	if sess.Sysroot() != "" {
		if err := os.Setenv("GOROOT", sess.Sysroot()); err != nil {
			return fmt.Errorf("set GOROOT: %w", err)
		}
	}

	declareHostFlags(flag.CommandLine)
	os.Args = inv.forward()
	unitchecker.Main(analyzers...)
	return nil
}

func (v Vet) prepare(inv *invocation, sess *Session, register Registrar) ([]*analysis.Analyzer, error) {
	store := NewStore()
	if register != nil {
		register(sess, store)
	}
	if err := store.Err(); err != nil {
		return nil, fmt.Errorf("register checks: %w", err)
	}
	for _, o := range inv.overrides {
		store.SetLevel(o.name, o.level)
	}

	passes, err := store.Analyzers(sess)
	if err != nil {
		return nil, fmt.Errorf("construct passes: %w", err)
	}

	out := v.Stderr
	if out == nil {
		out = os.Stderr
	}
	r := &reporter{
		store: store,
		sess:  sess,
		out:   out,
		json:  inv.hasFlag("json"),
	}
	if cfg := inv.configFile(); cfg != "" {
		r.vetxOnly = readVetxOnly(cfg)
	}

	analyzers := make([]*analysis.Analyzer, 0, len(passes))
	for _, a := range passes {
		analyzers = append(analyzers, r.wrap(a))
	}
	return analyzers, nil
}

// readVetxOnly читает из конфигурации единицы признак «только факты».
// Ошибки чтения оставляет unitchecker.
func readVetxOnly(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var cfg struct {
		VetxOnly bool
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return false
	}
	return cfg.VetxOnly
}

// declareHostFlags объявляет флаги хоста, чтобы они попали в вывод -flags
// и go vet пропускал их к инструменту. Значения разбирает parseInvocation,
// до unitchecker эти флаги не доходят.
func declareHostFlags(fs *flag.FlagSet) {
	if fs.Lookup("cfg") != nil {
		return
	}
	fs.String("cfg", "", "enable suppression directives //<cfg>:allow <check>")
	fs.String("sysroot", "", "toolchain root used for this run")
	fs.String("allow", "", "comma-separated checks to silence")
	fs.String("warn", "", "comma-separated checks to report as warnings")
	fs.String("deny", "", "comma-separated checks to report as errors")
}
