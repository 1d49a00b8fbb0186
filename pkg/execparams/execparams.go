// Package execparams описывает параметры запуска обёртки, которые она сообщает
// о самой себе в режиме отчёта: абсолютный путь к собственному бинарнику и
// снимок окружения. Снимок передаётся оркестратору одним JSON-документом
// через stdout и после захвата не изменяется.
package execparams

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DumpEnv переключает обёртку в режим отчёта. Значение не важно, важно наличие.
	DumpEnv = "NAG_DUMP_EXECUTION_PARAMS"
	// SysrootEnv передаёт драйверу корень тулчейна для флага --sysroot.
	SysrootEnv = "NAG_SYSROOT"
)

var (
	ErrNoArgv0       = errors.New("no binary name in argv")
	ErrNotAbsolute   = errors.New("binary path is not absolute")
	ErrMalformed     = errors.New("malformed execution params")
	ErrEmptyEnvKey   = errors.New("empty environment variable name")
	errTrailingBytes = errors.New("trailing data after execution params")
)

// Params - снимок параметров запуска. Поля закрыты: после создания
// снимок можно только читать.
type Params struct {
	binary      string
	environment map[string]string
}

// wire - формат на проводе: ровно два поля.
type wire struct {
	Binary      *string           `json:"binary"`
	Environment map[string]string `json:"environment"`
}

// New создаёт снимок, копируя env.
func New(binary string, env map[string]string) (Params, error) {
	if binary == "" {
		return Params{}, ErrNoArgv0
	}
	if !filepath.IsAbs(binary) {
		return Params{}, fmt.Errorf("%w: %q", ErrNotAbsolute, binary)
	}
	environment := make(map[string]string, len(env))
	for k, v := range env {
		if k == "" {
			return Params{}, ErrEmptyEnvKey
		}
		environment[k] = v
	}
	return Params{binary: binary, environment: environment}, nil
}

// Capture строит снимок из argv и списка "KEY=VALUE".
// Относительный argv[0] разрешается через os.Executable.
func Capture(args, environ []string) (Params, error) {
	if len(args) == 0 || args[0] == "" {
		return Params{}, ErrNoArgv0
	}
	binary := args[0]
	if !filepath.IsAbs(binary) {
		exe, err := os.Executable()
		if err != nil {
			return Params{}, fmt.Errorf("resolve %q: %w", binary, err)
		}
		binary = exe
	}
	return New(binary, ParseEnviron(environ))
}

// ParseEnviron разбирает записи формата os.Environ. Записи без имени
// пропускаются, при повторе имени побеждает последняя.
func ParseEnviron(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, _ := strings.Cut(kv, "=")
		if k == "" {
			continue
		}
		env[k] = v
	}
	return env
}

func (p Params) Binary() string {
	return p.binary
}

func (p Params) Lookup(key string) (string, bool) {
	v, ok := p.environment[key]
	return v, ok
}

// Environment возвращает копию снимка окружения.
func (p Params) Environment() map[string]string {
	return maps.Clone(p.environment)
}

func (p Params) Len() int {
	return len(p.environment)
}

func (p Params) MarshalJSON() ([]byte, error) {
	env := p.environment
	if env == nil {
		env = map[string]string{}
	}
	return json.Marshal(wire{Binary: &p.binary, Environment: env})
}

// Write пишет снимок в w одним JSON-объектом без перевода строки в конце.
func Write(w io.Writer, p Params) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode execution params: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write execution params: %w", err)
	}
	return nil
}

// Decode разбирает ровно один JSON-объект. Лишние поля, отсутствующие поля,
// относительный путь и данные после объекта считаются нарушением протокола.
func Decode(data []byte) (Params, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var w wire
	if err := dec.Decode(&w); err != nil {
		return Params{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Params{}, fmt.Errorf("%w: %w", ErrMalformed, errTrailingBytes)
	}
	if w.Binary == nil {
		return Params{}, fmt.Errorf("%w: missing field %q", ErrMalformed, "binary")
	}
	if w.Environment == nil {
		return Params{}, fmt.Errorf("%w: missing field %q", ErrMalformed, "environment")
	}

	p, err := New(*w.Binary, w.Environment)
	if err != nil {
		return Params{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return p, nil
}

// Report - точка входа режима отчёта: захватывает argv[0] и окружение
// текущего процесса и пишет их в w. Больше в w ничего не пишется.
func Report(w io.Writer) error {
	p, err := Capture(os.Args, os.Environ())
	if err != nil {
		return err
	}
	return Write(w, p)
}
