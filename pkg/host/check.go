// Package host - хост-«компилятор» для nag: vet-инструмент поверх
// golang.org/x/tools/go/analysis/unitchecker с точкой расширения для
// регистрации проверок.
//
// Проверка (Check) - именованное правило с уровнем по умолчанию
// (allow, warn, deny). Проход (pass) - *analysis.Analyzer, который
// создаётся один раз на сессию и сообщает диагностики от имени проверок.
// Хранилище (Store) собирает проверки и конструкторы проходов; уровни
// можно переопределить флагами -allow, -warn и -deny.
package host

import (
	"errors"
	"fmt"
	"go/token"
	"regexp"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// Level - уровень серьёзности проверки.
type Level int

const (
	Allow Level = iota
	Warn
	Deny
)

var ErrUnknownLevel = errors.New("unknown level")

func (l Level) String() string {
	switch l {
	case Allow:
		return "allow"
	case Warn:
		return "warn"
	case Deny:
		return "deny"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// ParseLevel разбирает имя уровня без учёта регистра.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "allow":
		return Allow, nil
	case "warn", "warning":
		return Warn, nil
	case "deny", "error":
		return Deny, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

var checkName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidName сообщает, годится ли name в качестве имени проверки.
func ValidName(name string) bool {
	return checkName.MatchString(name)
}

// Check - статические метаданные проверки. Уровень здесь - уровень по
// умолчанию; действующий уровень хранит Store.
type Check struct {
	Name  string
	Level Level
	Desc  string
}

// Reportf сообщает диагностику от имени проверки c.
func (c *Check) Reportf(pass *analysis.Pass, pos token.Pos, format string, args ...any) {
	pass.Report(analysis.Diagnostic{
		Pos:      pos,
		Category: c.Name,
		Message:  fmt.Sprintf(format, args...),
	})
}
