package host

import (
	"errors"
	"fmt"

	"golang.org/x/tools/go/analysis"
)

var (
	ErrDuplicateCheck = errors.New("duplicate check")
	ErrInvalidCheck   = errors.New("invalid check")
	ErrNilPass        = errors.New("nil pass constructor")
	ErrDuplicatePass  = errors.New("duplicate pass")
)

// PassConstructor создаёт проход один раз на сессию.
type PassConstructor func(sess *Session) *analysis.Analyzer

// Registrar регистрирует проверки и проходы в хранилище.
type Registrar func(sess *Session, store *Store)

// Compose объединяет регистраторы в один, вызывающий их по порядку.
// nil-элементы пропускаются.
func Compose(registrars ...Registrar) Registrar {
	list := make([]Registrar, 0, len(registrars))
	for _, r := range registrars {
		if r != nil {
			list = append(list, r)
		}
	}
	return func(sess *Session, store *Store) {
		for _, r := range list {
			r(sess, store)
		}
	}
}

// Store - реестр проверок и проходов одной сессии. Заполняется до начала
// анализа и дальше только читается.
type Store struct {
	checks []*Check
	levels map[string]Level
	passes []PassConstructor
	err    error
}

func NewStore() *Store {
	return &Store{levels: make(map[string]Level)}
}

// RegisterChecks регистрирует метаданные проверок. Ошибки копятся и
// возвращаются из Err.
func (s *Store) RegisterChecks(checks ...*Check) {
	for _, c := range checks {
		switch {
		case c == nil:
			s.fail(fmt.Errorf("%w: nil", ErrInvalidCheck))
		case !ValidName(c.Name):
			s.fail(fmt.Errorf("%w: name %q", ErrInvalidCheck, c.Name))
		default:
			if _, ok := s.levels[c.Name]; ok {
				s.fail(fmt.Errorf("%w: %s", ErrDuplicateCheck, c.Name))
				continue
			}
			s.checks = append(s.checks, c)
			s.levels[c.Name] = c.Level
		}
	}
}

func (s *Store) RegisterPass(ctor PassConstructor) {
	if ctor == nil {
		s.fail(ErrNilPass)
		return
	}
	s.passes = append(s.passes, ctor)
}

// Err возвращает первую ошибку регистрации.
func (s *Store) Err() error {
	return s.err
}

func (s *Store) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

// Checks возвращает зарегистрированные проверки в порядке регистрации.
func (s *Store) Checks() []Check {
	out := make([]Check, 0, len(s.checks))
	for _, c := range s.checks {
		out = append(out, *c)
	}
	return out
}

// Level возвращает действующий уровень проверки.
func (s *Store) Level(name string) (Level, bool) {
	l, ok := s.levels[name]
	return l, ok
}

// SetLevel переопределяет уровень зарегистрированной проверки.
func (s *Store) SetLevel(name string, level Level) bool {
	if _, ok := s.levels[name]; !ok {
		return false
	}
	s.levels[name] = level
	return true
}

// Passes возвращает число зарегистрированных конструкторов проходов.
func (s *Store) Passes() int {
	return len(s.passes)
}

// Analyzers вызывает каждый конструктор ровно один раз и возвращает
// проходы в порядке регистрации. Проход, чьё имя совпадает с проверкой
// уровня allow, пропускается.
func (s *Store) Analyzers(sess *Session) ([]*analysis.Analyzer, error) {
	seen := make(map[string]bool, len(s.passes))
	out := make([]*analysis.Analyzer, 0, len(s.passes))
	for _, ctor := range s.passes {
		a := ctor(sess)
		if a == nil {
			return nil, ErrNilPass
		}
		if seen[a.Name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePass, a.Name)
		}
		seen[a.Name] = true
		if l, ok := s.levels[a.Name]; ok && l == Allow {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}
