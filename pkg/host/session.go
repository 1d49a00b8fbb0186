package host

import "slices"

// Session - параметры одного запуска хоста. Проходы получают её
// только для чтения.
type Session struct {
	progname string
	args     []string
	cfg      []string
	sysroot  string
}

func NewSession(progname string, args, cfg []string, sysroot string) *Session {
	return &Session{
		progname: progname,
		args:     slices.Clone(args),
		cfg:      slices.Clone(cfg),
		sysroot:  sysroot,
	}
}

func (s *Session) Progname() string {
	return s.progname
}

// Args возвращает копию аргументов запуска без argv[0].
func (s *Session) Args() []string {
	return slices.Clone(s.args)
}

func (s *Session) Cfg() []string {
	return slices.Clone(s.cfg)
}

func (s *Session) HasCfg(tag string) bool {
	return slices.Contains(s.cfg, tag)
}

// Sysroot - корень тулчейна из --sysroot или пустая строка.
func (s *Session) Sysroot() string {
	return s.sysroot
}
