package driver

import (
	"bytes"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/aseptimu/nag/pkg/execparams"
	"github.com/aseptimu/nag/pkg/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCompiler struct {
	defaultFn host.Registrar
	runErr    error

	calls [][]string
	store *host.Store
}

func (s *stubCompiler) DefaultRegistrar() host.Registrar {
	return s.defaultFn
}

func (s *stubCompiler) Run(args []string, register host.Registrar) error {
	s.calls = append(s.calls, args)
	s.store = host.NewStore()
	register(host.NewSession(args[0], args[1:], nil, ""), s.store)
	return s.runErr
}

func registerCheck(name string, order *[]string) host.Registrar {
	return func(_ *host.Session, store *host.Store) {
		*order = append(*order, name)
		store.RegisterChecks(&host.Check{Name: name, Level: host.Warn})
	}
}

func newTestDriver(c Compiler, opts ...Option) *Driver {
	opts = append([]Option{WithCompiler(c), WithLogger(zap.NewNop().Sugar())}, opts...)
	return New(opts...)
}

func TestRunWithArgs_ReportModeSkipsCompiler(t *testing.T) {
	t.Setenv(execparams.DumpEnv, "please")
	t.Setenv(execparams.SysrootEnv, "/goroot")

	c := &stubCompiler{}
	var out bytes.Buffer
	d := newTestDriver(c, WithOutput(&out), WithCfg("nag"))

	code := d.RunWithArgs([]string{"examplenag", "-V=full", "-flags", "vet.cfg"})
	require.Equal(t, 0, code)
	assert.Empty(t, c.calls)

	p, err := execparams.Decode(out.Bytes())
	require.NoError(t, err)
	v, ok := p.Lookup(execparams.DumpEnv)
	assert.True(t, ok)
	assert.Equal(t, "please", v)
}

func TestRunWithArgs_ReportFailure(t *testing.T) {
	t.Setenv(execparams.DumpEnv, "1")

	c := &stubCompiler{}
	d := newTestDriver(c)
	d.report = func(io.Writer) error { return execparams.ErrNoArgv0 }

	assert.Equal(t, 1, d.RunWithArgs([]string{"examplenag"}))
	assert.Empty(t, c.calls)
}

func TestRunWithArgs_FlagInjection(t *testing.T) {
	unsetEnv(t, execparams.DumpEnv)
	t.Setenv(execparams.SysrootEnv, "/s")

	c := &stubCompiler{}
	d := newTestDriver(c, WithCfg("a"), WithCfg("b"))

	args := []string{"examplenag", "-json", "vet.cfg"}
	want := []string{"examplenag", "-json", "vet.cfg", "--cfg=a", "--cfg=b", "--sysroot=/s"}

	require.Equal(t, 0, d.RunWithArgs(args))
	require.Equal(t, 0, d.RunWithArgs(args))

	require.Len(t, c.calls, 2)
	assert.Equal(t, want, c.calls[0])
	assert.Equal(t, want, c.calls[1])
	assert.Equal(t, []string{"examplenag", "-json", "vet.cfg"}, args)
}

func TestRunWithArgs_NoSysrootWithoutEnv(t *testing.T) {
	unsetEnv(t, execparams.DumpEnv)
	unsetEnv(t, execparams.SysrootEnv)

	c := &stubCompiler{}
	d := newTestDriver(c, WithCfg("nag"))

	require.Equal(t, 0, d.RunWithArgs([]string{"examplenag", "vet.cfg"}))
	assert.Equal(t, []string{"examplenag", "vet.cfg", "--cfg=nag"}, c.calls[0])
}

func TestRunWithArgs_CompositionPreservesDefaults(t *testing.T) {
	unsetEnv(t, execparams.DumpEnv)

	var order []string
	c := &stubCompiler{defaultFn: registerCheck("D", &order)}
	d := newTestDriver(c,
		WithCallback(registerCheck("X", &order)),
		WithCallbacks(registerCheck("Y", &order)),
	)

	require.Equal(t, 0, d.RunWithArgs([]string{"examplenag", "vet.cfg"}))
	assert.Equal(t, []string{"D", "X", "Y"}, order)

	var names []string
	for _, ch := range c.store.Checks() {
		names = append(names, ch.Name)
	}
	assert.Equal(t, []string{"D", "X", "Y"}, names)
}

func TestRunWithArgs_NoDefaultRegistrar(t *testing.T) {
	unsetEnv(t, execparams.DumpEnv)

	var order []string
	c := &stubCompiler{}
	d := newTestDriver(c, WithCallbacks(registerCheck("X", &order)))

	require.Equal(t, 0, d.RunWithArgs([]string{"examplenag", "vet.cfg"}))
	assert.Equal(t, []string{"X"}, order)
}

func TestRunWithArgs_CompilerFailure(t *testing.T) {
	unsetEnv(t, execparams.DumpEnv)

	c := &stubCompiler{runErr: errors.New("boom")}
	d := newTestDriver(c)
	assert.Equal(t, 1, d.RunWithArgs([]string{"examplenag", "vet.cfg"}))
}

func TestMode(t *testing.T) {
	d := newTestDriver(&stubCompiler{})

	d.lookupEnv = func(string) (string, bool) { return "", false }
	assert.Equal(t, ModeDriver, d.mode())

	d.lookupEnv = func(key string) (string, bool) { return "", key == execparams.DumpEnv }
	assert.Equal(t, ModeReport, d.mode())
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	prev, ok := os.LookupEnv(key)
	require.NoError(t, os.Unsetenv(key))
	if ok {
		t.Cleanup(func() { os.Setenv(key, prev) })
	}
}
