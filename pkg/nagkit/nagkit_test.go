package nagkit

import (
	"testing"

	"github.com/aseptimu/nag/pkg/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/analysis"
)

var (
	first  = &host.Check{Name: "first", Level: host.Warn, Desc: "first check"}
	second = &host.Check{Name: "second", Level: host.Deny, Desc: "second check"}
)

func passNamed(name string, order *[]string) host.PassConstructor {
	return func(*host.Session) *analysis.Analyzer {
		*order = append(*order, name)
		return &analysis.Analyzer{
			Name: name,
			Doc:  name,
			Run:  func(*analysis.Pass) (any, error) { return nil, nil },
		}
	}
}

func TestDeclare_RegistersInOrder(t *testing.T) {
	var order []string
	register := Declare(
		Lint(first),
		Pass(passNamed("p1", &order)),
		Lint(second),
		Pass(passNamed("p2", &order)),
	)

	store := host.NewStore()
	sess := host.NewSession("nag", nil, nil, "")
	register(sess, store)
	require.NoError(t, store.Err())

	checks := store.Checks()
	require.Len(t, checks, 2)
	assert.Equal(t, *first, checks[0])
	assert.Equal(t, *second, checks[1])
	assert.Equal(t, 2, store.Passes())

	passes, err := store.Analyzers(sess)
	require.NoError(t, err)
	require.Len(t, passes, 2)
	assert.Equal(t, []string{"p1", "p2"}, order)
}

func TestDeclare_RegistrarIsReusable(t *testing.T) {
	register := Declare(Lint(first))

	for range 2 {
		store := host.NewStore()
		register(host.NewSession("nag", nil, nil, ""), store)
		require.NoError(t, store.Err())
		assert.Len(t, store.Checks(), 1)
	}
}

func TestDeclare_PanicsOnInvalidItems(t *testing.T) {
	assert.Panics(t, func() { Declare(Lint(nil)) })
	assert.Panics(t, func() { Declare(Lint(&host.Check{Name: "bad name"})) })
	assert.Panics(t, func() { Declare(Pass(nil)) })
	assert.Panics(t, func() { Declare(nil) })
}
