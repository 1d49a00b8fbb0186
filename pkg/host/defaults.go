package host

import (
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/nilness"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/unusedresult"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
)

// RegisterDefaults регистрирует встроенный набор хоста:
//   - printf, structtag, unusedresult, nilness - как в go vet, уровень deny;
//   - shadow - выключен (allow), включается через -warn=shadow;
//   - SA* из staticcheck - уровень warn;
//   - gosimple (S*) - выключен.
//
// Каждый проход регистрируется вместе с одноимённой проверкой.
func RegisterDefaults(_ *Session, store *Store) {
	for _, a := range []*analysis.Analyzer{
		printf.Analyzer,
		structtag.Analyzer,
		unusedresult.Analyzer,
		nilness.Analyzer,
	} {
		registerAnalyzer(store, a, Deny)
	}

	registerAnalyzer(store, shadow.Analyzer, Allow)

	for _, la := range staticcheck.Analyzers {
		if strings.HasPrefix(la.Analyzer.Name, "SA") {
			registerAnalyzer(store, la.Analyzer, Warn)
		}
	}

	for _, la := range simple.Analyzers {
		registerAnalyzer(store, la.Analyzer, Allow)
	}
}

func registerAnalyzer(store *Store, a *analysis.Analyzer, level Level) {
	store.RegisterChecks(&Check{Name: a.Name, Level: level, Desc: firstLine(a.Doc)})
	store.RegisterPass(func(*Session) *analysis.Analyzer { return a })
}

func firstLine(doc string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(doc), "\n")
	return line
}
