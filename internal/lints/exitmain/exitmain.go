// Package exitmain - проверка exitmain: прямой вызов os.Exit внутри функции
// main() пакета main. Отложенные вызовы при этом не выполняются.
package exitmain

import (
	"go/ast"
	"go/types"

	"github.com/aseptimu/nag/pkg/host"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Check - метаданные проверки.
var Check = &host.Check{
	Name:  "exitmain",
	Level: host.Warn,
	Desc:  "direct call to os.Exit in main function of package main",
}

// New создаёт проход проверки для сессии.
func New(_ *host.Session) *analysis.Analyzer {
	return &analysis.Analyzer{
		Name:     "exitmain",
		Doc:      "reports direct calls to os.Exit in main function of package main",
		Requires: []*analysis.Analyzer{inspect.Analyzer},
		Run:      run,
	}
}

func run(pass *analysis.Pass) (any, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil
	}
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	nodeFilter := []ast.Node{(*ast.FuncDecl)(nil)}
	insp.Preorder(nodeFilter, func(n ast.Node) {
		fn := n.(*ast.FuncDecl)
		if fn.Name.Name != "main" || fn.Recv != nil || fn.Body == nil {
			return
		}
		ast.Inspect(fn.Body, func(n ast.Node) bool {
			if _, ok := n.(*ast.FuncLit); ok {
				return false
			}
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			if isOSExit(pass, call) {
				Check.Reportf(pass, call.Pos(), "direct call to os.Exit in main")
			}
			return true
		})
	})
	return nil, nil
}

func isOSExit(pass *analysis.Pass, call *ast.CallExpr) bool {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Exit" {
		return false
	}
	fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
	return ok && fn.Pkg() != nil && fn.Pkg().Path() == "os"
}
