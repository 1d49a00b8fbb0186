package host

import (
	"flag"
	"fmt"
	"go/ast"
	"go/token"
	"io"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// reporter решает судьбу каждой диагностики по действующему уровню проверки.
type reporter struct {
	store    *Store
	sess     *Session
	out      io.Writer
	vetxOnly bool
	json     bool
}

// wrap возвращает копию прохода a, у которой Report проходит через политику
// уровней. Флаги исходного прохода разделяются с копией.
func (r *reporter) wrap(a *analysis.Analyzer) *analysis.Analyzer {
	w := &analysis.Analyzer{
		Name:             a.Name,
		Doc:              a.Doc,
		URL:              a.URL,
		Requires:         a.Requires,
		ResultType:       a.ResultType,
		FactTypes:        a.FactTypes,
		RunDespiteErrors: a.RunDespiteErrors,
	}
	a.Flags.VisitAll(func(f *flag.Flag) {
		w.Flags.Var(f.Value, f.Name, f.Usage)
	})
	w.Run = func(pass *analysis.Pass) (any, error) {
		p := *pass
		p.Report = r.reportFunc(pass, a.Name)
		return a.Run(&p)
	}
	return w
}

func (r *reporter) reportFunc(pass *analysis.Pass, passName string) func(analysis.Diagnostic) {
	var allowed directives
	return func(d analysis.Diagnostic) {
		name := d.Category
		level, ok := r.store.Level(name)
		if !ok {
			name = passName
			level, ok = r.store.Level(name)
		}
		if !ok {
			level = Deny
		}
		if level == Allow {
			return
		}
		if allowed == nil {
			allowed = collectDirectives(pass.Fset, pass.Files, r.sess.cfg)
		}
		if allowed.allows(pass.Fset.Position(d.Pos), name) {
			return
		}

		if r.json {
			pass.Report(d)
			return
		}
		switch level {
		case Warn:
			if r.vetxOnly {
				return
			}
			fmt.Fprintf(r.out, "%s: warning: %s [%s]\n", pass.Fset.Position(d.Pos), d.Message, name)
		default:
			d.Message = fmt.Sprintf("%s [%s]", d.Message, name)
			pass.Report(d)
		}
	}
}

// directives: файл -> строка -> разрешённые проверки.
type directives map[string]map[int][]string

// collectDirectives собирает комментарии вида //<cfg>:allow a,b. Комментарий
// в конце строки с кодом действует только на эту строку, комментарий на
// отдельной строке - на свою строку и на следующую.
func collectDirectives(fset *token.FileSet, files []*ast.File, cfg []string) directives {
	d := directives{}
	if len(cfg) == 0 {
		return d
	}
	for _, f := range files {
		var code map[int]bool
		for _, group := range f.Comments {
			for _, c := range group.List {
				names := parseDirective(c.Text, cfg)
				if len(names) == 0 {
					continue
				}
				if code == nil {
					code = codeLines(fset, f)
				}
				pos := fset.Position(c.Slash)
				lines := d[pos.Filename]
				if lines == nil {
					lines = make(map[int][]string)
					d[pos.Filename] = lines
				}
				lines[pos.Line] = append(lines[pos.Line], names...)
				if !code[pos.Line] {
					lines[pos.Line+1] = append(lines[pos.Line+1], names...)
				}
			}
		}
	}
	return d
}

// codeLines - строки файла, на которых заканчивается хотя бы один узел кода.
// После //-комментария на строке ничего нет, поэтому такой узел стоит перед
// комментарием.
func codeLines(fset *token.FileSet, f *ast.File) map[int]bool {
	lines := make(map[int]bool)
	ast.Inspect(f, func(n ast.Node) bool {
		switch n.(type) {
		case nil, *ast.Comment, *ast.CommentGroup:
			return false
		}
		lines[fset.Position(n.End()).Line] = true
		return true
	})
	return lines
}

func parseDirective(text string, cfg []string) []string {
	body, ok := strings.CutPrefix(text, "//")
	if !ok {
		return nil
	}
	for _, tag := range cfg {
		rest, ok := strings.CutPrefix(body, tag+":allow")
		if !ok || (rest != "" && rest[0] != ' ' && rest[0] != '\t') {
			continue
		}
		return strings.FieldsFunc(rest, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
	}
	return nil
}

func (d directives) allows(pos token.Position, name string) bool {
	for _, n := range d[pos.Filename][pos.Line] {
		if n == name {
			return true
		}
	}
	return false
}
