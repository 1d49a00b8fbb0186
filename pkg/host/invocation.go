package host

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNoProgram = errors.New("no program name in arguments")

// override - переопределение уровня проверки из командной строки.
type override struct {
	name  string
	level Level
}

// invocation - разобранная командная строка хоста.
type invocation struct {
	progname  string
	cfg       []string
	sysroot   string
	overrides []override
	flags     []string
	operands  []string
}

var levelFlags = map[string]Level{
	"allow": Allow,
	"warn":  Warn,
	"deny":  Deny,
}

// parseInvocation отделяет флаги хоста (cfg, sysroot, allow/warn/deny) от
// флагов unitchecker и операндов. go vet передаёт флаги только в форме
// -name=value, а драйвер дописывает свои флаги после операндов, поэтому
// порядок восстанавливается здесь: сначала флаги, затем операнды.
func parseInvocation(args []string) (*invocation, error) {
	if len(args) == 0 || args[0] == "" {
		return nil, ErrNoProgram
	}
	inv := &invocation{progname: args[0]}

	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		if arg == "--" {
			inv.operands = append(inv.operands, rest[i+1:]...)
			break
		}
		if len(arg) < 2 || arg[0] != '-' {
			inv.operands = append(inv.operands, arg)
			continue
		}

		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		_, isLevel := levelFlags[name]
		if name != "cfg" && name != "sysroot" && !isLevel {
			inv.flags = append(inv.flags, arg)
			continue
		}
		if !hasValue {
			if i+1 >= len(rest) {
				return nil, fmt.Errorf("flag needs an argument: -%s", name)
			}
			i++
			value = rest[i]
		}

		switch name {
		case "cfg":
			inv.cfg = append(inv.cfg, value)
		case "sysroot":
			inv.sysroot = value
		default:
			for _, check := range strings.Split(value, ",") {
				if check = strings.TrimSpace(check); check != "" {
					inv.overrides = append(inv.overrides, override{name: check, level: levelFlags[name]})
				}
			}
		}
	}
	return inv, nil
}

// forward возвращает argv для unitchecker: программа, флаги, операнды.
func (inv *invocation) forward() []string {
	out := make([]string, 0, 1+len(inv.flags)+len(inv.operands))
	out = append(out, inv.progname)
	out = append(out, inv.flags...)
	return append(out, inv.operands...)
}

// args - аргументы сессии без argv[0]: флаги, затем операнды.
func (inv *invocation) args() []string {
	return inv.forward()[1:]
}

func (inv *invocation) hasFlag(name string) bool {
	for _, f := range inv.flags {
		n, v, ok := strings.Cut(strings.TrimLeft(f, "-"), "=")
		if n == name && (!ok || v == "true") {
			return true
		}
	}
	return false
}

// configFile - файл конфигурации единицы сборки, который передаёт go vet.
func (inv *invocation) configFile() string {
	if len(inv.operands) == 1 && strings.HasSuffix(inv.operands[0], ".cfg") {
		return inv.operands[0]
	}
	return ""
}
