// Package nagkit помогает объявлять проверки для pkg/driver.
//
// Проверки объявляются таблицей, из которой получается одна функция
// регистрации:
//
//	var ExitMain = &host.Check{Name: "exitmain", Level: host.Warn, Desc: "..."}
//
//	var Register = nagkit.Declare(
//		nagkit.Lint(ExitMain),
//		nagkit.Pass(exitmain.New),
//	)
//
// Register регистрирует метаданные проверок и конструкторы проходов в порядке
// объявления. Проход сообщает о находке через ExitMain.Reportf.
package nagkit

import (
	"fmt"

	"github.com/aseptimu/nag/pkg/host"
)

// Item - элемент объявления: проверка или проход.
type Item interface {
	register(store *host.Store)
}

type lintItem struct {
	check *host.Check
}

func (l lintItem) register(store *host.Store) {
	store.RegisterChecks(l.check)
}

type passItem struct {
	ctor host.PassConstructor
}

func (p passItem) register(store *host.Store) {
	store.RegisterPass(p.ctor)
}

// Lint объявляет проверку.
func Lint(check *host.Check) Item {
	return lintItem{check: check}
}

// Pass объявляет проход, создаваемый один раз на сессию.
func Pass(ctor host.PassConstructor) Item {
	return passItem{ctor: ctor}
}

// Declare проверяет объявления и возвращает функцию регистрации.
// Некорректное объявление - ошибка программиста, Declare паникует.
func Declare(items ...Item) host.Registrar {
	for i, item := range items {
		switch it := item.(type) {
		case lintItem:
			if it.check == nil || !host.ValidName(it.check.Name) {
				panic(fmt.Sprintf("nagkit: item %d: invalid check %+v", i, it.check))
			}
		case passItem:
			if it.ctor == nil {
				panic(fmt.Sprintf("nagkit: item %d: nil pass constructor", i))
			}
		default:
			panic(fmt.Sprintf("nagkit: item %d: unknown item %T", i, item))
		}
	}

	items = append([]Item(nil), items...)
	return func(_ *host.Session, store *host.Store) {
		for _, item := range items {
			item.register(store)
		}
	}
}
