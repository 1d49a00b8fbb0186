// Package lints собирает проверки примерного линтера в одну функцию
// регистрации для pkg/driver.
package lints

import (
	"github.com/aseptimu/nag/internal/lints/exitmain"
	"github.com/aseptimu/nag/pkg/nagkit"
)

var Register = nagkit.Declare(
	nagkit.Lint(exitmain.Check),
	nagkit.Pass(exitmain.New),
)
