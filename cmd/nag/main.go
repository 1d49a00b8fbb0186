// Package main реализует команду «nag» - запуск go vet с пользовательскими
// проверками без изменения тулчейна.
//
// Использование:
//
//  1. Указать каталог линтера (пакет main, собранный с pkg/driver):
//     export NAG_LINTER_DIR=$HOME/src/mylints/cmd/mylints
//
//  2. Запустить в проекте:
//     nag vet ./...
//
// Все аргументы после «vet» передаются go vet без изменений.
//
// Переменные окружения:
//   - NAG_LINTER_DIR: каталог линтера (обязательно).
//   - NAG_COMPILER, NAG_BUILD_TOOL: команда go для запроса GOROOT и для сборки.
//   - NAG_PASSTHROUGH_ENV: переменные, которые берутся из окружения линтера.
//   - NAG_CONFIG_FILE: YAML-файл с уровнями проверок.
//   - NAG_LOG_LEVEL: уровень логирования.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aseptimu/nag/internal/app/orchestrator"
)

func main() {
	err := newRootCmd().Execute()
	if err == nil {
		return
	}

	var exitErr *orchestrator.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code) //nag:allow exitmain
	}
	fmt.Fprintln(os.Stderr, "nag:", err)
	os.Exit(1) //nag:allow exitmain
}
