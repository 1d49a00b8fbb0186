package orchestrator

import (
	"context"
	"io"
	"os"
	"os/exec"
)

// Command - описание запуска подпроцесса. Env - полное окружение.
type Command struct {
	Name string
	Args []string
	Dir  string
	Env  []string
}

// Runner запускает подпроцессы и ждёт их завершения.
type Runner interface {
	// Output возвращает stdout целиком; stderr процесса не перехватывается.
	Output(ctx context.Context, cmd Command) ([]byte, error)
	// Run запускает процесс с унаследованными stdin, stdout и stderr.
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner - Runner на os/exec.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (r *ExecRunner) command(ctx context.Context, c Command) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Stderr = r.Stderr
	return cmd
}

func (r *ExecRunner) Output(ctx context.Context, c Command) ([]byte, error) {
	return r.command(ctx, c).Output()
}

func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	cmd := r.command(ctx, c)
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.Stdout
	return cmd.Run()
}
