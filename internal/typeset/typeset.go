package typeset

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultBinary  = "pdflatex"
	defaultTimeout = 60 * time.Second

	// logTailBytes bounds how much pdflatex output a CompileError carries.
	logTailBytes = 4096
)

// Compiler runs a LaTeX engine in a scratch directory to produce a PDF.
type Compiler struct {
	Binary  string
	Timeout time.Duration
}

func NewCompiler(binary string, timeout time.Duration) *Compiler {
	if strings.TrimSpace(binary) == "" {
		binary = defaultBinary
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Compiler{Binary: binary, Timeout: timeout}
}

// CompileError reports a failed compile with the tail of the engine output,
// which is where pdflatex prints the actual error.
type CompileError struct {
	Log string
	Err error
}

func (e *CompileError) Error() string {
	if e.Log != "" {
		return fmt.Sprintf("latex compilation failed: %v\n%s", e.Err, e.Log)
	}
	return fmt.Sprintf("latex compilation failed: %v", e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Compile typesets the source and returns the PDF bytes. The engine runs in
// a temporary directory with -interaction=nonstopmode; a nonzero exit or a
// missing output file both fail, since nonstopmode can exit zero after
// swallowing errors.
func (c *Compiler) Compile(ctx context.Context, source string) ([]byte, error) {
	dir, err := os.MkdirTemp("", "typeset-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	texPath := filepath.Join(dir, "resume.tex")
	if err := os.WriteFile(texPath, []byte(source), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write tex source: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, c.Binary, "-interaction=nonstopmode", "resume.tex")
	cmd.Dir = dir
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	runErr := cmd.Run()

	pdfPath := filepath.Join(dir, "resume.pdf")
	pdf, readErr := os.ReadFile(pdfPath)
	if runErr != nil {
		return nil, &CompileError{Log: tail(output.String()), Err: runErr}
	}
	if readErr != nil {
		return nil, &CompileError{Log: tail(output.String()), Err: fmt.Errorf("no pdf produced: %w", readErr)}
	}
	return pdf, nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > logTailBytes {
		s = s[len(s)-logTailBytes:]
	}
	return s
}
