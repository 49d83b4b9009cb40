package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const helloProgram = `types:
  - class: Main
    statics:
      - name: main
        fun:
          body:
            call:
              target: {ident: __rust__}
              args: [{string: 'println!("hello")'}]
main:
  call:
    target: {field: {target: {typeref: Main}, name: main, access: static}}
`

const spreadProgram = `types:
  - class: app.Bad
    statics:
      - name: spread
        fun:
          body:
            unop: {op: "...", operand: {array: []}}
`

func writeFile(t *testing.T, dir, name, content string) string {
	location := filepath.Join(dir, name)
	assert.Nil(t, os.WriteFile(location, []byte(content), 0o644))
	return location
}

func execute(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Emit(t *testing.T) {
	dir := t.TempDir()
	program := writeFile(t, dir, "program.yaml", helloProgram)
	out := filepath.Join(dir, "crate")

	code, stdout, stderr := execute("emit", "-i", program, "-o", out)
	assert.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "3 written, 0 unchanged (src/main.rs)")

	main, err := os.ReadFile(filepath.Join(out, "src", "main.rs"))
	assert.Nil(t, err)
	assert.Contains(t, string(main), "fn main() {\n    AMain::main();\n}\n")
	assert.FileExists(t, filepath.Join(out, "src", "Main.rs"))
	assert.FileExists(t, filepath.Join(out, "Cargo.toml"))

	code, stdout, _ = execute("emit", "-i", program, "-o", out)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "0 written, 3 unchanged")
}

func TestRun_Build(t *testing.T) {
	dir := t.TempDir()
	program := writeFile(t, dir, "program.yaml", helloProgram)
	out := filepath.Join(dir, "crate")
	passing := writeFile(t, dir, "pass.yaml", "build:\n  command: [sh, -c, \"test -f Cargo.toml\"]\n")
	failing := writeFile(t, dir, "fail.yaml", "build:\n  command: [sh, -c, \"echo boom; exit 2\"]\n")

	code, _, stderr := execute("build", "-i", program, "-c", passing, "-o", out)
	assert.Equal(t, 0, code, stderr)

	code, _, stderr = execute("build", "-i", program, "-c", failing, "-o", out)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "build failed: sh -c echo boom; exit 2 failed with exit code 2\nboom\n")
}

func TestRun_Check(t *testing.T) {
	dir := t.TempDir()

	var testCases = []struct {
		description string
		program     string
		code        int
		expect      string
	}{
		{description: "valid program", program: helloProgram, code: 0},
		{description: "undeclared local", program: "main: {local: nope}\n", code: 1, expect: "program.yaml:1:15]: undeclared local nope"},
		{description: "unsupported expression", program: spreadProgram, code: 1, expect: "unsupported expression unary operator"},
		{
			description: "duplicate type",
			program:     "types:\n  - class: A\n  - class: A\n",
			code:        1,
			expect:      "duplicate type path 'A'",
		},
		{
			description: "lint warning",
			program:     "types:\n  - class: lower\n",
			code:        0,
			expect:      "warning[program.yaml:2:5]: class 'lower' should use PascalCase naming",
		},
	}

	for _, testCase := range testCases {
		program := writeFile(t, dir, "program.yaml", testCase.program)
		code, _, stderr := execute("check", "-i", program)
		assert.Equal(t, testCase.code, code, testCase.description)
		if testCase.expect != "" {
			assert.Contains(t, stderr, testCase.expect, testCase.description)
		}
	}
}

func TestRun_Usage(t *testing.T) {
	code, stdout, _ := execute("--version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "oxidize dev\n", stdout)

	code, _, _ = execute()
	assert.Equal(t, 1, code)

	code, _, stderr := execute("emit")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "--input")

	code, _, stderr = execute("check", "-i", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "failed to load program")
}
