//go:build ignore

package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
)

const (
	binary          = "bin/covcompare"
	fixtureBaseline = "testdata/fixtures/baseline.xml"
	fixtureChange   = "testdata/fixtures/change.xml"
)

type task struct {
	usage string
	run   func(args []string) error
}

var tasks = map[string]task{
	"build": {"Build the covcompare binary", func([]string) error {
		return sh("go", "build", "-o", binary, "./cmd/covcompare")
	}},
	"test": {"Run all tests", func([]string) error {
		return sh("go", "test", "./...")
	}},
	"lint": {"Run go vet and golangci-lint", func([]string) error {
		if err := sh("go", "vet", "./..."); err != nil {
			return err
		}
		return sh("golangci-lint", "run")
	}},
	"test-integration": {"Compare the bundled fixture reports", func([]string) error {
		return gate(fixtureBaseline, fixtureChange)
	}},
	"gate": {"gate <baseline.xml> <change.xml>: run the coverage gate", func(args []string) error {
		if len(args) != 2 {
			return errors.New("gate needs a baseline and a change report")
		}
		return gate(args[0], args[1])
	}},
	"clean": {"Remove build artifacts", func([]string) error {
		return os.RemoveAll("bin")
	}},
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	t, ok := tasks[os.Args[1]]
	if !ok {
		fmt.Printf("Unknown task: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err := t.run(os.Args[2:]); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// gate keeps covcompare's exit code so CI sees 1, 8 and 9 unchanged
func gate(baseline, change string) error {
	for _, f := range []string{baseline, change} {
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("coverage report not found: %s", f)
		}
	}
	return sh("go", "run", "./cmd/covcompare", "--output", "markdown", baseline, change)
}

func sh(command string, args ...string) error {
	cmd := exec.Command(command, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func printUsage() {
	exe := filepath.Base(os.Args[0])
	fmt.Printf("Usage: go run %s <task> [args...]\n\nTasks:\n", exe)

	names := make([]string, 0, len(tasks))
	for name := range tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-17s %s\n", name, tasks[name].usage)
	}
}
