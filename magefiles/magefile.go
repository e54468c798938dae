//go:build mage

// Package main contains Mage build targets for citation-engine developer tooling.
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the CLI expects.
var projectDirs = []string{
	"data",
	"snapshots",
	"reports",
}

// Init creates the project directory structure and a starter config file.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := os.WriteFile(configFile, []byte(starterConfig), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", configFile, err)
		}
		fmt.Println("  ", configFile)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const configFile = "citation-engine.yaml"

const starterConfig = `log:
  level: info
  format: console
analysis:
  damping_factor: 0.85
  collaborative_alpha: 0.5
  recommendation_limit: 20
provider:
  email: ""
  requests_per_second: 5
store:
  dir: data
`

const (
	binDir  = "bin"
	binName = "citation-engine"
	cmdPkg  = "./cmd/citation-engine"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Check vets the module and runs the tests.
func Check() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	mg.Deps(Test)
	return nil
}

// Stats prints non-blank Go lines per top-level directory and the word count
// of the repository's markdown documents.
func Stats() error {
	st, err := collectStats(".")
	if err != nil {
		return err
	}
	dirs := make([]string, 0, len(st.lines))
	for dir := range st.lines {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	for _, dir := range dirs {
		c := st.lines[dir]
		fmt.Printf("%-10s prod %6d  test %6d\n", dir, c.prod, c.test)
	}
	fmt.Printf("%-10s words %5d\n", "docs", st.docWords)
	return nil
}

type lineCount struct{ prod, test int }

type stats struct {
	lines    map[string]lineCount
	docWords int
}

// collectStats walks root, skipping directories the go tool ignores. Go
// lines are grouped by their first path element; markdown words are summed
// over the files directly under root.
func collectStats(root string) (stats, error) {
	st := stats{lines: make(map[string]lineCount)}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		switch filepath.Ext(path) {
		case ".go":
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			dir, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
			c := st.lines[dir]
			n := nonBlankLines(string(data))
			if strings.HasSuffix(path, "_test.go") {
				c.test += n
			} else {
				c.prod += n
			}
			st.lines[dir] = c
		case ".md":
			if filepath.Dir(rel) != "." {
				return nil
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			st.docWords += len(strings.Fields(string(data)))
		}
		return nil
	})
	return st, err
}

func nonBlankLines(s string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
