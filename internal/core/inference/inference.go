// Package inference derives short human-readable descriptions of why a
// file was read, from its name, extension, and a best-effort peek at
// its first lines. Inference never fails the caller; anything it cannot
// classify gets a generic description.
package inference

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// specialNames pairs filename substrings with fixed descriptions.
// Checked before extensions, in order, first match wins.
var specialNames = []struct {
	substr  string
	context string
}{
	{"package.json", "Examining project dependencies and scripts"},
	{"requirements.txt", "Examining Python dependencies"},
	{"cargo.toml", "Examining Rust project configuration"},
	{"dockerfile", "Examining Docker container setup"},
	{"makefile", "Examining build configuration"},
	{"readme", "Reading project documentation"},
	{"changelog", "Examining project history"},
	{"license", "Examining project license"},
	{".gitignore", "Examining git ignore patterns"},
	{".env", "Examining environment configuration"},
	{"config", "Examining configuration file"},
}

// extContexts maps lowercase extensions to base descriptions.
var extContexts = map[string]string{
	".py":         "Examining Python code",
	".js":         "Examining JavaScript code",
	".ts":         "Examining TypeScript code",
	".jsx":        "Examining React component",
	".tsx":        "Examining React TypeScript component",
	".css":        "Examining styles",
	".scss":       "Examining SCSS styles",
	".html":       "Examining HTML markup",
	".json":       "Examining configuration/data",
	".md":         "Examining documentation",
	".yml":        "Examining YAML configuration",
	".yaml":       "Examining YAML configuration",
	".toml":       "Examining TOML configuration",
	".dockerfile": "Examining Docker configuration",
	".sql":        "Examining database schema/queries",
	".sh":         "Examining shell script",
	".bash":       "Examining bash script",
	".zsh":        "Examining zsh script",
}

var (
	classPattern = regexp.MustCompile(`class\s+\w+`)
	funcPattern  = regexp.MustCompile(`function\s+\w+|def\s+\w+`)
)

// refinement narrows a base extension description. Each rule sees the
// lowercased file name and the lowercased first lines of content;
// rules are evaluated in order and the first match wins. A matching
// rule produces "Examining <ext> <label>".
type refinement struct {
	matches func(name, content string) bool
	label   string
}

var refinements = []refinement{
	{nameHasAny("test", "spec"), "test file"},
	{nameHasAny("api", "endpoint"), "API code"},
	{nameHasAny("component"), "component"},
	{nameHasAny("util", "helper"), "utility functions"},
	{nameHasAny("config", "setting"), "configuration"},
	{contentMatches(classPattern), "class definition"},
	{contentMatches(funcPattern), "function definitions"},
	{contentHasAny("import", "from"), "module imports and setup"},
}

func nameHasAny(substrs ...string) func(name, content string) bool {
	return func(name, _ string) bool {
		for _, s := range substrs {
			if strings.Contains(name, s) {
				return true
			}
		}
		return false
	}
}

func contentHasAny(substrs ...string) func(name, content string) bool {
	return func(_, content string) bool {
		for _, s := range substrs {
			if strings.Contains(content, s) {
				return true
			}
		}
		return false
	}
}

func contentMatches(pattern *regexp.Regexp) func(name, content string) bool {
	return func(_, content string) bool {
		return pattern.MatchString(content)
	}
}

// peekLines is how many leading lines of a file the refinement rules see.
const peekLines = 10

// Infer derives a context description for a file path.
func Infer(path string) string {
	name := strings.ToLower(filepath.Base(path))

	for _, s := range specialNames {
		if strings.Contains(name, s.substr) {
			return s.context
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == name {
		// Dotfiles like .bashrc have no extension
		ext = ""
	}

	if base, ok := extContexts[ext]; ok {
		content, readable := peek(path)
		if !readable {
			return base
		}
		for _, r := range refinements {
			if r.matches(name, content) {
				return "Examining " + ext[1:] + " " + r.label
			}
		}
		return base
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return "Examining directory structure"
	}
	if ext != "" {
		return "Examining " + ext[1:]
	}
	return "Examining file"
}

// peek reads up to peekLines lines of the file, lowercased. It reports
// false when the file is not a readable regular file; refinement is
// skipped entirely in that case.
func peek(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}

	file, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer func() {
		_ = file.Close()
	}()

	var lines []string
	scanner := bufio.NewScanner(file)
	for len(lines) < peekLines && scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return "", false
	}

	return strings.ToLower(strings.Join(lines, "\n")), true
}
