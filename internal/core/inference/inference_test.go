package inference

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInfer_SpecialNames(t *testing.T) {
	// Special names are matched on the filename alone, so the paths do
	// not need to exist.
	tests := []struct {
		path string
		want string
	}{
		{"/proj/package.json", "Examining project dependencies and scripts"},
		{"/proj/requirements.txt", "Examining Python dependencies"},
		{"/proj/Cargo.toml", "Examining Rust project configuration"},
		{"/proj/Dockerfile", "Examining Docker container setup"},
		{"/proj/Makefile", "Examining build configuration"},
		{"/proj/README.md", "Reading project documentation"},
		{"/proj/CHANGELOG.md", "Examining project history"},
		{"/proj/LICENSE", "Examining project license"},
		{"/proj/.gitignore", "Examining git ignore patterns"},
		{"/proj/.env.local", "Examining environment configuration"},
		{"/proj/app.config.js", "Examining configuration file"},
	}

	for _, tt := range tests {
		if got := Infer(tt.path); got != tt.want {
			t.Errorf("Infer(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestInfer_Extensions(t *testing.T) {
	// Unreadable paths skip refinement and resolve to the plain
	// extension description.
	tests := []struct {
		path string
		want string
	}{
		{"/nonexistent/main.py", "Examining Python code"},
		{"/nonexistent/app.js", "Examining JavaScript code"},
		{"/nonexistent/app.ts", "Examining TypeScript code"},
		{"/nonexistent/App.jsx", "Examining React component"},
		{"/nonexistent/App.tsx", "Examining React TypeScript component"},
		{"/nonexistent/style.css", "Examining styles"},
		{"/nonexistent/ci.yml", "Examining YAML configuration"},
		{"/nonexistent/schema.sql", "Examining database schema/queries"},
		{"/nonexistent/run.sh", "Examining shell script"},
		{"/nonexistent/notes.md", "Examining documentation"},
	}

	for _, tt := range tests {
		if got := Infer(tt.path); got != tt.want {
			t.Errorf("Infer(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestInfer_Refinements(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		filename string
		content  string
		want     string
	}{
		// Filename match for "test" takes priority over the API and
		// function-definition rules.
		{"test file wins", "user_api_test.py", "def test_login():\n    pass\n", "Examining py test file"},
		{"api code", "routes_api.py", "x = 1\n", "Examining py API code"},
		{"component", "UserComponent.tsx", "export default App\n", "Examining tsx component"},
		{"utilities", "string_helpers.js", "x\n", "Examining js utility functions"},
		{"settings", "settings.py", "x = 1\n", "Examining py configuration"},
		{"class definition", "models.py", "class User:\n    pass\n", "Examining py class definition"},
		{"function definitions", "handlers.js", "function handleClick() {\n}\n", "Examining js function definitions"},
		{"imports", "server.py", "import os\nimport sys\n", "Examining py module imports and setup"},
		{"no refinement", "main.py", "x = 1\n", "Examining Python code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.filename)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if got := Infer(path); got != tt.want {
				t.Errorf("Infer(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestInfer_PeekLimitedToFirstLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.py")

	// A class definition past the peek window must not refine.
	content := strings.Repeat("x = 1\n", peekLines) + "class Hidden:\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := Infer(path); got != "Examining Python code" {
		t.Errorf("Infer() = %q, want plain extension description", got)
	}
}

func TestInfer_Directory(t *testing.T) {
	if got := Infer(t.TempDir()); got != "Examining directory structure" {
		t.Errorf("Infer(dir) = %q, want %q", got, "Examining directory structure")
	}
}

func TestInfer_Fallbacks(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/nonexistent/notes.xyz", "Examining xyz"},
		{"/nonexistent/somefile", "Examining file"},
		{"/nonexistent/.bashrc", "Examining file"},
	}

	for _, tt := range tests {
		if got := Infer(tt.path); got != tt.want {
			t.Errorf("Infer(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestInfer_Deterministic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api_client.py")
	if err := os.WriteFile(path, []byte("import requests\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	first := Infer(path)
	for i := 0; i < 3; i++ {
		if got := Infer(path); got != first {
			t.Fatalf("Infer() not deterministic: %q then %q", first, got)
		}
	}
}
