package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZaguanLabs/hoverlate"
)

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"--version"}, &stdout, &stderr)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stdout.String(), "hoverlate") {
		t.Errorf("expected version output, got: %s", stdout.String())
	}
}

func TestRun_MissingFileArgument(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{}, &stdout, &stderr)

	if err == nil {
		t.Fatal("expected error for missing file argument")
	}
	if !strings.Contains(err.Error(), "source file") {
		t.Errorf("expected file argument error, got: %v", err)
	}
}

func TestRun_MissingLang(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "test.go")
	os.WriteFile(inputFile, []byte("package x\n// a comment\n"), 0644)

	var stdout, stderr bytes.Buffer
	err := run([]string{inputFile}, &stdout, &stderr)

	if err == nil {
		t.Fatal("expected error for missing --lang")
	}
	if !strings.Contains(err.Error(), "--lang is required") {
		t.Errorf("expected '--lang is required' error, got: %v", err)
	}
}

func TestRun_MissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "test.go")
	os.WriteFile(inputFile, []byte("package x\n// a comment\n"), 0644)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--lang", "es_ES", inputFile}, &stdout, &stderr)

	if err == nil {
		t.Fatal("expected error for missing API key")
	}
	if !strings.Contains(err.Error(), "API key") {
		t.Errorf("expected API key error, got: %v", err)
	}
}

func TestRun_UnsupportedFileType(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "test.py")
	os.WriteFile(inputFile, []byte("# nope\n"), 0644)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--dry-run", inputFile}, &stdout, &stderr)

	if err == nil || !strings.Contains(err.Error(), "unsupported file type") {
		t.Errorf("expected unsupported file type error, got: %v", err)
	}
}

func TestRun_DryRunGo(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "test.go")
	src := "package x\n\n// greets the user\nvar msg = \"hello there\"\n"
	os.WriteFile(inputFile, []byte(src), 0644)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--dry-run", inputFile}, &stdout, &stderr)

	if err != nil {
		t.Fatalf("dry-run failed: %v", err)
	}

	output := stdout.String()
	if !strings.Contains(output, "greets the user") {
		t.Error("dry-run should list the comment span")
	}
	if !strings.Contains(output, "hello there") {
		t.Error("dry-run should list the string span")
	}
	if !strings.Contains(output, "2 translatable") {
		t.Errorf("dry-run should show the span count, got: %s", output)
	}
}

func TestRun_DryRunHTMLJSON(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "test.html")
	os.WriteFile(inputFile, []byte("<p>Hello</p>"), 0644)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--dry-run", "--json", inputFile}, &stdout, &stderr)

	if err != nil {
		t.Fatalf("dry-run JSON failed: %v", err)
	}

	var result struct {
		File  string           `json:"file"`
		Spans []hoverlate.Span `json:"spans"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}

	if len(result.Spans) != 1 || result.Spans[0].Text != "Hello" {
		t.Errorf("expected one Hello span, got %+v", result.Spans)
	}
}

func TestWriteAnnotated(t *testing.T) {
	var buf bytes.Buffer
	content := "line one\nline two\nline three"
	annotations := map[int]string{2: "segunda línea"}

	if err := writeAnnotated(&buf, content, annotations); err != nil {
		t.Fatalf("writeAnnotated failed: %v", err)
	}

	lines := strings.Split(buf.String(), "\n")
	if !strings.Contains(lines[1], "» segunda línea") {
		t.Errorf("line 2 = %q, want the annotation appended", lines[1])
	}
	if strings.Contains(lines[0], "»") || strings.Contains(lines[2], "»") {
		t.Error("unannotated lines must pass through untouched")
	}
}
