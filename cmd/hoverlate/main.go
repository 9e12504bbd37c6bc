// Command hoverlate annotates a source file's comments and strings
// with translations, the same pipeline an editor integration runs in
// immersive mode.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZaguanLabs/hoverlate"
	"github.com/ZaguanLabs/hoverlate/backend"
	"github.com/ZaguanLabs/hoverlate/cache"
	"github.com/ZaguanLabs/hoverlate/locator"
)

// Build-time variables (can be overridden with ldflags)
var (
	version = hoverlate.Version
	commit  = hoverlate.GitCommit
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("hoverlate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	targetLang := fs.String("lang", "", "Target language code (e.g., es_ES, ja_JP)")
	sourceLang := fs.String("source", "", "Source language code (default: auto-detect)")
	apiKey := fs.String("api-key", "", "OpenAI API key (default: OPENAI_API_KEY env)")
	model := fs.String("model", "gpt-4o-mini", "OpenAI model to use")
	cacheCap := fs.Int("cache-capacity", hoverlate.DefaultCacheCapacity, "Max cached translations")
	noCache := fs.Bool("no-cache", false, "Disable the translation cache")
	redisURL := fs.String("redis", "", "Redis URL for a shared cache (e.g., redis://localhost:6379)")
	showVersion := fs.Bool("version", false, "Show version")
	dryRun := fs.Bool("dry-run", false, "List translatable spans without calling the API")
	jsonOutput := fs.Bool("json", false, "Output result as JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", hoverlate.Name, version)
		if commit != "unknown" && commit != "" {
			fmt.Fprintf(stdout, "  commit: %s\n", commit)
		}
		return nil
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("a source file argument is required")
	}

	inputPath := fs.Arg(0)
	data, err := os.ReadFile(inputPath) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	content := string(data)

	const buf = hoverlate.BufferID(1)
	contents := locator.StaticContent(map[hoverlate.BufferID]string{buf: content})

	var loc hoverlate.Locator
	switch strings.ToLower(filepath.Ext(inputPath)) {
	case ".html", ".htm":
		loc = locator.NewHTMLLocator(contents)
	case ".go":
		loc = locator.NewGoLocator(contents)
	default:
		return fmt.Errorf("unsupported file type %q (want .go or .html)", filepath.Ext(inputPath))
	}

	if *dryRun {
		return runDryRun(loc, buf, inputPath, stdout, *jsonOutput)
	}

	if *targetLang == "" {
		fs.Usage()
		return fmt.Errorf("--lang is required")
	}

	key := *apiKey
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key == "" {
		return fmt.Errorf("an OpenAI API key is required (--api-key or OPENAI_API_KEY)")
	}

	b := backend.NewOpenAIBackend(backend.OpenAIConfig{
		APIKey: key,
		Model:  *model,
	})

	opts := []hoverlate.Option{
		hoverlate.WithLocator(loc),
		hoverlate.WithSourceLang(*sourceLang),
		hoverlate.WithCacheCapacity(*cacheCap),
		hoverlate.WithCacheEnabled(!*noCache),
	}

	if *redisURL != "" {
		store, err := cache.NewRedisStore(cache.RedisConfig{URL: *redisURL})
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer store.Close()
		opts = append(opts, hoverlate.WithCache(store))
	}

	sink := &printSink{stderr: stderr}
	opts = append(opts, hoverlate.WithSink(sink))

	e := hoverlate.NewEngine(hoverlate.NormalizeLocale(*targetLang), b, opts...)
	defer e.Shutdown()

	e.EnableImmersive()
	if err := e.UpdateImmersive(context.Background(), buf); err != nil {
		return err
	}

	lines := e.Immersive().Lines(buf)
	if *jsonOutput {
		return writeJSON(stdout, inputPath, *targetLang, lines)
	}
	return writeAnnotated(stdout, content, lines)
}

// runDryRun lists the spans a translation run would process.
func runDryRun(loc hoverlate.Locator, buf hoverlate.BufferID, inputPath string, stdout io.Writer, jsonOutput bool) error {
	spans, err := loc.LocateAll(buf)
	if err != nil {
		return err
	}

	if jsonOutput {
		out := struct {
			File  string           `json:"file"`
			Spans []hoverlate.Span `json:"spans"`
		}{File: inputPath, Spans: spans}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, s := range spans {
		fmt.Fprintf(stdout, "%5d  %-8s %s\n", s.Line, s.Kind, s.Text)
	}
	fmt.Fprintf(stdout, "\n%d translatable spans\n", len(spans))
	return nil
}

// writeAnnotated prints the source with translations appended to each
// annotated line.
func writeAnnotated(w io.Writer, content string, annotations map[int]string) error {
	for i, line := range strings.Split(content, "\n") {
		if translated, ok := annotations[i+1]; ok && translated != "" {
			fmt.Fprintf(w, "%s  » %s\n", line, translated)
		} else {
			fmt.Fprintln(w, line)
		}
	}
	return nil
}

type jsonAnnotation struct {
	Line        int    `json:"line"`
	Translation string `json:"translation"`
}

func writeJSON(w io.Writer, file, lang string, annotations map[int]string) error {
	list := make([]jsonAnnotation, 0, len(annotations))
	for line, text := range annotations {
		list = append(list, jsonAnnotation{Line: line, Translation: text})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Line < list[j].Line })

	out := struct {
		File        string           `json:"file"`
		TargetLang  string           `json:"target_lang"`
		Annotations []jsonAnnotation `json:"annotations"`
	}{File: file, TargetLang: lang, Annotations: list}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// printSink surfaces warnings on stderr; annotations are read back via
// Immersive().Lines rather than streamed.
type printSink struct {
	stderr io.Writer
}

func (s *printSink) ShowPopup(string)                                  {}
func (s *printSink) ClosePopup()                                       {}
func (s *printSink) SetLineAnnotation(hoverlate.BufferID, int, string) {}
func (s *printSink) ClearAnnotations(hoverlate.BufferID)               {}

func (s *printSink) Notify(message string) {
	fmt.Fprintf(s.stderr, "warning: %s\n", message)
}
