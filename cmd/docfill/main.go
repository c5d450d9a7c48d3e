package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"

	"github.com/benjaminschreck/go-docfill/pkg/docfill"
	"github.com/benjaminschreck/go-docfill/pkg/docfill/render"
)

const version = "0.1.0"

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, surveyPrompter{})
	stop()
	os.Exit(code)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docfill <command> [flags]")
	fmt.Fprintln(w, "\nCommands:")
	fmt.Fprintln(w, "  generate      Fill a template with form data and save the report")
	fmt.Fprintln(w, "  placeholders  List the placeholders of a template")
	fmt.Fprintln(w, "  validate      Check that a template can be used")
	fmt.Fprintln(w, "  version       Show version information")
	fmt.Fprintln(w, "\nRun 'docfill <command> -h' for the flags of a command.")
}

// run executes one CLI invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, prompter Prompter) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}

	var err error
	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "docfill version %s\n", version)
		return 0
	case "generate":
		err = runGenerate(ctx, args[1:], stdout, stderr, prompter)
	case "placeholders":
		err = runPlaceholders(ctx, args[1:], stdout, stderr)
	case "validate":
		err = runValidate(ctx, args[1:], stdout, stderr)
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", args[0])
		usage(stderr)
		return 2
	}

	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig reads the YAML config file when given, else the environment,
// and installs it as the global configuration.
func loadConfig(path string) (*docfill.Config, error) {
	var config *docfill.Config
	if path != "" {
		c, err := docfill.LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		config = c
	} else {
		config = docfill.ConfigFromEnvironment()
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}
	docfill.SetGlobalConfig(config)
	return config, nil
}

func newEngine(config *docfill.Config, stderr io.Writer) *docfill.Engine {
	logger := docfill.NewLogger(stderr, docfill.ParseLogLevel(config.LogLevel))
	return docfill.NewWithConfig(config, docfill.WithLogger(logger))
}

func runGenerate(ctx context.Context, args []string, stdout, stderr io.Writer, prompter Prompter) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		templatePath = fs.String("template", "", "DOCX template path (required)")
		dataPath     = fs.String("data", "", "form data file (.json, .yaml); a glob generates one report per file")
		format       = fs.String("format", "docx", "output format: docx, pdf or md")
		docType      = fs.String("type", docfill.DefaultDocType, "document type, used as output folder and filename prefix")
		outDir       = fs.String("out", "", "output base directory (default from config)")
		label        = fs.String("label", "", "filename label (default from config)")
		configPath   = fs.String("config", "", "YAML config file")
		interactive  = fs.Bool("interactive", false, "prompt for placeholders that have no matching form data")
		strict       = fs.Bool("strict", false, "fail when a placeholder has no value")
		keepGoing    = fs.Bool("keep-going", false, "in batch runs, save every report that succeeds and report all failures")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *templatePath == "" {
		return errors.New("generate: -template is required")
	}

	config, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *strict {
		config.StrictMode = true
	}
	if *outDir == "" {
		*outDir = config.OutputDir
	}
	if *label == "" {
		*label = config.FilenameLabel
	}

	outFormat, err := docfill.ParseFormat(*format)
	if err != nil {
		return err
	}

	dataFiles, err := expandDataPaths(*dataPath)
	if err != nil {
		return err
	}
	if *interactive && len(dataFiles) > 1 {
		return errors.New("generate: -interactive works with a single data file")
	}

	engine := newEngine(config, stderr)

	reqs := make([]docfill.Request, 0, len(dataFiles))
	for _, path := range dataFiles {
		data := docfill.FormData{}
		if path != "" {
			data, err = docfill.LoadFormData(path)
			if err != nil {
				return err
			}
		}
		reqs = append(reqs, docfill.Request{
			TemplatePath: *templatePath,
			FormData:     data,
			Format:       outFormat,
			DocType:      *docType,
		})
	}

	if *interactive {
		if err := promptMissing(ctx, engine, &reqs[0], prompter); err != nil {
			return err
		}
	}

	var (
		reports []*docfill.Report
		genErr  error
	)
	if *keepGoing {
		reports, genErr = engine.GenerateEach(ctx, reqs)
	} else {
		reports, genErr = engine.GenerateAll(ctx, reqs)
		if genErr != nil {
			return genErr
		}
	}

	for _, report := range reports {
		if report == nil {
			continue
		}
		path, err := report.Save(*outDir, *label)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "saved %s\n", path)
		if missing := report.Unresolved(); len(missing) > 0 {
			fmt.Fprintf(stdout, "  left blank: %s\n", strings.Join(missing, ", "))
		}
	}
	return genErr
}

// expandDataPaths resolves the -data flag. A pattern with glob syntax
// matches one or more files; no flag means a single run with empty data.
func expandDataPaths(pattern string) ([]string, error) {
	if pattern == "" {
		return []string{""}, nil
	}
	if !strings.ContainsAny(pattern, "*?[{") {
		return []string{pattern}, nil
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid -data pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no data files match %s", pattern)
	}
	sort.Strings(matches)
	return matches, nil
}

// promptMissing asks for a value for every placeholder the request's data
// does not resolve, storing answers under the placeholder name.
func promptMissing(ctx context.Context, engine *docfill.Engine, req *docfill.Request, prompter Prompter) error {
	tmpl, err := engine.Normalize(ctx, req.TemplatePath)
	if err != nil {
		return err
	}

	data := req.FormData.Clone()
	keys := data.Keys()
	for _, name := range tmpl.Placeholders {
		if docfill.Resolve(name, data).Matched {
			continue
		}
		value, err := prompter.Ask(ctx, name, keys)
		if err != nil {
			return err
		}
		data[name] = value
	}
	req.FormData = data
	return nil
}

func runPlaceholders(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("placeholders", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		templatePath = fs.String("template", "", "DOCX template path (required)")
		dataPath     = fs.String("data", "", "form data file; shows how each placeholder resolves")
		raw          = fs.Bool("raw", false, "print every {{...}} token per part as written, duplicates included")
		configPath   = fs.String("config", "", "YAML config file")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *templatePath == "" {
		return errors.New("placeholders: -template is required")
	}

	config, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	tmpl, err := newEngine(config, stderr).Normalize(ctx, *templatePath)
	if err != nil {
		return err
	}

	if *raw {
		for _, part := range tmpl.PartOrder {
			for _, token := range render.FindTokens(render.TextContent(tmpl.Parts[part])) {
				fmt.Fprintf(stdout, "%s\t%s\n", part, token)
			}
		}
		return nil
	}

	if *dataPath == "" {
		for _, name := range tmpl.Placeholders {
			fmt.Fprintln(stdout, name)
		}
		return nil
	}

	data, err := docfill.LoadFormData(*dataPath)
	if err != nil {
		return err
	}
	for _, name := range tmpl.Placeholders {
		res := docfill.Resolve(name, data)
		if res.Matched {
			fmt.Fprintf(stdout, "%s\t<- %s (%s)\n", name, res.Key, res.Strategy)
		} else {
			fmt.Fprintf(stdout, "%s\t<- (unresolved)\n", name)
		}
	}
	return nil
}

func runValidate(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		templatePath = fs.String("template", "", "DOCX template path (required)")
		configPath   = fs.String("config", "", "YAML config file")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *templatePath == "" {
		return errors.New("validate: -template is required")
	}

	config, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	tmpl, err := newEngine(config, stderr).Normalize(ctx, *templatePath)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s: ok, %d part(s), %d placeholder(s)\n", *templatePath, len(tmpl.PartOrder), len(tmpl.Placeholders))
	for _, d := range tmpl.Diagnostics {
		fmt.Fprintf(stdout, "  warning: %s\n", d.Message)
	}
	return nil
}
