package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hwpxlab/go-hwpx/pkg/hwpx"
)

func main() {
	config := hwpx.GetGlobalConfig()

	from := flag.String("from", "pandoc", "input format read from stdin: pandoc (JSON AST) or markdown")
	template := flag.String("template", config.TemplatePath, "skeleton .hwpx archive to patch")
	output := flag.String("output", "", "output .hwpx file path (required)")
	logLevel := flag.String("log-level", "", "log verbosity: debug, info, warn, error, off (overrides HWPX_LOG_LEVEL)")
	flag.Parse()

	if *logLevel != "" {
		config.LogLevel = *logLevel
		hwpx.SetGlobalConfig(config)
		hwpx.GetLogger().SetLevel(hwpx.ParseLogLevel(*logLevel))
	}

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Usage: hwpx [--from pandoc|markdown] [--template skeleton.hwpx] --output out.hwpx < input")
		os.Exit(2)
	}

	var doc *hwpx.Document
	var err error
	switch *from {
	case "pandoc":
		doc, err = hwpx.DecodePandoc(os.Stdin)
	case "markdown":
		doc, err = hwpx.ParseMarkdown(os.Stdin)
	default:
		fmt.Fprintf(os.Stderr, "Unknown input format: %s\n", *from)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	if err := hwpx.ConvertFile(*template, doc, *output); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "HWPX written to %s\n", *output)
}
