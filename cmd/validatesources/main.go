// Command validatesources validates sources.yml's shape and invariants
// without running any part of the pipeline: every name/url present, every
// url parseable, every scraper value in the supported set, and every
// max_depth/priority non-negative. Exits 1 on any validation error, 0
// otherwise.
package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"

	"github.com/scholartriage/pipeline/internal/config"
	"github.com/scholartriage/pipeline/internal/leadmodel"
)

var supportedScrapers = map[leadmodel.ScraperKind]bool{
	leadmodel.ScraperSelenium:   true,
	leadmodel.ScraperUniversity: true,
	leadmodel.ScraperGovernment: true,
	leadmodel.ScraperThirdParty: true,
	leadmodel.ScraperFoundation: true,
}

func main() {
	path := flag.String("path", "sources.yml", "path to sources.yml")
	flag.Parse()

	sources, err := config.LoadSources(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "validatesources: %s\n", err)
		os.Exit(1)
	}

	var problems []string
	seenNames := make(map[string]struct{}, len(sources))
	for i, source := range sources {
		problems = append(problems, validateOne(i, source, seenNames)...)
	}

	if len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintln(os.Stderr, p)
		}
		fmt.Fprintf(os.Stderr, "validatesources: %d problem(s) found across %d source(s)\n", len(problems), len(sources))
		os.Exit(1)
	}

	fmt.Printf("validatesources: %d source(s) valid\n", len(sources))
	os.Exit(0)
}

func validateOne(index int, source leadmodel.Source, seenNames map[string]struct{}) []string {
	var problems []string
	label := fmt.Sprintf("sources[%d]", index)

	if source.Name == "" {
		problems = append(problems, label+": name is required")
	} else {
		label = fmt.Sprintf("sources[%d] (%s)", index, source.Name)
		if _, dup := seenNames[source.Name]; dup {
			problems = append(problems, label+": duplicate name")
		}
		seenNames[source.Name] = struct{}{}
	}

	if source.URL == "" {
		problems = append(problems, label+": url is required")
	} else if _, err := url.ParseRequestURI(source.URL); err != nil {
		problems = append(problems, label+": url is not parseable: "+err.Error())
	}

	if !supportedScrapers[source.Scraper] {
		problems = append(problems, fmt.Sprintf("%s: unsupported scraper %q", label, source.Scraper))
	}

	if source.MaxDepth < 0 {
		problems = append(problems, label+": max_depth must not be negative")
	}
	if source.Priority < 0 {
		problems = append(problems, label+": priority must not be negative")
	}

	return problems
}
