// Command candidatevalidator reads tracking/candidate_urls.jsonl, runs
// validate_candidate against every entry, and rewrites the file with each
// candidate's updated confidence and tags. It always exits 0 on
// completion; per-candidate fetch failures are recorded, not fatal.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/scholartriage/pipeline/internal/candidatevalidate"
	"github.com/scholartriage/pipeline/internal/fetcher"
	"github.com/scholartriage/pipeline/internal/leadmodel"
	"github.com/scholartriage/pipeline/internal/metadata"
)

func main() {
	path := flag.String("path", "tracking/candidate_urls.jsonl", "path to candidate_urls.jsonl")
	userAgent := flag.String("user-agent", "scholartriage/1.0 (+polite scholarship discovery bot)", "user agent presented to every validation GET")
	heavy := flag.Bool("heavy", true, "apply the heavy validation checks (form/eligibility/guide-page)")
	flag.Parse()

	candidates, err := readCandidates(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "candidatevalidator: %s\n", err)
		os.Exit(0)
	}

	recorder := metadata.NewRecorder(os.Stderr)
	client := &http.Client{Timeout: 30 * time.Second}
	validator := candidatevalidate.NewValidator(fetcher.NewHTTPFetcher(recorder, client), *userAgent, *heavy)

	ctx := context.Background()
	accepted := 0
	for i, c := range candidates {
		result := validator.ValidateCandidate(ctx, c)
		candidates[i].Confidence = result.Confidence
		candidates[i].Tags = result.Tags
		if result.Accepted {
			accepted++
		}
	}

	if err := writeCandidates(*path, candidates); err != nil {
		fmt.Fprintf(os.Stderr, "candidatevalidator: writing results: %s\n", err)
		os.Exit(0)
	}

	fmt.Printf("validated %d candidates, %d accepted\n", len(candidates), accepted)
	os.Exit(0)
}

func readCandidates(path string) ([]leadmodel.CandidateURL, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var candidates []leadmodel.CandidateURL
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var c leadmodel.CandidateURL
		if err := json.Unmarshal(scanner.Bytes(), &c); err != nil {
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, scanner.Err()
}

func writeCandidates(path string, candidates []leadmodel.CandidateURL) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()
	for _, c := range candidates {
		line, err := json.Marshal(c)
		if err != nil {
			continue
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return err
		}
	}
	return nil
}
