package scheduler

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/scholartriage/pipeline/internal/leadmodel"
	"github.com/scholartriage/pipeline/pkg/fileutil"
)

// loadLeads reads the persisted lead set written by a previous run. A
// missing file means this is the first run ever and yields an empty set.
func loadLeads(path string) ([]leadmodel.Lead, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var leads []leadmodel.Lead
	if err := json.Unmarshal(raw, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// loadCandidateURLs reads the carried-over JSONL inbox written by previous
// runs' Discovery Engine passes.
func loadCandidateURLs(path string) ([]leadmodel.CandidateURL, error) {
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

// appendCandidateURLs writes newly discovered candidates that were not
// already present in existingURLs, one JSON object per line, so the next
// run's Candidate Validator pass can pick them up.
func appendCandidateURLs(path string, existingURLs map[string]struct{}, candidates []leadmodel.CandidateURL) error {
	fresh := make([]leadmodel.CandidateURL, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := existingURLs[c.URL]; ok {
			continue
		}
		existingURLs[c.URL] = struct{}{}
		fresh = append(fresh, c)
	}
	if len(fresh) == 0 {
		return nil
	}
	if dirErr := fileutil.EnsureDir(dirOf(path)); dirErr != nil {
		return dirErr
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, c := range fresh {
		line, err := json.Marshal(c)
		if err != nil {
			continue
		}
		if _, err := f.Write(append(line, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// loadBrowserResults reads browser_results.jsonl, written by the external
// headless renderer that consumes browser_queue.jsonl.
func loadBrowserResults(path string) ([]leadmodel.BrowserResult, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var results []leadmodel.BrowserResult
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var r leadmodel.BrowserResult
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			continue
		}
		results = append(results, r)
	}
	return results, scanner.Err()
}

func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}
