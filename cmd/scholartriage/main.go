// Command scholartriage runs the scholarship-lead discovery, classification,
// and triage pipeline once, or on a recurring schedule via --schedule.
package main

import "github.com/scholartriage/pipeline/internal/cli"

func main() {
	cli.Execute()
}
