package cli_test

import (
	"testing"

	"github.com/scholartriage/pipeline/internal/cli"
	"github.com/scholartriage/pipeline/internal/config"
)

func TestInitConfigWithErrorNoFlagsMatchesDefault(t *testing.T) {
	cli.ResetFlags()

	cfg, err := cli.InitConfigWithError()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	defaultCfg, err := config.WithDefault(".").Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}

	if cfg.Concurrency() != defaultCfg.Concurrency() {
		t.Errorf("expected Concurrency %d, got %d", defaultCfg.Concurrency(), cfg.Concurrency())
	}
	if cfg.Timeout() != defaultCfg.Timeout() {
		t.Errorf("expected Timeout %v, got %v", defaultCfg.Timeout(), cfg.Timeout())
	}
	if cfg.MaxRetries() != defaultCfg.MaxRetries() {
		t.Errorf("expected MaxRetries %d, got %d", defaultCfg.MaxRetries(), cfg.MaxRetries())
	}
}

func TestInitConfigWithErrorAppliesOverrides(t *testing.T) {
	cli.ResetFlags()
	t.Cleanup(cli.ResetFlags)

	cli.SetRootForTest("/tmp/run")
	cli.SetConcurrencyForTest(16)
	cli.SetScheduleForTest("0 */6 * * *")

	cfg, err := cli.InitConfigWithError()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Root() != "/tmp/run" {
		t.Errorf("expected root /tmp/run, got %s", cfg.Root())
	}
	if cfg.Concurrency() != 16 {
		t.Errorf("expected concurrency 16, got %d", cfg.Concurrency())
	}
	if cfg.Schedule() != "0 */6 * * *" {
		t.Errorf("expected schedule to be set, got %q", cfg.Schedule())
	}
}
