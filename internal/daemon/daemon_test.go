package daemon_test

import (
	"context"
	"testing"

	"reeldocs/internal/daemon"
	"reeldocs/internal/logging"
	"reeldocs/internal/testsupport"
)

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	d, err := daemon.New(ctx, cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	status := d.Status(ctx)
	if !status.Running {
		t.Fatal("expected running status")
	}
	if status.APIAddress == "" {
		t.Fatal("expected the api to be listening")
	}
	if status.LockFilePath != cfg.LockFilePath() {
		t.Fatalf("unexpected lock path %q", status.LockFilePath)
	}

	d.Stop()
	if d.Status(ctx).Running {
		t.Fatal("expected stopped status")
	}
}

func TestDaemonEnforcesSingleInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	first, err := daemon.New(ctx, cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	defer first.Close()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("start first: %v", err)
	}

	second, err := daemon.New(ctx, cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new second daemon: %v", err)
	}
	defer second.Close()
	if err := second.Start(ctx); err == nil {
		t.Fatal("expected second instance to be rejected")
	}
}

func TestDaemonStartTwiceFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	d, err := daemon.New(ctx, cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}
}
