//go:build e2e

package e2e_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"powerplan/internal/backup"
	"powerplan/internal/cmd"
	"powerplan/internal/powercfg"
	"powerplan/internal/scheme"
	"powerplan/internal/standby"
	"powerplan/internal/system"
	"powerplan/internal/toolkit"
)

func requireWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS != "windows" {
		t.Skip("powercfg and the registry are only available on Windows")
	}
}

// --- Power schemes ---

// TestE2E_ListSchemes runs the real powercfg and checks the parsed inventory
// has exactly one active scheme with a canonical GUID.
func TestE2E_ListSchemes(t *testing.T) {
	requireWindows(t)

	m := powercfg.NewManager(cmd.Executor{})
	inv, err := m.List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}

	if len(inv.Schemes) == 0 {
		t.Fatal("List() returned 0 schemes")
	}

	active := 0
	for _, s := range inv.Schemes {
		if !scheme.ValidGUID(s.GUID) {
			t.Errorf("scheme %q has malformed GUID %q", s.Name, s.GUID)
		}
		if s.GUID != strings.ToLower(s.GUID) {
			t.Errorf("GUID %q is not lower-case", s.GUID)
		}
		if s.Name == "" {
			t.Errorf("scheme %s has empty name", s.GUID)
		}
		if s.Active {
			active++
		}
	}
	if active != 1 {
		t.Errorf("found %d active schemes, want 1", active)
	}

	t.Logf("Active plan: %s (%s)", inv.ActiveName, inv.ActiveGUID)
}

// TestE2E_ActiveGUIDMatchesList compares /getactivescheme with the marker in /L.
func TestE2E_ActiveGUIDMatchesList(t *testing.T) {
	requireWindows(t)

	ctx := context.Background()
	m := powercfg.NewManager(cmd.Executor{})

	guid, err := m.ActiveGUID(ctx)
	if err != nil {
		t.Fatalf("ActiveGUID() error: %v", err)
	}
	inv, err := m.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if inv.ActiveGUID != guid {
		t.Errorf("ActiveGUID() = %q, list marks %q", guid, inv.ActiveGUID)
	}
}

// TestE2E_DeleteBuiltInRefused must never reach powercfg.
func TestE2E_DeleteBuiltInRefused(t *testing.T) {
	requireWindows(t)

	m := powercfg.NewManager(cmd.Executor{})
	for _, b := range scheme.BuiltIns() {
		err := m.Delete(context.Background(), b.GUID)
		if !errors.Is(err, powercfg.ErrBuiltInScheme) {
			t.Errorf("Delete(%s) error = %v, want ErrBuiltInScheme", b.Mode, err)
		}
	}
}

// --- Registry ---

// TestE2E_AoAcStatus reads PlatformAoAcOverride without changing it.
func TestE2E_AoAcStatus(t *testing.T) {
	requireWindows(t)

	st, err := standby.NewOverride(standby.LocalMachine{}).Status()
	if err != nil {
		t.Fatalf("Status() error: %v", err)
	}
	t.Logf("PlatformAoAcOverride: %s", st)
}

// --- Shell ---

// TestE2E_RunCommand runs a harmless PowerShell expression.
func TestE2E_RunCommand(t *testing.T) {
	requireWindows(t)

	res, err := toolkit.RunCommand(context.Background(), cmd.Executor{}, "Write-Output 42")
	if err != nil {
		t.Fatalf("RunCommand() error: %v", err)
	}
	if strings.TrimSpace(res.Stdout) != "42" {
		t.Errorf("Stdout = %q, want 42", res.Stdout)
	}
}

// TestE2E_RunCommandFailure checks a failing command reports its exit code.
func TestE2E_RunCommandFailure(t *testing.T) {
	requireWindows(t)

	res, err := toolkit.RunCommand(context.Background(), cmd.Executor{}, "exit 3")
	if err == nil {
		t.Fatal("RunCommand(exit 3) returned nil error")
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
}

// TestE2E_ToolkitAdmin verifies IsAdmin returns without panicking.
func TestE2E_ToolkitAdmin(t *testing.T) {
	t.Logf("IsAdmin() = %v", toolkit.IsAdmin())
}

// --- System ---

// TestE2E_SystemSummary verifies gopsutil fills in the basics.
func TestE2E_SystemSummary(t *testing.T) {
	s := system.GetSummary(context.Background())

	if s.Hostname == "" {
		t.Error("Hostname is empty")
	}
	if s.CPUCores < 1 {
		t.Errorf("CPUCores = %d, want >= 1", s.CPUCores)
	}
	if s.CPUThreads < s.CPUCores {
		t.Errorf("CPUThreads (%d) < CPUCores (%d)", s.CPUThreads, s.CPUCores)
	}
	if s.RAMTotal == 0 {
		t.Error("RAMTotal is 0")
	}
	if s.RAMUsage < 0 || s.RAMUsage > 100 {
		t.Errorf("RAMUsage = %f, want 0-100", s.RAMUsage)
	}

	t.Logf("CPU: %s (%d cores / %d threads)", s.CPUModel, s.CPUCores, s.CPUThreads)
	t.Logf("Uptime: %s", s.Uptime)
}

// --- Backup ---

// TestE2E_BackupCapture snapshots the real machine state into a temp dir.
func TestE2E_BackupCapture(t *testing.T) {
	requireWindows(t)

	dir := t.TempDir()
	store := backup.NewStore(dir)
	ok, err := store.Capture(context.Background(),
		powercfg.NewManager(cmd.Executor{}),
		standby.NewOverride(standby.LocalMachine{}))
	if err != nil {
		t.Fatalf("Capture() error: %v", err)
	}
	if !ok {
		t.Fatal("Capture() did not write a snapshot into an empty dir")
	}

	if _, err := os.Stat(filepath.Join(dir, "backup_state.json")); err != nil {
		t.Fatalf("snapshot file missing: %v", err)
	}
	st, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !scheme.ValidGUID(st.PowerPlan) {
		t.Errorf("saved plan %q is not a GUID", st.PowerPlan)
	}
}
