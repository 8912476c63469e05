package main

import (
	"context"
	"fmt"
	"strings"

	"powerplan/internal/backup"
	"powerplan/internal/cmd"
	"powerplan/internal/config"
	"powerplan/internal/i18n"
	"powerplan/internal/logger"
	"powerplan/internal/powercfg"
	"powerplan/internal/scheme"
	"powerplan/internal/standby"
	"powerplan/internal/system"
	"powerplan/internal/toolkit"
)

// App is the single service behind the desktop window, the interactive
// menu and the subcommands. Every call blocks until the external tool
// finishes.
type App struct {
	ctx      context.Context
	cfgPath  string
	cfg      *config.Config
	tr       *i18n.Translator
	runner   cmd.Runner
	plans    *powercfg.Manager
	override *standby.Override
	backups  *backup.Store
}

const aoacDescription = "Setting PlatformAoAcOverride = 0 may disable Modern Standby and hide the sleep options, but can fix some power plan problems."

// AoAcState is the PlatformAoAcOverride status as shown to the user.
type AoAcState struct {
	Enabled bool   `json:"enabled"`
	Present bool   `json:"present"`
	Value   uint32 `json:"value"`
	Label   string `json:"label"`
}

func NewApp(cfgPath string, cfg *config.Config, runner cmd.Runner, acc standby.Accessor, backupDir string) *App {
	a := &App{
		ctx:      context.Background(),
		cfgPath:  cfgPath,
		cfg:      cfg,
		tr:       i18n.Identity(),
		runner:   runner,
		plans:    powercfg.NewManager(runner),
		override: standby.NewOverride(acc),
		backups:  backup.NewStore(backupDir),
	}
	a.loadLanguage(cfg.Language)
	return a
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

func (a *App) loadLanguage(code string) {
	tr, err := i18n.Load(code, a.cfg.LocalesDir)
	if err != nil {
		logger.Warn("translation table unusable, showing source text", "language", code, "err", err)
	}
	a.tr = tr
}

// captureRestorePoint snapshots settings before the first change. Failure
// only costs the restore feature, so it is logged and ignored.
func (a *App) captureRestorePoint() {
	if _, err := a.backups.Capture(a.ctx, a.plans, a.override); err != nil {
		logger.Warn("could not capture restore point", "err", err)
	}
}

// ============================================================
// Power schemes
// ============================================================

func (a *App) GetPowerSchemes() (*scheme.Inventory, error) {
	inv, err := a.plans.List(a.ctx)
	if err != nil {
		return nil, a.fail("Failed to get power plans:\n%s", err)
	}
	return inv, nil
}

// GetBuiltInSchemes returns the quick-switch plans with localized names.
func (a *App) GetBuiltInSchemes() []scheme.BuiltIn {
	all := scheme.BuiltIns()
	for i := range all {
		all[i].Name = a.tr.T(all[i].Name)
	}
	return all
}

func (a *App) ActivateScheme(guid string) (string, error) {
	if strings.TrimSpace(guid) == "" {
		return "", a.fail("Failed to switch power plan:\n%s", ErrNoSelection)
	}
	if !scheme.ValidGUID(guid) {
		return "", a.fail("Failed to switch power plan:\n%s", fmt.Errorf("%w: %q", powercfg.ErrInvalidGUID, guid))
	}
	a.captureRestorePoint()
	active, err := a.plans.Activate(a.ctx, guid)
	if err != nil {
		return "", a.fail("Failed to switch power plan:\n%s", err)
	}
	return active, nil
}

func (a *App) ActivateMode(mode string) (string, error) {
	if _, ok := scheme.LookupBuiltIn(scheme.Mode(mode)); !ok {
		return "", a.fail("Failed to switch power plan:\n%s", fmt.Errorf("%w: %q", powercfg.ErrUnknownMode, mode))
	}
	a.captureRestorePoint()
	active, err := a.plans.ActivateBuiltIn(a.ctx, scheme.Mode(mode))
	if err != nil {
		return "", a.fail("Failed to switch power plan:\n%s", err)
	}
	return active, nil
}

func (a *App) DeleteScheme(guid string) error {
	if strings.TrimSpace(guid) == "" {
		return a.fail("Failed to delete power plan:\n%s", ErrNoSelection)
	}
	return a.fail("Failed to delete power plan:\n%s", a.plans.Delete(a.ctx, guid))
}

// ============================================================
// PlatformAoAcOverride
// ============================================================

func (a *App) GetAoAcOverride() (*AoAcState, error) {
	st, err := a.override.Status()
	if err != nil {
		return nil, a.fail("Failed to read registry: %s", err)
	}
	label := st.String()
	if !st.Present {
		label = a.tr.T("unset")
	}
	return &AoAcState{
		Enabled: st.Enabled(),
		Present: st.Present,
		Value:   st.Value,
		Label:   label,
	}, nil
}

func (a *App) ApplyAoAcOverride(enable bool) error {
	a.captureRestorePoint()
	return a.fail("Failed to update registry: %s", a.override.Apply(enable))
}

// ============================================================
// Shell
// ============================================================

// RunCommand executes text in PowerShell without any filtering.
func (a *App) RunCommand(text string) (*toolkit.CommandResult, error) {
	result, err := toolkit.RunCommand(a.ctx, a.runner, text)
	if err != nil {
		return result, a.fail("%s", err)
	}
	return result, nil
}

func (a *App) GetIsAdmin() bool {
	return toolkit.IsAdmin()
}

// ============================================================
// Language
// ============================================================

func (a *App) GetLanguages() []i18n.Language {
	return i18n.Languages()
}

func (a *App) GetLanguage() string {
	return a.tr.Language()
}

// SetLanguage switches the UI language and remembers the choice.
func (a *App) SetLanguage(code string) (string, error) {
	a.loadLanguage(code)
	a.cfg.Language = a.tr.Language()
	if err := config.Save(a.cfgPath, a.cfg); err != nil {
		logger.Warn("could not persist language", "err", err)
	}
	return a.tr.Language(), nil
}

func (a *App) Translate(key string) string {
	return a.tr.T(key)
}

// TranslateAll resolves a batch of keys for the frontend.
func (a *App) TranslateAll(keys []string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		out[k] = a.tr.T(k)
	}
	return out
}

// ============================================================
// Restore point & system
// ============================================================

func (a *App) HasRestorePoint() bool {
	return a.backups.Has()
}

func (a *App) RestoreOriginal() error {
	if !a.backups.Has() {
		return &UserError{Message: a.tr.T("No restore point saved yet")}
	}
	return a.fail("%s", a.backups.Restore(a.ctx, a.plans, a.override))
}

func (a *App) GetSystemSummary() *system.Summary {
	return system.GetSummary(a.ctx)
}
