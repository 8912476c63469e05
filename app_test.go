package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powerplan/internal/cmd"
	"powerplan/internal/cmd/cmdtest"
	"powerplan/internal/config"
	"powerplan/internal/powercfg"
	"powerplan/internal/standby"
	"powerplan/internal/toolkit"
)

const (
	balancedGUID = "381b4222-f694-41f0-9685-ff5bb260df2e"
	customGUID   = "5d1f2a6b-8e4c-4b1a-9d2e-0f3c4b5a6d7e"
)

const listing = "Existing Power Schemes (* Active)\r\n" +
	"-----------------------------------\r\n" +
	"Power Scheme GUID: " + balancedGUID + "  (Balanced) *\r\n" +
	"Power Scheme GUID: " + customGUID + "  (Gaming)\r\n"

// fakeRegistry is an in-memory standby.Accessor. When err is set every call
// returns it.
type fakeRegistry struct {
	values map[string]uint32
	err    error
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{values: map[string]uint32{}}
}

func (f *fakeRegistry) ReadDword(path, name string) (uint32, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}
	v, ok := f.values[path+`\`+name]
	return v, ok, nil
}

func (f *fakeRegistry) WriteDword(path, name string, value uint32) error {
	if f.err != nil {
		return f.err
	}
	f.values[path+`\`+name] = value
	return nil
}

func (f *fakeRegistry) DeleteValue(path, name string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.values, path+`\`+name)
	return nil
}

func newTestApp(t *testing.T, r cmd.Runner, reg standby.Accessor, lang string) *App {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Language = lang
	return NewApp(filepath.Join(dir, "config.yaml"), cfg, r, reg, filepath.Join(dir, "backups"))
}

func TestGetPowerSchemes(t *testing.T) {
	r := cmdtest.NewRunner().On("powercfg /L", cmdtest.Response{Stdout: listing})
	app := newTestApp(t, r, newFakeRegistry(), "en_US")

	inv, err := app.GetPowerSchemes()
	require.NoError(t, err)
	require.Len(t, inv.Schemes, 2)
	assert.Equal(t, "Balanced", inv.ActiveName)
	assert.Equal(t, balancedGUID, inv.ActiveGUID)
}

func TestGetPowerSchemesFailureIsLocalized(t *testing.T) {
	r := cmdtest.NewRunner().On("powercfg /L", cmdtest.Response{ExitCode: 1, Stdout: "Unable to perform operation."})
	app := newTestApp(t, r, newFakeRegistry(), "en_US")

	_, err := app.GetPowerSchemes()
	require.Error(t, err)
	assert.Equal(t, "Failed to get power plans:\nUnable to perform operation.", err.Error())

	_, ok := cmd.AsToolError(err)
	assert.True(t, ok, "tool error should stay reachable")
}

func TestActivateSchemeCapturesRestorePoint(t *testing.T) {
	r := cmdtest.NewRunner().
		On("powercfg /getactivescheme", cmdtest.Response{Stdout: "Power Scheme GUID: " + balancedGUID + "  (Balanced)"}).
		On("powercfg /L", cmdtest.Response{Stdout: listing}).
		On("powercfg /setactive "+customGUID, cmdtest.Response{})
	app := newTestApp(t, r, newFakeRegistry(), "en_US")

	require.False(t, app.HasRestorePoint())
	guid, err := app.ActivateScheme(customGUID)
	require.NoError(t, err)
	assert.Equal(t, customGUID, guid)
	assert.True(t, app.HasRestorePoint())
	assert.Equal(t, []string{
		"powercfg /getactivescheme",
		"powercfg /L",
		"powercfg /setactive " + customGUID,
	}, r.Lines())
}

func TestActivateSchemeNoSelection(t *testing.T) {
	r := cmdtest.NewRunner()
	app := newTestApp(t, r, newFakeRegistry(), "en_US")

	_, err := app.ActivateScheme("  ")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.Equal(t, "No power plan selected", err.Error())
	assert.Empty(t, r.Calls)
}

func TestDeleteBuiltInNeverRunsPowercfg(t *testing.T) {
	r := cmdtest.NewRunner()
	app := newTestApp(t, r, newFakeRegistry(), "en_US")

	err := app.DeleteScheme(balancedGUID)
	require.Error(t, err)
	assert.ErrorIs(t, err, powercfg.ErrBuiltInScheme)
	assert.Equal(t, "Built-in power plans cannot be deleted!", err.Error())
	assert.Empty(t, r.Calls)
}

func TestDeleteBuiltInLocalized(t *testing.T) {
	app := newTestApp(t, cmdtest.NewRunner(), newFakeRegistry(), "zh_CN")

	err := app.DeleteScheme(balancedGUID)
	require.Error(t, err)
	assert.Equal(t, app.tr.T("Built-in power plans cannot be deleted!"), err.Error())
	assert.NotEqual(t, "Built-in power plans cannot be deleted!", err.Error())
}

func TestDeleteCustomScheme(t *testing.T) {
	r := cmdtest.NewRunner().On("powercfg /d "+customGUID, cmdtest.Response{})
	app := newTestApp(t, r, newFakeRegistry(), "en_US")

	require.NoError(t, app.DeleteScheme(customGUID))
	assert.Equal(t, []string{"powercfg /d " + customGUID}, r.Lines())
}

func TestRunCommandFailureKeepsStderr(t *testing.T) {
	r := cmdtest.NewRunner().On("powershell -NoProfile -Command Remove-Item C:\\Windows", cmdtest.Response{
		ExitCode: 1,
		Stderr:   "Access is denied.",
	})
	app := newTestApp(t, r, newFakeRegistry(), "en_US")

	result, err := app.RunCommand(`Remove-Item C:\Windows`)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.ExitCode)
	assert.Equal(t, "Access is denied.", result.Stderr)
	assert.Equal(t, "Command failed:\nExit code: 1\nError: Access is denied.", err.Error())

	te, ok := cmd.AsToolError(err)
	require.True(t, ok)
	assert.Equal(t, "Access is denied.", te.Stderr)
}

func TestRunCommandEmpty(t *testing.T) {
	r := cmdtest.NewRunner()
	app := newTestApp(t, r, newFakeRegistry(), "en_US")

	_, err := app.RunCommand("   ")
	assert.ErrorIs(t, err, toolkit.ErrEmptyCommand)
	assert.Equal(t, "Please enter a command to run", err.Error())
	assert.Empty(t, r.Calls)
}

func TestAoAcOverride(t *testing.T) {
	r := cmdtest.NewRunner().
		On("powercfg /getactivescheme", cmdtest.Response{Stdout: "Power Scheme GUID: " + balancedGUID})
	reg := newFakeRegistry()
	app := newTestApp(t, r, reg, "en_US")

	st, err := app.GetAoAcOverride()
	require.NoError(t, err)
	assert.False(t, st.Present)
	assert.False(t, st.Enabled)
	assert.Equal(t, "unset", st.Label)

	require.NoError(t, app.ApplyAoAcOverride(true))
	st, err = app.GetAoAcOverride()
	require.NoError(t, err)
	assert.True(t, st.Enabled)
	assert.Equal(t, "0", st.Label)

	require.NoError(t, app.ApplyAoAcOverride(false))
	st, err = app.GetAoAcOverride()
	require.NoError(t, err)
	assert.False(t, st.Present)
}

func TestAoAcPermissionDenied(t *testing.T) {
	reg := newFakeRegistry()
	reg.err = fmt.Errorf("open key: %w", standby.ErrPermissionDenied)
	app := newTestApp(t, cmdtest.NewRunner(), reg, "en_US")

	err := app.ApplyAoAcOverride(true)
	require.Error(t, err)
	assert.ErrorIs(t, err, standby.ErrPermissionDenied)
	assert.Contains(t, err.Error(), "Administrator privileges are required")
}

func TestAoAcReadFailure(t *testing.T) {
	reg := newFakeRegistry()
	reg.err = errors.New("device not ready")
	app := newTestApp(t, cmdtest.NewRunner(), reg, "en_US")

	_, err := app.GetAoAcOverride()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read registry: ")
	assert.Contains(t, err.Error(), "device not ready")
}

func TestRestoreOriginal(t *testing.T) {
	r := cmdtest.NewRunner().
		On("powercfg /getactivescheme", cmdtest.Response{Stdout: "Power Scheme GUID: " + balancedGUID}).
		On("powercfg /L", cmdtest.Response{Stdout: listing}).
		On("powercfg /setactive "+customGUID, cmdtest.Response{}).
		On("powercfg /setactive "+balancedGUID, cmdtest.Response{})
	reg := newFakeRegistry()
	app := newTestApp(t, r, reg, "en_US")

	_, err := app.ActivateScheme(customGUID)
	require.NoError(t, err)
	require.NoError(t, app.ApplyAoAcOverride(true))

	require.NoError(t, app.RestoreOriginal())
	assert.False(t, app.HasRestorePoint())
	assert.Empty(t, reg.values)
	assert.Equal(t, "powercfg /setactive "+balancedGUID, r.Lines()[len(r.Lines())-1])
}

func TestRestoreWithoutSnapshot(t *testing.T) {
	app := newTestApp(t, cmdtest.NewRunner(), newFakeRegistry(), "en_US")

	err := app.RestoreOriginal()
	require.Error(t, err)
	assert.Equal(t, "No restore point saved yet", err.Error())
}

func TestSetLanguagePersists(t *testing.T) {
	app := newTestApp(t, cmdtest.NewRunner(), newFakeRegistry(), "en_US")

	code, err := app.SetLanguage("de")
	require.NoError(t, err)
	assert.Equal(t, "de_DE", code)
	assert.Equal(t, "de_DE", app.GetLanguage())
	assert.NotEqual(t, "Balanced", app.Translate("Balanced"))

	cfg, err := config.Load(app.cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "de_DE", cfg.Language)
}

func TestTranslateFallsBackToKey(t *testing.T) {
	app := newTestApp(t, cmdtest.NewRunner(), newFakeRegistry(), "fr_FR")

	out := app.TranslateAll([]string{"Balanced", "no such key"})
	assert.Equal(t, "no such key", out["no such key"])
	assert.NotEqual(t, "Balanced", out["Balanced"])
}

func TestGetBuiltInSchemesLocalized(t *testing.T) {
	app := newTestApp(t, cmdtest.NewRunner(), newFakeRegistry(), "en_US")

	all := app.GetBuiltInSchemes()
	require.Len(t, all, 4)
	assert.Equal(t, "Power saver", all[0].Name)
}

func TestActivateRejectsBadInputBeforeSnapshot(t *testing.T) {
	r := cmdtest.NewRunner()
	app := newTestApp(t, r, newFakeRegistry(), "en_US")

	_, err := app.ActivateScheme("not-a-guid")
	require.Error(t, err)
	assert.ErrorIs(t, err, powercfg.ErrInvalidGUID)

	_, err = app.ActivateMode("turbo")
	require.Error(t, err)
	assert.ErrorIs(t, err, powercfg.ErrUnknownMode)

	assert.Empty(t, r.Calls, "no tool may run for rejected input")
	assert.False(t, app.HasRestorePoint())
}
