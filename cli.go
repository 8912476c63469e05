package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"

	"powerplan/internal/scheme"
)

// runCLI drives the interactive terminal menu until the user exits.
func runCLI(app *App) {
	green := color.New(color.FgHiGreen, color.Bold)
	cyan := color.New(color.FgHiCyan)
	yellow := color.New(color.FgHiYellow)
	red := color.New(color.FgHiRed)

	fmt.Println()
	green.Printf("  ⚡ %s\n", app.tr.T("Power Plan Manager"))
	cyan.Printf("  v%s\n", Version)
	fmt.Println("  ─────────────────────────────────────────────")
	cliActivePlan(app, cyan, red)
	if !app.GetIsAdmin() {
		yellow.Println("  ⚠ " + app.tr.T("Some actions require administrator privileges."))
	}
	fmt.Println()

	for {
		items := []string{
			app.tr.T("Power plans"),
			app.tr.T("Switch power plan"),
			app.tr.T("Delete a power plan"),
			app.tr.T("Advanced settings"),
			app.tr.T("Run PowerShell command"),
			app.tr.T("Language"),
			app.tr.T("Restore original settings"),
			app.tr.T("System information"),
			app.tr.T("Exit"),
		}
		prompt := promptui.Select{
			Label: app.tr.T("What would you like to do?"),
			Items: items,
			Size:  len(items),
		}

		i, _, err := prompt.Run()
		if err != nil {
			return
		}

		fmt.Println()

		switch i {
		case 0:
			cliListPlans(app, red)
		case 1:
			cliSwitchPlan(app, green, red)
		case 2:
			cliDeletePlan(app, green, red)
		case 3:
			cliAdvanced(app, green, yellow, red)
		case 4:
			cliRunCommand(app, green, red)
		case 5:
			cliLanguage(app, green)
		case 6:
			cliRestore(app, green, red)
		case 7:
			cyan.Printf("  ═══ %s ═══\n", app.tr.T("System information"))
			printSummary(app.GetSystemSummary())
		case 8:
			return
		}
		fmt.Println()
	}
}

func cliActivePlan(app *App, cyan, red *color.Color) {
	inv, err := app.GetPowerSchemes()
	if err != nil {
		red.Println("  " + err.Error())
		return
	}
	name := "-"
	if inv.ActiveName != "" {
		name = inv.ActiveName
	}
	cyan.Println("  " + app.tr.Tf("Current active plan: %s", name))
}

func cliListPlans(app *App, red *color.Color) {
	inv, err := app.GetPowerSchemes()
	if err != nil {
		red.Println("  " + err.Error())
		return
	}
	printInventory(app, inv)
}

// selectPlan lets the user pick one enumerated scheme. ok is false when the
// user backs out.
func selectPlan(app *App, label string, red *color.Color) (s scheme.PowerScheme, ok bool) {
	inv, err := app.GetPowerSchemes()
	if err != nil {
		red.Println("  " + err.Error())
		return s, false
	}
	if len(inv.Schemes) == 0 {
		red.Println("  " + app.tr.T("No power plan selected"))
		return s, false
	}

	items := make([]string, 0, len(inv.Schemes)+1)
	for _, p := range inv.Schemes {
		if p.Active {
			items = append(items, fmt.Sprintf("%s  [%s]", p.Name, app.tr.T("Active")))
			continue
		}
		items = append(items, p.Name)
	}
	items = append(items, app.tr.T("Back"))

	prompt := promptui.Select{Label: label, Items: items, Size: 10}
	i, _, err := prompt.Run()
	if err != nil || i == len(inv.Schemes) {
		return s, false
	}
	return inv.Schemes[i], true
}

func cliSwitchPlan(app *App, green, red *color.Color) {
	builtIns := app.GetBuiltInSchemes()
	items := make([]string, 0, len(builtIns)+2)
	for _, b := range builtIns {
		items = append(items, b.Name)
	}
	other := app.tr.T("Power plans") + "…"
	items = append(items, other, app.tr.T("Back"))

	prompt := promptui.Select{
		Label: app.tr.T("Switch power plan"),
		Items: items,
		Size:  len(items),
	}
	i, _, err := prompt.Run()
	if err != nil || i == len(items)-1 {
		return
	}

	var guid, name string
	if i < len(builtIns) {
		name = builtIns[i].Name
		guid, err = app.ActivateMode(string(builtIns[i].Mode))
	} else {
		s, ok := selectPlan(app, app.tr.T("Switch power plan"), red)
		if !ok {
			return
		}
		name = s.Name
		guid, err = app.ActivateScheme(s.GUID)
	}
	if err != nil {
		red.Println("  ✗ " + err.Error())
		return
	}
	green.Println("  ✓ " + app.tr.Tf("Switched to %s", name))
	fmt.Printf("    %s\n", guid)
}

func cliDeletePlan(app *App, green, red *color.Color) {
	s, ok := selectPlan(app, app.tr.T("Delete a power plan"), red)
	if !ok {
		return
	}
	if scheme.IsBuiltIn(s.GUID) {
		red.Println("  ✗ " + app.tr.T("Built-in power plans cannot be deleted!"))
		return
	}
	if app.cfg.ConfirmDelete {
		confirm := promptui.Prompt{
			Label:     app.tr.Tf("Delete power plan %s?", s.Name),
			IsConfirm: true,
		}
		if _, err := confirm.Run(); err != nil {
			return
		}
	}
	if err := app.DeleteScheme(s.GUID); err != nil {
		red.Println("  ✗ " + err.Error())
		return
	}
	green.Println("  ✓ " + app.tr.T("Power plan deleted"))
}

func cliAdvanced(app *App, green, yellow, red *color.Color) {
	yellow.Println("  ⚠ " + app.tr.T("Warning: the settings below may affect system stability!"))
	fmt.Println()
	for _, line := range strings.Split(app.tr.T(aoacDescription), "\n") {
		fmt.Println("  " + line)
	}
	fmt.Println()

	st, err := app.GetAoAcOverride()
	if err != nil {
		red.Println("  " + err.Error())
		return
	}
	fmt.Println("  " + app.tr.Tf("PlatformAoAcOverride: %s", st.Label))

	label := app.tr.T("Set PlatformAoAcOverride = 0")
	prompt := promptui.Select{
		Label: label,
		Items: []string{"✅ " + label, "❌ " + app.tr.T("Remove PlatformAoAcOverride"), app.tr.T("Back")},
		Size:  3,
	}
	i, _, err := prompt.Run()
	if err != nil || i == 2 {
		return
	}

	enable := i == 0
	if err := app.ApplyAoAcOverride(enable); err != nil {
		red.Println("  ✗ " + err.Error())
		return
	}
	if enable {
		green.Println("  ✓ " + app.tr.T("Registry setting updated"))
	} else {
		green.Println("  ✓ " + app.tr.T("Registry setting removed"))
	}
}

func cliRunCommand(app *App, green, red *color.Color) {
	prompt := promptui.Prompt{Label: app.tr.T("Enter a PowerShell command")}
	text, err := prompt.Run()
	if err != nil {
		return
	}

	result, err := app.RunCommand(text)
	if err != nil {
		red.Println("  ✗ " + err.Error())
		return
	}
	if strings.TrimSpace(result.Stdout) == "" {
		green.Println("  " + app.tr.T("Command completed with no output"))
		return
	}
	fmt.Println(strings.TrimRight(result.Stdout, "\r\n"))
}

func cliLanguage(app *App, green *color.Color) {
	langs := app.GetLanguages()
	items := make([]string, len(langs))
	cursor := 0
	for i, l := range langs {
		items[i] = l.Name
		if l.Code == app.GetLanguage() {
			cursor = i
		}
	}

	prompt := promptui.Select{
		Label:     app.tr.T("Language"),
		Items:     items,
		Size:      len(items),
		CursorPos: cursor,
	}
	i, _, err := prompt.Run()
	if err != nil {
		return
	}

	code, _ := app.SetLanguage(langs[i].Code)
	green.Println("  ✓ " + app.tr.Tf("Language switched to: %s", code))
}

func cliRestore(app *App, green, red *color.Color) {
	if err := app.RestoreOriginal(); err != nil {
		red.Println("  ✗ " + err.Error())
		return
	}
	green.Println("  ✓ " + app.tr.T("Original settings restored"))
}
