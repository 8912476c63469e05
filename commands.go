package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"powerplan/internal/backup"
	extcmd "powerplan/internal/cmd"
	"powerplan/internal/config"
	"powerplan/internal/logger"
	"powerplan/internal/scheme"
	"powerplan/internal/standby"
	"powerplan/internal/system"
)

var (
	// Global flags
	cfgFile  string
	langFlag string
	verbose  bool
	jsonOut  bool
	noColor  bool
	cliMode  bool

	deleteForce bool

	app       *App
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "powerplan",
	Short: "Manage Windows power plans",
	Long: `powerplan lists, activates and deletes Windows power plans through powercfg,
toggles the PlatformAoAcOverride registry value and runs PowerShell commands.

Without a subcommand it opens the desktop window; --cli opens the terminal menu.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if cliMode {
			runCLI(app)
			return nil
		}
		return runGUI(app)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.powerplan/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", "UI language, e.g. zh_CN or de")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log external tool calls to stderr")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.Flags().BoolVarP(&cliMode, "cli", "c", false, "Open the interactive terminal menu")

	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Don't prompt for confirmation")

	aoacCmd.AddCommand(aoacStatusCmd, aoacEnableCmd, aoacDisableCmd)
	rootCmd.AddCommand(listCmd, activeCmd, activateCmd, deleteCmd, runCmd, aoacCmd,
		restoreCmd, infoCmd, languagesCmd, versionCmd)
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgHiRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration, starts logging and builds the App.
func setup() error {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
	if langFlag != "" {
		cfg.Language = langFlag
	}
	if noColor {
		color.NoColor = true
	}

	logCloser, err = logger.Init(logger.Options{
		Enabled: cfg.Log.Enabled,
		Dir:     cfg.Log.Dir,
		Level:   logger.ParseLevel(cfg.Log.Level),
		Verbose: verbose,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	app = NewApp(path, cfg,
		extcmd.Executor{Timeout: cfg.Timeout()},
		standby.LocalMachine{},
		backup.DefaultDir(filepath.Dir(path)))
	return nil
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all power plans",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := app.GetPowerSchemes()
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(inv)
		}
		printInventory(app, inv)
		return nil
	},
}

var activeCmd = &cobra.Command{
	Use:   "active",
	Short: "Show the active power plan",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := app.GetPowerSchemes()
		if err != nil {
			return err
		}
		active := inv.Active()
		if jsonOut {
			return printJSON(active)
		}
		if active == nil {
			fmt.Println(app.tr.Tf("Current active plan: %s", "-"))
			return nil
		}
		fmt.Println(app.tr.Tf("Current active plan: %s", active.Name))
		return nil
	},
}

var activateCmd = &cobra.Command{
	Use:   "activate <guid|mode>",
	Short: "Activate a power plan by GUID or built-in mode",
	Long: `Activate a power plan. The argument is either a scheme GUID or one of the
built-in modes: power_saver, balanced, high_performance, ultimate_performance.
A built-in plan that is not currently listed is duplicated first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := args[0]

		var guid string
		var err error
		if _, ok := scheme.LookupBuiltIn(scheme.Mode(target)); ok {
			guid, err = app.ActivateMode(target)
		} else {
			guid, err = app.ActivateScheme(target)
		}
		if err != nil {
			return err
		}
		color.New(color.FgHiGreen).Println("  ✓ " + app.tr.Tf("Switched to %s", app.schemeLabel(guid)))
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <guid>",
	Short: "Delete a user-created power plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		guid := args[0]
		if scheme.IsBuiltIn(guid) {
			// Refuse before asking anything.
			return app.DeleteScheme(guid)
		}
		if !deleteForce && app.cfg.ConfirmDelete {
			prompt := promptui.Prompt{
				Label:     app.tr.Tf("Delete power plan %s?", app.schemeLabel(guid)),
				IsConfirm: true,
			}
			if _, err := prompt.Run(); err != nil {
				return nil
			}
		}
		if err := app.DeleteScheme(guid); err != nil {
			return err
		}
		color.New(color.FgHiGreen).Println("  ✓ " + app.tr.T("Power plan deleted"))
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run <command...>",
	Short: "Run a PowerShell command (unrestricted)",
	Long: `Run passes its arguments to PowerShell exactly as given. There is no
filtering: the command runs with this process's privileges.
Put the command after -- when it contains its own dashes.`,
	Example: `  powerplan run -- Get-Process -Name explorer
  powerplan run --json -- "powercfg /energy /duration 5"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := app.RunCommand(strings.Join(args, " "))
		if jsonOut && result != nil {
			if perr := printJSON(result); perr != nil {
				return perr
			}
			return err
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(result.Stdout) == "" {
			fmt.Println(app.tr.T("Command completed with no output"))
			return nil
		}
		fmt.Print(result.Stdout)
		return nil
	},
}

var aoacCmd = &cobra.Command{
	Use:   "aoac",
	Short: "Show or change PlatformAoAcOverride",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return aoacStatusCmd.RunE(cmd, args)
	},
}

var aoacStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current PlatformAoAcOverride value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := app.GetAoAcOverride()
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(st)
		}
		fmt.Println(app.tr.Tf("PlatformAoAcOverride: %s", st.Label))
		return nil
	},
}

var aoacEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Set PlatformAoAcOverride = 0 (disables Modern Standby)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.ApplyAoAcOverride(true); err != nil {
			return err
		}
		color.New(color.FgHiGreen).Println("  ✓ " + app.tr.T("Registry setting updated"))
		return nil
	},
}

var aoacDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Remove PlatformAoAcOverride",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.ApplyAoAcOverride(false); err != nil {
			return err
		}
		color.New(color.FgHiGreen).Println("  ✓ " + app.tr.T("Registry setting removed"))
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the power plan and registry value saved before the first change",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.RestoreOriginal(); err != nil {
			return err
		}
		color.New(color.FgHiGreen).Println("  ✓ " + app.tr.T("Original settings restored"))
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show system information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := app.GetSystemSummary()
		if jsonOut {
			return printJSON(s)
		}
		printSummary(s)
		return nil
	},
}

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the available UI languages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		langs := app.GetLanguages()
		if jsonOut {
			return printJSON(langs)
		}
		current := app.GetLanguage()
		for _, l := range langs {
			marker := " "
			if l.Code == current {
				marker = "*"
			}
			fmt.Printf("  %s %-6s %s\n", marker, l.Code, l.Name)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("powerplan %s\n", Version)
	},
}

// schemeLabel returns "Name (guid)" for a listed scheme, or the GUID alone.
func (a *App) schemeLabel(guid string) string {
	inv, err := a.plans.List(a.ctx)
	if err == nil {
		if s := inv.Find(guid); s != nil {
			return fmt.Sprintf("%s (%s)", s.Name, s.GUID)
		}
	}
	return guid
}

func printInventory(a *App, inv *scheme.Inventory) {
	cyan := color.New(color.FgHiCyan)
	green := color.New(color.FgHiGreen, color.Bold)

	cyan.Printf("  ═══ %s ═══\n", a.tr.T("Power plans"))
	for _, s := range inv.Schemes {
		if s.Active {
			green.Printf("  [%s] %s (%s)\n", a.tr.T("Active"), s.Name, s.GUID)
			continue
		}
		fmt.Printf("  %s (%s)\n", s.Name, s.GUID)
	}
	fmt.Println()
	fmt.Println("  " + a.tr.Tf("Loaded %d power plans", len(inv.Schemes)))
}

func printSummary(s *system.Summary) {
	fmt.Printf("  OS:          %s (%s)\n", s.Platform, s.OS)
	fmt.Printf("  Kernel:      %s\n", s.Kernel)
	fmt.Printf("  Hostname:    %s\n", s.Hostname)
	fmt.Printf("  CPU:         %s (%dC/%dT)\n", s.CPUModel, s.CPUCores, s.CPUThreads)
	fmt.Printf("  RAM:         %s / %s (%.1f%%)\n",
		system.FormatBytes(s.RAMUsed), system.FormatBytes(s.RAMTotal), s.RAMUsage)
	fmt.Printf("  Uptime:      %s\n", s.Uptime)
}
