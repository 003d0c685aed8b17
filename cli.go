package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"menuedit/internal/catalog"
	"menuedit/internal/config"
	"menuedit/internal/desktop"
	"menuedit/internal/diff"
	"menuedit/internal/history"
	"menuedit/internal/logging"
	"menuedit/internal/models"
	"menuedit/internal/resolver"
	"menuedit/internal/ui"
)

// globalFlags are shared by every command
type globalFlags struct {
	debug     bool
	systemDir string
	userDir   string
}

// loadConfig reads the settings file and applies flag overrides
func (f *globalFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if f.systemDir != "" {
		cfg.SystemDir = f.systemDir
	}
	if f.userDir != "" {
		cfg.UserDir = f.userDir
	}
	for _, dir := range []*string{&cfg.SystemDir, &cfg.UserDir} {
		if abs, err := filepath.Abs(*dir); err == nil {
			*dir = abs
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// console loads the config and sends logs to the command's stderr
func (f *globalFlags) console(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, err
	}
	lvl, err := logging.Level(cfg.LogLevel, f.debug)
	if err != nil {
		return nil, err
	}
	logging.Console(cmd.ErrOrStderr(), lvl)
	return cfg, nil
}

// NewRootCmd creates the root command. Without a subcommand it starts the TUI.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "menuedit",
		Short:         "Browse and edit application launcher entries",
		Long:          "menuedit lists the .desktop files of the system and user application\ndirectories and edits them. System files are never modified: saving one\nwrites a copy to the user directory.",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(flags)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.systemDir, "system-dir", "", "system applications directory (default "+config.SystemApplicationsDir+")")
	rootCmd.PersistentFlags().StringVar(&flags.userDir, "user-dir", "", "user applications directory (default $XDG_DATA_HOME/applications)")

	rootCmd.AddCommand(NewListCmd(flags))
	rootCmd.AddCommand(NewShowCmd(flags))
	rootCmd.AddCommand(NewTokensCmd(flags))
	rootCmd.AddCommand(NewSaveCmd(flags))
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

func runTUI(flags *globalFlags) error {
	cfg, err := flags.loadConfig()
	if err != nil {
		return err
	}

	lvl, err := logging.Level(cfg.LogLevel, flags.debug)
	if err != nil {
		return err
	}
	closer, err := logging.File(config.LogPath(), lvl)
	if err != nil {
		return err
	}
	defer closer.Close()

	log.Info().Str("system", cfg.SystemDir).Str("user", cfg.UserDir).Msg("Starting")

	m := New(cfg)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// NewListCmd creates the list command
func NewListCmd(flags *globalFlags) *cobra.Command {
	var scope, search string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications grouped by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.console(cmd)
			if err != nil {
				return err
			}
			if scope != "" && scope != "system" && scope != "user" {
				return fmt.Errorf("invalid scope %q (want system or user)", scope)
			}

			cats, err := catalog.LoadCategoryMap(cfg.CategoriesFile)
			if err != nil {
				return err
			}
			listing, err := catalog.New(cfg.SystemDir, cfg.UserDir, cats).Scan()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if scope != "user" {
				printSection(out, "System Applications", listing.System, cats, search, all)
			}
			if scope != "system" {
				printSection(out, "User Applications", listing.User, cats, search, all)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "only list one directory (system or user)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by name or glob")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include NoDisplay entries")
	return cmd
}

func printSection(w io.Writer, title string, sec models.Section, cats *catalog.CategoryMap, search string, all bool) {
	apps := catalog.Filter(catalog.Visible(sec.Apps, all), search)
	fmt.Fprintf(w, "%s (%s) %d\n", title, sec.Path, len(apps))

	for _, cat := range catalog.Group(apps) {
		fmt.Fprintf(w, "  %s %s\n", cats.Icon(cat.Name), cat.Name)
		for _, app := range cat.Apps {
			marker := " "
			if app.Overridden {
				marker = "*"
			}
			fmt.Fprintf(w, "    %s %s  %s\n", marker, app.Name, app.FileName)
		}
	}
}

// NewShowCmd creates the show command
func NewShowCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Print a launcher entry with highlighting",
		Long:  "Print a launcher entry. <file> is a path or a file name looked up in the\nuser directory first, then the system directory.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.console(cmd)
			if err != nil {
				return err
			}
			r := resolver.New(cfg.SystemDir, cfg.UserDir)
			doc, err := r.Load(findEntry(cfg, args[0]))
			if err != nil {
				return err
			}

			log.Info().Str("path", doc.Location.Path).Str("scope", doc.Location.Scope.String()).Msg(doc.Name())

			h := ui.NewHighlighter(cfg.Theme)
			out := cmd.OutOrStdout()
			for _, tokens := range doc.Lines() {
				fmt.Fprintln(out, h.HighlightTokens(tokens))
			}
			return nil
		},
	}
}

// NewTokensCmd creates the tokens command
func NewTokensCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the tokens of a launcher entry, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.console(cmd)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(findEntry(cfg, args[0]))
			if err != nil {
				return err
			}
			printTokens(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

// printTokens writes "line:col kind "text"" with 1-based rune columns
func printTokens(w io.Writer, text string) {
	for i, tokens := range desktop.Tokenize(text) {
		col := 1
		for _, tok := range tokens {
			fmt.Fprintf(w, "%d:%d %s %q\n", i+1, col, tok.Kind, tok.Text)
			col += utf8.RuneCountInString(tok.Text)
		}
	}
}

// NewSaveCmd creates the save command
func NewSaveCmd(flags *globalFlags) *cobra.Command {
	var from string
	var preview bool

	cmd := &cobra.Command{
		Use:   "save <target>",
		Short: "Save content to a launcher entry",
		Long:  "Save content to <target>. A target under the system directory is\nredirected to the user directory with the same file name.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.console(cmd)
			if err != nil {
				return err
			}

			content, err := readContent(cmd.InOrStdin(), from)
			if err != nil {
				return err
			}

			target, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			r := resolver.New(cfg.SystemDir, cfg.UserDir)
			if preview {
				return printSaveDiff(cmd.OutOrStdout(), r, target, content)
			}

			out := r.ResolveSave(target, content)
			if !out.Succeeded {
				return out.Err
			}

			if cfg.HistoryEnabled {
				recordHistory(out.FinalPath, content)
			}

			if out.Redirected {
				fmt.Fprintln(cmd.ErrOrStderr(), out.Notice())
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.FinalPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", "-", "file to read the content from (- for stdin)")
	cmd.Flags().BoolVar(&preview, "diff", false, "print a unified diff against the file that would be written, and write nothing")
	return cmd
}

// printSaveDiff compares content with the current file at the save target.
// A target that does not exist yet diffs against the source file.
func printSaveDiff(w io.Writer, r *resolver.Resolver, target, content string) error {
	final := r.Target(r.Locate(target)).Path

	old, err := os.ReadFile(final)
	if errors.Is(err, os.ErrNotExist) {
		old, err = os.ReadFile(target)
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	result := diff.Compute(string(old), content)
	if !result.HasChanges() {
		fmt.Fprintln(w, "No changes")
		return nil
	}
	fmt.Fprint(w, result.Unified(final, final+" (new)"))
	return nil
}

func readContent(stdin io.Reader, from string) (string, error) {
	if from == "" || from == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(from)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// recordHistory commits a saved file. Failures are logged only.
func recordHistory(path, content string) {
	repo, err := history.Open(config.HistoryDir())
	if err == nil {
		_, err = repo.Record(path, content)
	}
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to record history")
	}
}

// findEntry resolves a bare file name ("firefox" or "firefox.desktop") to
// the user copy, else the system file. Paths are returned unchanged.
func findEntry(cfg *config.Config, arg string) string {
	if strings.ContainsRune(arg, filepath.Separator) {
		return arg
	}
	if _, err := os.Stat(arg); err == nil {
		return arg
	}

	name := arg
	if !strings.HasSuffix(name, ".desktop") {
		name += ".desktop"
	}
	for _, dir := range []string{cfg.UserDir, cfg.SystemDir} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		} else if !errors.Is(err, os.ErrNotExist) {
			log.Debug().Err(err).Str("path", candidate).Msg("Skipping candidate")
		}
	}
	return arg
}

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "menuedit %s (built %s)\n", version, buildTime)
		},
	}
}
