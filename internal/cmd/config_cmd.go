package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/b1ack-panther/jikan-journeys/internal/config"
)

var configCmd = &cobra.Command{
	Use:     "config [key] [value]",
	Short:   "Get or set configuration values",
	GroupID: groupSetup,
	Long: `Show or change journeys settings.

  journeys config                  list every key and its value
  journeys config KEY              print one value
  journeys config KEY VALUE        validate and save a new value

Settings live in config.yaml under $XDG_CONFIG_HOME/journeys. The
JOURNEYS_API_URL, JOURNEYS_DB_PATH, JOURNEYS_LOG_LEVEL and JOURNEYS_DEBUG
environment variables take precedence over the file.

Examples:
  journeys config catalog.page_size
  journeys config search.debounce_ms 400
  journeys config catalog.cache_ttl_mins 0     # never cache details`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	applyColorMode()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	out := cmd.OutOrStdout()
	paths := config.DefaultPaths()

	switch len(args) {
	case 0:
		return listConfig(out, cfg, paths)
	case 1:
		v, err := cfg.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, displayValue(v))
		return nil
	default:
		return setConfig(out, cfg, paths, args[0], args[1])
	}
}

func displayValue(v string) string {
	if v == "" {
		return colorDim + "(not set)" + colorReset
	}
	return v
}

// listConfig prints one aligned row per key, grouped by section.
func listConfig(out io.Writer, cfg *config.Config, paths *config.Paths) error {
	keys := config.ListKeys()
	width := 0
	for _, k := range keys {
		width = max(width, len(k))
	}

	section := ""
	for _, key := range keys {
		if s, _, _ := strings.Cut(key, "."); s != section {
			if section != "" {
				fmt.Fprintln(out)
			}
			section = s
		}
		v, err := cfg.Get(key)
		if err != nil {
			v = colorYellow + "error: " + err.Error() + colorReset
		} else {
			v = displayValue(v)
		}
		fmt.Fprintf(out, "%s%-*s%s  %s\n", colorCyan, width, key, colorReset, v)
	}

	fmt.Fprintf(out, "\n%sfile:%s %s\n", colorBold, colorReset, paths.ConfigFile())
	return nil
}

// setConfig applies key=value, validates the whole config and saves it.
// Nothing is written when validation fails.
func setConfig(out io.Writer, cfg *config.Config, paths *config.Paths, key, value string) error {
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}
	if err := cfg.SaveToFile(paths.ConfigFile()); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s%s%s = %s\n", colorGreen, key, colorReset, value)
	return nil
}
