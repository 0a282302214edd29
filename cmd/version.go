package cmd

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wasper/research-api/internal/models"
	"github.com/wasper/research-api/internal/services/runs"
	"github.com/wasper/research-api/pkg/config"
)

// Build variables - these will be set during build time using ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
	OS        = runtime.GOOS
	Arch      = runtime.GOARCH
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and scrape settings",
	Long: `Display the build of the Research API together with the Apify actor
and run mode it would use, so a deployment can be checked without starting it.

Settings come from config/settings.yaml and RESEARCH_* variables when present,
otherwise the built-in defaults are shown.`,
	Run: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolP("short", "s", false, "print just the version number")
}

func runVersion(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	if short, _ := cmd.Flags().GetBool("short"); short {
		fmt.Fprintf(out, "v%s\n", Version)
		return
	}

	actorID, mode := scrapeSettings()
	rule := strings.Repeat("-", 40)

	fmt.Fprintf(out, "Research API v%s\n", Version)
	fmt.Fprintln(out, rule)
	printField(out, "Git Commit", GitCommit)
	printField(out, "Build Time", BuildTime)
	printField(out, "Go", fmt.Sprintf("%s %s/%s", GoVersion, OS, Arch))
	fmt.Fprintln(out, rule)
	printField(out, "Actor", actorID)
	printField(out, "Mode", mode)
	printField(out, "Sources", strings.Join(wiredSources(), ", "))
}

func printField(out io.Writer, name, value string) {
	fmt.Fprintf(out, "%-12s %s\n", name+":", value)
}

// scrapeSettings reports the configured actor and run mode. Version must work
// without a usable config, so any load error falls back to the defaults.
func scrapeSettings() (actorID, mode string) {
	actorID, mode = runs.DefaultActorID, config.ModeAsync
	if err := config.Init(); err != nil {
		return actorID, mode
	}
	cfg, err := config.GetConfig()
	if err != nil {
		return actorID, mode
	}
	if cfg.Apify.ActorID != "" {
		actorID = cfg.Apify.ActorID
	}
	if cfg.Apify.Mode != "" {
		mode = cfg.Apify.Mode
	}
	return actorID, mode
}

func wiredSources() []string {
	var ids []string
	for _, source := range models.KnownSources {
		if source.Wired {
			ids = append(ids, source.ID)
		}
	}
	return ids
}
