package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trellis-dev/trellis/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╔╦╗┬─┐┌─┐┬  ┬  ┬┌─┐
   ║ ├┬┘├┤ │  │  │└─┐
   ╩ ┴└─└─┘┴─┘┴─┘┴└─┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "trellis",
		Short: "File-derived route resolution for Go",
		Long: `Trellis resolves URL paths against routes declared as files.

Route files under app/routes/ become a scored route tree. Features
include:

  • File-based route patterns with [param], [[optional]], [...splat]
  • Deterministic specificity scoring and first-match resolution
  • Generated route keys and typed parameter structs
  • Route manifests with diffing, on disk or in S3
  • Hot reload development server with a route inspector`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add commands
	rootCmd.AddCommand(
		genCmd(),
		routesCmd(),
		matchCmd(),
		checkCmd(),
		devCmd(),
		versionCmd(),
	)

	// Execute
	if err := rootCmd.Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

// printBanner prints the Trellis ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
