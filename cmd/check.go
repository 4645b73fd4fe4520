package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"urlvet/urlcheck"
)

var (
	timeoutFlag int
	localOnly   bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <url>",
	Short: "Score a single URL from the command line",
	Long: `Check runs the full scoring pipeline against one candidate URL and
prints the verdict.

Examples:
  urlvet check https://example.com
  urlvet check paypal-secure-login.com
  urlvet check bit.ly/abc123 --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	candidate := args[0]

	if verbose {
		fmt.Printf("Checking: %s\n", candidate)
		fmt.Printf("Timeout: %ds\n", timeoutFlag)
	}

	validator := urlcheck.New(urlcheck.Config{
		SafeBrowsingKey: os.Getenv("GOOGLE_SAFE_BROWSING_KEY"),
		DisableNetwork:  localOnly,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutFlag)*time.Second)
	defer cancel()

	result := validator.Validate(ctx, candidate)
	return printResult(result)
}

func printResult(result urlcheck.ValidationResult) error {
	switch strings.ToLower(output) {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "human", "":
		printHuman(result)
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", output)
	}
}

func printHuman(result urlcheck.ValidationResult) {
	verdict := "UNSAFE"
	if result.Safe {
		verdict = "SAFE"
	}

	fmt.Printf("URL:     %s\n", result.URL)
	fmt.Printf("Verdict: %s (score %d/100)\n", verdict, result.Score)
	fmt.Printf("Reason:  %s\n", result.Message)
	if result.RedirectedTo != "" {
		fmt.Printf("Redirects to: %s\n", result.RedirectedTo)
	}
	if result.Degraded {
		fmt.Println("Note: threat-list coverage was unavailable; confidence reduced")
	}
	if len(result.Flags) > 0 {
		fmt.Println("Flags:")
		for _, f := range result.Flags {
			fmt.Printf("  - %s\n", f)
		}
	}
	if verbose {
		fmt.Printf("Stages:  %s\n", result.Source)
	}
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().IntVarP(&timeoutFlag, "timeout", "t", 30, "timeout in seconds for the whole pipeline")
	checkCmd.Flags().BoolVar(&localOnly, "local-only", false, "skip network stages, run structural heuristics only")
}
