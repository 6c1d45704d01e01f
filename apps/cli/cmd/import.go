package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/barbouse/packages/import/curl"
	"github.com/spf13/cobra"
)

var (
	importOutputFlag string
	importFilterFlag string
	importForceFlag  bool
)

var importCmd = &cobra.Command{
	Use:   "import [curl command]",
	Short: "Convert a curl command into a request file",
	Long: `Convert a curl command into a request file.

The command is taken from the arguments, or read from stdin when no
arguments are given. Put curl's own flags after "--" so they are not read
as barbouse flags. Backslash line continuations are accepted.

Examples:
  barbouse import -- curl https://api.example.com/users -H 'Accept: application/json'
  pbpaste | barbouse import -o users.req
  barbouse import -f '.items' -o items.req "curl https://api.example.com/items"`,
	RunE: importCommand,
}

func init() {
	importCmd.Flags().StringVarP(&importOutputFlag, "output", "o", "", "Write the request file here instead of stdout")
	importCmd.Flags().StringVarP(&importFilterFlag, "filter", "f", "", "Add a filter line to the request file")
	importCmd.Flags().BoolVar(&importForceFlag, "force", false, "Overwrite the output file if it exists")
	rootCmd.AddCommand(importCmd)
}

func importCommand(cmd *cobra.Command, args []string) error {
	var curlCmd string
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading curl command: %w", err)
		}
		curlCmd = string(data)
	} else {
		curlCmd = strings.Join(args, " ")
	}

	converter := curl.NewConverter(curl.WithFilter(importFilterFlag))
	content, parsed, err := converter.Convert(curlCmd)
	if err != nil {
		return &ExitError{Code: ExitParseError, Err: err}
	}

	if parsed.Insecure {
		fmt.Fprintln(cmd.ErrOrStderr(), "Note: -k has no request file equivalent; pass --insecure when running")
	}
	if !parsed.FollowRedirects {
		fmt.Fprintln(cmd.ErrOrStderr(), "Note: barbouse follows redirects by default; pass --no-redirects to match curl")
	}

	if importOutputFlag == "" {
		fmt.Fprint(cmd.OutOrStdout(), content)
		return nil
	}

	if !importForceFlag {
		if _, err := os.Stat(importOutputFlag); err == nil {
			return &ExitError{Code: ExitUsageError, Err: fmt.Errorf("file already exists: %s (use --force to overwrite)", importOutputFlag)}
		}
	}
	if err := os.WriteFile(importOutputFlag, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write request file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", importOutputFlag)
	return nil
}
