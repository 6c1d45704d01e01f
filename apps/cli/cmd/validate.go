package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/barbouse/packages/core/env"
	"github.com/abdul-hamid-achik/barbouse/packages/core/parser"
	"github.com/abdul-hamid-achik/barbouse/packages/filter"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <request-file>...",
	Short: "Check request files without sending them",
	Long: `Parse request files and compile their filters without sending any
request. Placeholders are resolved as they would be for a real run.

Examples:
  barbouse validate users.req
  barbouse validate --engine jmespath ./requests/`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

var validateEngineFlag string

func init() {
	validateCmd.Flags().StringVar(&validateEngineFlag, "engine", getEnvString("BARBOUSE_ENGINE", filter.DefaultEngine), "Filter engine: jq, jmespath, gjson (env: BARBOUSE_ENGINE)")
	_ = validateCmd.RegisterFlagCompletionFunc("engine", cobra.FixedCompletions(filter.Engines(), cobra.ShellCompDirectiveNoFileComp))
	validateCmd.Flags().StringVar(&envFileFlag, "env-file", getEnvString("BARBOUSE_ENV_FILE", ""), "Path to .env file for variable interpolation (env: BARBOUSE_ENV_FILE)")
}

func validateCommand(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return &ExitError{Code: ExitUsageError, Err: err}
	}

	compiler, err := filter.NewCompiler(validateEngineFlag)
	if err != nil {
		return &ExitError{Code: ExitConfigError, Err: err}
	}

	vars, err := env.Load(envFileFlag)
	if err != nil {
		return &ExitError{Code: ExitConfigError, Err: err}
	}

	firstCode := ExitSuccess
	for _, file := range files {
		def, err := parser.ParseFile(file, vars, compiler)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error in %s: %v\n", file, err)
			if firstCode == ExitSuccess {
				firstCode = exitCodeFor(err)
			}
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s (%s %s)\n", file, def.Method, def.URL)
		for _, line := range def.Ignored {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s:%d: ignoring %q\n", file, line.Line, line.Text)
		}
		for _, name := range def.Unresolved {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s: unresolved placeholder {%s}\n", file, name)
		}
	}

	if firstCode != ExitSuccess {
		return &ExitError{Code: firstCode}
	}
	return nil
}
