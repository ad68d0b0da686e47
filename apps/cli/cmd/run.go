package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ninthday/bruno/packages/core/config"
	"github.com/ninthday/bruno/packages/core/env"
	"github.com/ninthday/bruno/packages/core/loader"
	"github.com/ninthday/bruno/packages/core/runner"
	"github.com/ninthday/bruno/packages/executor"
	"github.com/ninthday/bruno/packages/http"
	"github.com/ninthday/bruno/packages/output"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [path]",
	Short: "Run requests in a collection",
	Long: `Run the .bru requests at the given path, which may be a single file,
a directory inside a collection, or the collection root itself. The
path defaults to the current directory.

Examples:
  bruno run
  bruno run users/create.bru
  bruno run ./smoke -r
  bruno run -r --env staging --env-var token=abc123
  bruno run -r --output results.xml --format junit
  bruno run -r --bail --insecure`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCommand,
}

var (
	recursiveFlag bool
	envFlag       string
	envVarFlags   []string
	outputFlag    string
	formatFlag    string
	cacertFlag    string
	insecureFlag  bool
	bailFlag      bool
	noColorFlag   bool
	timeoutFlag   string
)

func init() {
	runCmd.Flags().BoolVarP(&recursiveFlag, "recursive", "r", false, "Descend into subdirectories")
	runCmd.Flags().StringVarP(&envFlag, "env", "e", getEnvString("BRUNO_ENV", ""), "Environment to load from environments/ (env: BRUNO_ENV)")
	runCmd.Flags().StringArrayVar(&envVarFlags, "env-var", nil, "Override an environment variable as name=value (repeatable)")
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write a report to file (default: no report file)")
	runCmd.Flags().StringVarP(&formatFlag, "format", "f", "json", "Report format: json, junit")
	runCmd.Flags().StringVar(&cacertFlag, "cacert", "", "CA certificate bundle (PEM) for server verification")
	runCmd.Flags().BoolVarP(&insecureFlag, "insecure", "k", getEnvBool("BRUNO_INSECURE", false), "Disable SSL certificate validation (env: BRUNO_INSECURE)")
	runCmd.Flags().BoolVar(&bailFlag, "bail", getEnvBool("BRUNO_BAIL", false), "Stop on the first request failure (env: BRUNO_BAIL)")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("BRUNO_NO_COLOR", false), "Disable colored output (env: BRUNO_NO_COLOR)")
	runCmd.Flags().StringVar(&timeoutFlag, "timeout", getEnvString("BRUNO_TIMEOUT", "30s"), "Request timeout (e.g., 30s, 1m) (env: BRUNO_TIMEOUT)")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func runCommand(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	console := output.NewConsoleFormatter(output.WithNoColor(noColorFlag))

	format := strings.ToLower(formatFlag)
	if format != "json" && format != "junit" {
		return fmt.Errorf("invalid format %q (use json or junit)", formatFlag)
	}

	timeout, err := time.ParseDuration(timeoutFlag)
	if err != nil {
		return fmt.Errorf("invalid timeout value %q: %w (use format like 30s, 1m, 500ms)", timeoutFlag, err)
	}

	root, err := config.FindCollectionRoot(target)
	if err != nil {
		console.FormatError(err)
		os.Exit(ExitFailure)
	}
	if _, err := config.LoadCollection(root); err != nil {
		console.FormatError(err)
		os.Exit(ExitFailure)
	}

	rt, err := env.Build(env.Options{
		CollectionRoot: root,
		Environment:    envFlag,
		Overrides:      envVarFlags,
	})
	if err != nil {
		console.FormatError(err)
		os.Exit(ExitFailure)
	}

	items, err := loader.Load(target, root, recursiveFlag)
	if err != nil {
		console.FormatError(err)
		os.Exit(ExitFailure)
	}
	if len(items) == 0 {
		console.FormatError(fmt.Errorf("no .bru request files found in %s", target))
		os.Exit(ExitFailure)
	}

	// Open the report file before any request runs so a bad path fails
	// fast instead of after the whole run.
	var reportFile *os.File
	if outputFlag != "" {
		reportFile, err = os.Create(outputFlag)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer reportFile.Close()
	}

	clientOpts := []http.ClientOption{
		http.WithTimeout(timeout),
		http.WithValidateSSL(!insecureFlag),
	}
	if cacertFlag != "" {
		clientOpts = append(clientOpts, http.WithCACert(cacertFlag))
	}
	client, err := http.NewClient(clientOpts...)
	if err != nil {
		console.FormatError(err)
		os.Exit(ExitFailure)
	}

	exec := executor.New(client, executor.WithWarnFunc(console.FormatWarning))
	r := runner.New(exec, &runner.Config{Bail: bailFlag},
		runner.WithWarnFunc(console.FormatWarning),
		runner.WithResultFunc(console.FormatItem),
	)

	run, err := r.Run(cmd.Context(), items, rt)
	if err != nil {
		console.FormatError(err)
		os.Exit(ExitFailure)
	}

	console.FormatSummary(run.Summary)

	if reportFile != nil {
		switch format {
		case "junit":
			err = output.WriteJUnit(reportFile, run)
		default:
			err = output.WriteJSON(reportFile, run)
		}
		if err != nil {
			return fmt.Errorf("error writing report: %w", err)
		}
	}

	if run.Summary.HasFailures() {
		os.Exit(ExitFailure)
	}
	return nil
}
