package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/ninthday/bruno/packages/core/runner"
)

type ConsoleFormatter struct {
	writer  io.Writer
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

// FormatItem prints one executed request with its checks. It is called
// per step, so progress is visible while the run is still going.
func (f *ConsoleFormatter) FormatItem(r *runner.ItemResult) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "%s %s %s\n", bold(r.Path), r.Method, cyan(fmt.Sprintf("(%dms)", r.ResponseTime.Milliseconds())))

	if r.Error != nil {
		fmt.Fprintf(f.writer, "  %s %s\n", red("✗"), red(r.Error.Error()))
		return
	}

	for _, t := range r.TestResults {
		if t.Passed() {
			fmt.Fprintf(f.writer, "  %s %s\n", green("✓"), t.Name)
		} else {
			fmt.Fprintf(f.writer, "  %s %s\n", red("✗"), t.Name)
			if t.Message != "" {
				fmt.Fprintf(f.writer, "      %s\n", t.Message)
			}
		}
	}
	for _, a := range r.AssertionResults {
		if a.Passed() {
			fmt.Fprintf(f.writer, "  %s %s\n", green("✓"), a.Name)
		} else {
			fmt.Fprintf(f.writer, "  %s %s\n", red("✗"), a.Name)
			if a.Message != "" {
				fmt.Fprintf(f.writer, "      %s\n", a.Message)
			}
		}
	}
}

// FormatSummary prints the three-line run summary. It is printed for
// whatever portion of the run completed, including bail-triggered early
// stops; only fatal errors skip it.
func (f *ConsoleFormatter) FormatSummary(s *runner.Summary) {
	fmt.Fprintf(f.writer, "\n")
	f.summaryLine("Requests:", s.Requests)
	f.summaryLine("Tests:", s.Tests)
	f.summaryLine("Assertions:", s.Assertions)
	fmt.Fprintf(f.writer, "Ran all requests - %d ms\n", s.TotalTime.Milliseconds())
}

func (f *ConsoleFormatter) summaryLine(label string, stat runner.Stat) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintf(f.writer, "%-11s %s, ", label, green(fmt.Sprintf("%d passed", stat.Passed)))
	if stat.Failed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", stat.Failed)))
	}
	fmt.Fprintf(f.writer, "%d total\n", stat.Total)
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

// FormatWarning reports a recoverable problem, such as a jump directive
// naming an unknown request.
func (f *ConsoleFormatter) FormatWarning(format string, args ...any) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", yellow("Warning:"), fmt.Sprintf(format, args...))
}
