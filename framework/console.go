package framework

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

const consoleWidth = 78

var (
	stepColor      = color.New(color.FgCyan)
	infoColor      = color.New(color.FgCyan)
	successColor   = color.New(color.FgGreen)
	warningColor   = color.New(color.FgHiYellow)
	errorColor     = color.New(color.FgRed)
	stepRuleColor  = color.New(color.FgBlue)
	separatorColor = color.New(color.FgHiYellow)
	headerColor    = color.New(color.FgCyan)
)

// PrintStep announces a major stage of the run, set off by heavy rules.
func PrintStep(format string, args ...interface{}) {
	fmt.Println()
	stepRuleColor.Println(strings.Repeat("━", consoleWidth))
	fmt.Printf("%s %s\n", stepColor.Sprint("[STEP]"), fmt.Sprintf(format, args...))
	stepRuleColor.Println(strings.Repeat("━", consoleWidth))
}

func PrintInfo(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", infoColor.Sprint("[INFO]"), fmt.Sprintf(format, args...))
}

func PrintSuccess(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", successColor.Sprint("[✓ SUCCESS]"), fmt.Sprintf(format, args...))
}

func PrintWarning(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", warningColor.Sprint("[⚠ WARNING]"), fmt.Sprintf(format, args...))
}

func PrintError(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", errorColor.Sprint("[✗ ERROR]"), fmt.Sprintf(format, args...))
}

// PrintFunctionSeparator marks the start of one function's test within the run.
func PrintFunctionSeparator(current, total int, name string) {
	fmt.Println()
	separatorColor.Println(strings.Repeat("═", consoleWidth))
	separatorColor.Printf("  Function %d of %d: %s\n", current, total, name)
	separatorColor.Println(strings.Repeat("═", consoleWidth))
}

// PrintHeaderBanner prints the boxed banner shown at the start of the run.
func PrintHeaderBanner(lines ...string) {
	printBanner(headerColor, lines...)
}

// PrintSuccessBanner prints the boxed banner for a fully passing run.
func PrintSuccessBanner(title string) {
	printBanner(successColor, title)
}

// PrintFailureBanner prints the boxed banner for a run halted by a failure.
func PrintFailureBanner(title string) {
	printBanner(errorColor, title)
}

func printBanner(c *color.Color, lines ...string) {
	c.Println("╔" + strings.Repeat("═", consoleWidth) + "╗")
	for _, line := range lines {
		pad := consoleWidth - 2 - len([]rune(line))
		if pad < 0 {
			pad = 0
		}
		c.Println("║ " + line + strings.Repeat(" ", pad) + " ║")
	}
	c.Println("╚" + strings.Repeat("═", consoleWidth) + "╝")
}

// PrintRunSummary prints the pass/fail/skip counts for the whole run.
func PrintRunSummary(s RunSummary) {
	fmt.Printf("Results: %s, %s, %s out of %d total\n",
		successColor.Sprintf("%d passed", s.Passed),
		errorColor.Sprintf("%d failed", s.Failed),
		warningColor.Sprintf("%d skipped", s.Skipped),
		s.Total,
	)
}
