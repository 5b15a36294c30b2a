// Command mathvm is a thin CLI front-end over the compiler and vm packages:
// compile a single expression given on the command line, bind any --var
// flags into its evaluation context, and print the result.
//
// This front-end is a consumer of the library, not part of it — everything
// it does is exercised through the exported compiler.Compile and
// vm.Program API.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skx/mathvm/compiler"
	"github.com/skx/mathvm/diagnostics"
)

func main() {
	var vars []string

	rootCmd := &cobra.Command{
		Use:           "mathvm <expression>",
		Short:         "Compile and evaluate a mathematical expression",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], vars)
		},
	}
	rootCmd.Flags().StringArrayVar(&vars, "var", nil, "bind a variable as name=value (repeatable)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mathvm: %s\n", err)
		os.Exit(1)
	}
}

func run(expression string, bindings []string) error {
	program, err := compiler.Compile(expression)
	if err != nil {
		return withSource(err, expression)
	}
	for _, w := range program.Warnings {
		fmt.Fprintf(os.Stderr, "mathvm: warning: %s\n", w)
	}

	ctx := program.CreateContext()
	for _, b := range bindings {
		name, value, err := parseBinding(b)
		if err != nil {
			return err
		}
		ctx.Set(name, value, program)
	}

	result, err := program.Eval(ctx)
	if err != nil {
		return withSource(err, expression)
	}
	fmt.Println(result)
	return nil
}

// withSource attaches the original expression to a *diagnostics.Error so its
// Error() rendering includes the caret-pointed source excerpt, leaving any
// other error type untouched.
func withSource(err error, expression string) error {
	if diagErr, ok := err.(*diagnostics.Error); ok {
		return diagErr.WithSource(expression)
	}
	return err
}

func parseBinding(b string) (name string, value float64, err error) {
	name, raw, ok := strings.Cut(b, "=")
	if !ok {
		return "", 0, fmt.Errorf("--var expects name=value, got %q", b)
	}
	value, err = strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", 0, fmt.Errorf("--var %s: %w", name, err)
	}
	return name, value, nil
}
