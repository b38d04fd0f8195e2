package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"anilang/interpreter-go/pkg/analysis"
	"anilang/interpreter-go/pkg/ast"
	"anilang/interpreter-go/pkg/config"
	"anilang/interpreter-go/pkg/driver"
	"anilang/interpreter-go/pkg/interpreter"
	"anilang/interpreter-go/pkg/lexer"
	"anilang/interpreter-go/pkg/parser"
	"anilang/interpreter-go/pkg/repl"
	"anilang/interpreter-go/pkg/runtime"
	"anilang/interpreter-go/pkg/source"
)

// compiledExt marks pre-parsed syntax tree archives written by 'build'.
const compiledExt = ".anib"

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "anilang",
		Short:         "The anilang interpreter",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultFile+")")

	loadConfig := func() (config.Config, error) {
		path := configPath
		explicit := path != ""
		if !explicit {
			path = config.DefaultFile
		}
		return config.Load(path, explicit)
	}

	root.AddCommand(
		newRunCommand(),
		newBuildCommand(),
		newCheckCommand(),
		newTokenizeCommand(),
		newASTCommand(),
		newReplCommand(loadConfig),
		newTestCommand(),
	)
	return root
}

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>",
		Short: "Run a script (source or compiled archive) and print its value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program, src, err := loadProgram(args[0])
			if err != nil {
				return err
			}
			value, err := interpreter.New().Evaluate(program)
			if err != nil {
				return &scriptError{src: src, err: err}
			}
			fmt.Fprintln(cmd.OutOrStdout(), runtime.Repr(value))
			return nil
		},
	}
}

func newBuildCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "build <file>",
		Short: "Parse a script and write the syntax tree archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program, _, err := loadProgram(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				base := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
				output = base + compiledExt
			}
			file, err := os.Create(output)
			if err != nil {
				return err
			}
			defer file.Close()
			return ast.Encode(file, program)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "archive path (default source name with "+compiledExt+")")
	return cmd
}

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Statically check scripts without running them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			total := 0
			for _, path := range args {
				program, _, err := loadProgram(path)
				if err != nil {
					return err
				}
				for _, finding := range analysis.Check(program) {
					total++
					fmt.Fprintf(out, "%s:%s\n", path, finding)
				}
			}
			if total > 0 {
				return fmt.Errorf("%d problem(s) found", total)
			}
			return nil
		},
	}
}

func newTokenizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize <file>",
		Short: "Print the token stream of a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := loadSource(args[0])
			if err != nil {
				return err
			}
			tokens, err := lexer.Lex(src)
			if err != nil {
				return &scriptError{src: src, err: err}
			}
			out := cmd.OutOrStdout()
			for _, t := range tokens {
				fmt.Fprintf(out, "%4d..%-4d %-12v %q\n", t.Span.Start, t.Span.End(), t.Kind, t.Text(src))
			}
			return nil
		},
	}
}

func newASTCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ast <file>",
		Short: "Print the parsed syntax tree of a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program, _, err := loadProgram(args[0])
			if err != nil {
				return err
			}
			ast.Fprint(cmd.OutOrStdout(), program)
			return nil
		},
	}
}

func newReplCommand(loadConfig func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), version)
			session := repl.New(cfg.REPL, cmd.OutOrStdout())
			return session.Run(cmd.InOrStdin())
		},
	}
}

func newTestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "test <suite>...",
		Short: "Run YAML conformance suites",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				suite, err := driver.LoadSuite(path)
				if err != nil {
					return err
				}
				for _, result := range driver.Run(suite) {
					if result.Passed {
						fmt.Fprintf(out, "ok   %s/%s\n", suite.Name, result.Case.Name)
						continue
					}
					failed++
					fmt.Fprintf(out, "FAIL %s/%s: %s\n", suite.Name, result.Case.Name, result.Detail)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d case(s) failed", failed)
			}
			return nil
		},
	}
}

func loadSource(path string) (*source.SourceText, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return source.New(string(data)), nil
}

// loadProgram reads either a source file or a compiled archive. The
// returned source text is nil for archives; callers only use it for
// error excerpts, which archives cannot provide.
func loadProgram(path string) (*ast.Block, *source.SourceText, error) {
	if filepath.Ext(path) == compiledExt {
		file, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		defer file.Close()
		program, err := ast.Decode(file)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		return program, nil, nil
	}

	src, err := loadSource(path)
	if err != nil {
		return nil, nil, err
	}
	program, err := parser.Parse(src)
	if err != nil {
		return nil, nil, &scriptError{src: src, err: err}
	}
	return program, src, nil
}
