package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/ts-forge/tsforge/internal/value"
)

// newReplCmd starts an interactive session over the Value Model (spec
// §4.2), not a TypeScript expression evaluator — the lexer/parser that
// would turn source text into an ast.Expr is out of this core's scope
// (spec §1/§6). Each line is read as JSON per value.Parse/value.Stringify
// (the same gjson-backed pipeline JSON.parse/JSON.stringify use), with a
// few colon-commands for comparing and inspecting values. Grounded on
// ailang's internal/repl/repl.go: liner-backed history file, multi-line
// prompt loop, and the same color-gated greeting/goodbye convention.
func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "interactively construct and inspect values",
		RunE: func(cmd *cobra.Command, args []string) error {
			runRepl(os.Stdin, os.Stdout)
			return nil
		},
	}
}

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

func runRepl(in io.Reader, out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(false)

	historyFile := filepath.Join(os.TempDir(), ".tsforge_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintln(out, dim("tsforge value REPL — enter a JSON value, or :help"))

	line.SetCompleter(func(prefix string) (c []string) {
		for _, cmd := range []string{":help", ":quit", ":eq", ":looseeq", ":get"} {
			if strings.HasPrefix(cmd, prefix) {
				c = append(c, cmd)
			}
		}
		return
	})

	for {
		input, err := line.Prompt("tsforge> ")
		if err == io.EOF {
			fmt.Fprintln(out, green("goodbye"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("error"), err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch {
		case input == ":quit" || input == ":q":
			fmt.Fprintln(out, green("goodbye"))
			if f, err := os.Create(historyFile); err == nil {
				_, _ = line.WriteHistory(f)
				f.Close()
			}
			return
		case input == ":help":
			printReplHelp(out)
		case strings.HasPrefix(input, ":eq "):
			handleCompare(out, strings.TrimPrefix(input, ":eq "), value.StrictEquals)
		case strings.HasPrefix(input, ":looseeq "):
			handleCompare(out, strings.TrimPrefix(input, ":looseeq "), value.LooseEquals)
		case strings.HasPrefix(input, ":get "):
			handleGet(out, strings.TrimPrefix(input, ":get "))
		default:
			v, err := value.Parse(input, nil)
			if err != nil {
				fmt.Fprintf(out, "%s: %v\n", red("error"), err)
				continue
			}
			s, err := value.Stringify(v, value.Replacer{}, 2)
			if err != nil {
				fmt.Fprintf(out, "%s: %v\n", red("error"), err)
				continue
			}
			fmt.Fprintln(out, s)
		}
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func printReplHelp(out io.Writer) {
	fmt.Fprintln(out, "enter a JSON literal to parse and re-stringify it")
	fmt.Fprintln(out, ":eq <a> <b>       strict-equals two JSON values (each its own JSON literal, space-separated)")
	fmt.Fprintln(out, ":looseeq <a> <b>  loose-equals two JSON values")
	fmt.Fprintln(out, ":get <key> <obj>  read a property off a JSON object/array literal")
	fmt.Fprintln(out, ":quit             exit")
}

// splitTwoJSON splits "<jsonA> <jsonB>" at the first top-level space
// outside of brackets/braces/quotes, since naive strings.Fields would
// break on JSON values that themselves contain spaces.
func splitTwoJSON(s string) (string, string, bool) {
	depth := 0
	inString := false
	for i, r := range s {
		switch r {
		case '"':
			inString = !inString
		case '{', '[':
			if !inString {
				depth++
			}
		case '}', ']':
			if !inString {
				depth--
			}
		case ' ':
			if !inString && depth == 0 {
				return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:]), true
			}
		}
	}
	return "", "", false
}

func handleCompare(out io.Writer, rest string, cmp func(a, b value.Value) bool) {
	aText, bText, ok := splitTwoJSON(rest)
	if !ok {
		fmt.Fprintln(out, red("error"), ": expected two JSON values separated by a space")
		return
	}
	a, err := value.Parse(aText, nil)
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("error"), err)
		return
	}
	b, err := value.Parse(bText, nil)
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("error"), err)
		return
	}
	fmt.Fprintln(out, cmp(a, b))
}

func handleGet(out io.Writer, rest string) {
	keyText, objText, ok := splitTwoJSON(rest)
	if !ok {
		fmt.Fprintln(out, red("error"), ": expected a key and a JSON value separated by a space")
		return
	}
	key := strings.Trim(keyText, `"`)
	obj, err := value.Parse(objText, nil)
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("error"), err)
		return
	}
	result, err := value.GetProperty(obj, key)
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("error"), err)
		return
	}
	s, err := value.Stringify(result, value.Replacer{}, 2)
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("error"), err)
		return
	}
	fmt.Fprintln(out, s)
}
