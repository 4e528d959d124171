package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
)

// VarsCmd implements the 'vars' command.
type VarsCmd struct {
	Format string `short:"f" default:"text" enum:"text,json" help:"Output format (text or json)"`
	Name   string `arg:"" optional:"" help:"Resolve a single variable instead of listing all"`
}

type varEntry struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Line    int    `json:"line,omitempty"`
	Default bool   `json:"default,omitempty"`
}

// Run executes the vars command.
func (cmd *VarsCmd) Run(_ *Global, root *CLI) error {
	cfg, _, err := root.LoadConfig()
	if err != nil {
		return err
	}

	if cmd.Name != "" {
		value, ok := cfg.Var(cmd.Name)
		if !ok {
			return fmt.Errorf("site variable %q is not defined", cmd.Name)
		}
		if cmd.Format == "json" {
			return json.NewEncoder(os.Stdout).Encode(varEntry{Name: cmd.Name, Value: value})
		}
		fmt.Println(value)
		return nil
	}

	vars := cfg.Vars()
	if cmd.Format == "json" {
		entries := make([]varEntry, 0, len(vars))
		for _, v := range vars {
			entries = append(entries, varEntry{Name: v.Name, Value: v.Value, Line: v.Line, Default: v.Default})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, v := range vars {
		note := ""
		if v.Default {
			note = "(default)"
		} else if !v.Scalar {
			note = "(non-scalar)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", v.Name, v.Value, note)
	}
	return w.Flush()
}
