package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/helmcode/cricshot/pkg/model"
)

func NewOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the bowler types, lines and lengths",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printOptions(cmd.OutOrStdout())
		},
	}
}

type option struct {
	slug, name string
}

func printOptions(w io.Writer) {
	var bowlers, lines, lengths []option
	for _, b := range model.AllBowlerTypes() {
		bowlers = append(bowlers, option{b.Slug(), string(b)})
	}
	for _, l := range model.AllLines() {
		lines = append(lines, option{l.Slug(), string(l)})
	}
	for _, l := range model.AllLengths() {
		lengths = append(lengths, option{l.Slug(), string(l)})
	}

	printOptionGroup(w, "BOWLER (--bowler)", bowlers)
	printOptionGroup(w, "LINE (--line)", lines)
	printOptionGroup(w, "LENGTH (--length)", lengths)
}

func printOptionGroup(w io.Writer, title string, opts []option) {
	bold := color.New(color.Bold)
	bold.Fprintln(w, title)
	for _, o := range opts {
		fmt.Fprintf(w, "  %-18s %s\n", o.slug, o.name)
	}
	fmt.Fprintln(w)
}
