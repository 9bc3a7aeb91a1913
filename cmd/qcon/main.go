// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Program qcon formats, checks, and converts QCON text.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/creachadair/qcon"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("qcon")

func main() {
	var verbose int

	rootCmd := &cobra.Command{
		Use:           "qcon",
		Short:         "Format, check, and convert QCON text",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(verbose, nil)
		},
	}
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase log verbosity")

	rootCmd.AddCommand(newFmtCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newFromJSONCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "qcon: %v\n", err)
		os.Exit(1)
	}
}

// readInput returns the contents of the named file, or of stdin if name is
// empty or "-".
func readInput(name string) ([]byte, error) {
	if name == "" || name == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	log.Debugf("read %d bytes from %s", len(data), name)
	return data, nil
}

// outputFlags are the layout settings shared by commands that emit QCON.
type outputFlags struct {
	style  string
	indent string
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.style, "style", "s", "multiline",
		"least dense layout to emit (multiline, uniline, nospace)")
	cmd.Flags().StringVar(&o.indent, "indent", "", "indentation for multiline layout (default 4 spaces)")
}

func (o *outputFlags) encoder() (*qcon.Encoder, error) {
	style, err := qcon.ParseDensity(o.style)
	if err != nil {
		return nil, err
	}
	return &qcon.Encoder{Style: style, Indent: o.indent}, nil
}
