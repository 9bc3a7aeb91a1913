// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"
	"os"

	"github.com/creachadair/qcon"
	"github.com/creachadair/qcon/value"
	"github.com/spf13/cobra"
)

func newFmtCmd() *cobra.Command {
	var out outputFlags
	var fmtOverwrite, fmtSlash bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Reformat QCON text",
		Long: `Reformat QCON text to stdout.

If no file is provided, reads QCON text from stdin. Each object and array
keeps the layout it was written with, unless --style requests a denser one.
Comments are not preserved.

Use -w to overwrite the file in place (requires a file argument).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var filename string
			if len(args) != 0 {
				filename = args[0]
			} else if fmtOverwrite {
				return fmt.Errorf("-w requires a file argument")
			}
			source, err := readInput(filename)
			if err != nil {
				return err
			}
			e, err := out.encoder()
			if err != nil {
				return err
			}

			d := qcon.NewDecoder(source)
			d.AllowSlashComments(fmtSlash)
			var dropped int
			d.HandleComments(func(string, qcon.State) { dropped++ })
			v, err := value.DecodeWith(d)
			if err != nil {
				return fmt.Errorf("decode: %w", err)
			}
			if dropped != 0 {
				log.Warningf("discarded %d comments", dropped)
			}

			value.Encode(e, v)
			text, err := e.Finish()
			if err != nil {
				return fmt.Errorf("format: %w", err)
			}
			output := []byte(text + "\n")
			if fmtOverwrite {
				log.Infof("writing %s", filename)
				return os.WriteFile(filename, output, 0644)
			}
			_, err = os.Stdout.Write(output)
			return err
		},
	}

	out.register(cmd)
	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")
	cmd.Flags().BoolVar(&fmtSlash, "slash", false, `accept "//" and "/* */" comments instead of "#"`)

	return cmd
}
