// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/creachadair/qcon"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var checkSlash, checkBare bool

	cmd := &cobra.Command{
		Use:   "check [file...]",
		Short: "Check QCON files for syntax errors",
		Long: `Check that each file contains exactly one well-formed QCON value.

Errors are printed as "file:line:col: message". If no file is provided,
reads QCON text from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}
			d := qcon.NewDecoder(nil)
			d.AllowSlashComments(checkSlash)
			d.AllowBareKeys(checkBare)

			var nbad int
			for _, name := range args {
				source, err := readInput(name)
				if err != nil {
					return err
				}
				d.Load(source)
				for st := d.Step(); st != qcon.Done && st != qcon.Error; st = d.Step() {
				}
				if err := d.Err(); err != nil {
					nbad++
					var serr *qcon.SyntaxError
					if errors.As(err, &serr) {
						fmt.Fprintf(cmd.OutOrStdout(), "%s:%s: %s\n", name, serr.Location, serr.Message)
					} else {
						fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", name, err)
					}
					continue
				}
				log.Infof("%s: ok", name)
			}
			if nbad != 0 {
				return fmt.Errorf("%d of %d inputs had errors", nbad, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkSlash, "slash", false, `accept "//" and "/* */" comments instead of "#"`)
	cmd.Flags().BoolVar(&checkBare, "bare-keys", false, "accept unquoted object keys")

	return cmd
}
