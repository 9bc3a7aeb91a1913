// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"
	"os"

	"github.com/creachadair/qcon"
	"github.com/spf13/cobra"
	"github.com/tailscale/hujson"
)

func newFromJSONCmd() *cobra.Command {
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "from-json [file]",
		Short: "Convert JSON or HuJSON text to QCON",
		Long: `Convert a JSON value to QCON text on stdout.

The input may use HuJSON extensions (comments and trailing commas), which
are removed before conversion. Object members keep their input order.
If no file is provided, reads JSON text from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var filename string
			if len(args) != 0 {
				filename = args[0]
			}
			source, err := readInput(filename)
			if err != nil {
				return err
			}
			e, err := out.encoder()
			if err != nil {
				return err
			}
			text, err := fromJSON(e, source)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(os.Stdout, text)
			return err
		},
	}

	out.register(cmd)
	return cmd
}

// fromJSON converts the HuJSON value in src to QCON text using e.
func fromJSON(e *qcon.Encoder, src []byte) (string, error) {
	root, err := hujson.Parse(src)
	if err != nil {
		return "", fmt.Errorf("parse: %w", err)
	}
	if err := copyJSON(e, root); err != nil {
		return "", err
	}
	return e.Finish()
}

// copyJSON copies the value v and its contents to e.
func copyJSON(e *qcon.Encoder, v hujson.Value) error {
	switch t := v.Value.(type) {
	case *hujson.Object:
		e.Object()
		for _, m := range t.Members {
			name, ok := m.Name.Value.(hujson.Literal)
			if !ok || name.Kind() != '"' {
				return fmt.Errorf("offset %d: invalid object key", m.Name.StartOffset)
			}
			e.Key(name.String())
			if err := copyJSON(e, m.Value); err != nil {
				return err
			}
		}
		e.End()
	case *hujson.Array:
		e.Array()
		for _, elt := range t.Elements {
			if err := copyJSON(e, elt); err != nil {
				return err
			}
		}
		e.End()
	case hujson.Literal:
		return copyLiteral(e, t, v.StartOffset)
	default:
		return fmt.Errorf("offset %d: unexpected value %T", v.StartOffset, v.Value)
	}
	return nil
}

func copyLiteral(e *qcon.Encoder, lit hujson.Literal, pos int) error {
	switch lit.Kind() {
	case 'n':
		e.Null()
	case 't', 'f':
		e.Bool(lit.Bool())
	case '"':
		e.Str(lit.String())
	case '0':
		n, err := qcon.ParseNumber(string(lit))
		if err != nil {
			return fmt.Errorf("offset %d: number %q: %w", pos, lit, err)
		}
		switch n.Kind {
		case qcon.Signed:
			e.Int(n.Int)
		case qcon.Unsigned:
			e.Uint(n.Uint)
		default:
			e.Float(n.Float)
		}
	default:
		return fmt.Errorf("offset %d: invalid literal %q", pos, lit)
	}
	return nil
}
