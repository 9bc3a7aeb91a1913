// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package qcon_test

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/creachadair/qcon"
	"github.com/creachadair/qcon/chrono"
	"github.com/google/go-cmp/cmp"
)

// stepAll steps d to completion and returns a summary of each unit.
func stepAll(d *qcon.Decoder) ([]string, error) {
	var out []string
	for {
		switch st := d.Step(); st {
		case qcon.Done:
			return out, nil
		case qcon.Error:
			return out, d.Err()
		case qcon.StartObject:
			out = append(out, "{")
		case qcon.StartArray:
			out = append(out, "[")
		case qcon.End:
			c := "]"
			if d.Closed() == qcon.Object {
				c = "}"
			}
			out = append(out, c+" "+d.Density().String())
		case qcon.Key:
			out = append(out, "key "+strconv.Quote(d.Text()))
		case qcon.String:
			out = append(out, "string "+strconv.Quote(d.Text()))
		case qcon.Int:
			if d.Number().Kind == qcon.Unsigned {
				out = append(out, fmt.Sprintf("uint %d", d.Uint()))
			} else {
				out = append(out, fmt.Sprintf("int %d", d.Int()))
			}
		case qcon.Float:
			out = append(out, "float "+strconv.FormatFloat(d.Float(), 'g', -1, 64))
		case qcon.Bool:
			out = append(out, fmt.Sprintf("bool %v", d.Bool()))
		case qcon.Null:
			out = append(out, "null")
		case qcon.Date:
			out = append(out, "date "+d.Date().String())
		case qcon.Time:
			out = append(out, "time "+d.Time().String())
		case qcon.Datetime:
			out = append(out, "datetime "+d.Datetime().String())
		default:
			return out, fmt.Errorf("unexpected state %v", st)
		}
	}
}

func TestDecoder(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		// Constants
		{"true", []string{"bool true"}},
		{"  false\n", []string{"bool false"}},
		{"null # trailing comment", []string{"null"}},

		// Root trailing comma
		{"1,", []string{"int 1"}},
		{"[], # ok", []string{"[", "] nospace"}},

		// Numbers
		{"9223372036854775807", []string{"int 9223372036854775807"}},
		{"-9223372036854775808", []string{"int -9223372036854775808"}},
		{"18446744073709551615", []string{"uint 18446744073709551615"}},
		{"123456789012345678901234", []string{"float 1.2345678901234568e+23"}},
		{"1.0", []string{"int 1"}},
		{"1.00", []string{"int 1"}},
		{"1.", []string{"int 1"}},
		{"1.01", []string{"float 1.01"}},
		{"1e3", []string{"float 1000"}},
		{"-2.5E-1", []string{"float -0.25"}},
		{"+17", []string{"int 17"}},
		{"0x1F", []string{"int 31"}},
		{"0o17", []string{"int 15"}},
		{"0b101", []string{"int 5"}},
		{"0xffffffffffffffff", []string{"uint 18446744073709551615"}},
		{"inf", []string{"float +Inf"}},
		{"-inf", []string{"float -Inf"}},
		{"nan", []string{"float NaN"}},
		{"-nan", []string{"float NaN"}},

		// Strings
		{`""`, []string{`string ""`}},
		{`"a b c"`, []string{`string "a b c"`}},
		{`"\x41é\U0001F600"`, []string{`string "Aé😀"`}},
		{`"\0\a\b\t\n\v\f\r\"\\\/"`, []string{`string "\x00\a\b\t\n\v\f\r\"\\/"`}},
		{"\"line \\\nnext\"", []string{`string "line next"`}},
		{"\"line \\\r\nnext\"", []string{`string "line next"`}},
		{`"ab" "cd"`, []string{`string "abcd"`}},
		{"\"ab\"\n  # between\n  \"cd\"", []string{`string "abcd"`}},

		// Dates and times
		{"D2024-02-29", []string{"date 2024-02-29"}},
		{"T12:30:00Z", []string{"time 12:30:00Z"}},
		{"T12:30:00.5", []string{"time 12:30:00.5"}},
		{"T23:59:59.1234567891+05:30", []string{"time 23:59:59.123456789+05:30"}},
		{"D2023-02-13T17:13:18.123456-08:00", []string{
			"datetime 2023-02-13T17:13:18.123456-08:00",
		}},

		// Containers
		{"[]", []string{"[", "] nospace"}},
		{"{}", []string{"{", "} nospace"}},
		{"[1,2,3]", []string{"[", "int 1", "int 2", "int 3", "] nospace"}},
		{"[ 1, 2, 3 ]", []string{"[", "int 1", "int 2", "int 3", "] uniline"}},
		{"[\n  1,\n  2\n]", []string{"[", "int 1", "int 2", "] multiline"}},
		{"[0,]", []string{"[", "int 0", "] nospace"}},
		{`{"a":0,}`, []string{"{", `key "a"`, "int 0", "} nospace"}},
		{`{"a": true, "b": [null, "x"]}`, []string{
			"{", `key "a"`, "bool true", `key "b"`, "[", "null", `string "x"`, "] uniline", "} uniline",
		}},
		{"{\n  \"when\": D2023-02-13,\n  \"at\": T01:02:03,\n}", []string{
			"{", `key "when"`, "date 2023-02-13", `key "at"`, "time 01:02:03", "} multiline",
		}},
		{`{"k" "ey":1}`, []string{"{", `key "key"`, "int 1", "} nospace"}},
		{"[[[]]]", []string{"[", "[", "[", "] nospace", "] nospace", "] nospace"}},
	}
	for _, test := range tests {
		got, err := stepAll(qcon.NewDecoder([]byte(test.input)))
		if err != nil {
			t.Errorf("Input %#q: unexpected error: %v", test.input, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Input: %#q\nUnits: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestDecoderErrors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		// Structure
		{"", qcon.ErrStructure},
		{"  # only a comment", qcon.ErrStructure},
		{`{"a":0 "b":1}`, qcon.ErrStructure},
		{"[0,,1]", qcon.ErrStructure},
		{"[0,,]", qcon.ErrStructure},
		{"[,1]", qcon.ErrStructure},
		{"{,}", qcon.ErrStructure},
		{"[0", qcon.ErrStructure},
		{"[0,", qcon.ErrStructure},
		{`{"a":1]`, qcon.ErrStructure},
		{`{"a" 1}`, qcon.ErrStructure},
		{`{"a":}`, qcon.ErrStructure},
		{"{1:2}", qcon.ErrStructure},
		{"{a:1}", qcon.ErrStructure},
		{"1 2", qcon.ErrStructure},
		{"1,,", qcon.ErrStructure},
		{"1,2", qcon.ErrStructure},
		{"[1]]", qcon.ErrStructure},
		{"]", qcon.ErrStructure},
		{":", qcon.ErrStructure},

		// Numbers
		{"18446744073709551616", qcon.ErrNumber},
		{"-9223372036854775809", qcon.ErrNumber},
		{"99999999999999999999", qcon.ErrNumber},
		{"1e1000", qcon.ErrNumber},
		{"-1e1000", qcon.ErrNumber},
		{"1e-1000", qcon.ErrNumber},
		{"-0x10", qcon.ErrNumber},
		{"+0b1", qcon.ErrNumber},
		{"0x", qcon.ErrNumber},
		{"0b102", qcon.ErrNumber},
		{"0o8", qcon.ErrNumber},
		{"0x1g", qcon.ErrNumber},
		{"0x10000000000000000", qcon.ErrNumber},
		{"1e", qcon.ErrNumber},
		{"1e+", qcon.ErrNumber},
		{"-", qcon.ErrNumber},

		// Dates and times
		{"D2023-02-29", qcon.ErrTemporal},
		{"D1970-13-01", qcon.ErrTemporal},
		{"D1970-00-01", qcon.ErrTemporal},
		{"D1970-1-01", qcon.ErrTemporal},
		{"D19700-01-01", qcon.ErrTemporal},
		{"D2023-02-13T", qcon.ErrTemporal},
		{"T24:00:00", qcon.ErrTemporal},
		{"T12:60:00", qcon.ErrTemporal},
		{"T12:00:60", qcon.ErrTemporal},
		{"T12:00:00.", qcon.ErrTemporal},
		{"T23:59:59.9999999996Z", qcon.ErrTemporal},
		{"D2023-02-13T23:59:59.9999999996Z", qcon.ErrTemporal},
		{"T12:00:00+01:60", qcon.ErrTemporal},
		{"T12:00:00+1:00", qcon.ErrTemporal},
		{"T1:00:00", qcon.ErrTemporal},

		// Lexical
		{`"abc`, qcon.ErrLexical},
		{`"a\qb"`, qcon.ErrLexical},
		{"\"a\tb\"", qcon.ErrLexical},
		{"\"a\nb\"", qcon.ErrLexical},
		{`"\x4"`, qcon.ErrLexical},
		{`"\U00200000"`, qcon.ErrLexical},
		{"truex", qcon.ErrLexical},
		{"nullable", qcon.ErrLexical},
		{"infinity", qcon.ErrLexical},
		{"15x", qcon.ErrLexical},
		{"D2023-02-13Z", qcon.ErrLexical},
		{"nope", qcon.ErrLexical},
		{"False", qcon.ErrLexical},
		{"@", qcon.ErrLexical},
		{"// slash comment", qcon.ErrLexical},
	}
	for _, test := range tests {
		got, err := stepAll(qcon.NewDecoder([]byte(test.input)))
		if err == nil {
			t.Errorf("Input %#q: got %q, want error", test.input, got)
			continue
		}
		var serr *qcon.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("Input %#q: error is %T, want *SyntaxError", test.input, err)
		}
		if !errors.Is(err, test.want) {
			t.Errorf("Input %#q: got error %v, want %v", test.input, err, test.want)
		}
	}
}

func TestDecoderSticky(t *testing.T) {
	d := qcon.NewDecoder([]byte("[1 2]"))
	if st := d.Step(); st != qcon.StartArray {
		t.Fatalf("Step: got %v, want %v", st, qcon.StartArray)
	}
	if st := d.Step(); st != qcon.Int {
		t.Fatalf("Step: got %v, want %v", st, qcon.Int)
	}
	for range 3 {
		if st := d.Step(); st != qcon.Error {
			t.Errorf("Step: got %v, want %v", st, qcon.Error)
		}
	}
	if d.More() {
		t.Error("More: got true after error")
	}
	if d.Finished() {
		t.Error("Finished: got true after error")
	}

	// Reloading clears the error.
	d.LoadString("5")
	if st := d.Step(); st != qcon.Int {
		t.Errorf("Step after Load: got %v, want %v", st, qcon.Int)
	}
	if !d.Finished() {
		t.Errorf("Finished: got false, want true (err=%v)", d.Err())
	}
	for range 2 {
		if st := d.Step(); st != qcon.Done {
			t.Errorf("Step after Done: got %v, want %v", st, qcon.Done)
		}
	}
}

func TestDecoderLocation(t *testing.T) {
	d := qcon.NewDecoder([]byte("[\n  1 2]"))
	if _, err := stepAll(d); err == nil {
		t.Fatal("Decode: got nil, want error")
	}
	var serr *qcon.SyntaxError
	if !errors.As(d.Err(), &serr) {
		t.Fatalf("Error is %T, want *SyntaxError", d.Err())
	}
	if serr.Offset != 6 {
		t.Errorf("Offset: got %d, want 6", serr.Offset)
	}
	if want := (qcon.LineCol{Line: 2, Column: 4}); serr.Location != want {
		t.Errorf("Location: got %v, want %v", serr.Location, want)
	}
	if got, want := serr.Error(), "at 2:4: missing comma after array element"; got != want {
		t.Errorf("Error: got %q, want %q", got, want)
	}

	d.LoadString(`{"key": 1}`)
	d.Step()
	if st := d.Step(); st != qcon.Key {
		t.Fatalf("Step: got %v, want %v", st, qcon.Key)
	}
	if got, want := d.Location().String(), "1:1-6"; got != want {
		t.Errorf("Location: got %q, want %q", got, want)
	}
}

func TestDepth(t *testing.T) {
	nest := func(n int) string { return strings.Repeat("[", n) + strings.Repeat("]", n) }

	d := qcon.NewDecoder([]byte(nest(qcon.MaxDepth)))
	maxDepth := 0
	for d.Step() != qcon.Done {
		if d.State() == qcon.Error {
			t.Fatalf("Depth %d: unexpected error: %v", qcon.MaxDepth, d.Err())
		}
		maxDepth = max(maxDepth, d.Depth())
	}
	if maxDepth != qcon.MaxDepth {
		t.Errorf("Max depth: got %d, want %d", maxDepth, qcon.MaxDepth)
	}

	d.LoadString(nest(qcon.MaxDepth + 1))
	_, err := stepAll(d)
	var serr *qcon.SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("Depth %d: got %v, want *SyntaxError", qcon.MaxDepth+1, err)
	}
	if !errors.Is(err, qcon.ErrStructure) {
		t.Errorf("Depth error: got %v, want %v", err, qcon.ErrStructure)
	}
	if serr.Offset != qcon.MaxDepth {
		t.Errorf("Depth error offset: got %d, want %d", serr.Offset, qcon.MaxDepth)
	}
}

func TestDensity(t *testing.T) {
	tests := []struct {
		input string
		want  qcon.Density
	}{
		{"[]", qcon.Nospace},
		{"[ ]", qcon.Uniline},
		{"[\n]", qcon.Multiline},
		{"[1,2]", qcon.Nospace},
		{"[1, 2]", qcon.Uniline},
		{"[1 ,2]", qcon.Uniline},
		{"[1\n,2]", qcon.Multiline},
		{"[ 1, 2 ]", qcon.Uniline},
		{"[ 1,\n 2 ]", qcon.Multiline},
		{"[\n1,2\n]", qcon.Multiline},
		{"[\n 1, 2\n]", qcon.Multiline},
		{"[\n 1,\n 2\n]", qcon.Multiline},
		{"[\n 1,\n 2,\n]", qcon.Multiline},
		{"[\n 1,\n 2 ]", qcon.Multiline},
		{"[1,2,\n]", qcon.Multiline},
		{`{ "a": 1 }`, qcon.Uniline},
		{`{"a": 1}`, qcon.Uniline},
		{`{"a" :1}`, qcon.Uniline},
		{`{"a":1}`, qcon.Nospace},
		{`{"a":[ 1 ],"b":{"c": 2}}`, qcon.Nospace},
		{"{\n  \"a\":\n  1\n}", qcon.Multiline},
		{"[ # note\n 1\n]", qcon.Multiline},
		{"[\n  [1,2],\n  []\n]", qcon.Multiline},
	}
	for _, test := range tests {
		d := qcon.NewDecoder([]byte(test.input))
		d.Step()
		for d.More() {
			skipValue(t, d)
		}
		if d.State() != qcon.End {
			t.Fatalf("Input %#q: got state %v, want %v (err=%v)", test.input, d.State(), qcon.End, d.Err())
		}
		if got := d.Density(); got != test.want {
			t.Errorf("Input %#q: got density %v, want %v", test.input, got, test.want)
		}
	}
}

// skipValue decodes one complete element of the current container.
func skipValue(t *testing.T, d *qcon.Decoder) {
	t.Helper()
	st := d.Step()
	if st == qcon.Key {
		st = d.Step()
	}
	switch st {
	case qcon.StartObject, qcon.StartArray:
		for d.More() {
			skipValue(t, d)
		}
	case qcon.Error:
		t.Fatalf("Step failed: %v", d.Err())
	}
}

func TestMore(t *testing.T) {
	d := qcon.NewDecoder([]byte(`{"a": [1, 2,], "b": {}, "c": [[]],}`))
	if !d.More() {
		t.Fatal("More: got false before root value")
	}
	if st := d.Step(); st != qcon.StartObject {
		t.Fatalf("Step: got %v, want %v", st, qcon.StartObject)
	}
	got := map[string]int{}
	for d.More() {
		if st := d.Step(); st != qcon.Key {
			t.Fatalf("Step: got %v, want %v", st, qcon.Key)
		}
		key := d.Text()
		d.Step()
		for d.More() {
			skipValue(t, d)
			got[key]++
		}
		if d.State() != qcon.End {
			t.Fatalf("After %q: got state %v, want %v", key, d.State(), qcon.End)
		}
	}
	if diff := cmp.Diff(map[string]int{"a": 2, "c": 1}, got); diff != "" {
		t.Errorf("Element counts (-want, +got):\n%s", diff)
	}
	if d.Depth() != 0 {
		t.Errorf("Depth: got %d, want 0", d.Depth())
	}
	if d.More() {
		t.Error("More: got true after root value")
	}
	if !d.Finished() {
		t.Errorf("Finished: got false, want true (err=%v)", d.Err())
	}

	d.LoadString("[1] x")
	for d.Step() != qcon.End {
	}
	if d.More() {
		t.Error("More: got true with extraneous input")
	}
	if d.Finished() {
		t.Error("Finished: got true with extraneous input")
	}
	if !errors.Is(d.Err(), qcon.ErrStructure) {
		t.Errorf("Err: got %v, want %v", d.Err(), qcon.ErrStructure)
	}
}

type comment struct {
	Text  string
	State qcon.State
}

func TestComments(t *testing.T) {
	tests := []struct {
		name  string
		slash bool
		input string
		want  []comment
	}{
		{"Hash", false, "# head\n# two\n\n# three\n[1, # tail\n]", []comment{
			{"head\ntwo", qcon.Ready},
			{"three", qcon.Ready},
			{"tail", qcon.Int},
		}},
		{"HashNoSpace", false, "[#x\n1]", []comment{{"x", qcon.StartArray}}},
		{"Slash", true, "/* block */ [1, // line\n 2]", []comment{
			{"block", qcon.Ready},
			{"line", qcon.Int},
		}},
		{"SlashJoined", true, "// one\n// two\n1", []comment{{"one\ntwo", qcon.Ready}}},
		{"SlashAfter", true, "1 /* done */", []comment{{"done", qcon.Int}}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var got []comment
			d := qcon.NewDecoder([]byte(test.input))
			d.AllowSlashComments(test.slash)
			d.HandleComments(func(text string, st qcon.State) {
				got = append(got, comment{text, st})
			})
			if _, err := stepAll(d); err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Comments (-want, +got):\n%s", diff)
			}
		})
	}

	t.Run("Unterminated", func(t *testing.T) {
		d := qcon.NewDecoder([]byte("[1 /* x"))
		d.AllowSlashComments(true)
		_, err := stepAll(d)
		if !errors.Is(err, qcon.ErrLexical) {
			t.Errorf("Decode: got %v, want %v", err, qcon.ErrLexical)
		}
	})

	t.Run("HashInSlashMode", func(t *testing.T) {
		d := qcon.NewDecoder([]byte("# no\n1"))
		d.AllowSlashComments(true)
		if _, err := stepAll(d); err == nil {
			t.Error("Decode: got nil, want error")
		}
	})
}

func TestBareKeys(t *testing.T) {
	d := qcon.NewDecoder([]byte(`{a: 1, b_2 : "x", "c": null}`))
	d.AllowBareKeys(true)
	got, err := stepAll(d)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := []string{"{", `key "a"`, "int 1", `key "b_2"`, `string "x"`, `key "c"`, "null", "} uniline"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Units (-want, +got):\n%s", diff)
	}

	d.LoadString(`{2a: 1}`)
	if _, err := stepAll(d); !errors.Is(err, qcon.ErrStructure) {
		t.Errorf("Decode: got %v, want %v", err, qcon.ErrStructure)
	}
}

func TestNumberAccessors(t *testing.T) {
	d := qcon.NewDecoder([]byte("[-0, +5, 18446744073709551615, -1]"))
	d.Step()
	type result struct {
		Int      int64
		Uint     uint64
		Positive bool
		Raw      string
	}
	var got []result
	for d.More() {
		if st := d.Step(); st != qcon.Int {
			t.Fatalf("Step: got %v, want %v", st, qcon.Int)
		}
		got = append(got, result{d.Int(), d.Uint(), d.Positive(), d.Raw()})
	}
	want := []result{
		{0, 0, false, "-0"},
		{5, 5, true, "+5"},
		{-1, 18446744073709551615, true, "18446744073709551615"},
		{-1, 18446744073709551615, false, "-1"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Numbers (-want, +got):\n%s", diff)
	}
}

func TestDatetimeInstant(t *testing.T) {
	decode := func(s string) chrono.Datetime {
		t.Helper()
		d := qcon.NewDecoder([]byte(s))
		if st := d.Step(); st != qcon.Datetime {
			t.Fatalf("Decode %q: got %v, want %v (err=%v)", s, st, qcon.Datetime, d.Err())
		}
		return d.Datetime()
	}

	west := decode("D2023-02-13T17:13:18.123456-08:00")
	want := chrono.Datetime{
		Date: chrono.Date{Year: 2023, Month: 2, Day: 13},
		Time: chrono.Time{
			Hour: 17, Minute: 13, Second: 18, Nano: 123456000,
			Zone: chrono.Zone{Kind: chrono.Offset, Offset: -480},
		},
	}
	if diff := cmp.Diff(want, west); diff != "" {
		t.Errorf("Datetime (-want, +got):\n%s", diff)
	}
	utc := decode("D2023-02-14T01:13:18.123456Z")

	t1, err := west.Instant()
	if err != nil {
		t.Fatalf("Instant %v: %v", west, err)
	}
	t2, err := utc.Instant()
	if err != nil {
		t.Fatalf("Instant %v: %v", utc, err)
	}
	if !t1.Equal(t2) {
		t.Errorf("Instants differ: %v != %v", t1, t2)
	}
}
