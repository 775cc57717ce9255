package fuzztests

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"ktfront/internal/cst"
	"ktfront/internal/diag"
	"ktfront/internal/ir"
	"ktfront/internal/literal"
	"ktfront/internal/lower"
	"ktfront/internal/source"
	"ktfront/internal/testkit"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func FuzzLowerDocument(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}
		doc, err := cst.Decode(bytes.NewReader(input), cst.FormatYAML)
		if err != nil {
			return
		}

		fs := source.NewFileSet()
		id := fs.Add(doc.Path, []byte(doc.Source))
		doc.Root.BindFile(id)

		for _, stub := range []bool{false, true} {
			file, err := lower.Build(doc.Root, lower.Options{Stub: stub, Path: doc.Path})
			var ie *lower.InvariantError
			if errors.As(err, &ie) {
				continue
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if err := testkit.CheckTree(file); err != nil {
				t.Fatalf("stub=%v: %v", stub, err)
			}
			bag := diag.NewBag(0)
			lower.Diagnose(file, diag.BagReporter{Bag: bag})
			_ = ir.Validate(file, stub)
			for _, format := range []ir.Format{ir.FormatText, ir.FormatYAML, ir.FormatMsgpack} {
				if err := ir.Encode(io.Discard, file, format); err != nil {
					t.Fatalf("encode %s: %v", format, err)
				}
			}
		}
	})
}

func FuzzIntegerLiteral(f *testing.F) {
	for _, s := range []string{"0", "42", "0x7fffffff", "0b1010", "1_000L", "2147483648", "9223372036854775807L", "0xL", ""} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, text string) {
		v, long, err := literal.Integer(text)
		if err != nil {
			return
		}
		switch v.(type) {
		case int32:
			if long {
				t.Fatalf("%q: int32 value flagged long", text)
			}
		case int64:
			if !long {
				t.Fatalf("%q: int64 value without L suffix", text)
			}
		default:
			t.Fatalf("%q: unexpected value type %T", text, v)
		}
	})
}
