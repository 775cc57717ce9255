package cst_test

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"ktfront/internal/cst"
)

func TestDecodeYAMLFixture(t *testing.T) {
	f, err := os.Open("testdata/point.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	doc, err := cst.Decode(f, cst.FormatYAML)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Path != "point.kt" {
		t.Errorf("path = %q", doc.Path)
	}
	if doc.Root.Kind != cst.KindFile {
		t.Fatalf("root kind = %v", doc.Root.Kind)
	}
	class := doc.Root.First(cst.KindClass)
	if class == nil {
		t.Fatal("no CLASS child")
	}
	if class.Name() != "Point" {
		t.Errorf("class name = %q", class.Name())
	}
	if class.Span.Start != 12 || class.Span.End != 47 {
		t.Errorf("class span = %v", class.Span)
	}
	params := class.First(cst.KindPrimaryConstructor).First(cst.KindValueParameterList).All(cst.KindValueParameter)
	if len(params) != 2 {
		t.Fatalf("got %d parameters", len(params))
	}
	if !params[1].HasKeyword("val") || params[1].Name() != "y" {
		t.Errorf("second parameter = %+v", params[1])
	}
}

func TestMsgpackKeepsKindNames(t *testing.T) {
	doc := &cst.Document{
		Path: "m.kt",
		Root: cst.New(cst.KindFile,
			cst.New(cst.KindFun, cst.Modifiers("private", "inline"), cst.Ident("f")),
		),
	}
	var buf bytes.Buffer
	if err := cst.Encode(&buf, doc, cst.FormatMsgpack); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("FUN")) {
		t.Error("kind should be encoded by name")
	}
	got, err := cst.Decode(&buf, cst.FormatMsgpack)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	fn := got.Root.First(cst.KindFun)
	if fn == nil || !fn.HasModifier("inline") || fn.HasModifier("public") {
		t.Fatalf("modifiers lost: %+v", fn)
	}
}

func TestDecodeUnknownKind(t *testing.T) {
	_, err := cst.Decode(strings.NewReader("path: x.kt\nroot: {kind: NOT_A_KIND}\n"), cst.FormatYAML)
	if !errors.Is(err, cst.ErrUnknownKind) {
		t.Fatalf("err = %v, want ErrUnknownKind", err)
	}
}

func TestDecodeMissingRoot(t *testing.T) {
	if _, err := cst.Decode(strings.NewReader("path: x.kt\n"), cst.FormatYAML); err == nil {
		t.Fatal("expected an error for a document without root")
	}
}

func TestParseKindRoundTrip(t *testing.T) {
	for _, k := range []cst.Kind{cst.KindFile, cst.KindWhenConditionInRange, cst.KindLongStringEntry} {
		got, err := cst.ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := cst.ParseKind("INVALID"); err == nil {
		t.Error("INVALID must not parse")
	}
}

func TestFormatForPath(t *testing.T) {
	if cst.FormatForPath("a/b.cst.mp") != cst.FormatMsgpack {
		t.Error(".mp should select msgpack")
	}
	if cst.FormatForPath("a/b.yaml") != cst.FormatYAML {
		t.Error(".yaml should select yaml")
	}
}
