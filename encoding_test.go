package katagami

import "testing"

func TestDetectEncodingDefault(t *testing.T) {
	if got := DetectEncoding([]byte("<p>no charset here</p>")); got != "utf-8" {
		t.Errorf("got %q, want utf-8", got)
	}
}

func TestDetectEncodingXMLDeclaration(t *testing.T) {
	src := []byte(`<?xml version="1.0" encoding="ISO-8859-1"?><root/>`)
	if got := DetectEncoding(src); got != "iso-8859-1" {
		t.Errorf("got %q, want iso-8859-1", got)
	}
}

func TestDetectEncodingMetaCharset(t *testing.T) {
	src := []byte(`<html><head><meta charset="Shift_JIS"></head></html>`)
	if got := DetectEncoding(src); got != "shift_jis" {
		t.Errorf("got %q, want shift_jis", got)
	}
}

func TestDetectEncodingUnrecognizedFallsBack(t *testing.T) {
	src := []byte(`<?xml version="1.0" encoding="not-a-real-charset"?>`)
	if got := DetectEncoding(src); got != defaultEncoding {
		t.Errorf("got %q, want %q", got, defaultEncoding)
	}
}

func TestEncodeStringRoundTripsUTF8(t *testing.T) {
	b, err := EncodeString("hello", "utf-8")
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "hello" {
		t.Errorf("got %q", b)
	}
}
