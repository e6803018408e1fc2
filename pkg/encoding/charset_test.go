package encoding

import (
	"errors"
	"testing"
)

func TestParseCharset(t *testing.T) {
	tests := []struct {
		in   string
		want Charset
	}{
		{"", UTF8},
		{"UTF-8", UTF8},
		{"cp1252", Windows1252},
		{"EUC-KR", EUCKR},
		{"cp949", EUCKR},
		{"Shift_JIS", ShiftJIS},
	}
	for _, tt := range tests {
		got, err := ParseCharset(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseCharset(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}

	if _, err := ParseCharset("klingon"); !errors.Is(err, ErrUnknownCharset) {
		t.Errorf("expected ErrUnknownCharset, got %v", err)
	}
}

func TestToUTF8(t *testing.T) {
	tests := []struct {
		name    string
		charset Charset
		text    string
	}{
		{"latin", Windows1252, "épaule"},
		{"korean", EUCKR, "머리"},
		{"japanese", ShiftJIS, "腕"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := FromUTF8(tt.text, tt.charset)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if string(raw) == tt.text {
				t.Fatalf("expected %s bytes to differ from UTF-8", tt.charset)
			}

			got, err := ToUTF8(raw, tt.charset)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if string(got) != tt.text {
				t.Errorf("expected %q, got %q", tt.text, got)
			}
		})
	}
}

func TestToUTF8PassesValidText(t *testing.T) {
	in := []byte("version 1\nnodes\n0 \"épaule\" -1\nend\n")
	got, err := ToUTF8(in, Windows1252)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(in) {
		t.Errorf("valid UTF-8 should be unchanged, got %q", got)
	}

	bad := []byte{0xe9, 'a'}
	got, _ = ToUTF8(bad, UTF8)
	if string(got) != string(bad) {
		t.Error("UTF-8 charset should leave invalid bytes alone")
	}
}
