package protocol

import (
	"encoding/binary"
	"strings"
	"testing"
)

func buildHeader(title string, gameCode string, seed byte, key2, key1 uint32) []byte {
	hdr := make([]byte, HeaderSize)
	copy(hdr[HeaderTitleOffset:HeaderTitleOffset+HeaderTitleSize], title)
	copy(hdr[HeaderGameCodeOffset:], gameCode)
	hdr[HeaderKey2SeedOffset] = seed
	binary.LittleEndian.PutUint32(hdr[HeaderKey2ROMCNTOffset:], key2)
	binary.LittleEndian.PutUint32(hdr[HeaderKey1ROMCNTOffset:], key1)
	return hdr
}

func TestParseHeader(t *testing.T) {
	data := buildHeader("TESTGAME", "ABCE", 0x03, 0x00416657, 0x081808F8)

	h, err := ParseHeader(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if h.Title != "TESTGAME" {
		t.Errorf("Title = %q, want %q", h.Title, "TESTGAME")
	}
	if h.GameCode != 0x45434241 {
		t.Errorf("GameCode = 0x%08X, want 0x45434241", h.GameCode)
	}
	if h.GameCodeString() != "ABCE" {
		t.Errorf("GameCodeString() = %q, want %q", h.GameCodeString(), "ABCE")
	}
	if h.Key2Seed != 0x03 {
		t.Errorf("Key2Seed = 0x%02X, want 0x03", h.Key2Seed)
	}
	if h.Key2ROMCNT != 0x00416657 {
		t.Errorf("Key2ROMCNT = 0x%08X, want 0x00416657", uint32(h.Key2ROMCNT))
	}
	if h.Key1ROMCNT != 0x081808F8 {
		t.Errorf("Key1ROMCNT = 0x%08X, want 0x081808F8", uint32(h.Key1ROMCNT))
	}
}

func TestParseHeaderFullTitle(t *testing.T) {
	data := buildHeader("ABCDEFGHIJKLMNOP", "AAAA", 0, 0, 0)

	h, err := ParseHeader(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Title != "ABCDEFGHIJKL" {
		t.Errorf("Title = %q, want the first 12 bytes", h.Title)
	}
}

func TestParseHeaderTooShort(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"empty", 0},
		{"missing key1 romcnt", HeaderKey1ROMCNTOffset},
		{"one byte short", HeaderMinSize - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHeader(make([]byte, tt.size))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !IsResponseLengthError(err) {
				t.Errorf("expected ResponseLengthError, got %T", err)
			}
			if !strings.Contains(err.Error(), "header read") {
				t.Errorf("error = %v, want operation name", err)
			}
		})
	}

	if _, err := ParseHeader(make([]byte, HeaderMinSize)); err != nil {
		t.Errorf("minimum size header rejected: %v", err)
	}
}

func TestParseChipID(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    uint32
		wantErr bool
	}{
		{"little endian", []byte{0xC2, 0x0F, 0x00, 0x00}, 0x00000FC2, false},
		{"all ones", []byte{0xFF, 0xFF, 0xFF, 0xFF}, 0xFFFFFFFF, false},
		{"too short", []byte{0xC2, 0x0F}, 0, true},
		{"too long", []byte{0, 0, 0, 0, 0}, 0, true},
		{"nil", nil, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseChipID(tt.data)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseChipID() = 0x%08X, want 0x%08X", got, tt.want)
			}
		})
	}
}

func TestResponseLengthError(t *testing.T) {
	err := &ResponseLengthError{Operation: "chip id read", Want: 4, Got: 2}
	msg := err.Error()

	for _, want := range []string{"chip id read", "got 2", "expected 4"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message should contain %q, got: %s", want, msg)
		}
	}
}
