package scene

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func sampleScene() *Scene {
	s := New()
	s.Add("hud", []byte("visible=1"))
	s.Add("camera", []byte{0, 1, 2, 3, 4})
	return s
}

func TestRoundTripSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.scene")
	if err := Save(path, sampleScene(), SaveOptions{}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got := loaded.Names(); len(got) != 2 || got[0] != "hud" || got[1] != "camera" {
		t.Fatalf("unexpected entry order: %v", got)
	}
	payload, ok := loaded.Lookup("camera")
	if !ok || !bytes.Equal(payload, []byte{0, 1, 2, 3, 4}) {
		t.Fatalf("unexpected camera payload: %v", payload)
	}
}

func TestAddReplacesExistingEntry(t *testing.T) {
	s := sampleScene()
	s.Add("hud", []byte("visible=0"))
	if len(s.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(s.Entries))
	}
	if p, _ := s.Lookup("hud"); string(p) != "visible=0" {
		t.Fatalf("unexpected hud payload: %q", p)
	}
}

func TestValidateRejectsDuplicates(t *testing.T) {
	s := &Scene{Entries: []Entry{{Name: "a"}, {Name: "a"}}}
	if _, err := Marshal(s, SaveOptions{}); !errors.Is(err, ErrDuplicateEntry) {
		t.Fatalf("expected ErrDuplicateEntry, got %v", err)
	}
}

func TestUnmarshalRejectsBadMagic(t *testing.T) {
	blob := make([]byte, headerSize)
	copy(blob, "NOTSCENE")
	if _, err := Unmarshal(blob, LoadOptions{}); !errors.Is(err, ErrInvalidMagic) {
		t.Fatalf("expected ErrInvalidMagic, got %v", err)
	}
}

func TestUnmarshalDetectsCorruption(t *testing.T) {
	blob, err := Marshal(sampleScene(), SaveOptions{})
	if err != nil {
		t.Fatal(err)
	}
	blob[len(blob)-1] ^= 0xFF
	if _, err := Unmarshal(blob, LoadOptions{}); !errors.Is(err, ErrChecksum) {
		t.Fatalf("expected ErrChecksum, got %v", err)
	}
}

func TestUnmarshalRejectsTruncatedIndex(t *testing.T) {
	blob, err := Marshal(sampleScene(), SaveOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Unmarshal(blob[:headerSize+4], LoadOptions{}); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("expected ErrInvalidIndex, got %v", err)
	}
}

func TestCompressedEnvelope(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compressed.scene")
	if err := Save(path, sampleScene(), SaveOptions{Compression: true}); err != nil {
		t.Fatal(err)
	}
	info, err := InspectEnvelope(path)
	if err != nil {
		t.Fatal(err)
	}
	if !info.Wrapped || !info.Compressed || info.Encrypted {
		t.Fatalf("unexpected envelope info: %#v", info)
	}
	if _, err := Load(path, LoadOptions{}); err != nil {
		t.Fatalf("load failed: %v", err)
	}
}

func TestEncryptedEnvelopeRequiresPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sealed.scene")
	opts := SaveOptions{Compression: true, Encryption: EncryptionOptions{Enabled: true, Password: "hunter2"}}
	if err := Save(path, sampleScene(), opts); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(raw, []byte("visible=1")) {
		t.Fatal("expected payload to be encrypted on disk")
	}

	if _, err := Load(path, LoadOptions{}); !errors.Is(err, ErrPasswordRequired) {
		t.Fatalf("expected ErrPasswordRequired, got %v", err)
	}
	if _, err := Load(path, LoadOptions{Password: "wrong"}); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	loaded, err := Load(path, LoadOptions{Password: "hunter2"})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if p, _ := loaded.Lookup("hud"); string(p) != "visible=1" {
		t.Fatalf("unexpected hud payload: %q", p)
	}
}

func TestEncryptionWithoutPasswordFails(t *testing.T) {
	_, err := Marshal(sampleScene(), SaveOptions{Encryption: EncryptionOptions{Enabled: true, Password: "  "}})
	if !errors.Is(err, ErrPasswordRequired) {
		t.Fatalf("expected ErrPasswordRequired, got %v", err)
	}
}

func TestUnmarshalRejectsOverflowingIndexOffset(t *testing.T) {
	s := New()
	s.Add("hud", []byte("visible=1"))
	blob := encode(s)
	binary.LittleEndian.PutUint64(blob[20:28], ^uint64(0)-7)

	if _, err := Unmarshal(blob, LoadOptions{}); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("expected ErrInvalidIndex, got %v", err)
	}
}

func TestUnmarshalRejectsOversizedIndexCount(t *testing.T) {
	blob := encode(sampleScene())
	binary.LittleEndian.PutUint32(blob[28:32], ^uint32(0))

	if _, err := Unmarshal(blob, LoadOptions{}); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("expected ErrInvalidIndex, got %v", err)
	}
}

func TestUnmarshalRejectsOverflowingEntryRange(t *testing.T) {
	blob := encode(sampleScene())
	indexOff := binary.LittleEndian.Uint64(blob[20:28])
	binary.LittleEndian.PutUint64(blob[indexOff:indexOff+8], ^uint64(0)-2)

	if _, err := Unmarshal(blob, LoadOptions{}); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}
