package scene

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const (
	Magic     = "VWSCENE\x00"
	VersionV1 = uint16(1)

	headerSize = 8 + 2 + 2 + 8 + 8 + 4
	indexEntSz = 8 + 4 + 4
)

// Entry is one plugin's serialized state.
type Entry struct {
	Name    string
	Payload []byte
}

type Scene struct {
	CreatedUnix int64
	Entries     []Entry
}

type EncryptionOptions struct {
	Enabled  bool
	Password string
}

type SaveOptions struct {
	Compression bool
	Encryption  EncryptionOptions
}

type LoadOptions struct {
	Password string
}

var (
	ErrInvalidMagic      = errors.New("scene: invalid magic")
	ErrUnsupportedVer    = errors.New("scene: unsupported version")
	ErrInvalidIndex      = errors.New("scene: invalid index")
	ErrInvalidRange      = errors.New("scene: invalid entry range")
	ErrChecksum          = errors.New("scene: checksum mismatch")
	ErrDuplicateEntry    = errors.New("scene: duplicate entry name")
	ErrPasswordRequired  = errors.New("scene: password required")
	ErrInvalidPassword   = errors.New("scene: invalid password")
	ErrInvalidSecureFile = errors.New("scene: invalid secure file")
)

func New() *Scene {
	return &Scene{CreatedUnix: time.Now().Unix()}
}

// Add appends or replaces the entry for name.
func (s *Scene) Add(name string, payload []byte) {
	for i := range s.Entries {
		if s.Entries[i].Name == name {
			s.Entries[i].Payload = payload
			return
		}
	}
	s.Entries = append(s.Entries, Entry{Name: name, Payload: payload})
}

func (s *Scene) Lookup(name string) ([]byte, bool) {
	for _, e := range s.Entries {
		if e.Name == name {
			return e.Payload, true
		}
	}
	return nil, false
}

func (s *Scene) Names() []string {
	out := make([]string, 0, len(s.Entries))
	for _, e := range s.Entries {
		out = append(out, e.Name)
	}
	return out
}

func Validate(s *Scene) error {
	if s == nil {
		return errors.New("scene: scene is nil")
	}
	seen := make(map[string]struct{}, len(s.Entries))
	for _, e := range s.Entries {
		if e.Name == "" {
			return errors.New("scene: entry without name")
		}
		if _, ok := seen[e.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateEntry, e.Name)
		}
		seen[e.Name] = struct{}{}
	}
	return nil
}

func Save(path string, s *Scene, opts SaveOptions) error {
	blob, err := Marshal(s, opts)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func Load(path string, opts LoadOptions) (*Scene, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(b, opts)
}

// Marshal encodes s, optionally wrapping it in a compressed and/or encrypted
// envelope.
func Marshal(s *Scene, opts SaveOptions) ([]byte, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}
	blob := encode(s)
	if opts.Encryption.Enabled && trimSpace(opts.Encryption.Password) == "" {
		return nil, ErrPasswordRequired
	}
	if opts.Compression || opts.Encryption.Enabled {
		return seal(blob, opts)
	}
	return blob, nil
}

func Unmarshal(b []byte, opts LoadOptions) (*Scene, error) {
	if isEnvelope(b) {
		var err error
		b, err = open(b, opts)
		if err != nil {
			return nil, err
		}
	}
	s, err := decode(b)
	if err != nil {
		return nil, err
	}
	if err := Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

type indexEntry struct {
	Offset uint64
	Length uint32
	CRC32  uint32
}

func encode(s *Scene) []byte {
	payloads := make([][]byte, 0, len(s.Entries))
	for _, e := range s.Entries {
		p := appendString(make([]byte, 0, 4+len(e.Name)+len(e.Payload)), e.Name)
		payloads = append(payloads, append(p, e.Payload...))
	}

	out := make([]byte, headerSize+len(payloads)*indexEntSz)
	copy(out[:8], Magic)
	binary.LittleEndian.PutUint16(out[8:10], VersionV1)
	binary.LittleEndian.PutUint16(out[10:12], 0)
	binary.LittleEndian.PutUint64(out[12:20], uint64(s.CreatedUnix))
	binary.LittleEndian.PutUint64(out[20:28], uint64(headerSize))
	binary.LittleEndian.PutUint32(out[28:32], uint32(len(payloads)))

	ptr := headerSize
	for _, p := range payloads {
		binary.LittleEndian.PutUint64(out[ptr:ptr+8], uint64(len(out)))
		binary.LittleEndian.PutUint32(out[ptr+8:ptr+12], uint32(len(p)))
		binary.LittleEndian.PutUint32(out[ptr+12:ptr+16], crc32.ChecksumIEEE(p))
		out = append(out, p...)
		ptr += indexEntSz
	}
	return out
}

func decode(blob []byte) (*Scene, error) {
	if len(blob) < headerSize {
		return nil, ErrInvalidMagic
	}
	if string(blob[:8]) != Magic {
		return nil, ErrInvalidMagic
	}
	if ver := binary.LittleEndian.Uint16(blob[8:10]); ver != VersionV1 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVer, ver)
	}
	s := &Scene{CreatedUnix: int64(binary.LittleEndian.Uint64(blob[12:20]))}
	indexOff := binary.LittleEndian.Uint64(blob[20:28])
	count := uint64(binary.LittleEndian.Uint32(blob[28:32]))
	if indexOff < headerSize || indexOff > uint64(len(blob)) {
		return nil, ErrInvalidIndex
	}
	if count > (uint64(len(blob))-indexOff)/indexEntSz {
		return nil, ErrInvalidIndex
	}

	entries := make([]indexEntry, 0, count)
	for i := uint64(0); i < count; i++ {
		p := blob[indexOff+i*indexEntSz:]
		entries = append(entries, indexEntry{
			Offset: binary.LittleEndian.Uint64(p[0:8]),
			Length: binary.LittleEndian.Uint32(p[8:12]),
			CRC32:  binary.LittleEndian.Uint32(p[12:16]),
		})
	}
	if err := validateRanges(entries, len(blob)); err != nil {
		return nil, err
	}

	for _, e := range entries {
		p := blob[e.Offset : e.Offset+uint64(e.Length)]
		if crc32.ChecksumIEEE(p) != e.CRC32 {
			return nil, ErrChecksum
		}
		name, rest, ok := readString(p)
		if !ok {
			return nil, fmt.Errorf("%w: malformed entry name", ErrInvalidIndex)
		}
		s.Entries = append(s.Entries, Entry{Name: name, Payload: append([]byte(nil), rest...)})
	}
	return s, nil
}

func validateRanges(entries []indexEntry, fileLen int) error {
	type rng struct{ start, end uint64 }
	ranges := make([]rng, 0, len(entries))
	for _, e := range entries {
		if e.Offset > uint64(fileLen) || uint64(e.Length) > uint64(fileLen)-e.Offset {
			return ErrInvalidRange
		}
		end := e.Offset + uint64(e.Length)
		ranges = append(ranges, rng{start: e.Offset, end: end})
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].start < ranges[j].start })
	for i := 1; i < len(ranges); i++ {
		if ranges[i].start < ranges[i-1].end {
			return ErrInvalidRange
		}
	}
	return nil
}

func appendString(dst []byte, s string) []byte {
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(s)))
	dst = append(dst, n[:]...)
	return append(dst, s...)
}

func readString(src []byte) (string, []byte, bool) {
	if len(src) < 4 {
		return "", nil, false
	}
	ln := int(binary.LittleEndian.Uint32(src[:4]))
	src = src[4:]
	if len(src) < ln {
		return "", nil, false
	}
	return string(src[:ln]), src[ln:], true
}

func trimSpace(s string) string {
	i, j := 0, len(s)
	for i < j && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	for j > i && (s[j-1] == ' ' || s[j-1] == '\t' || s[j-1] == '\n' || s[j-1] == '\r') {
		j--
	}
	return s[i:j]
}
