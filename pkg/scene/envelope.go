package scene

import (
	"bytes"
	"compress/zlib"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/pbkdf2"
)

const (
	envelopeMagic    = "VWSCENE-SEALED"
	envelopeVersion  = uint16(1)
	envelopeFlagComp = uint16(1 << 0)
	envelopeFlagEnc  = uint16(1 << 1)
	saltSize         = 16
	nonceSize        = 12
	kdfIterations    = 200000

	envVersionOff = len(envelopeMagic)
	envFlagsOff   = envVersionOff + 2
	envSaltOff    = envFlagsOff + 2
	envNonceOff   = envSaltOff + saltSize
	envLengthOff  = envNonceOff + nonceSize
	envHeaderSize = envLengthOff + 8
)

type EnvelopeInfo struct {
	Wrapped    bool
	Compressed bool
	Encrypted  bool
	Version    uint16
}

func InspectEnvelope(path string) (EnvelopeInfo, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return EnvelopeInfo{}, err
	}
	return inspect(b)
}

func isEnvelope(b []byte) bool {
	return len(b) >= len(envelopeMagic) && string(b[:len(envelopeMagic)]) == envelopeMagic
}

func inspect(b []byte) (EnvelopeInfo, error) {
	info := EnvelopeInfo{}
	if !isEnvelope(b) {
		return info, nil
	}
	if len(b) < envHeaderSize {
		return info, ErrInvalidSecureFile
	}
	info.Version = binary.LittleEndian.Uint16(b[envVersionOff:envFlagsOff])
	if info.Version != envelopeVersion {
		return info, fmt.Errorf("%w: envelope version %d", ErrUnsupportedVer, info.Version)
	}
	flags := binary.LittleEndian.Uint16(b[envFlagsOff:envSaltOff])
	info.Wrapped = true
	info.Compressed = flags&envelopeFlagComp != 0
	info.Encrypted = flags&envelopeFlagEnc != 0
	return info, nil
}

func seal(payload []byte, opts SaveOptions) ([]byte, error) {
	var flags uint16
	var err error
	if opts.Compression {
		flags |= envelopeFlagComp
		if payload, err = deflate(payload); err != nil {
			return nil, err
		}
	}

	salt := make([]byte, saltSize)
	nonce := make([]byte, nonceSize)
	if opts.Encryption.Enabled {
		flags |= envelopeFlagEnc
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return nil, err
		}
		if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
			return nil, err
		}
		gcm, err := newGCM(opts.Encryption.Password, salt)
		if err != nil {
			return nil, err
		}
		payload = gcm.Seal(nil, nonce, payload, nil)
	}

	out := make([]byte, envHeaderSize, envHeaderSize+len(payload))
	copy(out, envelopeMagic)
	binary.LittleEndian.PutUint16(out[envVersionOff:], envelopeVersion)
	binary.LittleEndian.PutUint16(out[envFlagsOff:], flags)
	copy(out[envSaltOff:envNonceOff], salt)
	copy(out[envNonceOff:envLengthOff], nonce)
	binary.LittleEndian.PutUint64(out[envLengthOff:], uint64(len(payload)))
	return append(out, payload...), nil
}

func open(b []byte, opts LoadOptions) ([]byte, error) {
	info, err := inspect(b)
	if err != nil {
		return nil, err
	}
	if !info.Wrapped {
		return nil, ErrInvalidSecureFile
	}
	if binary.LittleEndian.Uint64(b[envLengthOff:envHeaderSize]) != uint64(len(b)-envHeaderSize) {
		return nil, ErrInvalidSecureFile
	}
	payload := b[envHeaderSize:]

	if info.Encrypted {
		if trimSpace(opts.Password) == "" {
			return nil, ErrPasswordRequired
		}
		gcm, err := newGCM(opts.Password, b[envSaltOff:envNonceOff])
		if err != nil {
			return nil, err
		}
		payload, err = gcm.Open(nil, b[envNonceOff:envLengthOff], payload, nil)
		if err != nil {
			return nil, ErrInvalidPassword
		}
	}
	if info.Compressed {
		return inflate(payload)
	}
	return append([]byte(nil), payload...), nil
}

func newGCM(password string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(password), salt, kdfIterations, 32, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func deflate(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestSpeed)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(in); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func inflate(in []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(in))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
