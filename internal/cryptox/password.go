// Package cryptox implements one-way password hashing with argon2id.
//
// Hashes are stored in the PHC string format, so every hash carries its own
// algorithm version, cost parameters and salt:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<digest>
//
// Salt and digest use unpadded standard base64, which keeps hashes produced
// by other argon2 libraries verifiable.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/chirpy/internal/common"
	"golang.org/x/crypto/argon2"
)

const algorithmID = "argon2id"

// Params are the argon2id cost parameters. Memory is in KiB.
type Params struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams is used by HashPassword.
var DefaultParams = Params{
	Memory:      64 * 1024,
	Time:        1,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// Bounds accepted when reading a stored hash. Anything outside them is treated
// as a mismatch so a tampered row cannot make verification arbitrarily costly.
const (
	minMemoryKB    = 8 * 1024
	maxMemoryKB    = 256 * 1024
	maxTimeCost    = 16
	maxParallelism = 32
	minSaltLength  = 8
	minKeyLength   = 16
	maxKeyLength   = 128
)

var errInvalidHash = errors.New("invalid password hash")

type decodedHash struct {
	params Params
	salt   []byte
	digest []byte
}

// HashPassword returns the PHC-encoded argon2id hash of password using
// DefaultParams and a fresh random salt.
func HashPassword(password string) (string, error) {
	return HashPasswordWithParams(password, DefaultParams)
}

// HashPasswordWithParams is HashPassword with explicit cost parameters.
func HashPasswordWithParams(password string, p Params) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	if err := p.validate(); err != nil {
		return "", err
	}

	salt := common.GenerateRandByteArray(int(p.SaltLength))
	digest := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Parallelism, p.KeyLength)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		p.Memory,
		p.Time,
		p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	), nil
}

// CheckPasswordHash reports whether password matches encodedHash.
//
// It never fails: an empty password, a malformed or truncated hash, or
// unsupported parameters all yield false. The digest comparison is constant time.
func CheckPasswordHash(password, encodedHash string) bool {
	if password == "" {
		return false
	}

	d, err := decodeHash(encodedHash)
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(password), d.salt, d.params.Time, d.params.Memory, d.params.Parallelism, d.params.KeyLength)

	return subtle.ConstantTimeCompare(computed, d.digest) == 1
}

func decodeHash(encoded string) (*decodedHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != algorithmID {
		return nil, errInvalidHash
	}

	version, ok := strings.CutPrefix(parts[2], "v=")
	if !ok {
		return nil, errInvalidHash
	}
	if v, err := strconv.Atoi(version); err != nil || v != argon2.Version {
		return nil, errInvalidHash
	}

	var p Params
	if err := p.parse(parts[3]); err != nil {
		return nil, err
	}

	salt, err := base64.RawStdEncoding.Strict().DecodeString(parts[4])
	if err != nil || len(salt) < minSaltLength {
		return nil, errInvalidHash
	}
	digest, err := base64.RawStdEncoding.Strict().DecodeString(parts[5])
	if err != nil || len(digest) < minKeyLength || len(digest) > maxKeyLength {
		return nil, errInvalidHash
	}

	p.SaltLength = uint32(len(salt))
	p.KeyLength = uint32(len(digest))

	return &decodedHash{params: p, salt: salt, digest: digest}, nil
}

// parse reads the "m=..,t=..,p=.." segment; every key must appear exactly once.
func (p *Params) parse(segment string) error {
	var seen [3]bool

	pairs := strings.Split(segment, ",")
	if len(pairs) != 3 {
		return errInvalidHash
	}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return errInvalidHash
		}
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return errInvalidHash
		}
		switch key {
		case "m":
			if seen[0] || n < minMemoryKB || n > maxMemoryKB {
				return errInvalidHash
			}
			p.Memory, seen[0] = uint32(n), true
		case "t":
			if seen[1] || n < 1 || n > maxTimeCost {
				return errInvalidHash
			}
			p.Time, seen[1] = uint32(n), true
		case "p":
			if seen[2] || n < 1 || n > maxParallelism {
				return errInvalidHash
			}
			p.Parallelism, seen[2] = uint8(n), true
		default:
			return errInvalidHash
		}
	}

	return nil
}

func (p Params) validate() error {
	switch {
	case p.Memory < minMemoryKB || p.Memory > maxMemoryKB:
		return fmt.Errorf("argon2 memory must be within [%d, %d] KiB", minMemoryKB, maxMemoryKB)
	case p.Time < 1 || p.Time > maxTimeCost:
		return fmt.Errorf("argon2 time must be within [1, %d]", maxTimeCost)
	case p.Parallelism < 1 || p.Parallelism > maxParallelism:
		return fmt.Errorf("argon2 parallelism must be within [1, %d]", maxParallelism)
	case p.SaltLength < minSaltLength:
		return fmt.Errorf("argon2 salt must be at least %d bytes", minSaltLength)
	case p.KeyLength < minKeyLength || p.KeyLength > maxKeyLength:
		return fmt.Errorf("argon2 key length must be within [%d, %d]", minKeyLength, maxKeyLength)
	}
	return nil
}
