package id

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"

	"github.com/bwmarrin/snowflake"
)

// Format names a string encoding of an ID.
type Format string

const (
	FormatDecimal Format = "decimal"
	FormatHex     Format = "hex"
	FormatBase2   Format = "base2"
	FormatBase32  Format = "base32"
	FormatBase36  Format = "base36"
	FormatBase58  Format = "base58"
	FormatBase64  Format = "base64"
)

// Formats lists every supported encoding.
var Formats = []Format{FormatDecimal, FormatHex, FormatBase2, FormatBase32, FormatBase36, FormatBase58, FormatBase64}

var (
	ErrUnknownFormat = errors.New("id: unknown format")
	ErrInvalidID     = errors.New("id: invalid encoded id")
)

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Encode renders id in the given format. The alphabets for base32 and
// base58 are the ones used by github.com/bwmarrin/snowflake, so encoded IDs
// interoperate with services built on it.
func Encode(id uint64, f Format) (string, error) {
	sf := snowflake.ID(int64(id))
	switch f {
	case FormatDecimal:
		return strconv.FormatUint(id, 10), nil
	case FormatHex:
		b := Bytes(id)
		return fmtHex(b[:]), nil
	case FormatBase2:
		return sf.Base2(), nil
	case FormatBase32:
		return sf.Base32(), nil
	case FormatBase36:
		return sf.Base36(), nil
	case FormatBase58:
		return sf.Base58(), nil
	case FormatBase64:
		return sf.Base64(), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// Decode parses s as an ID in the given format.
func Decode(s string, f Format) (uint64, error) {
	var (
		sf  snowflake.ID
		err error
	)
	switch f {
	case FormatDecimal:
		v, perr := strconv.ParseUint(s, 10, 64)
		if perr != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidID, perr)
		}
		return checkTopBit(v)
	case FormatHex:
		v, perr := strconv.ParseUint(s, 16, 64)
		if perr != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidID, perr)
		}
		return checkTopBit(v)
	case FormatBase2:
		sf, err = snowflake.ParseBase2(s)
	case FormatBase32:
		sf, err = snowflake.ParseBase32([]byte(s))
		if err == nil && sf.Base32() != s {
			return 0, fmt.Errorf("%w: %q is not a canonical base32 id", ErrInvalidID, s)
		}
	case FormatBase36:
		sf, err = snowflake.ParseBase36(s)
	case FormatBase58:
		// ParseBase32 and ParseBase58 do not check for int64 overflow, so
		// only inputs that encode back to themselves are accepted.
		sf, err = snowflake.ParseBase58([]byte(s))
		if err == nil && sf.Base58() != s {
			return 0, fmt.Errorf("%w: %q is not a canonical base58 id", ErrInvalidID, s)
		}
	case FormatBase64:
		sf, err = snowflake.ParseBase64(s)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	if sf < 0 {
		return 0, fmt.Errorf("%w: negative value", ErrInvalidID)
	}
	return uint64(sf), nil
}

// Bytes returns the 8-byte big-endian representation, which sorts the same
// way as the integer.
func Bytes(id uint64) [8]byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], id)
	return b
}

// FromBytes is the inverse of Bytes.
func FromBytes(b [8]byte) uint64 { return binary.BigEndian.Uint64(b[:]) }

func checkTopBit(v uint64) (uint64, error) {
	if v>>UsableBits != 0 {
		return 0, fmt.Errorf("%w: reserved top bit set", ErrInvalidID)
	}
	return v, nil
}

// fmtHex is a small, allocation-lean hex encoder for fixed-size IDs.
func fmtHex(b []byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hexdigits[v>>4]
		out[i*2+1] = hexdigits[v&0x0f]
	}
	return string(out)
}
