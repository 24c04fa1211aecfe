package protocol

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	ErrMalformedSize   = errors.New("malformed SIZE response")
	ErrCompressionAck  = errors.New("compression not acknowledged")
	ErrShortRecord     = errors.New("record too short")
	ErrBadMagic        = errors.New("bad binary record magic")
	ErrMalformedRecord = errors.New("malformed PX record")
)

// Pixel is one pixel-set command after clipping.
type Pixel struct {
	X, Y  uint16
	Color Color
}

// --- Encoding ---

// AppendText appends "PX <x> <y> <RRGGBBAA>\n" to dst.
func AppendText(dst []byte, p Pixel) []byte {
	dst = append(dst, CmdPixel...)
	dst = append(dst, ' ')
	dst = strconv.AppendUint(dst, uint64(p.X), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendUint(dst, uint64(p.Y), 10)
	dst = append(dst, ' ')
	dst = appendHex(dst, p.Color)
	return append(dst, '\n')
}

// AppendBinary appends the fixed-size binary record for p to dst.
// Records carry no separator; readers parse strictly by offset.
func AppendBinary(dst []byte, p Pixel) []byte {
	var rec [BinaryRecordSize]byte
	rec[0], rec[1] = BinaryMagic[0], BinaryMagic[1]
	binary.LittleEndian.PutUint16(rec[2:4], p.X)
	binary.LittleEndian.PutUint16(rec[4:6], p.Y)
	rec[6] = p.Color.R
	rec[7] = p.Color.G
	rec[8] = p.Color.B
	rec[9] = p.Color.A
	return append(dst, rec[:]...)
}

// --- Decoding ---

// DecodeBinary decodes one binary record from the start of b.
func DecodeBinary(b []byte) (Pixel, error) {
	if len(b) < BinaryRecordSize {
		return Pixel{}, ErrShortRecord
	}
	if b[0] != BinaryMagic[0] || b[1] != BinaryMagic[1] {
		return Pixel{}, fmt.Errorf("%w: %q", ErrBadMagic, b[:2])
	}
	return Pixel{
		X:     binary.LittleEndian.Uint16(b[2:4]),
		Y:     binary.LittleEndian.Uint16(b[4:6]),
		Color: Color{R: b[6], G: b[7], B: b[8], A: b[9]},
	}, nil
}

// ParseText parses one text record, with or without its trailing newline.
// A 6-digit color is read as opaque.
func ParseText(line string) (Pixel, error) {
	fields := strings.Fields(line)
	if len(fields) != 4 || fields[0] != CmdPixel {
		return Pixel{}, fmt.Errorf("%w: %q", ErrMalformedRecord, line)
	}
	x, errX := strconv.ParseUint(fields[1], 10, 16)
	y, errY := strconv.ParseUint(fields[2], 10, 16)
	if errX != nil || errY != nil {
		return Pixel{}, fmt.Errorf("%w: bad coordinate in %q", ErrMalformedRecord, line)
	}
	if len(fields[3]) != 6 && len(fields[3]) != 8 {
		return Pixel{}, fmt.Errorf("%w: bad color in %q", ErrMalformedRecord, line)
	}
	raw, err := hex.DecodeString(fields[3])
	if err != nil {
		return Pixel{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	c := RGB(raw[0], raw[1], raw[2])
	if len(raw) == 4 {
		c.A = raw[3]
	}
	return Pixel{X: uint16(x), Y: uint16(y), Color: c}, nil
}

// ParseSizeResponse parses a "SIZE <w> <h>[\r]\n" reply. One trailing newline
// and then one trailing carriage return are stripped; extra tokens are ignored.
func ParseSizeResponse(b []byte) (width, height uint64, err error) {
	if !utf8.Valid(b) {
		return 0, 0, fmt.Errorf("%w: not valid UTF-8", ErrMalformedSize)
	}
	s := string(b)
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")

	parts := strings.Split(s, " ")
	if len(parts) < 3 {
		return 0, 0, fmt.Errorf("%w: %q has %d tokens", ErrMalformedSize, s, len(parts))
	}
	width, errW := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
	height, errH := strconv.ParseUint(strings.TrimSpace(parts[2]), 10, 64)
	if errW != nil || errH != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedSize, s)
	}
	return width, height, nil
}

// CheckCompressAck verifies the server acknowledged a COMPRESS request.
func CheckCompressAck(ack []byte) error {
	if !bytes.HasPrefix(ack, []byte(CmdCompress)) {
		return fmt.Errorf("%w: got %q", ErrCompressionAck, ack)
	}
	return nil
}
