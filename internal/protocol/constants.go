package protocol

// Handshake command tokens.
const (
	CmdSize     = "SIZE"
	CmdCompress = "COMPRESS"
	CmdPixel    = "PX"
)

// Handshake requests, newline-terminated.
var (
	SizeRequest     = []byte(CmdSize + "\n")
	CompressRequest = []byte(CmdCompress + "\n")
)

// MaxSizeResponse bounds the single read that receives "SIZE <w> <h>\n".
const MaxSizeResponse = 128

// CompressAckSize is the fixed buffer the compression acknowledgement is read into.
// At least len(CmdCompress) bytes must arrive.
const CompressAckSize = 12

// Binary pixel record: [2B magic "PB"][2B x LE][2B y LE][1B r][1B g][1B b][1B a], 10 bytes
const BinaryRecordSize = 10

// BinaryMagic prefixes every binary pixel record.
var BinaryMagic = [2]byte{'P', 'B'}

// MaxTextRecordSize is the longest text record: "PX 65535 65535 RRGGBBAA\n".
const MaxTextRecordSize = 24

// MaxCoord is the largest coordinate a binary record can address.
const MaxCoord = 1<<16 - 1

// Encoding selects the pixel record wire form for a run.
type Encoding byte

const (
	EncodingText Encoding = iota
	EncodingBinary
)

func (e Encoding) String() string {
	switch e {
	case EncodingText:
		return "text"
	case EncodingBinary:
		return "binary"
	default:
		return "unknown"
	}
}
