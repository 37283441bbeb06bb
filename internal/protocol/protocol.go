// Package protocol implements the fixed-layout messages exchanged between
// the snake server and its single client over a reliable byte stream.
//
// Every field is a fixed-width integer in native byte order. There is no
// framing beyond the snake length embedded in a snapshot: both sides must
// read exactly the declared number of point records before the next
// response header. Any short read or write is fatal to the connection.
package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Code identifies a client command.
type Code int32

// Command codes sent by the client.
const (
	CodePing        Code = 1
	CodeQuit        Code = 2
	CodeDir         Code = 3
	CodeTogglePause Code = 4
	CodeRestart     Code = 5
	CodeSetWorld    Code = 6
	CodeSetSize     Code = 7
	CodeSetMode     Code = 8
	CodeSetTime     Code = 9
	CodeBackToMenu  Code = 10
)

// String returns the wire name of the command code.
func (c Code) String() string {
	switch c {
	case CodePing:
		return "PING"
	case CodeQuit:
		return "QUIT"
	case CodeDir:
		return "DIR"
	case CodeTogglePause:
		return "TOGGLE_PAUSE"
	case CodeRestart:
		return "RESTART"
	case CodeSetWorld:
		return "SET_WORLD"
	case CodeSetSize:
		return "SET_SIZE"
	case CodeSetMode:
		return "SET_MODE"
	case CodeSetTime:
		return "SET_TIME"
	case CodeBackToMenu:
		return "BACK_TO_MENU"
	default:
		return fmt.Sprintf("Code(%d)", int32(c))
	}
}

// IsSetup reports whether the code belongs to the configuration handshake.
func (c Code) IsSetup() bool {
	return c == CodeSetWorld || c == CodeSetSize || c == CodeSetMode || c == CodeSetTime
}

// RespCode identifies a server response.
type RespCode int32

// Response codes sent by the server.
const (
	RespPong     RespCode = 100
	RespBye      RespCode = 101
	RespSnapshot RespCode = 200
)

// Message sizes in bytes.
const (
	CommandSize    = 8
	ResponseSize   = 4
	SnapshotSize   = 11 * 4
	PointSize      = 4
	MaxPoints      = 1<<16 - 1
	maxPackedField = 1<<16 - 1
)

var (
	// ErrTooManyPoints is returned when a snapshot declares an impossible
	// snake length.
	ErrTooManyPoints = errors.New("protocol: snake length out of range")

	// ErrUnknownResponse is returned for a response code the client
	// does not understand.
	ErrUnknownResponse = errors.New("protocol: unknown response code")
)

var order = binary.NativeEndian

// Command is one client-to-server message.
type Command struct {
	Code Code
	Arg  int32
}

// PackSize packs a board size into a SET_SIZE argument: width in the upper
// 16 bits, height in the lower 16 bits.
func PackSize(width, height int) int32 {
	return int32(uint32(width&maxPackedField)<<16 | uint32(height&maxPackedField)) //nolint:gosec // masked to 16 bits
}

// UnpackSize is the inverse of PackSize.
func UnpackSize(arg int32) (width, height int) {
	u := uint32(arg) //nolint:gosec // bit reinterpretation
	return int(u >> 16), int(u & maxPackedField)
}

// AppendCommand appends the wire form of c to dst.
func AppendCommand(dst []byte, c Command) []byte {
	dst = order.AppendUint32(dst, uint32(c.Code)) //nolint:gosec // bit reinterpretation
	return order.AppendUint32(dst, uint32(c.Arg)) //nolint:gosec // bit reinterpretation
}

// WriteCommand writes one command to w.
func WriteCommand(w io.Writer, c Command) error {
	var buf [CommandSize]byte
	return writeFull(w, AppendCommand(buf[:0], c))
}

// ReadCommand reads exactly one command from r.
func ReadCommand(r io.Reader) (Command, error) {
	var buf [CommandSize]byte
	if err := readFull(r, buf[:]); err != nil {
		return Command{}, err
	}
	return Command{
		Code: Code(int32(order.Uint32(buf[0:4]))), //nolint:gosec // bit reinterpretation
		Arg:  int32(order.Uint32(buf[4:8])),       //nolint:gosec // bit reinterpretation
	}, nil
}

// WriteResponse writes a bare response header (PONG or BYE) to w.
func WriteResponse(w io.Writer, code RespCode) error {
	var buf [ResponseSize]byte
	order.PutUint32(buf[:], uint32(code)) //nolint:gosec // bit reinterpretation
	return writeFull(w, buf[:])
}

// Response is one server-to-client message. Snapshot is set only when
// Code is RespSnapshot.
type Response struct {
	Code     RespCode
	Snapshot *Snapshot
}

// ReadResponse reads one response from r, including the snapshot body and
// its point records when the header announces a snapshot.
func ReadResponse(r io.Reader) (Response, error) {
	var hdr [ResponseSize]byte
	if err := readFull(r, hdr[:]); err != nil {
		return Response{}, err
	}
	code := RespCode(int32(order.Uint32(hdr[:]))) //nolint:gosec // bit reinterpretation
	switch code {
	case RespPong, RespBye:
		return Response{Code: code}, nil
	case RespSnapshot:
		snap, err := ReadSnapshot(r)
		if err != nil {
			return Response{}, err
		}
		return Response{Code: code, Snapshot: &snap}, nil
	default:
		return Response{}, fmt.Errorf("%w: %d", ErrUnknownResponse, int32(code))
	}
}

func readFull(r io.Reader, buf []byte) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) {
			return err
		}
		return fmt.Errorf("protocol: short read: %w", err)
	}
	return nil
}

func writeFull(w io.Writer, buf []byte) error {
	n, err := w.Write(buf)
	if err != nil {
		return fmt.Errorf("protocol: write: %w", err)
	}
	if n != len(buf) {
		return fmt.Errorf("protocol: write: %w", io.ErrShortWrite)
	}
	return nil
}
