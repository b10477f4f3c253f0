// Package wire implements the literal RPC wire schema from the ring
// membership spec over TCP: length-prefixed UTF-8 strings with a trailing
// NUL, u32 counts, and an i32 TTL for the coordinator message. The framing
// style (length-prefix then payload, symmetric Encode/Decode helpers) is
// grounded on the DNS packet codec in the reference pack, adapted from
// datagram parsing to a small streaming RPC protocol.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Op identifies which RPC a frame carries.
type Op uint8

const (
	OpJoin Op = iota + 1
	OpSetNext
	OpSetPrev
	OpList
	OpElection
	OpCoordinator
	opJoinResponse // internal: join's response frame, never sent as a request
)

const maxParticipants = 1 << 16 // guards against a corrupt/hostile u32 length

// writeString encodes a length-prefixed UTF-8 string including its
// trailing NUL: "All strings are length-prefixed UTF-8 byte
// sequences including a trailing NUL."
func writeString(w io.Writer, s string) error {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	buf[len(s)] = 0

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(buf)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(buf)
	return err
}

func readString(r io.Reader) (string, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n == 0 {
		return "", fmt.Errorf("wire: zero-length string (missing NUL terminator)")
	}
	if n > 1<<20 {
		return "", fmt.Errorf("wire: string length %d exceeds sanity limit", n)
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	if buf[n-1] != 0 {
		return "", fmt.Errorf("wire: string missing trailing NUL")
	}
	return string(buf[:n-1]), nil
}

func writeStringList(w io.Writer, list []string) error {
	var nBuf [4]byte
	binary.BigEndian.PutUint32(nBuf[:], uint32(len(list)))
	if _, err := w.Write(nBuf[:]); err != nil {
		return err
	}
	for _, s := range list {
		if err := writeString(w, s); err != nil {
			return err
		}
	}
	return nil
}

func readStringList(r io.Reader) ([]string, error) {
	var nBuf [4]byte
	if _, err := io.ReadFull(r, nBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(nBuf[:])
	if n > maxParticipants {
		return nil, fmt.Errorf("wire: participant count %d exceeds sanity limit", n)
	}

	out := make([]string, n)
	for i := range out {
		s, err := readString(r)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func writeOp(w io.Writer, op Op) error {
	_, err := w.Write([]byte{byte(op)})
	return err
}

func readOp(r io.Reader) (Op, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return Op(b[0]), nil
}

func writeTTL(w io.Writer, ttl int32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(ttl))
	_, err := w.Write(buf[:])
	return err
}

func readTTL(r io.Reader) (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(buf[:])), nil
}
