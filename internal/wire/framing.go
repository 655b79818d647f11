package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/arejula27/ledgerchain/internal/ledger"
	"github.com/arejula27/ledgerchain/pkg/crypto"
)

// MaxMessageSize bounds the length prefix read off the wire, guarding
// against a peer claiming an absurd payload size before any bytes of it
// have arrived.
const MaxMessageSize = 16 << 20 // 16 MiB

// WriteMessage canonically encodes msg and writes it to w as an 8-byte
// big-endian length prefix followed by the encoded bytes.
func WriteMessage(w io.Writer, msg Message) error {
	payload, err := crypto.Marshal(msg)
	if err != nil {
		return fmt.Errorf("wire: encode message: %w: %w", ledger.ErrIO, err)
	}

	var header [8]byte
	binary.BigEndian.PutUint64(header[:], uint64(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("wire: write length prefix: %w: %w", ledger.ErrIO, err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("wire: write payload: %w: %w", ledger.ErrIO, err)
	}
	return nil
}

// ReadMessage reads one length-prefixed message from r and decodes it.
func ReadMessage(r io.Reader) (Message, error) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Message{}, fmt.Errorf("wire: read length prefix: %w: %w", ledger.ErrIO, err)
	}

	length := binary.BigEndian.Uint64(header[:])
	if length > MaxMessageSize {
		return Message{}, fmt.Errorf("wire: message length %d exceeds %d byte limit: %w", length, MaxMessageSize, ledger.ErrIO)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Message{}, fmt.Errorf("wire: read payload: %w: %w", ledger.ErrIO, err)
	}

	var msg Message
	if err := crypto.Unmarshal(payload, &msg); err != nil {
		return Message{}, fmt.Errorf("wire: decode message: %w: %w", ledger.ErrIO, err)
	}
	return msg, nil
}
