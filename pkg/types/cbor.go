package types

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// cborMarshalBytes and cborUnmarshalBytes back the custom MarshalCBOR /
// UnmarshalCBOR implementations on the fixed-size types in this package
// (Hash, and anything else content-addressed): CBOR's default encoding
// for a Go array type is a CBOR array of elements, which is both larger
// on the wire and not what the original canonical encoding used to
// compute content hashes. Encoding as a byte string instead keeps the
// wire and persisted forms compact and unambiguous.
func cborMarshalBytes(b []byte) ([]byte, error) {
	return cbor.Marshal(b)
}

func cborUnmarshalBytes(data []byte, want int) ([]byte, error) {
	var b []byte
	if err := cbor.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode byte string: %w", err)
	}
	if len(b) != want {
		return nil, fmt.Errorf("expected %d bytes, got %d", want, len(b))
	}
	return b, nil
}
