package ledger

import "errors"

// Sentinel errors returned by Engine operations. Callers distinguish
// them with errors.Is; context is added with fmt.Errorf("%w: ...").
var (
	ErrInvalidBlock       = errors.New("invalid block")
	ErrInvalidMerkleRoot  = errors.New("invalid merkle root")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrIO                 = errors.New("ledger io error")
)
