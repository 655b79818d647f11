package ledger

import "github.com/arejula27/ledgerchain/pkg/u256"

// Protocol parameters. The halving schedule (InitialReward,
// HalvingInterval) is the one fixed value in the source; the others are
// left as implementer choices and fixed here as named constants.
const (
	// InitialReward is the whole-unit coinbase reward before halving.
	// The on-chain value is InitialReward * SatoshiPerUnit.
	InitialReward = 50
	// SatoshiPerUnit converts whole units to the integer value carried
	// by TransactionOutput.Value.
	SatoshiPerUnit = 100_000_000
	// HalvingInterval is the number of blocks between reward halvings.
	HalvingInterval = 210

	// IdealBlockTime is the target seconds-per-block used by
	// retargeting.
	IdealBlockTime = 10
	// DifficultyUpdateInterval is the number of blocks between
	// retargeting runs.
	DifficultyUpdateInterval = 10
	// MaxMempoolTransactionAge is how long, in seconds, a transaction
	// may sit in the mempool before CleanupMempool drops it.
	MaxMempoolTransactionAge = 3600
)

// minTargetBytes holds 2^256/2^20 - 1 = 2^236 - 1: the top 20 bits of
// the 256-bit value are zero, the remaining 236 bits are one. This is
// the loosest (easiest) target the chain ever uses, chosen, like the
// teacher's internal/consensus/pow.go, so that early blocks are
// mineable in a demo without dedicated hardware.
var minTargetBytes = func() [32]byte {
	var b [32]byte
	for i := range b {
		b[i] = 0xff
	}
	b[0] = 0x00
	b[1] = 0x00
	b[2] = 0x0f
	return b
}()

// MinTarget is the loosest target the chain ever uses: targets may only
// move below it (harder), never above.
var MinTarget = u256.MustFromBigEndian(minTargetBytes[:])

// tryAdjustTarget implements §4.1.4 retargeting. It always computes a
// new target; the check that the chain height is a non-zero multiple of
// DifficultyUpdateInterval is made by its caller, tryAdjustTargetLocked.
// newTarget = clamp(target * actualSeconds / idealSeconds, target/4,
// target*4), then capped at MinTarget.
func tryAdjustTarget(target u256.U256, actualSeconds int64) u256.U256 {
	idealSeconds := int64(IdealBlockTime * DifficultyUpdateInterval)
	newTarget := u256.MulDivClamp(target, actualSeconds, idealSeconds)

	quarter := target.DivSmall(4)
	quadruple := target.MulSmall(4)
	if newTarget.Cmp(quarter) < 0 {
		newTarget = quarter
	} else if newTarget.Cmp(quadruple) > 0 {
		newTarget = quadruple
	}
	return u256.Min(newTarget, MinTarget)
}
