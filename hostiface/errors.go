package hostiface

// Fixed integer error codes from HI transfer functions, required for host
// compatibility. These values are part of the external interface
// and must not be renumbered.
const (
	ErrInsufficientBalance = 1
	ErrSenderIsRecipient   = 2
	ErrAmountNotPositive   = 3
	ErrSenderNotTxSender   = 4

	// NFT-specific subcodes reuse the same integer space with different
	// meanings shared with the compiler's generated error paths.
	ErrNotOwnedBy   = 1
	ErrNFTAlreadyExists = 2
	ErrDoesNotExist = 3

	// ErrKeyDoesNotExist shares code 3 with amount-not-positive; which
	// applies is determined by which HI function returned it.
	ErrKeyDoesNotExist = 3
)
