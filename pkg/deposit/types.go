package deposit

import (
	"github.com/ethereum/go-ethereum/common"
)

// Fixed sizes of the deposit fields.
const (
	PubkeyLength                = 48
	WithdrawalCredentialsLength = 32
	SignatureLength             = 96
	ForkVersionLength           = 4
	RootLength                  = 32
)

// WithdrawalMode selects how withdrawal credentials are derived.
type WithdrawalMode int

const (
	// WithdrawalModeBLS credentials commit to the hash of a BLS withdrawal pubkey.
	WithdrawalModeBLS WithdrawalMode = iota
	// WithdrawalModeETH1Address credentials embed a 20-byte execution address.
	WithdrawalModeETH1Address
)

func (m WithdrawalMode) String() string {
	switch m {
	case WithdrawalModeBLS:
		return "bls"
	case WithdrawalModeETH1Address:
		return "eth1_address"
	default:
		return "unknown"
	}
}

// ExpectedCredential is the trusted description of a single validator deposit.
type ExpectedCredential struct {
	SigningPubkey    []byte
	WithdrawalPubkey []byte
	Mode             WithdrawalMode
	ETH1Address      *common.Address
}

// Record is an untrusted deposit as found in a deposit data file.
type Record struct {
	Pubkey                []byte
	WithdrawalCredentials []byte
	Amount                uint64
	Signature             []byte
	ForkVersion           [ForkVersionLength]byte
	DepositDataRoot       [RootLength]byte
}

// Message returns the unsigned deposit payload of the record.
func (r *Record) Message() *DepositMessage {
	return &DepositMessage{
		Pubkey:                r.Pubkey,
		WithdrawalCredentials: r.WithdrawalCredentials,
		Amount:                r.Amount,
	}
}

// Data returns the signed deposit payload of the record.
func (r *Record) Data() *DepositData {
	return &DepositData{
		DepositMessage: *r.Message(),
		Signature:      r.Signature,
	}
}
