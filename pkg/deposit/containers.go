package deposit

import (
	"github.com/ethpandaops/deposit-verifier/pkg/ssz"
)

// DepositMessage is the payload signed by the validator key.
// https://github.com/ethereum/consensus-specs/blob/dev/specs/phase0/beacon-chain.md#depositmessage
type DepositMessage struct {
	Pubkey                []byte
	WithdrawalCredentials []byte
	Amount                uint64
}

// HashTreeRoot returns the root of {pubkey: Bytes48, withdrawal_credentials: Bytes32, amount: uint64}.
func (m *DepositMessage) HashTreeRoot(h *ssz.Hasher) [32]byte {
	return h.ContainerRoot(m.fieldRoots(h)...)
}

func (m *DepositMessage) fieldRoots(h *ssz.Hasher) [][32]byte {
	return [][32]byte{
		h.VectorRoot(m.Pubkey),
		h.VectorRoot(m.WithdrawalCredentials),
		ssz.Uint64(m.Amount),
	}
}

// DepositData is the signed deposit whose root is submitted to the deposit contract.
// https://github.com/ethereum/consensus-specs/blob/dev/specs/phase0/beacon-chain.md#depositdata
type DepositData struct {
	DepositMessage
	Signature []byte
}

// HashTreeRoot returns the root of the message fields followed by signature: Bytes96.
func (d *DepositData) HashTreeRoot(h *ssz.Hasher) [32]byte {
	fields := append(d.fieldRoots(h), h.VectorRoot(d.Signature))

	return h.ContainerRoot(fields...)
}

// ForkData identifies a fork for domain computation.
type ForkData struct {
	CurrentVersion        [ForkVersionLength]byte
	GenesisValidatorsRoot [RootLength]byte
}

// HashTreeRoot returns the root of {current_version: Bytes4, genesis_validators_root: Root}.
func (f *ForkData) HashTreeRoot(h *ssz.Hasher) [32]byte {
	return h.ContainerRoot(
		h.VectorRoot(f.CurrentVersion[:]),
		f.GenesisValidatorsRoot,
	)
}

// SigningData binds an object root to a domain.
type SigningData struct {
	ObjectRoot [RootLength]byte
	Domain     Domain
}

// HashTreeRoot returns the root of {object_root: Root, domain: Domain}.
func (s *SigningData) HashTreeRoot(h *ssz.Hasher) [32]byte {
	return h.ContainerRoot(s.ObjectRoot, s.Domain)
}
