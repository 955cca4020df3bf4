package deposit

import (
	"github.com/ethpandaops/deposit-verifier/pkg/ssz"
)

// DomainType is the 4-byte tag that prefixes a signature domain.
type DomainType [4]byte

// Domain salts signing roots with a domain type and a fork.
type Domain [32]byte

// ComputeForkDataRoot returns the root of the fork data for version and genesis validators root.
func ComputeForkDataRoot(h *ssz.Hasher, version [ForkVersionLength]byte, genesisValidatorsRoot [RootLength]byte) [32]byte {
	fd := &ForkData{
		CurrentVersion:        version,
		GenesisValidatorsRoot: genesisValidatorsRoot,
	}

	return fd.HashTreeRoot(h)
}

// ComputeDomain returns domainType followed by the first 28 bytes of the fork data root.
// Deposits are valid across forks of a chain, so the genesis validators root is always zero.
func ComputeDomain(h *ssz.Hasher, domainType DomainType, forkVersion [ForkVersionLength]byte) Domain {
	forkDataRoot := ComputeForkDataRoot(h, forkVersion, [RootLength]byte{})

	var domain Domain

	copy(domain[:4], domainType[:])
	copy(domain[4:], forkDataRoot[:28])

	return domain
}

// ComputeSigningRoot returns the message a deposit signature must authenticate.
func ComputeSigningRoot(h *ssz.Hasher, message *DepositMessage, domain Domain) [32]byte {
	sd := &SigningData{
		ObjectRoot: message.HashTreeRoot(h),
		Domain:     domain,
	}

	return sd.HashTreeRoot(h)
}
