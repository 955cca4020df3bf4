package deposit

import (
	"bytes"
)

// eth1AddressPadding is the number of zero bytes between the prefix and the address.
const eth1AddressPadding = 11

// ValidateWithdrawalCredentials reports whether creds were derived from the expected
// withdrawal configuration. Only the BLS and ETH1 address prefixes are accepted, and only
// when they agree with the expected mode.
func (v *Validator) ValidateWithdrawalCredentials(creds []byte, expected *ExpectedCredential) bool {
	if expected == nil || len(creds) != WithdrawalCredentialsLength {
		return false
	}

	switch {
	case creds[0] == v.params.BLSWithdrawalPrefix && expected.Mode == WithdrawalModeBLS:
		if len(expected.WithdrawalPubkey) == 0 {
			return false
		}

		// The first hash byte is replaced by the prefix.
		digest := v.hasher.Hash(expected.WithdrawalPubkey)

		return bytes.Equal(creds[1:], digest[1:])
	case creds[0] == v.params.ETH1AddressWithdrawalPrefix && expected.Mode == WithdrawalModeETH1Address:
		if !bytes.Equal(creds[1:1+eth1AddressPadding], make([]byte, eth1AddressPadding)) {
			return false
		}

		if expected.ETH1Address == nil {
			return false
		}

		return bytes.Equal(creds[1+eth1AddressPadding:], expected.ETH1Address.Bytes())
	default:
		return false
	}
}

// WithdrawalCredentials derives the credentials a deposit for expected must carry.
func (v *Validator) WithdrawalCredentials(expected *ExpectedCredential) ([]byte, bool) {
	prefix, ok := v.params.prefixFor(expected.Mode)
	if !ok {
		return nil, false
	}

	creds := make([]byte, WithdrawalCredentialsLength)

	switch expected.Mode {
	case WithdrawalModeBLS:
		if len(expected.WithdrawalPubkey) == 0 {
			return nil, false
		}

		digest := v.hasher.Hash(expected.WithdrawalPubkey)
		copy(creds, digest[:])
	case WithdrawalModeETH1Address:
		if expected.ETH1Address == nil {
			return nil, false
		}

		copy(creds[1+eth1AddressPadding:], expected.ETH1Address.Bytes())
	}

	creds[0] = prefix

	return creds, true
}
