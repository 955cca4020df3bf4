package deposit

import (
	"encoding/json"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Credential is an entry of an expected credentials file.
type Credential struct {
	Pubkey                string `json:"pubkey"`
	WithdrawalPubkey      string `json:"withdrawal_pubkey,omitempty"`
	ETH1WithdrawalAddress string `json:"eth1_withdrawal_address,omitempty"`
}

// NewCredentials reads a JSON array of expected credentials.
func NewCredentials(path string) ([]*ExpectedCredential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read credentials file")
	}

	var credentials []*Credential
	if err := json.Unmarshal(data, &credentials); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal credentials")
	}

	expected := make([]*ExpectedCredential, len(credentials))

	for i, c := range credentials {
		if c == nil {
			return nil, errors.Errorf("credential %d is empty", i)
		}

		expected[i], err = c.Expected()
		if err != nil {
			return nil, errors.Wrapf(err, "invalid credential %d", i)
		}
	}

	log.WithField("credentials", len(expected)).Info("Loaded expected credentials")

	return expected, nil
}

// CredentialsFromPubkeys builds one expected credential per pubkey, all sharing the same
// withdrawal target. Exactly one of withdrawalPubkey and withdrawalAddress must be set.
func CredentialsFromPubkeys(pubkeys []string, withdrawalPubkey, withdrawalAddress string) ([]*ExpectedCredential, error) {
	expected := make([]*ExpectedCredential, len(pubkeys))

	for i, pubkey := range pubkeys {
		c := &Credential{
			Pubkey:                pubkey,
			WithdrawalPubkey:      withdrawalPubkey,
			ETH1WithdrawalAddress: withdrawalAddress,
		}

		var err error

		expected[i], err = c.Expected()
		if err != nil {
			return nil, errors.Wrapf(err, "invalid credential for pubkey %s", pubkey)
		}
	}

	return expected, nil
}

// Expected decodes the credential.
func (c *Credential) Expected() (*ExpectedCredential, error) {
	pubkey, err := decodeHex("pubkey", c.Pubkey, PubkeyLength)
	if err != nil {
		return nil, err
	}

	switch {
	case c.WithdrawalPubkey != "" && c.ETH1WithdrawalAddress != "":
		return nil, errors.New("withdrawal pubkey and eth1 withdrawal address are mutually exclusive")
	case c.ETH1WithdrawalAddress != "":
		if !common.IsHexAddress(c.ETH1WithdrawalAddress) {
			return nil, errors.Errorf("invalid eth1 withdrawal address: %s", c.ETH1WithdrawalAddress)
		}

		address := common.HexToAddress(c.ETH1WithdrawalAddress)

		return &ExpectedCredential{
			SigningPubkey: pubkey,
			Mode:          WithdrawalModeETH1Address,
			ETH1Address:   &address,
		}, nil
	case c.WithdrawalPubkey != "":
		withdrawalPubkey, err := decodeHex("withdrawal_pubkey", c.WithdrawalPubkey, PubkeyLength)
		if err != nil {
			return nil, err
		}

		return &ExpectedCredential{
			SigningPubkey:    pubkey,
			WithdrawalPubkey: withdrawalPubkey,
			Mode:             WithdrawalModeBLS,
		}, nil
	default:
		return nil, errors.New("missing withdrawal pubkey or eth1 withdrawal address")
	}
}
