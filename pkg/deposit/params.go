package deposit

import (
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/prysm/v5/config/params"
	"github.com/prysmaticlabs/prysm/v5/encoding/bytesutil"
)

// Params holds the protocol constants a deposit is checked against.
type Params struct {
	Name                        string
	GenesisForkVersion          [ForkVersionLength]byte
	DomainDeposit               DomainType
	MinDepositAmount            uint64
	MaxDepositAmount            uint64
	BLSWithdrawalPrefix         byte
	ETH1AddressWithdrawalPrefix byte
}

// ParamsFromBeaconConfig maps a prysm beacon chain config to deposit params.
func ParamsFromBeaconConfig(cfg *params.BeaconChainConfig) *Params {
	return &Params{
		Name:                        cfg.ConfigName,
		GenesisForkVersion:          bytesutil.ToBytes4(cfg.GenesisForkVersion),
		DomainDeposit:               DomainType(cfg.DomainDeposit),
		MinDepositAmount:            cfg.MinDepositAmount,
		MaxDepositAmount:            cfg.MaxEffectiveBalance,
		BLSWithdrawalPrefix:         cfg.BLSWithdrawalPrefixByte,
		ETH1AddressWithdrawalPrefix: cfg.ETH1AddressWithdrawalPrefixByte,
	}
}

// ParamsForNetwork returns the params of a known network.
func ParamsForNetwork(network string) (*Params, error) {
	switch network {
	case "mainnet":
		return ParamsFromBeaconConfig(params.MainnetConfig()), nil
	case "holesky":
		return ParamsFromBeaconConfig(params.HoleskyConfig()), nil
	case "sepolia":
		return ParamsFromBeaconConfig(params.SepoliaConfig()), nil
	default:
		return nil, errors.Errorf("unknown network: %s", network)
	}
}

// ParamsFromConfigFile loads params from a consensus chain config YAML file.
func ParamsFromConfigFile(path string) (*Params, error) {
	cfg, err := params.UnmarshalConfigFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load chain config %s", path)
	}

	return ParamsFromBeaconConfig(cfg), nil
}

// Validate checks that the params describe a usable deposit configuration.
func (p *Params) Validate() error {
	if p.MaxDepositAmount <= p.MinDepositAmount {
		return errors.Errorf("max deposit amount %d must exceed min deposit amount %d", p.MaxDepositAmount, p.MinDepositAmount)
	}

	if p.BLSWithdrawalPrefix == p.ETH1AddressWithdrawalPrefix {
		return errors.Errorf("withdrawal prefixes must differ, both are 0x%02x", p.BLSWithdrawalPrefix)
	}

	return nil
}

// prefixFor returns the withdrawal credentials prefix byte for mode.
func (p *Params) prefixFor(mode WithdrawalMode) (byte, bool) {
	switch mode {
	case WithdrawalModeBLS:
		return p.BLSWithdrawalPrefix, true
	case WithdrawalModeETH1Address:
		return p.ETH1AddressWithdrawalPrefix, true
	default:
		return 0, false
	}
}
