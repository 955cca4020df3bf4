package cmd

import (
	"encoding/hex"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ethpandaops/deposit-verifier/pkg/deposit"
)

// paramsFlags selects where the protocol params come from. Exactly one source must be set.
type paramsFlags struct {
	network    string
	configFile string
	beaconURL  string
}

func (f *paramsFlags) load() (*deposit.Params, error) {
	sources := 0

	for _, s := range []string{f.network, f.configFile, f.beaconURL} {
		if s != "" {
			sources++
		}
	}

	if sources != 1 {
		return nil, errors.New("exactly one of --network, --config-file or --beacon must be set")
	}

	var (
		p   *deposit.Params
		err error
	)

	switch {
	case f.network != "":
		p, err = deposit.ParamsForNetwork(f.network)
	case f.configFile != "":
		p, err = deposit.ParamsFromConfigFile(f.configFile)
	default:
		p, err = deposit.NewBeaconAPI(f.beaconURL).FetchParams()
	}

	if err != nil {
		return nil, err
	}

	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid protocol params")
	}

	log.WithFields(logrus.Fields{
		"config":       p.Name,
		"fork_version": hex.EncodeToString(p.GenesisForkVersion[:]),
		"min_amount":   p.MinDepositAmount,
		"max_amount":   p.MaxDepositAmount,
	}).Debug("Loaded protocol params")

	return p, nil
}

func addParamsFlags(cmd *cobra.Command, f *paramsFlags) {
	cmd.Flags().StringVar(&f.network, "network", "", "Built-in network (mainnet, holesky, sepolia)")
	cmd.Flags().StringVar(&f.configFile, "config-file", "", "Path to a consensus chain config YAML file")
	cmd.Flags().StringVar(&f.beaconURL, "beacon", "", "Beacon node URL to read the chain config from")

	cmd.MarkFlagsMutuallyExclusive("network", "config-file", "beacon")
}

func newVerifier(name string) (deposit.Verifier, error) {
	switch name {
	case "prysm":
		return deposit.BLSVerifier{}, nil
	case "blst":
		return deposit.BlstVerifier{}, nil
	default:
		return nil, errors.Errorf("unknown verifier %q, expected prysm or blst", name)
	}
}
