package cmd

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ethpandaops/deposit-verifier/pkg/deposit"
)

var (
	rootsDepositDataPath string
	rootsParams          paramsFlags
)

type depositRoots struct {
	Pubkey             string `json:"pubkey"`
	DepositMessageRoot string `json:"deposit_message_root,omitempty"`
	DepositDataRoot    string `json:"deposit_data_root,omitempty"`
	Domain             string `json:"domain,omitempty"`
	SigningRoot        string `json:"signing_root,omitempty"`
	MessageRootMatches bool   `json:"message_root_matches"`
	DataRootMatches    bool   `json:"data_root_matches"`
	Error              string `json:"error,omitempty"`
}

var depositRootsCmd = &cobra.Command{
	Use:   "roots",
	Short: "Recompute deposit roots",
	Long: `Recomputes the deposit message root, deposit data root, domain and signing root of
every deposit in a deposit data file and compares them with the roots the file claims.
No credentials are checked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := rootsParams.load()
		if err != nil {
			return errors.Wrap(err, "failed to load protocol params")
		}

		depositData, err := deposit.NewData(rootsDepositDataPath, "", 0)
		if err != nil {
			return errors.Wrap(err, "failed to load deposit data")
		}

		v := deposit.NewValidator(p)

		out := make([]*depositRoots, len(depositData.DepositData))
		mismatches := 0

		for i, d := range depositData.DepositData {
			out[i] = computeRoots(v, d)

			if !out[i].MessageRootMatches || !out[i].DataRootMatches {
				mismatches++
			}
		}

		b, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal roots")
		}

		fmt.Println(string(b))

		if mismatches > 0 {
			return errors.Errorf("%d of %d deposits do not match their claimed roots", mismatches, len(out))
		}

		return nil
	},
	// Don't show usage on error
	SilenceUsage: true,
}

func computeRoots(v *deposit.Validator, d *deposit.ParsedData) *depositRoots {
	out := &depositRoots{Pubkey: depositPubkey(d)}

	if d.Err != nil {
		out.Error = d.Err.Error()

		return out
	}

	roots := v.Roots(d.Record)

	out.DepositMessageRoot = hex.EncodeToString(roots.DepositMessageRoot[:])
	out.DepositDataRoot = hex.EncodeToString(roots.DepositDataRoot[:])
	out.Domain = hex.EncodeToString(roots.Domain[:])
	out.SigningRoot = hex.EncodeToString(roots.SigningRoot[:])
	out.MessageRootMatches, out.DataRootMatches = roots.MatchesClaimed(d.Deposit)

	return out
}

func init() {
	depositCmd.AddCommand(depositRootsCmd)

	depositRootsCmd.Flags().StringVar(&rootsDepositDataPath, "deposit-data", "", "Path to deposit data JSON file")
	addParamsFlags(depositRootsCmd, &rootsParams)

	err := depositRootsCmd.MarkFlagRequired("deposit-data")
	if err != nil {
		log.WithError(err).Fatalf("Failed to mark flag %s as required", "deposit-data")
	}
}
