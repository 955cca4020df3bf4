package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ethpandaops/deposit-verifier/pkg/deposit"
)

var (
	verifyDepositDataPath   string
	verifyCredentialsPath   string
	verifyPubkeys           []string
	verifyWithdrawalPubkey  string
	verifyWithdrawalAddress string
	verifyExpectedCount     int
	verifyWorkers           int
	verifyVerifier          string
	verifyParams            paramsFlags
)

// Function signature type for verifyDepositData
type verifyDepositDataFunc func() error

// Default implementation
var verifyDepositData verifyDepositDataFunc = func() error {
	p, err := verifyParams.load()
	if err != nil {
		return errors.Wrap(err, "failed to load protocol params")
	}

	credentials, err := loadCredentials()
	if err != nil {
		return errors.Wrap(err, "failed to load expected credentials")
	}

	verifier, err := newVerifier(verifyVerifier)
	if err != nil {
		return err
	}

	// Network names are only enforced for built-in networks.
	depositData, err := deposit.NewData(verifyDepositDataPath, verifyParams.network, verifyExpectedCount)
	if err != nil {
		return errors.Wrap(err, "failed to load deposit data")
	}

	if err := depositData.Validate(); err != nil {
		return errors.Wrap(err, "failed to validate deposit data")
	}

	v := deposit.NewValidator(p, deposit.WithVerifier(verifier))

	report, err := depositData.Verify(v, credentials, verifyWorkers)
	if err != nil {
		return errors.Wrap(err, "failed to verify deposit data")
	}

	for i, o := range report.Outcomes {
		if o.Valid() {
			continue
		}

		entry := log.WithFields(logrus.Fields{
			"index":  i,
			"pubkey": depositPubkey(depositData.DepositData[i]),
			"status": o.Status.String(),
			"reason": string(o.Reason),
		})

		if o.Reason == deposit.ReasonWithdrawal {
			if creds, ok := v.WithdrawalCredentials(credentials[i]); ok {
				entry = entry.WithField("expected_withdrawal_credentials", "0x"+hex.EncodeToString(creds))
			}
		}

		if o.Err != nil {
			entry = entry.WithError(o.Err)
		}

		entry.Error("❌ Deposit failed verification")
	}

	if !report.Valid() {
		return errors.Errorf("%d of %d deposits failed verification (invalid: %d, malformed: %d, failed: %d)",
			len(report.Outcomes)-report.Count(deposit.StatusValid),
			len(report.Outcomes),
			report.Count(deposit.StatusInvalid),
			report.Count(deposit.StatusMalformed),
			report.Count(deposit.StatusFailed),
		)
	}

	pubkeys := make([]string, len(depositData.DepositData))
	for i, d := range depositData.DepositData {
		pubkeys[i] = depositPubkey(d)
	}

	log.WithFields(logrus.Fields{
		"deposit_count": len(depositData.DepositData),
		"config":        p.Name,
	}).Info("✅ Successfully verified deposit data")

	fmt.Printf("[\"%s\"]\n", strings.Join(pubkeys, "\", \""))

	return nil
}

func loadCredentials() ([]*deposit.ExpectedCredential, error) {
	switch {
	case verifyCredentialsPath != "" && len(verifyPubkeys) > 0:
		return nil, errors.New("--credentials and --pubkeys are mutually exclusive")
	case verifyCredentialsPath != "":
		return deposit.NewCredentials(verifyCredentialsPath)
	case len(verifyPubkeys) > 0:
		return deposit.CredentialsFromPubkeys(verifyPubkeys, verifyWithdrawalPubkey, verifyWithdrawalAddress)
	default:
		return nil, errors.New("one of --credentials or --pubkeys must be set")
	}
}

func depositPubkey(d *deposit.ParsedData) string {
	if d == nil || d.Deposit == nil {
		return ""
	}

	return "0x" + strings.TrimPrefix(d.Deposit.PubKey, "0x")
}

var verifyDepositDataCmd = &cobra.Command{
	Use:   "deposit_data",
	Short: "Verify deposit data",
	Long: `Verifies a deposit data file against expected credentials.

Every deposit must carry the expected validator pubkey and withdrawal credentials, an amount
within the protocol bounds, a valid BLS signature for its fork version and a matching
deposit data root. Expected credentials are read from --credentials, or built from --pubkeys
with a shared --withdrawal-pubkey or --withdrawal-address. They are paired with the deposits
by position.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return verifyDepositData()
	},
	// Don't show usage on error
	SilenceUsage: true,
}

func init() {
	verifyCmd.AddCommand(verifyDepositDataCmd)

	flags := verifyDepositDataCmd.Flags()

	flags.StringVar(&verifyDepositDataPath, "deposit-data", "", "Path to deposit data JSON file")
	flags.StringVar(&verifyCredentialsPath, "credentials", "", "Path to expected credentials JSON file")
	flags.StringSliceVar(&verifyPubkeys, "pubkeys", nil, "Expected validator pubkeys, in deposit order")
	flags.StringVar(&verifyWithdrawalPubkey, "withdrawal-pubkey", "", "Expected BLS withdrawal pubkey (hex) for --pubkeys")
	flags.StringVar(&verifyWithdrawalAddress, "withdrawal-address", "", "Expected execution withdrawal address for --pubkeys")
	flags.IntVar(&verifyExpectedCount, "count", 0, "Expected number of deposits")
	flags.IntVar(&verifyWorkers, "workers", 4, "Number of verification workers")
	flags.StringVar(&verifyVerifier, "verifier", "prysm", "BLS verifier backend (prysm, blst)")
	addParamsFlags(verifyDepositDataCmd, &verifyParams)

	verifyDepositDataCmd.MarkFlagsMutuallyExclusive("credentials", "pubkeys")

	err := verifyDepositDataCmd.MarkFlagRequired("deposit-data")
	if err != nil {
		log.WithError(err).Fatalf("Failed to mark flag %s as required", "deposit-data")
	}
}
