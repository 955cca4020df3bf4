package deposit

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Data is a loaded deposit data file together with the file level expectations it is
// validated against.
type Data struct {
	DepositData  []*ParsedData
	ExpectedData *ExpectedData
}

// ExpectedData holds the file level expectations. An empty Network or a zero Count
// disables the corresponding check.
type ExpectedData struct {
	Network string
	Count   int
}

// ParsedData pairs a deposit as found in the file with its decoded record. Err is set
// instead of Record when the deposit could not be decoded.
type ParsedData struct {
	Deposit *Deposit
	Record  *Record
	Err     error
}

// Deposit is a single entry of a deposit data file.
type Deposit struct {
	PubKey                string  `json:"pubkey"`
	WithdrawalCredentials string  `json:"withdrawal_credentials"`
	Amount                *uint64 `json:"amount"`
	Signature             string  `json:"signature"`
	DepositMessageRoot    string  `json:"deposit_message_root"`
	DepositDataRoot       string  `json:"deposit_data_root"`
	NetworkName           string  `json:"network_name"`
	DepositCliVersion     string  `json:"deposit_cli_version"`
	ForkVersion           string  `json:"fork_version"`
}

// NewData loads the deposit data file at path. Only a file that is not a JSON array is
// rejected as a whole; an entry that fails to decode, including one whose fields have the
// wrong JSON type, is kept with its error set so it is reported at its own position.
func NewData(path, expectedNetwork string, expectedCount int) (*Data, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read deposit data file")
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal deposit data")
	}

	depositData := make([]*ParsedData, len(entries))

	for i, raw := range entries {
		depositData[i] = parseEntry(raw)

		if depositData[i].Err != nil {
			log.WithError(depositData[i].Err).WithField("index", i).Warn("Failed to decode deposit")
		}
	}

	log.WithFields(logrus.Fields{
		"path":     path,
		"deposits": len(depositData),
	}).Info("Loaded deposit data")

	return &Data{
		DepositData: depositData,
		ExpectedData: &ExpectedData{
			Network: expectedNetwork,
			Count:   expectedCount,
		},
	}, nil
}

// parseEntry decodes a single array entry. On a JSON type error the fields that did decode
// are kept so the entry can still be identified by its pubkey.
func parseEntry(raw json.RawMessage) *ParsedData {
	var d *Deposit
	if err := json.Unmarshal(raw, &d); err != nil {
		return &ParsedData{
			Deposit: d,
			Err:     errors.Wrap(err, "failed to decode deposit"),
		}
	}

	return NewParsedData(d)
}

// NewParsedData decodes d, keeping the decode error alongside the raw deposit.
func NewParsedData(d *Deposit) *ParsedData {
	record, err := d.Record()

	return &ParsedData{
		Deposit: d,
		Record:  record,
		Err:     err,
	}
}

// Record decodes the hex fields of the deposit.
func (d *Deposit) Record() (*Record, error) {
	if d == nil {
		return nil, errors.New("missing deposit")
	}

	pubkey, err := decodeHex("pubkey", d.PubKey, 0)
	if err != nil {
		return nil, err
	}

	withdrawalCreds, err := decodeHex("withdrawal_credentials", d.WithdrawalCredentials, 0)
	if err != nil {
		return nil, err
	}

	if d.Amount == nil {
		return nil, errors.New("missing amount")
	}

	signature, err := decodeHex("signature", d.Signature, 0)
	if err != nil {
		return nil, err
	}

	forkVersion, err := decodeHex("fork_version", d.ForkVersion, ForkVersionLength)
	if err != nil {
		return nil, err
	}

	root, err := decodeHex("deposit_data_root", d.DepositDataRoot, RootLength)
	if err != nil {
		return nil, err
	}

	record := &Record{
		Pubkey:                pubkey,
		WithdrawalCredentials: withdrawalCreds,
		Amount:                *d.Amount,
		Signature:             signature,
	}

	copy(record.ForkVersion[:], forkVersion)
	copy(record.DepositDataRoot[:], root)

	return record, nil
}

// decodeHex decodes an optionally 0x-prefixed hex field. A size of zero accepts any length.
func decodeHex(field, value string, size int) ([]byte, error) {
	value = strings.TrimPrefix(value, "0x")
	if value == "" {
		return nil, errors.Errorf("missing %s", field)
	}

	b, err := hex.DecodeString(value)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", field)
	}

	if size > 0 && len(b) != size {
		return nil, errors.Errorf("invalid %s length: expected %d bytes, got %d", field, size, len(b))
	}

	return b, nil
}

// Validate runs the file level checks: deposit count and network name.
func (d *Data) Validate() error {
	if d.ExpectedData.Count > 0 && len(d.DepositData) != d.ExpectedData.Count {
		return errors.Errorf("count mismatch: expected %d, got %d", d.ExpectedData.Count, len(d.DepositData))
	}

	for _, set := range d.DepositData {
		// null entries are reported per record by Verify
		if set.Deposit == nil {
			continue
		}

		if err := set.Deposit.Validate(d.ExpectedData); err != nil {
			return errors.Wrapf(err, "invalid deposit for pubkey %s", set.Deposit.PubKey)
		}
	}

	return nil
}

func (d *Deposit) Validate(expectedData *ExpectedData) error {
	if expectedData.Network != "" && d.NetworkName != expectedData.Network {
		return errors.Errorf("network mismatch: expected %s, got %s", expectedData.Network, d.NetworkName)
	}

	return nil
}

// Verify checks every deposit against the credential at the same position.
func (d *Data) Verify(v *Validator, credentials []*ExpectedCredential, workers int) (*Report, error) {
	return v.VerifyBatch(d.DepositData, credentials, workers)
}
