package deposit

import (
	"bytes"
	"encoding/hex"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/deposit-verifier/pkg/ssz"
)

// Status classifies the result of validating a single deposit.
type Status int

const (
	// StatusValid means every check passed.
	StatusValid Status = iota
	// StatusInvalid means the deposit is well formed but fails a check.
	StatusInvalid
	// StatusMalformed means the deposit could not be decoded.
	StatusMalformed
	// StatusFailed means a cryptographic primitive failed on the deposit's inputs.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	case StatusMalformed:
		return "malformed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Reason names the check that rejected a deposit.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonDecode      Reason = "decode"
	ReasonLength      Reason = "length"
	ReasonPubkey      Reason = "pubkey"
	ReasonWithdrawal  Reason = "withdrawal_credentials"
	ReasonAmount      Reason = "amount"
	ReasonSignature   Reason = "signature"
	ReasonDepositRoot Reason = "deposit_data_root"
)

// Outcome is the result of validating a single deposit.
type Outcome struct {
	Status Status
	Reason Reason
	Err    error
}

// Valid reports whether the deposit passed every check.
func (o Outcome) Valid() bool {
	return o.Status == StatusValid
}

func valid() Outcome {
	return Outcome{Status: StatusValid}
}

func rejected(reason Reason) Outcome {
	return Outcome{Status: StatusInvalid, Reason: reason}
}

func malformed(err error) Outcome {
	return Outcome{Status: StatusMalformed, Reason: ReasonDecode, Err: err}
}

func failed(reason Reason, err error) Outcome {
	return Outcome{Status: StatusFailed, Reason: reason, Err: err}
}

// Validator checks deposits against expected credentials. It holds no mutable state and is
// safe for concurrent use.
type Validator struct {
	params   *Params
	hasher   *ssz.Hasher
	verifier Verifier
}

// Option configures a Validator.
type Option func(*Validator)

// WithHashFunc replaces the hash used for tree hashing and withdrawal key hashing.
func WithHashFunc(fn ssz.HashFunc) Option {
	return func(v *Validator) {
		v.hasher = ssz.NewHasher(fn)
	}
}

// WithVerifier replaces the BLS signature verifier.
func WithVerifier(verifier Verifier) Option {
	return func(v *Validator) {
		v.verifier = verifier
	}
}

// NewValidator creates a Validator for the given params.
func NewValidator(p *Params, opts ...Option) *Validator {
	v := &Validator{
		params:   p,
		hasher:   ssz.NewHasher(DefaultHash),
		verifier: BLSVerifier{},
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Params returns the params the validator checks against.
func (v *Validator) Params() *Params {
	return v.params
}

// Hasher returns the tree hasher used by the validator.
func (v *Validator) Hasher() *ssz.Hasher {
	return v.hasher
}

// ValidateDeposit reports whether record is a valid deposit for expected. A non-nil error is
// only returned when a cryptographic primitive failed, in which case the result is false.
func (v *Validator) ValidateDeposit(record *Record, expected *ExpectedCredential) (bool, error) {
	outcome := v.Check(record, expected)

	return outcome.Valid(), outcome.Err
}

// Check runs the deposit through every check in order and stops at the first failure.
func (v *Validator) Check(record *Record, expected *ExpectedCredential) Outcome {
	if record == nil {
		return malformed(errors.New("missing deposit record"))
	}

	if expected == nil {
		return malformed(errors.New("missing expected credential"))
	}

	log := log.WithField("pubkey", hex.EncodeToString(record.Pubkey))

	if len(record.Pubkey) != PubkeyLength ||
		len(record.WithdrawalCredentials) != WithdrawalCredentialsLength ||
		len(record.Signature) != SignatureLength {
		log.WithFields(logrus.Fields{
			"pubkey_length":                 len(record.Pubkey),
			"withdrawal_credentials_length": len(record.WithdrawalCredentials),
			"signature_length":              len(record.Signature),
		}).Debug("Deposit has invalid field lengths")

		return rejected(ReasonLength)
	}

	if !bytes.Equal(record.Pubkey, expected.SigningPubkey) {
		log.WithField("expected", hex.EncodeToString(expected.SigningPubkey)).Debug("Deposit pubkey mismatch")

		return rejected(ReasonPubkey)
	}

	if !v.ValidateWithdrawalCredentials(record.WithdrawalCredentials, expected) {
		log.WithFields(logrus.Fields{
			"withdrawal_credentials": hex.EncodeToString(record.WithdrawalCredentials),
			"mode":                   expected.Mode.String(),
		}).Debug("Deposit withdrawal credentials mismatch")

		return rejected(ReasonWithdrawal)
	}

	if record.Amount <= v.params.MinDepositAmount || record.Amount > v.params.MaxDepositAmount {
		log.WithFields(logrus.Fields{
			"amount": record.Amount,
			"min":    v.params.MinDepositAmount,
			"max":    v.params.MaxDepositAmount,
		}).Debug("Deposit amount out of range")

		return rejected(ReasonAmount)
	}

	domain := ComputeDomain(v.hasher, v.params.DomainDeposit, record.ForkVersion)
	signingRoot := ComputeSigningRoot(v.hasher, record.Message(), domain)

	ok, err := v.verifier.Verify(record.Pubkey, signingRoot[:], record.Signature)
	if err != nil {
		log.WithError(err).Debug("Deposit signature could not be verified")

		return failed(ReasonSignature, errors.Wrap(err, "failed to verify deposit signature"))
	}

	if !ok {
		log.WithField("fork_version", hex.EncodeToString(record.ForkVersion[:])).Debug("Deposit signature invalid")

		return rejected(ReasonSignature)
	}

	root := record.Data().HashTreeRoot(v.hasher)
	if root != record.DepositDataRoot {
		log.WithFields(logrus.Fields{
			"expected": hex.EncodeToString(root[:]),
			"claimed":  hex.EncodeToString(record.DepositDataRoot[:]),
		}).Debug("Deposit data root mismatch")

		return rejected(ReasonDepositRoot)
	}

	return valid()
}
