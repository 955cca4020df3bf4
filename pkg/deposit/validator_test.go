package deposit_test

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/prysm/v5/beacon-chain/core/signing"
	"github.com/prysmaticlabs/prysm/v5/config/params"
	prysmdeposit "github.com/prysmaticlabs/prysm/v5/contracts/deposit"
	ethpb "github.com/prysmaticlabs/prysm/v5/proto/prysm/v1alpha1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethpandaops/deposit-verifier/pkg/deposit"
)

func TestValidateDepositCliVectors(t *testing.T) {
	tests := []struct {
		name     string
		network  string
		record   func(t *testing.T) *deposit.Record
		verifier deposit.Verifier
	}{
		{
			name:     "holesky",
			network:  "holesky",
			record:   holeskyRecord,
			verifier: deposit.BLSVerifier{},
		},
		{
			name:     "mainnet",
			network:  "mainnet",
			record:   mainnetRecord,
			verifier: deposit.BLSVerifier{},
		},
		{
			name:     "holesky blst",
			network:  "holesky",
			record:   holeskyRecord,
			verifier: deposit.BlstVerifier{},
		},
		{
			name:     "mainnet blst",
			network:  "mainnet",
			record:   mainnetRecord,
			verifier: deposit.BlstVerifier{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := deposit.NewValidator(mustParams(t, tt.network), deposit.WithVerifier(tt.verifier))

			ok, err := v.ValidateDeposit(tt.record(t), eth1Credential(t, holeskyPubkey))
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestValidateDepositSignatureIsBoundToForkVersion(t *testing.T) {
	v := deposit.NewValidator(mustParams(t, "holesky"))

	record := holeskyRecord(t)
	copy(record.ForkVersion[:], mustHex(t, mainnetForkVersion))
	record.DepositDataRoot = record.Data().HashTreeRoot(v.Hasher())

	outcome := v.Check(record, eth1Credential(t, holeskyPubkey))
	assert.Equal(t, deposit.StatusInvalid, outcome.Status)
	assert.Equal(t, deposit.ReasonSignature, outcome.Reason)
}

func TestValidateDepositSingleByteFlips(t *testing.T) {
	v := deposit.NewValidator(mustParams(t, "holesky"))
	expected := eth1Credential(t, holeskyPubkey)

	fields := []struct {
		name  string
		bytes func(r *deposit.Record) []byte
	}{
		{name: "pubkey", bytes: func(r *deposit.Record) []byte { return r.Pubkey }},
		{name: "withdrawal credentials", bytes: func(r *deposit.Record) []byte { return r.WithdrawalCredentials }},
		{name: "signature", bytes: func(r *deposit.Record) []byte { return r.Signature }},
		{name: "deposit data root", bytes: func(r *deposit.Record) []byte { return r.DepositDataRoot[:] }},
	}

	for _, field := range fields {
		t.Run(field.name, func(t *testing.T) {
			original := holeskyRecord(t)

			for i := range field.bytes(original) {
				record := cloneRecord(original)
				field.bytes(record)[i] ^= 0x01

				ok, _ := v.ValidateDeposit(record, expected)
				assert.False(t, ok, "byte %d", i)
			}
		})
	}

	t.Run("amount", func(t *testing.T) {
		for shift := 0; shift < 64; shift += 8 {
			record := holeskyRecord(t)
			record.Amount ^= 1 << shift

			ok, _ := v.ValidateDeposit(record, expected)
			assert.False(t, ok, "shift %d", shift)
		}
	})
}

func TestValidateDepositAmountBounds(t *testing.T) {
	p := mustParams(t, "mainnet")
	v := deposit.NewValidator(p, deposit.WithVerifier(fakeVerifier))

	tests := []struct {
		name   string
		amount uint64
		valid  bool
	}{
		{name: "zero", amount: 0, valid: false},
		{name: "minimum", amount: p.MinDepositAmount, valid: false},
		{name: "above minimum", amount: p.MinDepositAmount + 1, valid: true},
		{name: "maximum", amount: p.MaxDepositAmount, valid: true},
		{name: "above maximum", amount: p.MaxDepositAmount + 1, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, expected := fakeDeposit(t, v, 0x42, tt.amount)

			outcome := v.Check(record, expected)
			assert.Equal(t, tt.valid, outcome.Valid())

			if !tt.valid {
				assert.Equal(t, deposit.ReasonAmount, outcome.Reason)
			}
		})
	}
}

func TestValidateDepositCustomParams(t *testing.T) {
	p := &deposit.Params{
		Name:                        "custom",
		DomainDeposit:               deposit.DomainType{0x03, 0x00, 0x00, 0x00},
		MinDepositAmount:            1,
		MaxDepositAmount:            32,
		BLSWithdrawalPrefix:         0x00,
		ETH1AddressWithdrawalPrefix: 0x01,
	}
	require.NoError(t, p.Validate())

	t.Run("synthetic key", func(t *testing.T) {
		v := deposit.NewValidator(p, deposit.WithVerifier(fakeVerifier))

		record, expected := fakeDeposit(t, v, 0xAA, 32)
		assert.Equal(t, bytes.Repeat([]byte{0xAA}, deposit.PubkeyLength), record.Pubkey)
		assert.Equal(t, byte(0x00), record.WithdrawalCredentials[0])

		ok, err := v.ValidateDeposit(record, expected)
		require.NoError(t, err)
		assert.True(t, ok)

		record.Amount = 31

		outcome := v.Check(record, expected)
		assert.False(t, outcome.Valid())
		assert.Equal(t, deposit.ReasonSignature, outcome.Reason)
	})

	t.Run("bls key", func(t *testing.T) {
		v := deposit.NewValidator(p)

		record, expected := blsDeposit(t, v, 32)

		ok, err := v.ValidateDeposit(record, expected)
		require.NoError(t, err)
		assert.True(t, ok)

		record.Amount = 31

		ok, err = v.ValidateDeposit(record, expected)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestCheckGateOrder(t *testing.T) {
	v := deposit.NewValidator(mustParams(t, "holesky"))
	expected := eth1Credential(t, holeskyPubkey)

	tests := []struct {
		name   string
		mutate func(r *deposit.Record)
		status deposit.Status
		reason deposit.Reason
	}{
		{
			name:   "valid",
			mutate: func(r *deposit.Record) {},
			status: deposit.StatusValid,
			reason: deposit.ReasonNone,
		},
		{
			name: "short signature before pubkey mismatch",
			mutate: func(r *deposit.Record) {
				r.Signature = r.Signature[:95]
				r.Pubkey[0] ^= 0xff
			},
			status: deposit.StatusInvalid,
			reason: deposit.ReasonLength,
		},
		{
			name: "long pubkey",
			mutate: func(r *deposit.Record) {
				r.Pubkey = append(r.Pubkey, 0x00)
			},
			status: deposit.StatusInvalid,
			reason: deposit.ReasonLength,
		},
		{
			name: "short withdrawal credentials",
			mutate: func(r *deposit.Record) {
				r.WithdrawalCredentials = r.WithdrawalCredentials[:31]
			},
			status: deposit.StatusInvalid,
			reason: deposit.ReasonLength,
		},
		{
			name: "pubkey before withdrawal credentials",
			mutate: func(r *deposit.Record) {
				r.Pubkey[47] ^= 0xff
				r.WithdrawalCredentials[31] ^= 0xff
			},
			status: deposit.StatusInvalid,
			reason: deposit.ReasonPubkey,
		},
		{
			name: "withdrawal credentials before amount",
			mutate: func(r *deposit.Record) {
				r.WithdrawalCredentials[0] = 0x02
				r.Amount = 0
			},
			status: deposit.StatusInvalid,
			reason: deposit.ReasonWithdrawal,
		},
		{
			name: "amount before signature",
			mutate: func(r *deposit.Record) {
				r.Amount = 33_000_000_000
			},
			status: deposit.StatusInvalid,
			reason: deposit.ReasonAmount,
		},
		{
			name: "signature before root",
			mutate: func(r *deposit.Record) {
				r.Amount = 31_000_000_000
			},
			status: deposit.StatusInvalid,
			reason: deposit.ReasonSignature,
		},
		{
			name: "root",
			mutate: func(r *deposit.Record) {
				r.DepositDataRoot[0] ^= 0xff
			},
			status: deposit.StatusInvalid,
			reason: deposit.ReasonDepositRoot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := holeskyRecord(t)
			tt.mutate(record)

			outcome := v.Check(record, expected)
			assert.Equal(t, tt.status, outcome.Status)
			assert.Equal(t, tt.reason, outcome.Reason)
			assert.NoError(t, outcome.Err)
		})
	}
}

func TestCheckMissingInputs(t *testing.T) {
	v := deposit.NewValidator(mustParams(t, "holesky"))

	outcome := v.Check(nil, eth1Credential(t, holeskyPubkey))
	assert.Equal(t, deposit.StatusMalformed, outcome.Status)
	assert.Error(t, outcome.Err)

	outcome = v.Check(holeskyRecord(t), nil)
	assert.Equal(t, deposit.StatusMalformed, outcome.Status)
	assert.Error(t, outcome.Err)
}

func TestCheckCapabilityFailure(t *testing.T) {
	p := mustParams(t, "holesky")

	// Not a point on the curve.
	invalidPubkey := bytes.Repeat([]byte{0xAA}, deposit.PubkeyLength)

	for name, verifier := range map[string]deposit.Verifier{
		"prysm": deposit.BLSVerifier{},
		"blst":  deposit.BlstVerifier{},
	} {
		t.Run(name, func(t *testing.T) {
			v := deposit.NewValidator(p, deposit.WithVerifier(verifier))

			record := holeskyRecord(t)
			record.Pubkey = invalidPubkey

			expected := eth1Credential(t, holeskyPubkey)
			expected.SigningPubkey = invalidPubkey

			outcome := v.Check(record, expected)
			assert.Equal(t, deposit.StatusFailed, outcome.Status)
			assert.Equal(t, deposit.ReasonSignature, outcome.Reason)
			assert.Error(t, outcome.Err)

			ok, err := v.ValidateDeposit(record, expected)
			assert.False(t, ok)
			assert.Error(t, err)
		})
	}

	t.Run("verifier error", func(t *testing.T) {
		boom := errors.New("boom")
		v := deposit.NewValidator(p, deposit.WithVerifier(deposit.VerifierFunc(func(_, _, _ []byte) (bool, error) {
			return false, boom
		})))

		ok, err := v.ValidateDeposit(holeskyRecord(t), eth1Credential(t, holeskyPubkey))
		assert.False(t, ok)
		assert.ErrorIs(t, err, boom)
	})
}

func TestValidateDepositAgreesWithPrysm(t *testing.T) {
	v := deposit.NewValidator(mustParams(t, "mainnet"))

	for i := 0; i < 5; i++ {
		record, expected := blsDeposit(t, v, v.Params().MaxDepositAmount)

		ok, err := v.ValidateDeposit(record, expected)
		require.NoError(t, err)
		assert.True(t, ok)

		domain, err := signing.ComputeDomain(params.BeaconConfig().DomainDeposit, record.ForkVersion[:], nil)
		require.NoError(t, err)

		dd := &ethpb.Deposit_Data{
			PublicKey:             record.Pubkey,
			WithdrawalCredentials: record.WithdrawalCredentials,
			Amount:                record.Amount,
			Signature:             record.Signature,
		}
		require.NoError(t, prysmdeposit.VerifyDepositSignature(dd, domain))

		root, err := dd.HashTreeRoot()
		require.NoError(t, err)
		assert.Equal(t, root, record.DepositDataRoot)
	}
}

func TestWithHashFunc(t *testing.T) {
	calls := 0
	v := deposit.NewValidator(mustParams(t, "holesky"), deposit.WithHashFunc(func(b []byte) [32]byte {
		calls++

		return deposit.DefaultHash(b)
	}))

	ok, err := v.ValidateDeposit(holeskyRecord(t), eth1Credential(t, holeskyPubkey))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Positive(t, calls)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "valid", deposit.StatusValid.String())
	assert.Equal(t, "invalid", deposit.StatusInvalid.String())
	assert.Equal(t, "malformed", deposit.StatusMalformed.String())
	assert.Equal(t, "failed", deposit.StatusFailed.String())
	assert.Equal(t, "unknown", deposit.Status(42).String())
}
