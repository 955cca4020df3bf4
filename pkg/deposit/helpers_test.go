package deposit_test

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prysmaticlabs/prysm/v5/crypto/bls"
	"github.com/stretchr/testify/require"

	"github.com/ethpandaops/deposit-verifier/pkg/deposit"
)

// Deposits generated by staking-deposit-cli for holesky and mainnet with the same keys.
const (
	holeskyPubkey      = "a63bffb2b9be4830811150bdaefd904d32aad8a09998aa9bc836cda7cbab97c594293b995199afe659560ee7a930149d"
	secondPubkey       = "83e8519e3c69669c1141ef7a5e66c710c67ab52cc6f57c4ee35200c35154daa3cdc18bc52a47ef6c5900df29aedcf302"
	eth1Credentials    = "0100000000000000000000004124cd4a34790c0da4cbcdd89f536b9508b8bc41"
	eth1Address        = "0x4124cd4a34790c0da4cbcdd89f536b9508b8bc41"
	depositAmount      = uint64(32000000000)
	holeskySignature   = "93f06f7867b898a807d9425c2e647bebcf23bc16adca708ae54958949aced24acd4ccb813b04bb9a431fd6df437f689614246109b008eadafc444f2bd5f0323005b77f4c2810f9e3630a91ffc5859bd2a92ee84aeb97b352e5e2f1f90cf84aca"
	holeskyMessageRoot = "7fe71257fdc44d492ba5c46ee4a3c8692fecfdfb3377abacd93e3b540fe7acbb"
	holeskyDataRoot    = "422b4b4ec62d367ce42e0ae98b6b8a1351a480cce3b2e31ac6c3fe205827db3f"
	holeskyForkVersion = "01017000"
	mainnetSignature   = "913b0070abb6f772c4c4533a921865617fe949cf34caef892e5ce7d516ea1be3e5e401a26744dab0310bdf59f77a1f12186ac3d1aae342a00a6f0090b94c98f69481e1a7f3cb45a1cb794607aa8f65b752cd40e97c0767be3585308f1b9e5ef2"
	mainnetDataRoot    = "a3b7db7d5bb99bc7591e42d9d24a69ba3591a292faac4cddfecf4af780235a0e"
	mainnetForkVersion = "00000000"
	secondHoleskySig   = "aedf8d96a3a88d50249925b765ff8ea29ae621e01f2da05f733e08aeea8644204ae6e90756c160f4c172140e67cf57640201401961b4d8d76276400b07ad242e4feb185db90ffe4a84589b8ff57874b27117dd988b25684cf86ae185e9ecf5a7"
	secondHoleskyRoot  = "c70451a6a86e3623d2cbc0ffd2586f8d0033ab8cc198286def319e2a42ea5664"
	secondMessageRoot  = "ecf288cca52578464f4f94caa42650d8d8a6b6ad7ef99c4851f4da7ef807ef7b"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()

	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	require.NoError(t, err)

	return b
}

func uint64Ptr(v uint64) *uint64 {
	return &v
}

func mustParams(t *testing.T, network string) *deposit.Params {
	t.Helper()

	p, err := deposit.ParamsForNetwork(network)
	require.NoError(t, err)

	return p
}

func newRecord(t *testing.T, pubkey, signature, forkVersion, root string) *deposit.Record {
	t.Helper()

	r := &deposit.Record{
		Pubkey:                mustHex(t, pubkey),
		WithdrawalCredentials: mustHex(t, eth1Credentials),
		Amount:                depositAmount,
		Signature:             mustHex(t, signature),
	}

	copy(r.ForkVersion[:], mustHex(t, forkVersion))
	copy(r.DepositDataRoot[:], mustHex(t, root))

	return r
}

func holeskyRecord(t *testing.T) *deposit.Record {
	return newRecord(t, holeskyPubkey, holeskySignature, holeskyForkVersion, holeskyDataRoot)
}

func mainnetRecord(t *testing.T) *deposit.Record {
	return newRecord(t, holeskyPubkey, mainnetSignature, mainnetForkVersion, mainnetDataRoot)
}

func eth1Credential(t *testing.T, pubkey string) *deposit.ExpectedCredential {
	t.Helper()

	address := common.HexToAddress(eth1Address)

	return &deposit.ExpectedCredential{
		SigningPubkey: mustHex(t, pubkey),
		Mode:          deposit.WithdrawalModeETH1Address,
		ETH1Address:   &address,
	}
}

func cloneRecord(r *deposit.Record) *deposit.Record {
	c := *r
	c.Pubkey = append([]byte(nil), r.Pubkey...)
	c.WithdrawalCredentials = append([]byte(nil), r.WithdrawalCredentials...)
	c.Signature = append([]byte(nil), r.Signature...)

	return &c
}

// fakeSign is a stand-in signature scheme: the first 32 bytes of the signature are
// sha256(pubkey || message), the rest is zero.
func fakeSign(pubkey, message []byte) []byte {
	digest := sha256.Sum256(append(append([]byte(nil), pubkey...), message...))

	sig := make([]byte, deposit.SignatureLength)
	copy(sig, digest[:])

	return sig
}

var fakeVerifier = deposit.VerifierFunc(func(pubkey, message, signature []byte) (bool, error) {
	return string(fakeSign(pubkey, message)) == string(signature), nil
})

// signRecord builds a consistent deposit for expected, signing with sign.
func signRecord(t *testing.T, v *deposit.Validator, expected *deposit.ExpectedCredential, amount uint64, sign func(message []byte) []byte) *deposit.Record {
	t.Helper()

	creds, ok := v.WithdrawalCredentials(expected)
	require.True(t, ok)

	record := &deposit.Record{
		Pubkey:                append([]byte(nil), expected.SigningPubkey...),
		WithdrawalCredentials: creds,
		Amount:                amount,
		ForkVersion:           v.Params().GenesisForkVersion,
	}

	domain := deposit.ComputeDomain(v.Hasher(), v.Params().DomainDeposit, record.ForkVersion)
	signingRoot := deposit.ComputeSigningRoot(v.Hasher(), record.Message(), domain)

	record.Signature = sign(signingRoot[:])
	record.DepositDataRoot = record.Data().HashTreeRoot(v.Hasher())

	return record
}

// fakeDeposit returns a deposit signed with fakeSign for a synthetic pubkey.
func fakeDeposit(t *testing.T, v *deposit.Validator, seed byte, amount uint64) (*deposit.Record, *deposit.ExpectedCredential) {
	t.Helper()

	pubkey := make([]byte, deposit.PubkeyLength)
	for i := range pubkey {
		pubkey[i] = seed
	}

	withdrawalPubkey := make([]byte, deposit.PubkeyLength)
	withdrawalPubkey[0] = seed

	expected := &deposit.ExpectedCredential{
		SigningPubkey:    pubkey,
		WithdrawalPubkey: withdrawalPubkey,
		Mode:             deposit.WithdrawalModeBLS,
	}

	record := signRecord(t, v, expected, amount, func(message []byte) []byte {
		return fakeSign(pubkey, message)
	})

	return record, expected
}

// blsDeposit returns a deposit signed with a fresh BLS key.
func blsDeposit(t *testing.T, v *deposit.Validator, amount uint64) (*deposit.Record, *deposit.ExpectedCredential) {
	t.Helper()

	signingKey, err := bls.RandKey()
	require.NoError(t, err)

	withdrawalKey, err := bls.RandKey()
	require.NoError(t, err)

	expected := &deposit.ExpectedCredential{
		SigningPubkey:    signingKey.PublicKey().Marshal(),
		WithdrawalPubkey: withdrawalKey.PublicKey().Marshal(),
		Mode:             deposit.WithdrawalModeBLS,
	}

	record := signRecord(t, v, expected, amount, func(message []byte) []byte {
		return signingKey.Sign(message).Marshal()
	})

	return record, expected
}
