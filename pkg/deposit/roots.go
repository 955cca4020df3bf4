package deposit

import (
	"encoding/hex"
	"strings"
)

// Roots are the hashes derived from a deposit record.
type Roots struct {
	DepositMessageRoot [32]byte
	DepositDataRoot    [32]byte
	Domain             Domain
	SigningRoot        [32]byte
}

// Roots recomputes the message, data and signing roots of record under the record's
// claimed fork version.
func (v *Validator) Roots(record *Record) *Roots {
	message := record.Message()
	domain := ComputeDomain(v.hasher, v.params.DomainDeposit, record.ForkVersion)

	return &Roots{
		DepositMessageRoot: message.HashTreeRoot(v.hasher),
		DepositDataRoot:    record.Data().HashTreeRoot(v.hasher),
		Domain:             domain,
		SigningRoot:        ComputeSigningRoot(v.hasher, message, domain),
	}
}

// MatchesClaimed reports whether the recomputed roots equal the roots written in d. An
// empty deposit_message_root is not compared, older deposit files do not carry it.
func (r *Roots) MatchesClaimed(d *Deposit) (messageRoot, dataRoot bool) {
	claimedMessage := strings.TrimPrefix(d.DepositMessageRoot, "0x")
	messageRoot = claimedMessage == "" || strings.EqualFold(claimedMessage, hex.EncodeToString(r.DepositMessageRoot[:]))
	dataRoot = strings.EqualFold(strings.TrimPrefix(d.DepositDataRoot, "0x"), hex.EncodeToString(r.DepositDataRoot[:]))

	return messageRoot, dataRoot
}
