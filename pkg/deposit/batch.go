package deposit

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrLengthMismatch is returned when the deposits and credentials of a batch cannot be
// paired one to one.
var ErrLengthMismatch = errors.New("deposit and credential counts differ")

// Report holds the outcome of every deposit of a batch, in input order.
type Report struct {
	Outcomes []Outcome
}

// Valid reports whether every deposit of the batch is valid.
func (r *Report) Valid() bool {
	for _, o := range r.Outcomes {
		if !o.Valid() {
			return false
		}
	}

	return true
}

// Count returns the number of outcomes with the given status.
func (r *Report) Count(status Status) int {
	n := 0

	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}

	return n
}

// Err returns the first outcome error of the batch, annotated with its index.
func (r *Report) Err() error {
	for i, o := range r.Outcomes {
		if o.Err != nil {
			return errors.Wrapf(o.Err, "deposit %d %s", i, o.Status)
		}
	}

	return nil
}

// VerifyAll reports whether every record is valid for the credential at the same position.
// An error is returned when the sequences differ in length or when a record could not be
// checked at all, either because it is missing or because a cryptographic primitive failed.
func (v *Validator) VerifyAll(records []*Record, credentials []*ExpectedCredential) (bool, error) {
	entries := make([]*ParsedData, len(records))
	for i, r := range records {
		entries[i] = &ParsedData{Record: r}
	}

	report, err := v.VerifyBatch(entries, credentials, 1)
	if err != nil {
		return false, err
	}

	return report.Valid(), report.Err()
}

// VerifyBatch checks every entry against the credential at the same position on
// numWorkers goroutines. Entries that failed to decode are reported as malformed.
func (v *Validator) VerifyBatch(entries []*ParsedData, credentials []*ExpectedCredential, numWorkers int) (*Report, error) {
	if len(entries) != len(credentials) {
		return nil, errors.Wrapf(ErrLengthMismatch, "%d deposits, %d credentials", len(entries), len(credentials))
	}

	if numWorkers < 1 {
		numWorkers = 1
	}

	outcomes := make([]Outcome, len(entries))

	if len(entries) > 0 {
		tasks := make(chan checkTask, len(entries))
		for i := range entries {
			tasks <- checkTask{
				index:    i,
				entry:    entries[i],
				expected: credentials[i],
			}
		}

		close(tasks)

		v.processCheckTasks(tasks, outcomes, numWorkers)
	}

	report := &Report{Outcomes: outcomes}

	log.WithFields(logrus.Fields{
		"total":     len(outcomes),
		"valid":     report.Count(StatusValid),
		"invalid":   report.Count(StatusInvalid),
		"malformed": report.Count(StatusMalformed),
		"failed":    report.Count(StatusFailed),
	}).Debug("Batch verified")

	return report, nil
}
