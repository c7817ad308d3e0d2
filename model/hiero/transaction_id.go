package hiero

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/atomic"

	"github.com/ledgerworks/hashgraph-go/utils/rand"
)

const (
	// clockSkew moves generated valid starts into the past so that nodes with a
	// slightly slower clock still accept them.
	clockSkew = 10 * time.Second

	// minValidStartStep is the minimum distance between two consecutive
	// generated valid starts. Jitter is always smaller than this.
	minValidStartStep = int64(1000)
)

// monotonicTime holds the last valid start handed out, in unix nanoseconds.
var monotonicTime = atomic.NewInt64(0)

// TransactionID identifies a transaction by its payer and the time from which
// it is valid. The payer and valid start never change once the ID is created.
// Scheduled and Nonce are only set when reconstructing scheduled or child
// transactions.
type TransactionID struct {
	accountID  *AccountID
	validStart *time.Time

	Scheduled bool
	Nonce     *int32
}

// NewTransactionID returns an ID for payer valid from validStart.
func NewTransactionID(payer AccountID, validStart time.Time) TransactionID {
	return TransactionID{accountID: &payer, validStart: &validStart}
}

// GenerateTransactionID returns a new ID for payer. Valid starts returned by
// this function strictly increase across all goroutines of the process, even
// if the wall clock goes backwards.
func GenerateTransactionID(payer AccountID) TransactionID {
	return NewTransactionID(payer, nextValidStart())
}

func nextValidStart() time.Time {
	for {
		last := monotonicTime.Load()
		current := time.Now().Add(-clockSkew).UnixNano()
		if current < last+minValidStartStep {
			current = last + minValidStartStep
		}
		if !monotonicTime.CompareAndSwap(last, current) {
			continue
		}

		jitter, err := rand.Uint64n(uint64(minValidStartStep))
		if err != nil {
			jitter = 0
		}
		return time.Unix(0, current+int64(jitter)).UTC()
	}
}

// AccountID returns the payer account, if set.
func (id TransactionID) AccountID() (AccountID, bool) {
	if id.accountID == nil {
		return AccountID{}, false
	}
	return *id.accountID, true
}

// ValidStart returns the valid start timestamp, if set.
func (id TransactionID) ValidStart() (time.Time, bool) {
	if id.validStart == nil {
		return time.Time{}, false
	}
	return *id.validStart, true
}

// IsZero returns whether neither payer nor valid start are set.
func (id TransactionID) IsZero() bool {
	return id.accountID == nil && id.validStart == nil
}

// WithScheduled returns a copy of the ID with the scheduled flag set.
func (id TransactionID) WithScheduled(scheduled bool) TransactionID {
	id.Scheduled = scheduled
	return id
}

// WithNonce returns a copy of the ID with the given nonce.
func (id TransactionID) WithNonce(nonce int32) TransactionID {
	id.Nonce = &nonce
	return id
}

// Add returns a copy of the ID whose valid start is moved by d.
// IDs without a valid start are returned unchanged.
func (id TransactionID) Add(d time.Duration) TransactionID {
	if id.validStart == nil {
		return id
	}
	next := id.validStart.Add(d)
	id.validStart = &next
	return id
}

// ParseTransactionID parses `{account}@{seconds}.{nanos}[?scheduled][/nonce]`.
func ParseTransactionID(s string) (TransactionID, error) {
	var nonce *int32
	rest := s
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		n, err := strconv.ParseInt(rest[i+1:], 10, 32)
		if err != nil {
			return TransactionID{}, fmt.Errorf("%w: transaction ID %q has invalid nonce: %v", ErrInvalidFormat, s, err)
		}
		v := int32(n)
		nonce = &v
		rest = rest[:i]
	}

	scheduled := false
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		if rest[i+1:] != "scheduled" {
			return TransactionID{}, fmt.Errorf("%w: transaction ID %q has unknown suffix %q", ErrInvalidFormat, s, rest[i+1:])
		}
		scheduled = true
		rest = rest[:i]
	}

	parts := strings.Split(rest, "@")
	if len(parts) != 2 {
		return TransactionID{}, fmt.Errorf("%w: transaction ID %q should look like {account}@{seconds}.{nanos}[?scheduled][/nonce]", ErrInvalidFormat, s)
	}

	account, err := ParseAccountID(parts[0])
	if err != nil {
		return TransactionID{}, fmt.Errorf("could not parse payer of transaction ID %q: %w", s, err)
	}

	startParts := strings.Split(parts[1], ".")
	if len(startParts) != 2 {
		return TransactionID{}, fmt.Errorf("%w: transaction ID %q should look like {account}@{seconds}.{nanos}[?scheduled][/nonce]", ErrInvalidFormat, s)
	}
	seconds, err := strconv.ParseInt(startParts[0], 10, 64)
	if err != nil {
		return TransactionID{}, fmt.Errorf("%w: transaction ID %q has invalid seconds: %v", ErrInvalidFormat, s, err)
	}
	nanos, err := strconv.ParseInt(startParts[1], 10, 64)
	if err != nil {
		return TransactionID{}, fmt.Errorf("%w: transaction ID %q has invalid nanos: %v", ErrInvalidFormat, s, err)
	}

	id := NewTransactionID(account, time.Unix(seconds, nanos).UTC())
	id.Scheduled = scheduled
	id.Nonce = nonce
	return id, nil
}

// String formats the ID. Payers in shard and realm 0 are written as their
// bare account number.
func (id TransactionID) String() string {
	return id.format(id.accountString())
}

// StringWithChecksum formats the ID with the payer checksum for ledger.
func (id TransactionID) StringWithChecksum(ledger LedgerID) string {
	if id.accountID == nil {
		return id.String()
	}
	return id.format(id.accountID.StringWithChecksum(ledger))
}

func (id TransactionID) accountString() string {
	if id.accountID == nil {
		return "unset"
	}
	if id.accountID.Shard == 0 && id.accountID.Realm == 0 {
		return strconv.FormatInt(id.accountID.Num, 10)
	}
	return id.accountID.String()
}

func (id TransactionID) format(account string) string {
	var b strings.Builder
	b.WriteString(account)
	b.WriteByte('@')
	if id.validStart == nil {
		b.WriteString("unset")
	} else {
		fmt.Fprintf(&b, "%d.%09d", id.validStart.Unix(), id.validStart.Nanosecond())
	}
	if id.Scheduled {
		b.WriteString("?scheduled")
	}
	if id.Nonce != nil {
		fmt.Fprintf(&b, "/%d", *id.Nonce)
	}
	return b.String()
}

// ValidateChecksum validates the payer checksum against ledger.
func (id TransactionID) ValidateChecksum(ledger LedgerID) error {
	if id.accountID == nil {
		return nil
	}
	return id.accountID.ValidateChecksum(ledger)
}

// Equal reports whether both IDs have the same payer, valid start, scheduled
// flag and nonce.
func (id TransactionID) Equal(other TransactionID) bool {
	if id.Compare(other) != 0 {
		return false
	}
	if (id.Nonce == nil) != (other.Nonce == nil) {
		return false
	}
	return id.Nonce == nil || *id.Nonce == *other.Nonce
}

// Compare orders IDs by scheduled flag (scheduled last), then payer, then
// valid start. Unset payers and valid starts order before set ones.
func (id TransactionID) Compare(other TransactionID) int {
	if id.Scheduled != other.Scheduled {
		if id.Scheduled {
			return 1
		}
		return -1
	}

	switch {
	case id.accountID == nil && other.accountID != nil:
		return -1
	case id.accountID != nil && other.accountID == nil:
		return 1
	case id.accountID != nil:
		if c := id.accountID.Compare(*other.accountID); c != 0 {
			return c
		}
	}

	switch {
	case id.validStart == nil && other.validStart != nil:
		return -1
	case id.validStart != nil && other.validStart == nil:
		return 1
	case id.validStart != nil:
		return id.validStart.Compare(*other.validStart)
	}
	return 0
}
