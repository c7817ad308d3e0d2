package hiero

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var entityIDPattern = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-([a-z]{5}))?$`)

const (
	checksumP3     = 26 * 26 * 26
	checksumP5     = 26 * 26 * 26 * 26 * 26
	checksumWeight = 31
	// smallest prime above one million, used for the final permutation
	checksumPrime = 1_000_003
)

// entityNum is the shard.realm.num triple shared by every entity ID kind.
type entityNum struct {
	shard int64
	realm int64
	num   int64
}

// parseEntityNum parses `shard.realm.num` with an optional `-checksum` suffix.
// A bare `num` is accepted as shorthand for `0.0.num`.
func parseEntityNum(s string) (entityNum, string, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && n >= 0 {
		return entityNum{num: n}, "", nil
	}

	match := entityIDPattern.FindStringSubmatch(s)
	if match == nil {
		return entityNum{}, "", fmt.Errorf("%w: entity ID %q should look like 0.0.123 or 0.0.123-vfmkw", ErrInvalidFormat, s)
	}

	var parts [3]int64
	for i := range parts {
		v, err := strconv.ParseInt(match[i+1], 10, 64)
		if err != nil {
			return entityNum{}, "", fmt.Errorf("%w: entity ID %q: %v", ErrInvalidFormat, s, err)
		}
		parts[i] = v
	}

	return entityNum{shard: parts[0], realm: parts[1], num: parts[2]}, match[4], nil
}

func (e entityNum) String() string {
	return fmt.Sprintf("%d.%d.%d", e.shard, e.realm, e.num)
}

func (e entityNum) compare(other entityNum) int {
	switch {
	case e.shard != other.shard:
		return cmpInt64(e.shard, other.shard)
	case e.realm != other.realm:
		return cmpInt64(e.realm, other.realm)
	default:
		return cmpInt64(e.num, other.num)
	}
}

// validate checks present against the checksum of e on ledger. An empty
// checksum always passes.
func (e entityNum) validate(ledger LedgerID, present string) error {
	if present == "" {
		return nil
	}
	expected := Checksum(ledger, e.String())
	if expected != present {
		return NewBadChecksumError(e.String(), expected, present)
	}
	return nil
}

// Checksum computes the five letter checksum of the address `shard.realm.num`
// for the given ledger.
func Checksum(ledger LedgerID, addr string) string {
	var s0, s1, s, sh int64

	for i, r := range addr {
		d := int64(10)
		if r != '.' {
			d = int64(r - '0')
		}
		s = (checksumWeight*s + d) % checksumP3
		if i%2 == 0 {
			s0 = (s0 + d) % 11
		} else {
			s1 = (s1 + d) % 11
		}
	}

	h := append(ledger.Bytes(), make([]byte, 6)...)
	for _, b := range h {
		sh = (checksumWeight*sh + int64(b)) % checksumP5
	}

	c := ((((int64(len(addr))%5)*11+s0)*11+s1)*checksumP3 + s + sh) % checksumP5
	c = (c * checksumPrime) % checksumP5

	answer := make([]byte, 5)
	for i := 4; i >= 0; i-- {
		answer[i] = byte('a' + c%26)
		c /= 26
	}
	return string(answer)
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func formatWithChecksum(e entityNum, ledger LedgerID) string {
	var b strings.Builder
	b.WriteString(e.String())
	b.WriteByte('-')
	b.WriteString(Checksum(ledger, e.String()))
	return b.String()
}
