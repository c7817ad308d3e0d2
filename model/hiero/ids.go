package hiero

// AccountID identifies an account. The zero value is account 0.0.0, which is
// also the reserved node slot used by inner batch transactions.
type AccountID struct {
	Shard int64
	Realm int64
	Num   int64

	checksum string
}

// ParseAccountID parses `shard.realm.num[-checksum]` or a bare account number.
func ParseAccountID(s string) (AccountID, error) {
	e, checksum, err := parseEntityNum(s)
	if err != nil {
		return AccountID{}, err
	}
	return AccountID{Shard: e.shard, Realm: e.realm, Num: e.num, checksum: checksum}, nil
}

// AccountIDFromNum returns the ID 0.0.num.
func AccountIDFromNum(num int64) AccountID {
	return AccountID{Num: num}
}

func (id AccountID) entity() entityNum {
	return entityNum{shard: id.Shard, realm: id.Realm, num: id.Num}
}

// String returns the ID without checksum.
func (id AccountID) String() string {
	return id.entity().String()
}

// StringWithChecksum returns the ID with the checksum computed for ledger.
func (id AccountID) StringWithChecksum(ledger LedgerID) string {
	return formatWithChecksum(id.entity(), ledger)
}

// Checksum returns the checksum the ID was parsed with, if any.
func (id AccountID) Checksum() string {
	return id.checksum
}

// ValidateChecksum fails if the ID was parsed with a checksum that does not
// belong to ledger.
func (id AccountID) ValidateChecksum(ledger LedgerID) error {
	return id.entity().validate(ledger, id.checksum)
}

// WithoutChecksum drops the parsed checksum so the ID can be used as a map key.
func (id AccountID) WithoutChecksum() AccountID {
	return AccountID{Shard: id.Shard, Realm: id.Realm, Num: id.Num}
}

// Equal compares shard, realm and num, ignoring any checksum.
func (id AccountID) Equal(other AccountID) bool {
	return id.entity() == other.entity()
}

func (id AccountID) Compare(other AccountID) int {
	return id.entity().compare(other.entity())
}

// TokenID identifies a fungible or non-fungible token.
type TokenID struct {
	Shard int64
	Realm int64
	Num   int64

	checksum string
}

func ParseTokenID(s string) (TokenID, error) {
	e, checksum, err := parseEntityNum(s)
	if err != nil {
		return TokenID{}, err
	}
	return TokenID{Shard: e.shard, Realm: e.realm, Num: e.num, checksum: checksum}, nil
}

func (id TokenID) entity() entityNum {
	return entityNum{shard: id.Shard, realm: id.Realm, num: id.Num}
}

func (id TokenID) String() string {
	return id.entity().String()
}

func (id TokenID) StringWithChecksum(ledger LedgerID) string {
	return formatWithChecksum(id.entity(), ledger)
}

func (id TokenID) ValidateChecksum(ledger LedgerID) error {
	return id.entity().validate(ledger, id.checksum)
}

func (id TokenID) Equal(other TokenID) bool {
	return id.entity() == other.entity()
}

func (id TokenID) Compare(other TokenID) int {
	return id.entity().compare(other.entity())
}

// TopicID identifies a consensus topic.
type TopicID struct {
	Shard int64
	Realm int64
	Num   int64

	checksum string
}

func ParseTopicID(s string) (TopicID, error) {
	e, checksum, err := parseEntityNum(s)
	if err != nil {
		return TopicID{}, err
	}
	return TopicID{Shard: e.shard, Realm: e.realm, Num: e.num, checksum: checksum}, nil
}

func (id TopicID) entity() entityNum {
	return entityNum{shard: id.Shard, realm: id.Realm, num: id.Num}
}

func (id TopicID) String() string {
	return id.entity().String()
}

func (id TopicID) ValidateChecksum(ledger LedgerID) error {
	return id.entity().validate(ledger, id.checksum)
}

func (id TopicID) Equal(other TopicID) bool {
	return id.entity() == other.entity()
}

// FileID identifies a file.
type FileID struct {
	Shard int64
	Realm int64
	Num   int64

	checksum string
}

func ParseFileID(s string) (FileID, error) {
	e, checksum, err := parseEntityNum(s)
	if err != nil {
		return FileID{}, err
	}
	return FileID{Shard: e.shard, Realm: e.realm, Num: e.num, checksum: checksum}, nil
}

func (id FileID) entity() entityNum {
	return entityNum{shard: id.Shard, realm: id.Realm, num: id.Num}
}

func (id FileID) String() string {
	return id.entity().String()
}

func (id FileID) ValidateChecksum(ledger LedgerID) error {
	return id.entity().validate(ledger, id.checksum)
}

func (id FileID) Equal(other FileID) bool {
	return id.entity() == other.entity()
}
