package model

// Identity is one normalized mail participant. A nil field means the
// header carried no value at all, which is distinct from an empty
// string: downstream joins key on (name, address, presence).
type Identity struct {
	Name *string
	Addr *string
}

// String renders an identity for log output.
func (id Identity) String() string {
	name, addr := "-", "-"
	if id.Name != nil {
		name = *id.Name
	}
	if id.Addr != nil {
		addr = *id.Addr
	}
	return "[" + name + ", " + addr + "]"
}

// Equal reports whether two identities have the same fields with the
// same presence.
func (id Identity) Equal(other Identity) bool {
	return eqPtr(id.Name, other.Name) && eqPtr(id.Addr, other.Addr)
}

func eqPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// RawMessage is one undecoded RFC-822 blob fetched from the archive
// server. The (MailingList, UIDValidity, UID) triple is the stable key:
// UIDValidity changes when the remote folder is recreated, invalidating
// earlier UID assignments, so UID alone is not sufficient.
type RawMessage struct {
	MailingList string
	UIDValidity uint32
	UID         uint32
	Data        []byte
}

// MessageRecord is the canonical, normalized output for one message.
// It is constructed once per RawMessage and never updated in place.
// Date is a UTC timestamp in "YYYY-MM-DD HH:MM:SS" form, chosen so the
// column sorts lexicographically without a native timestamp type.
type MessageRecord struct {
	MailingList string
	UIDValidity uint32
	UID         uint32
	From        Identity
	To          []Identity
	Cc          []Identity
	Subject     *string
	Date        *string
	MessageID   *string
	InReplyTo   *string
	Raw         []byte
}

// Sentinel extremes for folder date ranges. A folder with zero dated
// messages keeps these values instead of computing min/max over an
// empty set.
const (
	FirstDateSentinel = "2038-01-19 03:14:07"
	LastDateSentinel  = "1970-01-01 00:00:00"
)

// FolderSummary accumulates per-folder statistics while messages of
// one mailing list are processed.
type FolderSummary struct {
	MailingList string
	MsgCount    int
	FirstDate   string
	LastDate    string
}

// NewFolderSummary returns a summary primed with the sentinel date
// extremes for the given list.
func NewFolderSummary(mailingList string) FolderSummary {
	return FolderSummary{
		MailingList: mailingList,
		FirstDate:   FirstDateSentinel,
		LastDate:    LastDateSentinel,
	}
}

// Observe folds one record into the summary. Absent dates count the
// message but leave the date range untouched. The fixed-format UTC
// date strings compare correctly as plain strings.
func (s *FolderSummary) Observe(rec MessageRecord) {
	s.MsgCount++
	if rec.Date == nil {
		return
	}
	if *rec.Date < s.FirstDate {
		s.FirstDate = *rec.Date
	}
	if *rec.Date > s.LastDate {
		s.LastDate = *rec.Date
	}
}
