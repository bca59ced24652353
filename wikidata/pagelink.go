package wikidata

// PageLink is a bit-packed directed edge record: an ArticleID in the upper
// 30 bits and two direction flags in the low bits. Bit 0 set means the edge
// is outgoing from the owning article; bit 1 set means incoming.
//
// The flags deliberately sit in the low bits, not the high ones. A probe key
// of target<<2 has zero flag bits, so locating any record for a given
// target, regardless of that record's own flags, reduces to an ordinary
// integer lower_bound on the full 32-bit word. Putting the flags high would
// require masking on every comparison during the binary search.
type PageLink uint32

const (
	flagOutgoing PageLink = 1 << 0
	flagIncoming PageLink = 1 << 1
	flagBits              = 2
)

func newPageLink(target ArticleID, outgoing, incoming bool) PageLink {
	p := PageLink(target) << flagBits
	if outgoing {
		p |= flagOutgoing
	}
	if incoming {
		p |= flagIncoming
	}
	return p
}

// Target returns the ArticleID this record points at.
func (p PageLink) Target() ArticleID { return ArticleID(p >> flagBits) }

// Outgoing reports whether this record encodes an edge leaving the owning
// article.
func (p PageLink) Outgoing() bool { return p&flagOutgoing != 0 }

// Incoming reports whether this record encodes an edge entering the owning
// article.
func (p PageLink) Incoming() bool { return p&flagIncoming != 0 }

// probeKey is the word used to locate any record for target via lower_bound,
// independent of that record's flag bits.
func probeKey(target ArticleID) PageLink { return PageLink(target) << flagBits }
