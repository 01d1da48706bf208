package types

import "time"

// ChangeDateLayout is the layout used to persist IPChangeRecord.ChangedAt
const ChangeDateLayout = "2006-01-02 15:04:05"

// PreviousAddress is the last recorded address, if there is one.
// The zero value means no address has been recorded yet.
type PreviousAddress struct {
	Address string
	Valid   bool
}

// NoPreviousAddress marks a store with no recorded address
var NoPreviousAddress = PreviousAddress{}

// Previous returns a PreviousAddress holding addr
func Previous(addr string) PreviousAddress {
	return PreviousAddress{Address: addr, Valid: true}
}

// Matches reports whether current is the recorded address.
// An absent previous address never matches.
func (p PreviousAddress) Matches(current string) bool {
	return p.Valid && p.Address == current
}

// String returns the address or "None" when absent
func (p PreviousAddress) String() string {
	if !p.Valid {
		return "None"
	}
	return p.Address
}

// IPChangeRecord represents a persisted address transition
type IPChangeRecord struct {
	ID         int64           `json:"id"`
	OldAddress PreviousAddress `json:"-"`
	NewAddress string          `json:"new_address"`
	ChangedAt  time.Time       `json:"changed_at"`
}

// IsFirst reports whether the record was written on the first ever check
func (r *IPChangeRecord) IsFirst() bool {
	return !r.OldAddress.Valid
}
