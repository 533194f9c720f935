package query

// Op enumerates the comparison operators accepted by Where clauses.
type Op string

const (
	Eq  Op = "eq"
	Ne  Op = "ne"
	Gt  Op = "gt"
	Gte Op = "gte"
	Lt  Op = "lt"
	Lte Op = "lte"
	// In matches when the field equals any candidate; Nin when it equals
	// none.
	In  Op = "in"
	Nin Op = "nin"
	// Contains matches substrings on string fields and membership on list
	// fields.
	Contains Op = "contains"
	// Exists checks key presence; the comparison value is a bool.
	Exists Op = "exists"
)

// Direction orders sort clauses.
type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

func validOp(op Op) bool {
	switch op {
	case Eq, Ne, Gt, Gte, Lt, Lte, In, Nin, Contains, Exists:
		return true
	}
	return false
}
