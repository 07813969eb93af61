package domain

// AccessLevel is the permission tier a user holds for one board.
type AccessLevel string

const (
	AccessNone  AccessLevel = "none"
	AccessRead  AccessLevel = "read"
	AccessWrite AccessLevel = "write"
	AccessAdmin AccessLevel = "admin"
)

var accessRank = map[AccessLevel]int{
	AccessNone:  0,
	AccessRead:  1,
	AccessWrite: 2,
	AccessAdmin: 3,
}

// AtLeast reports whether l grants everything required grants.
func (l AccessLevel) AtLeast(required AccessLevel) bool {
	return accessRank[l] >= accessRank[required]
}

// CanEdit reports whether the level permits mutating board content
// (drawing, placing or moving images and emojis).
func (l AccessLevel) CanEdit() bool {
	return l == AccessWrite || l == AccessAdmin
}

// Valid reports whether the value is one of the known tiers.
func (l AccessLevel) Valid() bool {
	_, ok := accessRank[l]
	return ok
}
