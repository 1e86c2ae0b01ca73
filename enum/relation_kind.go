package enum

type RelationKind string

const (
	RelationFriends RelationKind = "friends"
	RelationBlocked RelationKind = "blocked"
)

// Opposite returns the kind that must not hold at the same time.
func (k RelationKind) Opposite() RelationKind {
	if k == RelationFriends {
		return RelationBlocked
	}
	return RelationFriends
}

func (k RelationKind) Valid() bool {
	return k == RelationFriends || k == RelationBlocked
}
