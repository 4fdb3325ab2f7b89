package store

// Kind partitions the cache by read model. Staleness windows and scope
// clears are decided per kind.
type Kind string

const (
	KindBook         Kind = "book"
	KindAuthor       Kind = "author"
	KindSearch       Kind = "search"
	KindTrending     Kind = "trending"
	KindLibrary      Kind = "library"
	KindUserReviews  Kind = "userReviews"
	KindAdminReviews Kind = "adminReviews"
	KindAdminStats   Kind = "adminStats"
)

// userScoped marks the kinds that hold data belonging to the signed-in
// identity. They are wiped when that identity stops being trustworthy.
var userScoped = map[Kind]bool{
	KindLibrary:      true,
	KindUserReviews:  true,
	KindAdminReviews: true,
	KindAdminStats:   true,
}

// Key identifies one cache entry: the kind, the entity or scope id, and
// the canonical query parameters that shape the payload.
type Key struct {
	Kind   Kind
	ID     string
	Params string
}

func (k Key) String() string {
	s := string(k.Kind)
	if k.ID != "" {
		s += ":" + k.ID
	}
	if k.Params != "" {
		s += "?" + k.Params
	}
	return s
}

func BookKey(workKey, editionID string) Key {
	k := Key{Kind: KindBook, ID: workKey}
	if editionID != "" {
		k.Params = "edition=" + editionID
	}
	return k
}

func AuthorKey(authorKey string) Key {
	return Key{Kind: KindAuthor, ID: authorKey}
}

func SearchKey(params string) Key {
	return Key{Kind: KindSearch, Params: params}
}

func TrendingKey(period string) Key {
	return Key{Kind: KindTrending, ID: period}
}

func LibraryKey(userID, params string) Key {
	return Key{Kind: KindLibrary, ID: userID, Params: params}
}

func UserReviewsKey(userID string) Key {
	return Key{Kind: KindUserReviews, ID: userID}
}

func AdminReviewsKey(params string) Key {
	return Key{Kind: KindAdminReviews, Params: params}
}

func AdminStatsKey() Key {
	return Key{Kind: KindAdminStats}
}

// Predicate selects keys for invalidation.
type Predicate func(Key) bool

// ByKind matches every key of one kind, e.g. all moderation queue pages.
func ByKind(kind Kind) Predicate {
	return func(k Key) bool { return k.Kind == kind }
}

// ByKindID matches every parameter variant of one entity, e.g. a book
// under any edition.
func ByKindID(kind Kind, id string) Predicate {
	return func(k Key) bool { return k.Kind == kind && k.ID == id }
}

// ByExact matches a single key.
func ByExact(key Key) Predicate {
	want := key.String()
	return func(k Key) bool { return k.String() == want }
}
