package entity

// AuthorRef is the author attribution embedded in catalog records.
type AuthorRef struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// AggregateRating is the server-computed rating summary for a work.
// It is display-only on the client and is never merged with locally
// derived figures.
type AggregateRating struct {
	Average   float64     `json:"average"`
	Count     int         `json:"count"`
	Breakdown map[int]int `json:"breakdown,omitempty"` // star (1..5) -> count
}

type Book struct {
	WorkKey     string           `json:"work_key"`
	Title       string           `json:"title"`
	Authors     []AuthorRef      `json:"authors"`
	CoverURL    string           `json:"cover_url,omitempty"`
	Subjects    []string         `json:"subjects,omitempty"`
	Description string           `json:"description,omitempty"`
	Rating      *AggregateRating `json:"rating,omitempty"`
}

// AuthorNames lists the author display names in catalog order.
func (b Book) AuthorNames() []string {
	names := make([]string, 0, len(b.Authors))
	for _, a := range b.Authors {
		names = append(names, a.Name)
	}
	return names
}

// BookDetail is the book page read model: catalog metadata plus the
// reviews visible to the requesting user.
type BookDetail struct {
	Book    Book     `json:"book"`
	Reviews []Review `json:"reviews"`
}

type TrendingBook struct {
	Book  Book `json:"book"`
	Count int  `json:"count"`
}
