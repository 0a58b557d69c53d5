package entity

// FetchResult is the observed state of a domain's homepage. All text fields
// are lowercased so rules can match with plain substring search.
type FetchResult struct {
	Domain        string
	FinalURL      string
	StatusCode    int
	RedirectChain []int
	Title         string
	BodyText      string
	RawHTML       string
	TagCounts     map[string]int
}

// Count returns the number of elements with the given tag name
func (r *FetchResult) Count(tag string) int {
	if r.TagCounts == nil {
		return 0
	}
	return r.TagCounts[tag]
}
