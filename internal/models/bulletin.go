package models

// Bulletin is one dated announcement scraped from the statistics portal's
// listing page. Bulletins are ephemeral: callers scan the batch for a
// matching title, extract the figure they need from the summary text, and
// discard the rest. Date keeps the portal's locale formatting.
type Bulletin struct {
	Date    string `json:"date"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Link    string `json:"link"`
}
