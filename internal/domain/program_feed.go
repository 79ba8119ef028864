package domain

// FeedTimeLayout is the zone-less local timestamp format Sessionize uses for startsAt/endsAt.
const FeedTimeLayout = "2006-01-02T15:04:05"

// ProgramFeedResponse is the Sessionize "All" API response shape, reduced to what a program import reads.
type ProgramFeedResponse struct {
	Sessions []ProgramFeedSession `json:"sessions"`
	Speakers []ProgramFeedSpeaker `json:"speakers"`
}

// ProgramFeedSession is a session in the feed. StartsAt and EndsAt are event-local wall clock (FeedTimeLayout).
type ProgramFeedSession struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	StartsAt string   `json:"startsAt"`
	EndsAt   string   `json:"endsAt"`
	Speakers []string `json:"speakers"`
}

// ProgramFeedSpeaker is a speaker in the feed.
type ProgramFeedSpeaker struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	FullName  string `json:"fullName"`
}
