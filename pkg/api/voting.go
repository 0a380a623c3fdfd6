package api

type Week struct {
	ID         string `json:"id"`
	GroupID    string `json:"groupId"`
	WeekNumber int    `json:"weekNumber"`
	Year       int    `json:"year"`
	WeekStart  int64  `json:"weekStart"`
	WeekEnd    int64  `json:"weekEnd"`
	IsActive   bool   `json:"isActive"`
	CreatedAt  int64  `json:"createdAt"`
}

// CatalogTrack is a search result that can be submitted with AddTrack.
type CatalogTrack struct {
	CatalogID  string   `json:"catalogId"`
	Title      string   `json:"title"`
	Artists    []string `json:"artists"`
	AlbumName  string   `json:"albumName,omitempty"`
	ArtworkURL string   `json:"artworkUrl,omitempty"`
	PreviewURL string   `json:"previewUrl,omitempty"`
}

type Track struct {
	ID         string `json:"id"`
	WeekID     string `json:"weekId"`
	CatalogID  string `json:"catalogId"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album,omitempty"`
	ArtworkURL string `json:"artworkUrl,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
	AddedBy    string `json:"addedBy"`
	AddedAt    int64  `json:"addedAt"`
}

type Voter struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	Coins       int    `json:"coins"`
}

type Standing struct {
	Rank      int      `json:"rank"`
	Track     *Track   `json:"track"`
	VoteCount int      `json:"voteCount"`
	Voters    []*Voter `json:"voters"`
}

type Budget struct {
	Spent     int `json:"spent"`
	Remaining int `json:"remaining"`
	Max       int `json:"max"`
}

type Vote struct {
	ID      string `json:"id"`
	TrackID string `json:"trackId"`
	UserID  string `json:"userId"`
	WeekID  string `json:"weekId"`
	Coins   int    `json:"coins"`
	VotedAt int64  `json:"votedAt"`
}

// StartWeekRequest opens a new voting week. When WeekNumber, Year and the
// bounds are all zero, the current ISO week is used.
type StartWeekRequest struct {
	GroupID    string `json:"groupId"`
	WeekNumber int    `json:"weekNumber,omitempty"`
	Year       int    `json:"year,omitempty"`
	WeekStart  int64  `json:"weekStart,omitempty"`
	WeekEnd    int64  `json:"weekEnd,omitempty"`
}

type StartWeekResponse struct {
	Week *Week `json:"week"`
}

type CloseWeekRequest struct {
	GroupID string `json:"groupId"`
}

type CloseWeekResponse struct {
	Week *Week `json:"week"`
}

type GetActiveWeekRequest struct {
	GroupID string `json:"groupId"`
}

// GetActiveWeekResponse has a nil Week when no week is active.
type GetActiveWeekResponse struct {
	Week *Week `json:"week"`
}

type ListWeeksRequest struct {
	GroupID string `json:"groupId"`
}

type ListWeeksResponse struct {
	Weeks []*Week `json:"weeks"`
}

type SearchTracksRequest struct {
	Query string `json:"query"`
}

type SearchTracksResponse struct {
	Tracks []*CatalogTrack `json:"tracks"`
}

type AddTrackRequest struct {
	GroupID string        `json:"groupId"`
	Track   *CatalogTrack `json:"track"`
}

type AddTrackResponse struct {
	Track     *Track  `json:"track"`
	AutoVoted bool    `json:"autoVoted"`
	Budget    *Budget `json:"budget"`
}

type CastVoteRequest struct {
	GroupID string `json:"groupId"`
	TrackID string `json:"trackId"`
}

type CastVoteResponse struct {
	Vote   *Vote   `json:"vote"`
	Budget *Budget `json:"budget"`
}

type GetStandingsRequest struct {
	GroupID string `json:"groupId"`
}

// GetStandingsResponse has a nil Week and no standings when no week is active.
type GetStandingsResponse struct {
	Week      *Week       `json:"week"`
	Standings []*Standing `json:"standings"`
	Budget    *Budget     `json:"budget"`
}

type ListUnvotedTracksRequest struct {
	GroupID string `json:"groupId"`
}

type ListUnvotedTracksResponse struct {
	Tracks []*Track `json:"tracks"`
}

type GetCoinsRequest struct {
	GroupID string `json:"groupId"`
}

type GetCoinsResponse struct {
	Week   *Week   `json:"week"`
	Budget *Budget `json:"budget"`
}
