package ytmusic

// Track is the catalog metadata exposed by this service.
type Track struct {
	ID        string
	Title     string
	Artist    string // first listed artist only
	Thumbnail string // highest-resolution thumbnail URL
}

// thumbnail is one entry of a track's thumbnail list, ordered smallest first.
type thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// artist is one credited artist of a track.
type artist struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// rawTrack is a song entry as returned by get_charts and search.
type rawTrack struct {
	VideoID    string      `json:"videoId"`
	Title      string      `json:"title"`
	Artists    []artist    `json:"artists"`
	Thumbnails []thumbnail `json:"thumbnails"`
}

// chartsResponse is the JSON response for get_charts.
type chartsResponse struct {
	Songs struct {
		Items []rawTrack `json:"items"`
	} `json:"songs"`
}

// apiError is the error body returned by the proxy.
type apiError struct {
	Detail string `json:"detail"`
}

// toTrack converts a raw catalog entry. The last thumbnail is taken as the
// largest and the first artist as the primary one; missing entries yield
// empty strings.
func (r rawTrack) toTrack() Track {
	track := Track{
		ID:    r.VideoID,
		Title: r.Title,
	}
	if len(r.Artists) > 0 {
		track.Artist = r.Artists[0].Name
	}
	if len(r.Thumbnails) > 0 {
		track.Thumbnail = r.Thumbnails[len(r.Thumbnails)-1].URL
	}
	return track
}

func toTracks(raw []rawTrack) []Track {
	tracks := make([]Track, len(raw))
	for i, r := range raw {
		tracks[i] = r.toTrack()
	}
	return tracks
}
