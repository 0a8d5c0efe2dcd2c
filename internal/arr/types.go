package arr

// History event types exposed by the v3 API.
const EventImported = 3

// HistoryRecord is one history row. DownloadID carries the torrent hash the
// manager recorded for the grab; Data.DroppedPath the source path of an
// import when the manager kept it.
type HistoryRecord struct {
	EventType   int         `json:"eventType"`
	DownloadID  string      `json:"downloadId"`
	SourceTitle string      `json:"sourceTitle"`
	Data        HistoryData `json:"data"`
}

type HistoryData struct {
	DroppedPath string `json:"droppedPath"`
}

type historyPage struct {
	Page         int             `json:"page"`
	PageSize     int             `json:"pageSize"`
	TotalRecords int             `json:"totalRecords"`
	Records      []HistoryRecord `json:"records"`
}

// Movie is a catalog entry of the movie manager.
type Movie struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Year      int        `json:"year"`
	HasFile   bool       `json:"hasFile"`
	MovieFile *MovieFile `json:"movieFile,omitempty"`
}

type MovieFile struct {
	ID   int64  `json:"id"`
	Path string `json:"path"`
}

// Series is a catalog entry of the series manager.
type Series struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Year  int    `json:"year"`
}

type Episode struct {
	ID            int64 `json:"id"`
	SeasonNumber  int   `json:"seasonNumber"`
	EpisodeNumber int   `json:"episodeNumber"`
	HasFile       bool  `json:"hasFile"`
	EpisodeFileID int64 `json:"episodeFileId"`
}

type EpisodeFile struct {
	ID   int64  `json:"id"`
	Path string `json:"path"`
}

type QualityProfile struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type RootFolder struct {
	ID   int64  `json:"id"`
	Path string `json:"path"`
}

// MovieLookup is a ranked search candidate with its canonical external id.
type MovieLookup struct {
	TMDBID int64  `json:"tmdbId"`
	Title  string `json:"title"`
	Year   int    `json:"year"`
}

// SeriesLookup is a ranked search candidate with its canonical external id.
type SeriesLookup struct {
	TVDBID int64  `json:"tvdbId"`
	Title  string `json:"title"`
	Year   int    `json:"year"`
}

// AddMovieRequest adds a movie under a root folder. Never retried.
type AddMovieRequest struct {
	TMDBID           int64           `json:"tmdbId"`
	Title            string          `json:"title"`
	Year             int             `json:"year"`
	QualityProfileID int64           `json:"qualityProfileId"`
	RootFolderPath   string          `json:"rootFolderPath"`
	Monitored        bool            `json:"monitored"`
	AddOptions       MovieAddOptions `json:"addOptions"`
}

type MovieAddOptions struct {
	SearchForMovie bool `json:"searchForMovie"`
}

// AddSeriesRequest adds a series under a root folder. Never retried.
type AddSeriesRequest struct {
	TVDBID           int64            `json:"tvdbId"`
	Title            string           `json:"title"`
	Year             int              `json:"year"`
	QualityProfileID int64            `json:"qualityProfileId"`
	RootFolderPath   string           `json:"rootFolderPath"`
	Monitored        bool             `json:"monitored"`
	AddOptions       SeriesAddOptions `json:"addOptions"`
}

type SeriesAddOptions struct {
	SearchForMissingEpisodes bool `json:"searchForMissingEpisodes"`
}
