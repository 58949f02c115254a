package model

import "database/sql"

// Column limits of the tracks table.
const (
	TitleMaxLen    = 255
	AuthorMaxLen   = 255
	PathMaxLen     = 512
	PlaylistMaxLen = 255
	GenreMaxLen    = 100
)

// Track represents an audio track in the music library.
type Track struct {
	ID           int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Title        string  `json:"title" gorm:"size:255;not null"`
	Author       string  `json:"author" gorm:"size:255;not null"`
	Duration     int     `json:"duration" gorm:"not null"` // Duration in seconds
	ImagePath    *string `json:"imagePath" gorm:"size:512"`
	FilePath     string  `json:"filePath" gorm:"size:512;not null"` // Object key of the audio file
	Downloaded   bool    `json:"downloaded" gorm:"not null;default:false"`
	Favorite     bool    `json:"favorite" gorm:"not null;default:false"`
	PlaylistName *string `json:"playlistName" gorm:"size:255"` // free-text tag, not a relation
	Genre        *string `json:"genre" gorm:"size:100"`
}

// TableName 指定表名
func (Track) TableName() string {
	return "tracks"
}

// TrackInput is the full set of writable track fields, used by create and full update.
type TrackInput struct {
	Title        string  `json:"title"`
	Author       string  `json:"author"`
	Duration     int     `json:"duration"`
	ImagePath    *string `json:"imagePath"`
	FilePath     string  `json:"filePath"`
	Downloaded   bool    `json:"downloaded"`
	Favorite     bool    `json:"favorite"`
	PlaylistName *string `json:"playlistName"`
	Genre        *string `json:"genre"`
}

// Columns returns every mutable column with the input's value.
func (in TrackInput) Columns() map[string]interface{} {
	return map[string]interface{}{
		"title":         in.Title,
		"author":        in.Author,
		"duration":      in.Duration,
		"image_path":    in.ImagePath,
		"file_path":     in.FilePath,
		"downloaded":    in.Downloaded,
		"favorite":      in.Favorite,
		"playlist_name": in.PlaylistName,
		"genre":         in.Genre,
	}
}

// ToTrack builds an unsaved Track from the input.
func (in TrackInput) ToTrack() *Track {
	return &Track{
		Title:        in.Title,
		Author:       in.Author,
		Duration:     in.Duration,
		ImagePath:    in.ImagePath,
		FilePath:     in.FilePath,
		Downloaded:   in.Downloaded,
		Favorite:     in.Favorite,
		PlaylistName: in.PlaylistName,
		Genre:        in.Genre,
	}
}

// TrackPatch is the restricted update of playback state.
// A nil field is left unchanged; PlaylistName with Valid=false clears the playlist.
type TrackPatch struct {
	Downloaded   *bool
	Favorite     *bool
	PlaylistName *sql.NullString
}

// Columns returns the column/value pairs that the patch overwrites.
func (p TrackPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, 3)
	if p.Downloaded != nil {
		cols["downloaded"] = *p.Downloaded
	}
	if p.Favorite != nil {
		cols["favorite"] = *p.Favorite
	}
	if p.PlaylistName != nil {
		var name *string
		if p.PlaylistName.Valid {
			name = &p.PlaylistName.String
		}
		cols["playlist_name"] = name
	}
	return cols
}

// TrackMedia carries presigned URLs for a track's media objects.
type TrackMedia struct {
	TrackID  int64   `json:"trackId"`
	FileURL  string  `json:"fileUrl,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"`
}
