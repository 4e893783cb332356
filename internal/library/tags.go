package library

import (
	"fmt"
	"os"

	"github.com/dhowden/tag"
)

// Tags is the embedded metadata of an audio file.
type Tags struct {
	Title  string
	Artist string
	Album  string
	Genre  string
	Year   int
}

// ReadTags reads ID3/MP4/FLAC/OGG metadata from the audio file at location.
func ReadTags(location string) (Tags, error) {
	f, err := os.Open(location)
	if err != nil {
		return Tags{}, err
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return Tags{}, fmt.Errorf("read tags %s: %w", location, err)
	}
	return Tags{
		Title:  meta.Title(),
		Artist: meta.Artist(),
		Album:  meta.Album(),
		Genre:  meta.Genre(),
		Year:   meta.Year(),
	}, nil
}
