package storage

import (
	"context"
	"net/url"
	"testing"
	"time"

	"musicstore/config"
	"musicstore/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		MinioEndpoint:  "localhost:9000",
		MinioAccessKey: "minioadmin",
		MinioSecretKey: "minioadmin",
		MinioBucket:    "music",
		MinioRegion:    "us-east-1",
		MediaURLExpiry: 15 * time.Minute,
	}
}

func TestNewMediaResolver_Disabled(t *testing.T) {
	resolver, err := NewMediaResolver(&config.Config{})

	assert.ErrorIs(t, err, ErrMediaDisabled)
	assert.Nil(t, resolver)
}

func TestMediaResolver_Resolve(t *testing.T) {
	resolver, err := NewMediaResolver(testConfig())
	require.NoError(t, err)

	image := "/static/covers/sunrise.jpg"
	media, err := resolver.Resolve(context.Background(), &model.Track{
		ID:        3,
		FilePath:  "audio/sunrise.mp3",
		ImagePath: &image,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), media.TrackID)

	fileURL, err := url.Parse(media.FileURL)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", fileURL.Host)
	assert.Equal(t, "/music/audio/sunrise.mp3", fileURL.Path)
	assert.NotEmpty(t, fileURL.Query().Get("X-Amz-Signature"))
	assert.Equal(t, "900", fileURL.Query().Get("X-Amz-Expires"))

	require.NotNil(t, media.ImageURL)
	imageURL, err := url.Parse(*media.ImageURL)
	require.NoError(t, err)
	assert.Equal(t, "/music/covers/sunrise.jpg", imageURL.Path)
}

func TestMediaResolver_Resolve_SkipsEmptyPaths(t *testing.T) {
	resolver, err := NewMediaResolver(testConfig())
	require.NoError(t, err)

	media, err := resolver.Resolve(context.Background(), &model.Track{ID: 1})
	require.NoError(t, err)

	assert.Empty(t, media.FileURL)
	assert.Nil(t, media.ImageURL)
}

func TestMediaResolver_StatAudio_EmptyPath(t *testing.T) {
	resolver, err := NewMediaResolver(testConfig())
	require.NoError(t, err)

	info, err := resolver.StatAudio(context.Background(), &model.Track{ID: 1, FilePath: " "})

	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "audio/a.mp3", objectKey("audio/a.mp3"))
	assert.Equal(t, "audio/a.mp3", objectKey("/audio/a.mp3"))
	assert.Equal(t, "covers/a.jpg", objectKey("/static/covers/a.jpg"))
	assert.Equal(t, "", objectKey("  "))
}
