package repository

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"musicstore/db"
	"musicstore/logger"
	"musicstore/model"

	"gorm.io/gorm"
)

// TrackRepository defines the interface for track data operations.
type TrackRepository interface {
	Create(ctx context.Context, in model.TrackInput) (*model.Track, error)
	GetByID(ctx context.Context, id int64) (*model.Track, error)
	List(ctx context.Context) ([]*model.Track, error)
	SearchByTitle(ctx context.Context, fragment string) ([]*model.Track, error)
	Update(ctx context.Context, id int64, in model.TrackInput) (bool, error)
	Patch(ctx context.Context, id int64, patch model.TrackPatch) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// gormTrackRepository implements TrackRepository on top of GORM.
type gormTrackRepository struct {
	db *gorm.DB
}

// NewGormTrackRepository creates a new track repository.
func NewGormTrackRepository(db *gorm.DB) TrackRepository {
	return &gormTrackRepository{db: db}
}

// Create persists every field of the input and returns the stored track.
func (r *gormTrackRepository) Create(ctx context.Context, in model.TrackInput) (*model.Track, error) {
	if err := validateTrackInput(in); err != nil {
		return nil, err
	}

	track := in.ToTrack()
	if err := r.db.WithContext(ctx).Create(track).Error; err != nil {
		return nil, classify("create track", err)
	}

	logger.Info("Track created", logger.Int64("trackId", track.ID), logger.String("title", track.Title))
	return track, nil
}

// GetByID retrieves a track by its ID. It returns nil when no such track exists.
func (r *gormTrackRepository) GetByID(ctx context.Context, id int64) (*model.Track, error) {
	var track model.Track
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&track).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, classify("get track", err)
	}
	return &track, nil
}

// List retrieves all tracks.
func (r *gormTrackRepository) List(ctx context.Context) ([]*model.Track, error) {
	tracks := make([]*model.Track, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&tracks).Error; err != nil {
		return nil, classify("list tracks", err)
	}
	return tracks, nil
}

// SearchByTitle returns tracks whose title contains fragment, ignoring case.
func (r *gormTrackRepository) SearchByTitle(ctx context.Context, fragment string) ([]*model.Track, error) {
	if strings.TrimSpace(fragment) == "" {
		return nil, validationError("search fragment must not be blank")
	}

	where, args, err := titleContainsPredicate(fragment).ToSql()
	if err != nil {
		return nil, classify("build title search", err)
	}

	tracks := make([]*model.Track, 0)
	if err := r.db.WithContext(ctx).Where(where, args...).Order("id").Find(&tracks).Error; err != nil {
		return nil, classify("search tracks", err)
	}

	logger.Debug("Title search finished",
		logger.String("fragment", fragment),
		logger.Int("matches", len(tracks)),
	)
	return tracks, nil
}

// Update overwrites every mutable column of the track. It returns false when the
// track does not exist.
func (r *gormTrackRepository) Update(ctx context.Context, id int64, in model.TrackInput) (bool, error) {
	if err := validateTrackInput(in); err != nil {
		return false, err
	}

	found := false
	err := db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Track{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		found = true
		return tx.Model(&model.Track{}).Where("id = ?", id).Updates(in.Columns()).Error
	})
	if err != nil {
		return false, classify("update track", err)
	}

	if found {
		logger.Info("Track updated", logger.Int64("trackId", id))
	}
	return found, nil
}

// Patch applies the restricted playback-state update. A missing track is not
// reported; only storage failures are returned.
func (r *gormTrackRepository) Patch(ctx context.Context, id int64, patch model.TrackPatch) error {
	if patch.PlaylistName != nil && patch.PlaylistName.Valid &&
		utf8.RuneCountInString(patch.PlaylistName.String) > model.PlaylistMaxLen {
		return validationError("playlistName exceeds %d characters", model.PlaylistMaxLen)
	}

	cols := patch.Columns()
	if len(cols) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).Model(&model.Track{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return classify("patch track", res.Error)
	}

	logger.Debug("Track patched",
		logger.Int64("trackId", id),
		logger.Int64("rows", res.RowsAffected),
	)
	return nil
}

// Delete removes the track. It returns false when the track does not exist.
func (r *gormTrackRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Track{})
	if res.Error != nil {
		return false, classify("delete track", res.Error)
	}
	if res.RowsAffected > 0 {
		logger.Info("Track deleted", logger.Int64("trackId", id))
	}
	return res.RowsAffected > 0, nil
}

func validateTrackInput(in model.TrackInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return validationError("title is required")
	}
	if strings.TrimSpace(in.Author) == "" {
		return validationError("author is required")
	}
	if in.Duration < 0 {
		return validationError("duration must not be negative")
	}

	limits := []struct {
		name  string
		value *string
		max   int
	}{
		{"title", &in.Title, model.TitleMaxLen},
		{"author", &in.Author, model.AuthorMaxLen},
		{"filePath", &in.FilePath, model.PathMaxLen},
		{"imagePath", in.ImagePath, model.PathMaxLen},
		{"playlistName", in.PlaylistName, model.PlaylistMaxLen},
		{"genre", in.Genre, model.GenreMaxLen},
	}
	for _, l := range limits {
		if l.value != nil && utf8.RuneCountInString(*l.value) > l.max {
			return validationError("%s exceeds %d characters", l.name, l.max)
		}
	}
	return nil
}
