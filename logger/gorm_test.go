package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestParseGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, ParseGormLevel("silent"))
	assert.Equal(t, gormlogger.Error, ParseGormLevel("ERROR"))
	assert.Equal(t, gormlogger.Info, ParseGormLevel("info"))
	assert.Equal(t, gormlogger.Warn, ParseGormLevel("warn"))
	assert.Equal(t, gormlogger.Warn, ParseGormLevel("bogus"))
}

func TestGormLogger_LogModeReturnsCopy(t *testing.T) {
	base := NewGormLogger("warn")
	silent := base.LogMode(gormlogger.Silent)

	assert.Equal(t, gormlogger.Warn, base.level)
	assert.Equal(t, gormlogger.Silent, silent.(*GormLogger).level)
}

func TestGormLogger_TraceSkipsSQLWhenSilent(t *testing.T) {
	l := NewGormLogger("silent")
	called := false

	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		called = true
		return "SELECT 1", 1
	}, errors.New("boom"))

	assert.False(t, called)
}

func TestGormLogger_TraceIgnoresRecordNotFound(t *testing.T) {
	l := NewGormLogger("error")
	called := false

	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		called = true
		return "SELECT * FROM tracks WHERE id = 1", 0
	}, gorm.ErrRecordNotFound)

	assert.False(t, called)
}
