// Package archive keeps a record of finished matches in PostgreSQL.
package archive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DoyleJ11/battle-quiz/internal/match"
)

var ErrClosed = errors.New("archive closed")

// MatchRecord is one finished match.
type MatchRecord struct {
	ID         uint      `gorm:"primaryKey"`
	MatchID    string    `gorm:"size:36;uniqueIndex;not null"`
	Player1    string    `gorm:"not null"`
	Score1     int       `gorm:"not null"`
	Player2    string    `gorm:"not null"`
	Score2     int       `gorm:"not null"`
	Winner     string    // empty when the questions ran out
	Reason     string    `gorm:"size:16;not null"`
	Rounds     int       `gorm:"not null"`
	FinishedAt time.Time `gorm:"index;not null"`
}

type Store struct {
	db *gorm.DB
}

// Open connects to dsn and migrates the schema.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return NewStore(db)
}

// NewStore wraps an existing connection and migrates the schema.
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&MatchRecord{}); err != nil {
		return nil, fmt.Errorf("migrate archive: %w", err)
	}
	return &Store{db: db}, nil
}

// Record implements match.Recorder.
func (s *Store) Record(ctx context.Context, r match.Result) error {
	if s.db == nil {
		return ErrClosed
	}
	rec := FromResult(r)
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("insert match %s: %w", rec.MatchID, err)
	}
	return nil
}

// Recent returns up to limit matches, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]MatchRecord, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	var recs []MatchRecord
	err := s.db.WithContext(ctx).Order("finished_at desc").Limit(limit).Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return recs, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	s.db = nil
	return sqlDB.Close()
}

func FromResult(r match.Result) MatchRecord {
	return MatchRecord{
		MatchID:    r.MatchID.String(),
		Player1:    r.Players[0].Name,
		Score1:     r.Players[0].Score,
		Player2:    r.Players[1].Name,
		Score2:     r.Players[1].Score,
		Winner:     r.Winner,
		Reason:     string(r.Reason),
		Rounds:     r.Rounds,
		FinishedAt: r.FinishedAt.UTC(),
	}
}
