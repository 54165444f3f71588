// Package progress holds the persisted streak/XP record and the daily streak
// rules applied to it.
package progress

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fakeyudi/focusforge/internal/kv"
)

// Storage keys.
const (
	KeyStreak            = "streak"
	KeyXP                = "xp"
	KeyLastCompletedDate = "lastCompletedDate"
)

// XPPerSession is awarded for the first completed study phase of a day.
const XPPerSession = 20

// CelebrationStreak is the streak value that triggers the celebration.
const CelebrationStreak = 5

// Record is the persisted progress of the user.
type Record struct {
	StreakCount      int
	ExperiencePoints int
	// LastCompletedDate is a DateString, or empty when no study phase was
	// ever credited.
	LastCompletedDate string
}

// Level is floor(xp/100).
func (r Record) Level() int {
	return r.ExperiencePoints / 100
}

// CreditedOn reports whether the record already holds a credit for day.
func (r Record) CreditedOn(day time.Time) bool {
	return r.LastCompletedDate == DateString(day)
}

// Credit applies one study-phase completion on day. It returns false, leaving
// the record untouched, when day was already credited.
func (r *Record) Credit(day time.Time) bool {
	if r.CreditedOn(day) {
		return false
	}
	r.StreakCount++
	r.ExperiencePoints += XPPerSession
	r.LastCompletedDate = DateString(day)
	return true
}

// Store reads and writes a Record through a kv.Store.
type Store struct {
	kv kv.Store
}

// NewStore wraps s.
func NewStore(s kv.Store) *Store {
	return &Store{kv: s}
}

// Path is the location of the underlying store.
func (s *Store) Path() string { return s.kv.Path() }

// Load reads the record. Missing or non-numeric counters read as zero.
func (s *Store) Load() (Record, error) {
	var rec Record
	var err error
	if rec.StreakCount, err = s.readInt(KeyStreak); err != nil {
		return Record{}, err
	}
	if rec.ExperiencePoints, err = s.readInt(KeyXP); err != nil {
		return Record{}, err
	}
	date, _, err := s.kv.Get(KeyLastCompletedDate)
	if err != nil {
		return Record{}, fmt.Errorf("reading %s: %w", KeyLastCompletedDate, err)
	}
	rec.LastCompletedDate = date
	return rec, nil
}

func (s *Store) readInt(key string) (int, error) {
	raw, ok, err := s.kv.Get(key)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", key, err)
	}
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, nil
	}
	return n, nil
}

// Save writes every field of rec. An empty date removes the key.
func (s *Store) Save(rec Record) error {
	if err := s.kv.Set(KeyStreak, strconv.Itoa(rec.StreakCount)); err != nil {
		return err
	}
	if err := s.kv.Set(KeyXP, strconv.Itoa(rec.ExperiencePoints)); err != nil {
		return err
	}
	if rec.LastCompletedDate == "" {
		return s.kv.Delete(KeyLastCompletedDate)
	}
	return s.kv.Set(KeyLastCompletedDate, rec.LastCompletedDate)
}

// Clear removes all progress keys.
func (s *Store) Clear() error {
	for _, k := range []string{KeyStreak, KeyXP, KeyLastCompletedDate} {
		if err := s.kv.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// Open loads the record, resets a broken streak against now, and writes the
// result back.
func (s *Store) Open(now time.Time) (Record, error) {
	rec, err := s.Load()
	if err != nil {
		return Record{}, err
	}
	rec = Evaluate(rec, now)
	if err := s.Save(rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}
