package replay

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"git.lost.host/meutraa/beatfall/internal/game"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrCorrupt  = errors.New("session beats do not match their hash")
)

// Store keeps recorded sessions in a sqlite database.
type Store struct {
	db *sql.DB
}

// FramesCompact splits frames into parallel timing columns, keeping events
// only for the frames that had any.
type FramesCompact struct {
	Now    []float64
	Dt     []float64
	Events map[int][]game.Event
}

func compactFrames(frames []FrameInput) FramesCompact {
	c := FramesCompact{
		Now:    make([]float64, len(frames)),
		Dt:     make([]float64, len(frames)),
		Events: map[int][]game.Event{},
	}
	for i, f := range frames {
		c.Now[i] = f.Now
		c.Dt[i] = f.Dt
		if len(f.Events) > 0 {
			c.Events[i] = f.Events
		}
	}
	return c
}

func uncompactFrames(c FramesCompact) []FrameInput {
	frames := make([]FrameInput, len(c.Now))
	for i := range frames {
		frames[i] = FrameInput{Now: c.Now[i], Events: c.Events[i]}
		if i < len(c.Dt) {
			frames[i].Dt = c.Dt[i]
		}
	}
	return frames
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); nil != err {
			return nil, fmt.Errorf("replay: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if nil != err {
		return nil, fmt.Errorf("replay: cannot open database: %w", err)
	}

	initStatement := `
	create table if not exists sessions
	  (
		  id integer not null primary key,
		  song text,
		  sum text,
		  seed integer,
		  tuning blob,
		  beats blob,
		  frames blob,
		  frame_count integer,
		  created_at integer
	  );
	`
	if _, err := db.Exec(initStatement); nil != err {
		db.Close()
		return nil, fmt.Errorf("replay: migration failed: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if nil == s.db {
		return nil
	}
	return s.db.Close()
}

// hashBeats identifies the beat grid a session was played against.
func hashBeats(beats []float64) string {
	h := sha256.New()
	var b [8]byte
	for _, beat := range beats {
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(beat))
		h.Write(b[:])
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

func (s *Store) Save(session *Session) (int64, error) {
	tuning, err := json.Marshal(session.Tuning)
	if nil != err {
		return 0, fmt.Errorf("replay: unable to marshal tuning: %w", err)
	}
	beats, err := json.Marshal(session.Beats)
	if nil != err {
		return 0, fmt.Errorf("replay: unable to marshal beats: %w", err)
	}
	frames, err := json.Marshal(compactFrames(session.Frames))
	if nil != err {
		return 0, fmt.Errorf("replay: unable to marshal frames: %w", err)
	}

	created := session.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	res, err := s.db.Exec(
		"insert into sessions(song, sum, seed, tuning, beats, frames, frame_count, created_at) values(?, ?, ?, ?, ?, ?, ?, ?)",
		session.Song, hashBeats(session.Beats), session.Seed, tuning, beats, frames, len(session.Frames), created.Unix(),
	)
	if nil != err {
		return 0, fmt.Errorf("replay: unable to save session: %w", err)
	}
	id, err := res.LastInsertId()
	if nil != err {
		return 0, fmt.Errorf("replay: unable to read session id: %w", err)
	}
	session.ID = id
	session.CreatedAt = time.Unix(created.Unix(), 0)
	return id, nil
}

func (s *Store) Load(id int64) (*Session, error) {
	var (
		session               Session
		sum                   string
		tuning, beats, frames []byte
		created               int64
	)
	row := s.db.QueryRow("select id, song, sum, seed, tuning, beats, frames, created_at from sessions where id = ?", id)
	err := row.Scan(&session.ID, &session.Song, &sum, &session.Seed, &tuning, &beats, &frames, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if nil != err {
		return nil, fmt.Errorf("replay: unable to load session %d: %w", id, err)
	}

	if err := json.Unmarshal(tuning, &session.Tuning); nil != err {
		return nil, fmt.Errorf("replay: session %d has a corrupt tuning: %w", id, err)
	}
	if err := json.Unmarshal(beats, &session.Beats); nil != err {
		return nil, fmt.Errorf("replay: session %d has corrupt beats: %w", id, err)
	}
	if hashBeats(session.Beats) != sum {
		return nil, fmt.Errorf("%w: %d", ErrCorrupt, id)
	}
	var compact FramesCompact
	if err := json.Unmarshal(frames, &compact); nil != err {
		return nil, fmt.Errorf("replay: session %d has corrupt frames: %w", id, err)
	}
	session.Frames = uncompactFrames(compact)
	session.CreatedAt = time.Unix(created, 0)
	return &session, nil
}

// List returns every recorded session, newest first.
func (s *Store) List() ([]Summary, error) {
	rows, err := s.db.Query("select id, song, sum, seed, frame_count, created_at from sessions order by id desc")
	if nil != err {
		return nil, fmt.Errorf("replay: unable to list sessions: %w", err)
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var (
			sum     Summary
			created int64
		)
		if err := rows.Scan(&sum.ID, &sum.Song, &sum.Sum, &sum.Seed, &sum.Frames, &created); nil != err {
			return nil, fmt.Errorf("replay: unable to read session row: %w", err)
		}
		sum.CreatedAt = time.Unix(created, 0)
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}
