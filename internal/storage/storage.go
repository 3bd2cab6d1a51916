package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	prefixGame     = "game/"
)

// ErrGameNotFound is returned when no record exists for a game id.
var ErrGameNotFound = errors.New("game not found")

// Opponent selects who plays the other side.
type Opponent int

const (
	OpponentFriend Opponent = iota
	OpponentComputer
)

// String returns the opponent name.
func (o Opponent) String() string {
	if o == OpponentComputer {
		return "computer"
	}
	return "friend"
}

// PlayerColor represents which color the human plays.
type PlayerColor int

const (
	ColorWhite PlayerColor = iota
	ColorBlack
	ColorRandom
)

// String returns the color name.
func (c PlayerColor) String() string {
	switch c {
	case ColorBlack:
		return "black"
	case ColorRandom:
		return "random"
	default:
		return "white"
	}
}

// UserPreferences stores user settings
type UserPreferences struct {
	Opponent     Opponent    `json:"opponent"`
	PlayerColor  PlayerColor `json:"player_color"`
	Difficulty   string      `json:"difficulty"`
	Setup        string      `json:"setup"`
	Theme        string      `json:"theme"`
	SoundEnabled bool        `json:"sound_enabled"`
	LastPlayed   time.Time   `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Opponent:     OpponentComputer,
		PlayerColor:  ColorWhite,
		Difficulty:   "medium",
		Setup:        "standard",
		Theme:        "blue",
		SoundEnabled: true,
	}
}

// Game results in the usual score notation.
const (
	ResultWhite   = "1-0"
	ResultBlack   = "0-1"
	ResultDraw    = "1/2-1/2"
	ResultOngoing = "*"
)

// GameRecord is a finished or abandoned game.
type GameRecord struct {
	ID          string    `json:"id"`
	Setup       string    `json:"setup"`
	Opponent    Opponent  `json:"opponent"`
	HumanColor  string    `json:"human_color"`
	Started     time.Time `json:"started"`
	Finished    time.Time `json:"finished"`
	Moves       []string  `json:"moves"`    // coordinate notation
	Notation    []string  `json:"notation"` // algebraic notation
	Result      string    `json:"result"`
	Termination string    `json:"termination"`

	// Counted is set once the result has been added to the stats. It
	// survives later saves of the same game, including unfinished ones.
	Counted bool `json:"counted"`
}

// GameStats stores game statistics
type GameStats struct {
	GamesPlayed int `json:"games_played"`
	WhiteWins   int `json:"white_wins"`
	BlackWins   int `json:"black_wins"`
	Draws       int `json:"draws"`

	// Wins and Losses count only games against the computer.
	Wins   int `json:"wins"`
	Losses int `json:"losses"`

	LongestGame int `json:"longest_game"` // plies
}

// Options configures Open.
type Options struct {
	// Dir is the database directory; ignored when InMemory is set.
	Dir      string
	InMemory bool
	Logger   zerolog.Logger
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db  *badger.DB
	log zerolog.Logger
}

// NewStorage opens the database under dataDir, or under the platform data
// directory when dataDir is empty.
func NewStorage(dataDir string, log zerolog.Logger) (*Storage, error) {
	dir, err := DataDir(dataDir)
	if err != nil {
		return nil, err
	}
	dbDir, err := DatabaseDir(dir)
	if err != nil {
		return nil, err
	}
	return Open(Options{Dir: dbDir, Logger: log})
}

// Open opens a database with the given options.
func Open(o Options) (*Storage, error) {
	opts := badger.DefaultOptions(o.Dir)
	if o.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = badgerLogger{o.Logger.With().Str("component", "badger").Logger()}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	o.Logger.Info().Str("dir", o.Dir).Bool("in_memory", o.InMemory).Msg("storage opened")
	return &Storage{db: db, log: o.Logger}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	if _, err := s.get(keyPreferences, prefs); err != nil {
		s.log.Warn().Err(err).Msg("preferences unreadable, using defaults")
		return DefaultPreferences(), err
	}
	return prefs, nil
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.put(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := &GameStats{}
	_, err := s.get(keyStats, stats)
	return stats, err
}

// SaveGame stores a game record, assigning an id if it has none, and
// updates statistics the first time a finished result is stored for that
// id. Re-saving the game, even after it was reopened by undo, never counts
// it again.
func (s *Storage) SaveGame(rec *GameRecord) error {
	if rec.ID == "" {
		if rec.Started.IsZero() {
			rec.Started = time.Now()
		}
		rec.ID = fmt.Sprintf("%020d", rec.Started.UnixNano())
	}
	if rec.Result == "" {
		rec.Result = ResultOngoing
	}

	prev := &GameRecord{}
	existed, err := s.get(prefixGame+rec.ID, prev)
	if err != nil {
		return err
	}
	rec.Counted = rec.Counted || (existed && prev.Counted)
	count := rec.Result != ResultOngoing && !rec.Counted
	if count {
		rec.Counted = true
	}
	if err := s.put(prefixGame+rec.ID, rec); err != nil {
		return err
	}

	if count {
		return s.recordResult(rec)
	}
	return nil
}

// LoadGame returns the record with the given id.
func (s *Storage) LoadGame(id string) (*GameRecord, error) {
	rec := &GameRecord{}
	found, err := s.get(prefixGame+id, rec)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", id, ErrGameNotFound)
	}
	return rec, nil
}

// ListGames returns stored games, newest first.
func (s *Storage) ListGames() ([]*GameRecord, error) {
	var games []*GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(prefixGame), PrefetchValues: true, PrefetchSize: 16})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			rec := &GameRecord{}
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, rec)
			})
			if err != nil {
				s.log.Warn().Err(err).Str("key", string(it.Item().Key())).Msg("skipping unreadable game")
				continue
			}
			games = append(games, rec)
		}
		return nil
	})
	slices.Reverse(games)
	return games, err
}

// DeleteGame removes a stored game.
func (s *Storage) DeleteGame(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(prefixGame + id))
	})
}

// recordResult updates statistics for a finished game.
func (s *Storage) recordResult(rec *GameRecord) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	if n := len(rec.Moves); n > stats.LongestGame {
		stats.LongestGame = n
	}

	var winner string
	switch rec.Result {
	case ResultWhite:
		stats.WhiteWins++
		winner = "white"
	case ResultBlack:
		stats.BlackWins++
		winner = "black"
	default:
		stats.Draws++
	}

	if rec.Opponent == OpponentComputer && winner != "" {
		if winner == rec.HumanColor {
			stats.Wins++
		} else {
			stats.Losses++
		}
	}
	return s.SaveStats(stats)
}

// GetWinRate returns the win rate against the computer as a percentage (0-100)
func (s *GameStats) GetWinRate() float64 {
	played := s.Wins + s.Losses
	if played == 0 {
		return 0
	}
	return float64(s.Wins) / float64(played) * 100
}

func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes key into v and reports whether the key existed.
func (s *Storage) get(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}

// badgerLogger routes badger's log output through zerolog.
type badgerLogger struct {
	zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.Error().Msgf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.Warn().Msgf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.Debug().Msgf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.Trace().Msgf(format, args...)
}
