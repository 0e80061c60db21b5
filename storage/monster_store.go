package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// MonsterStore is the SQLite-backed fact table the structured strategy
// queries. The query text it executes is model-generated, so Execute accepts
// only read statements and treats everything else as a query error.
//
// WAL is enabled so concurrent requests can read while the seeder writes.
type MonsterStore struct {
	db    *sql.DB
	table string
}

// Open creates or opens the monster database at path and ensures the schema
// exists. Use ":memory:" for tests.
func Open(path, table string) (*MonsterStore, error) {
	if table == "" {
		return nil, errors.New("missing table name")
	}
	if path != ":memory:" {
		p := filepath.Clean(strings.TrimSpace(path))
		if p == "" {
			return nil, errors.New("missing db path")
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
			return nil, err
		}
		path = p
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &MonsterStore{db: db, table: table}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *MonsterStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *MonsterStore) initSchema() error {
	_, err := s.db.Exec(fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	name                 TEXT NOT NULL,
	type                 TEXT,
	size                 TEXT,
	armor_class          INTEGER,
	hit_points           INTEGER,
	speed                TEXT,
	challenge_rating     TEXT,
	abilities            TEXT,
	skills               TEXT,
	damage_resistances   TEXT,
	damage_immunities    TEXT,
	condition_immunities TEXT,
	senses               TEXT,
	languages            TEXT,
	special_abilities    TEXT,
	actions              TEXT,
	legendary_actions    TEXT,
	source               TEXT,
	UNIQUE(name)
)`, s.table))
	return err
}

// Count reports how many monsters the table holds.
func (s *MonsterStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)).Scan(&n)
	return n, err
}

// Execute runs a model-generated SELECT and renders the result as a small
// text table for the synthesizer. Anything that is not a read statement is
// rejected as a query error, which feeds the retry loop upstream.
func (s *MonsterStore) Execute(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(query), ";"))
	if query == "" {
		return "", errors.New("empty query")
	}
	if !isReadStatement(query) {
		return "", fmt.Errorf("only SELECT statements are allowed, got %q", firstWord(query))
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(cols, " | "))

	count := 0
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return "", err
		}
		fields := make([]string, len(cols))
		for i, v := range values {
			fields[i] = formatValue(v)
		}
		sb.WriteString("\n")
		sb.WriteString(strings.Join(fields, " | "))
		count++
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	if count == 0 {
		return "(0 rows)", nil
	}
	return sb.String(), nil
}

// InsertMonster adds one row, ignoring duplicates by name.
func (s *MonsterStore) InsertMonster(ctx context.Context, m Monster) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
INSERT OR IGNORE INTO %s (
	name, type, size, armor_class, hit_points, speed, challenge_rating,
	abilities, skills, damage_resistances, damage_immunities,
	condition_immunities, senses, languages, special_abilities, actions,
	legendary_actions, source
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.table),
		m.Name, m.Type, m.Size, m.ArmorClass, m.HitPoints, m.Speed,
		m.ChallengeRating, m.Abilities, m.Skills, m.DamageResistances,
		m.DamageImmunities, m.ConditionImmunities, m.Senses, m.Languages,
		m.SpecialAbilities, m.Actions, m.LegendaryActions, m.Source)
	return err
}

// Monster is one fact-table row.
type Monster struct {
	Name                string
	Type                string
	Size                string
	ArmorClass          int
	HitPoints           int
	Speed               string
	ChallengeRating     string
	Abilities           string
	Skills              string
	DamageResistances   string
	DamageImmunities    string
	ConditionImmunities string
	Senses              string
	Languages           string
	SpecialAbilities    string
	Actions             string
	LegendaryActions    string
	Source              string
}

func isReadStatement(query string) bool {
	switch strings.ToUpper(firstWord(query)) {
	case "SELECT", "WITH":
		return true
	default:
		return false
	}
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}
