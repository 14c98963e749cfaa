package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"albastini/internal/shared"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

const tableName = "deck_snapshots"

type Service struct {
	db         *sql.DB
	m          *sync.Mutex
	driver     string
	table_name string
}

// New opens the snapshot store. driver is "sqlite3" or "pgx"; dsn is a file
// path or a PostgreSQL URL.
func New(driver, dsn string) (*Service, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	sqlStmt := `
	create table if not exists ` + tableName + ` (
		id text not null primary key,
		created_at text,
		table_code text,
		cards text
	);
	`
	if _, err = db.Exec(sqlStmt); err != nil {
		db.Close()
		return nil, fmt.Errorf("create %s: %w", tableName, err)
	}

	return &Service{
		db:         db,
		m:          &sync.Mutex{},
		driver:     driver,
		table_name: tableName,
	}, nil
}

func (s *Service) Close() error {
	return s.db.Close()
}

func (s *Service) TableName() string {
	return s.table_name
}

// bind rewrites ? placeholders to $n for PostgreSQL.
func (s *Service) bind(query string) string {
	if s.driver != "pgx" {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func encodeCards(cards []shared.Card) string {
	codes := make([]string, len(cards))
	for i, c := range cards {
		codes[i] = c.Code()
	}
	return strings.Join(codes, " ")
}

func decodeCards(s string) ([]shared.Card, error) {
	fields := strings.Fields(s)
	cards := make([]shared.Card, 0, len(fields))
	for _, f := range fields {
		c, err := shared.ParseCard(f)
		if err != nil {
			return nil, fmt.Errorf("decode snapshot cards: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, nil
}

func scanSnapshot(scan func(dest ...any) error) (Snapshot, error) {
	var result Snapshot
	var cards string
	if err := scan(&result.ID, &result.CreatedAt, &result.TableCode, &cards); err != nil {
		return Snapshot{}, err
	}
	decoded, err := decodeCards(cards)
	if err != nil {
		return Snapshot{}, err
	}
	result.Cards = decoded
	return result, nil
}

func (s *Service) query(query string, args ...any) ([]Snapshot, error) {
	rows, err := s.db.Query(s.bind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Snapshot
	for rows.Next() {
		result, err := scanSnapshot(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

func (s *Service) GetAll() ([]Snapshot, error) {
	s.m.Lock()
	defer s.m.Unlock()
	return s.query("SELECT id, created_at, table_code, cards FROM " + s.table_name + " ORDER BY created_at")
}

func (s *Service) GetByID(id string) (Snapshot, error) {
	s.m.Lock()
	defer s.m.Unlock()
	row := s.db.QueryRow(s.bind("SELECT id, created_at, table_code, cards FROM "+s.table_name+" WHERE id = ?"), id)
	return scanSnapshot(row.Scan)
}

// GetByTable returns the snapshots saved from one table, or sql.ErrNoRows.
func (s *Service) GetByTable(tableCode string) ([]Snapshot, error) {
	s.m.Lock()
	defer s.m.Unlock()
	results, err := s.query("SELECT id, created_at, table_code, cards FROM "+s.table_name+
		" WHERE table_code = ? ORDER BY created_at", tableCode)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, sql.ErrNoRows // No results found
	}
	return results, nil
}

func (s *Service) Insert(result Snapshot) error {
	s.m.Lock()
	defer s.m.Unlock()
	_, err := s.db.Exec(s.bind("INSERT INTO "+s.table_name+
		" (id, created_at, table_code, cards) VALUES (?, ?, ?, ?)"),
		result.ID,
		result.CreatedAt,
		result.TableCode,
		encodeCards(result.Cards))
	return err
}
