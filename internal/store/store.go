package store

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"FlipCards/internal/state"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultName replaces an empty project name.
const DefaultName = "Untitled"

// ErrProjectNotFound is returned when no project matches the lookup.
var ErrProjectNotFound = errors.New("project not found")

// Store is the project library backed by SQLite.
type Store struct {
	db *gorm.DB
}

// Open connects to the SQLite database at path and migrates the schema.
// Use ":memory:" for a throwaway library.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if err := db.AutoMigrate(&ProjectRecord{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	log.Printf("[STORE] Opened project library at %s", path)
	return &Store{db: db}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return sqlDB.Close()
}

func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultName
	}
	return name
}

// Create stores a new project with one empty card.
func (s *Store) Create(name string) (*state.Project, error) {
	p := state.NewProject(normalizeName(name))
	publicID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("generate public id: %w", err)
	}
	p.PublicID = publicID

	data, err := state.EncodeCards(p.Cards())
	if err != nil {
		return nil, err
	}
	rec := ProjectRecord{
		ID:        p.ID,
		PublicID:  p.PublicID,
		Name:      p.Name,
		CardsData: data,
		CreatedAt: p.CreatedAt,
	}
	if err := s.db.Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	log.Printf("[STORE] Created project %s (%q)", p.ID, p.Name)
	return p, nil
}

// List returns the library newest first, without card data.
func (s *Store) List() ([]ProjectRecord, error) {
	var recs []ProjectRecord
	err := s.db.Omit("cards_data").Order("created_at desc").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return recs, nil
}

func (s *Store) first(query string, arg string) (ProjectRecord, error) {
	var rec ProjectRecord
	if err := s.db.Where(query, arg).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rec, fmt.Errorf("%s: %w", arg, ErrProjectNotFound)
		}
		return rec, fmt.Errorf("find project %s: %w", arg, err)
	}
	return rec, nil
}

// Get returns the stored record of a project.
func (s *Store) Get(id string) (ProjectRecord, error) {
	return s.first("id = ?", id)
}

// GetByPublicID returns the record shared under publicID.
func (s *Store) GetByPublicID(publicID string) (ProjectRecord, error) {
	return s.first("public_id = ?", publicID)
}

// Load opens a project for editing. Corrupt card data loads as a single
// empty card.
func (s *Store) Load(id string) (*state.Project, error) {
	rec, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return ProjectFromRecord(rec), nil
}

// ProjectFromRecord rebuilds a project from a library row.
func ProjectFromRecord(rec ProjectRecord) *state.Project {
	p := state.NewProject(rec.Name)
	p.ID = rec.ID
	p.PublicID = rec.PublicID
	p.CreatedAt = rec.CreatedAt
	p.SetCards(state.DecodeCards(rec.CardsData))
	return p
}

// Latest loads the most recently created project, creating one when the
// library is empty.
func (s *Store) Latest() (*state.Project, error) {
	var rec ProjectRecord
	err := s.db.Order("created_at desc").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.Create("")
	}
	if err != nil {
		return nil, fmt.Errorf("load latest project: %w", err)
	}
	return ProjectFromRecord(rec), nil
}

// Save writes the project's cards and name. Unknown projects are inserted,
// which is how shared projects enter the library.
func (s *Store) Save(p *state.Project) error {
	data, err := state.EncodeCards(p.Cards())
	if err != nil {
		return err
	}
	if p.PublicID == "" {
		if p.PublicID, err = gonanoid.New(); err != nil {
			return fmt.Errorf("generate public id: %w", err)
		}
	}

	rec := ProjectRecord{
		ID:        p.ID,
		PublicID:  p.PublicID,
		Name:      normalizeName(p.Name),
		CardsData: data,
		CreatedAt: p.CreatedAt,
	}
	if err := s.db.Save(&rec).Error; err != nil {
		return fmt.Errorf("save project %s: %w", p.ID, err)
	}
	return nil
}

// Rename changes a project's name; an empty name becomes DefaultName.
func (s *Store) Rename(id, name string) error {
	res := s.db.Model(&ProjectRecord{}).Where("id = ?", id).Update("name", normalizeName(name))
	if res.Error != nil {
		return fmt.Errorf("rename project %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", id, ErrProjectNotFound)
	}
	return nil
}

// Delete removes a project from the library.
func (s *Store) Delete(id string) error {
	res := s.db.Where("id = ?", id).Delete(&ProjectRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete project %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", id, ErrProjectNotFound)
	}
	log.Printf("[STORE] Deleted project %s", id)
	return nil
}
