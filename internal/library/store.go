package library

import (
	"encoding/json"
	"errors"

	"gutenlens/internal/analyzer"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("analysis not found")

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Save upserts the analysis record for the result's URL.
func (s *Store) Save(res *analyzer.Result) (*Analysis, error) {
	raw, err := json.Marshal(res)
	if err != nil {
		return nil, err
	}
	rec := Analysis{
		URL:      res.URL,
		Title:    res.Title,
		Author:   res.Author,
		Language: res.Language,
		Year:     res.Year,
		Summary:  res.Summary,
		Genre:    res.Genre,
		Raw:      raw,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "url"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "author", "language", "year", "summary", "genre", "raw", "updated_at",
		}),
	}).Create(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) List(limit int) ([]Analysis, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var recs []Analysis
	err := s.db.Order("updated_at DESC").Limit(limit).Find(&recs).Error
	return recs, err
}

func (s *Store) Get(id uint) (*Analysis, error) {
	var rec Analysis
	err := s.db.First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) GetByURL(url string) (*Analysis, error) {
	var rec Analysis
	err := s.db.Where("url = ?", url).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) Delete(id uint) error {
	res := s.db.Delete(&Analysis{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
