package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/watchhubtv/watchhub/app/models"
)

// movieRepository implements the MovieRepository interface
type movieRepository struct {
	db *gorm.DB
}

// NewMovieRepository creates a new catalog repository instance
func NewMovieRepository(db *gorm.DB) MovieRepository {
	return &movieRepository{db: db}
}

// Create creates a new movie in the catalog
func (r *movieRepository) Create(movie *models.Movie) error {
	return r.db.Create(movie).Error
}

// GetByID retrieves a movie by its ID
func (r *movieRepository) GetByID(id uint) (*models.Movie, error) {
	var movie models.Movie
	err := r.db.First(&movie, id).Error
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// GetByImdbID retrieves a movie by its IMDb identifier
func (r *movieRepository) GetByImdbID(imdbID string) (*models.Movie, error) {
	var movie models.Movie
	err := r.db.Where("imdb_id = ?", imdbID).First(&movie).Error
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// GetPublished retrieves a page of the public catalog, newest first
func (r *movieRepository) GetPublished(offset, limit int) ([]models.Movie, error) {
	var movies []models.Movie
	err := r.db.Where("status = ?", models.MovieStatusPublished).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&movies).Error
	return movies, err
}

// GetTopViewed retrieves the most-watched published titles
func (r *movieRepository) GetTopViewed(limit int) ([]models.Movie, error) {
	var movies []models.Movie
	err := r.db.Where("status = ?", models.MovieStatusPublished).
		Order("views DESC").
		Limit(limit).
		Find(&movies).Error
	return movies, err
}

// Search searches published titles by name
func (r *movieRepository) Search(query string) ([]models.Movie, error) {
	var movies []models.Movie
	pattern := "%" + strings.TrimSpace(query) + "%"
	err := r.db.Where("status = ? AND title LIKE ?", models.MovieStatusPublished, pattern).
		Order("title ASC").
		Find(&movies).Error
	return movies, err
}

// Update updates an existing movie
func (r *movieRepository) Update(movie *models.Movie) error {
	return r.db.Save(movie).Error
}

// Delete soft deletes a movie
func (r *movieRepository) Delete(id uint) error {
	return r.db.Delete(&models.Movie{}, id).Error
}

// Count returns the total number of movies, drafts included
func (r *movieRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Movie{}).Count(&count).Error
	return count, err
}

// IncrementViews bumps the play counter atomically
func (r *movieRepository) IncrementViews(id uint) error {
	return r.db.Model(&models.Movie{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}
