package statistics

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/watchhubtv/watchhub/app/models"
	"github.com/watchhubtv/watchhub/app/repository"
	"github.com/watchhubtv/watchhub/internal/pkg/cache"
	"github.com/watchhubtv/watchhub/internal/pkg/database"
	"github.com/watchhubtv/watchhub/internal/pkg/subscriptions"
)

const (
	CacheKeyUsersTotal       = "statistics:users:total"
	CacheKeyUsersDaily       = "statistics:users:daily:%s" // Format with date YYYY-MM-DD
	CacheKeyUsersActive      = "statistics:users:active30d"
	CacheKeyUsersNew         = "statistics:users:new30d"
	CacheKeyMoviesTotal      = "statistics:movies:total"
	CacheKeyMoviesPublished  = "statistics:movies:published"
	CacheKeyMoviesDraft      = "statistics:movies:draft"
	CacheKeySubscribersTotal = "statistics:subscribers:total"
	CacheKeyMonthlyRevenue   = "statistics:revenue:monthly"
	CacheExpiration          = 30 * time.Minute

	activityWindow = 30 * 24 * time.Hour
)

// StatisticsData holds the aggregate numbers for the admin dashboard
type StatisticsData struct {
	TotalUsers       int            `json:"total_users"`
	ActiveUsers      int            `json:"active_users_30d"`
	NewUsers         int            `json:"new_users_30d"`
	TodaySignups     int            `json:"today_signups"`
	TotalMovies      int            `json:"total_movies"`
	PublishedMovies  int            `json:"published_movies"`
	DraftMovies      int            `json:"draft_movies"`
	TotalSubscribers int            `json:"total_subscribers"`
	MonthlyRevenue   string         `json:"monthly_revenue"`
	TopMovies        []models.Movie `json:"top_movies"`
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache checks whether the cache refresh interval has elapsed
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the cache when the interval has elapsed
func UpdateCacheIfNeeded() {
	if ShouldUpdateCache() {
		cacheUpdateMutex.Lock()
		defer cacheUpdateMutex.Unlock()

		if err := UpdateStatisticsCache(); err != nil {
			log.Printf("Error updating statistics cache: %v", err)
		} else {
			lastCacheUpdate = time.Now()
		}
	}
}

// ResetCacheUpdateTimer forces the next UpdateCacheIfNeeded to refresh
func ResetCacheUpdateTimer() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	lastCacheUpdate = time.Time{}
}

// UpdateStatisticsCache recomputes all dashboard numbers and stores them
func UpdateStatisticsCache() error {
	db := database.GetDB()

	var totalUsers int64
	if err := db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		log.Printf("Error counting users: %v", err)
		return err
	}

	today := time.Now().Format("2006-01-02")
	todayStart, _ := time.Parse("2006-01-02", today)
	todayEnd := todayStart.Add(24 * time.Hour)

	var todaySignups int64
	if err := db.Model(&models.User{}).Where("created_at BETWEEN ? AND ?", todayStart, todayEnd).Count(&todaySignups).Error; err != nil {
		log.Printf("Error counting today's signups: %v", err)
		return err
	}

	windowStart := time.Now().Add(-activityWindow)

	var activeUsers int64
	if err := db.Model(&models.User{}).Where("last_login_at >= ?", windowStart).Count(&activeUsers).Error; err != nil {
		log.Printf("Error counting active users: %v", err)
		return err
	}

	var newUsers int64
	if err := db.Model(&models.User{}).Where("created_at >= ?", windowStart).Count(&newUsers).Error; err != nil {
		log.Printf("Error counting new users: %v", err)
		return err
	}

	var totalMovies int64
	if err := db.Model(&models.Movie{}).Count(&totalMovies).Error; err != nil {
		log.Printf("Error counting movies: %v", err)
		return err
	}

	var publishedMovies int64
	if err := db.Model(&models.Movie{}).Where("status = ?", models.MovieStatusPublished).Count(&publishedMovies).Error; err != nil {
		log.Printf("Error counting published movies: %v", err)
		return err
	}

	var draftMovies int64
	if err := db.Model(&models.Movie{}).Where("status = ?", models.MovieStatusDraft).Count(&draftMovies).Error; err != nil {
		log.Printf("Error counting draft movies: %v", err)
		return err
	}

	subscriberRepo := repository.GetGlobalRepositories().Subscriber
	totalSubscribers, err := subscriberRepo.CountSubscribed()
	if err != nil {
		log.Printf("Error counting subscribers: %v", err)
		return err
	}

	tierCounts, err := subscriberRepo.TierCounts()
	if err != nil {
		log.Printf("Error loading tier counts: %v", err)
		return err
	}
	revenue := subscriptions.MonthlyRevenue(tierCounts)

	if err := cache.Set(CacheKeyUsersTotal, strconv.FormatInt(totalUsers, 10), CacheExpiration); err != nil {
		return err
	}
	dailyKey := fmt.Sprintf(CacheKeyUsersDaily, today)
	if err := cache.Set(dailyKey, strconv.FormatInt(todaySignups, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeyUsersActive, strconv.FormatInt(activeUsers, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeyUsersNew, strconv.FormatInt(newUsers, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeyMoviesTotal, strconv.FormatInt(totalMovies, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeyMoviesPublished, strconv.FormatInt(publishedMovies, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeyMoviesDraft, strconv.FormatInt(draftMovies, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeySubscribersTotal, strconv.FormatInt(totalSubscribers, 10), CacheExpiration); err != nil {
		return err
	}
	if err := cache.Set(CacheKeyMonthlyRevenue, revenue.StringFixed(2), CacheExpiration); err != nil {
		return err
	}

	return nil
}

// GetStatistics returns the full dashboard snapshot, refreshing stale caches
func GetStatistics() StatisticsData {
	UpdateCacheIfNeeded()

	return StatisticsData{
		TotalUsers:       GetTotalUsers(),
		ActiveUsers:      GetActiveUsers(),
		NewUsers:         GetNewUsers(),
		TodaySignups:     GetTodaySignups(),
		TotalMovies:      GetTotalMovies(),
		PublishedMovies:  GetPublishedMovies(),
		DraftMovies:      GetDraftMovies(),
		TotalSubscribers: GetTotalSubscribers(),
		MonthlyRevenue:   GetMonthlyRevenue(),
		TopMovies:        GetTopMovies(),
	}
}

// GetActiveUsers returns the count of users seen in the last 30 days
func GetActiveUsers() int {
	return cachedCount(CacheKeyUsersActive, func() (int64, error) {
		var count int64
		err := database.GetDB().Model(&models.User{}).
			Where("last_login_at >= ?", time.Now().Add(-activityWindow)).Count(&count).Error
		return count, err
	})
}

// GetNewUsers returns the count of accounts created in the last 30 days
func GetNewUsers() int {
	return cachedCount(CacheKeyUsersNew, func() (int64, error) {
		var count int64
		err := database.GetDB().Model(&models.User{}).
			Where("created_at >= ?", time.Now().Add(-activityWindow)).Count(&count).Error
		return count, err
	})
}

// GetPublishedMovies returns the published catalog size from cache or database
func GetPublishedMovies() int {
	return cachedCount(CacheKeyMoviesPublished, func() (int64, error) {
		var count int64
		err := database.GetDB().Model(&models.Movie{}).
			Where("status = ?", models.MovieStatusPublished).Count(&count).Error
		return count, err
	})
}

// GetDraftMovies returns the draft catalog size from cache or database
func GetDraftMovies() int {
	return cachedCount(CacheKeyMoviesDraft, func() (int64, error) {
		var count int64
		err := database.GetDB().Model(&models.Movie{}).
			Where("status = ?", models.MovieStatusDraft).Count(&count).Error
		return count, err
	})
}

// GetTopMovies returns the most watched published titles. The list is read
// live; the views column itself lags only by the counter flush interval.
func GetTopMovies() []models.Movie {
	movies, err := repository.GetGlobalRepositories().Movie.GetTopViewed(5)
	if err != nil {
		log.Printf("Error loading top movies: %v", err)
		return nil
	}
	return movies
}

// GetTotalUsers returns the user count from cache or database
func GetTotalUsers() int {
	return cachedCount(CacheKeyUsersTotal, func() (int64, error) {
		var count int64
		err := database.GetDB().Model(&models.User{}).Count(&count).Error
		return count, err
	})
}

// GetTodaySignups returns today's registration count from cache or database
func GetTodaySignups() int {
	today := time.Now().Format("2006-01-02")
	return cachedCount(fmt.Sprintf(CacheKeyUsersDaily, today), func() (int64, error) {
		todayStart, _ := time.Parse("2006-01-02", today)
		todayEnd := todayStart.Add(24 * time.Hour)
		var count int64
		err := database.GetDB().Model(&models.User{}).
			Where("created_at BETWEEN ? AND ?", todayStart, todayEnd).Count(&count).Error
		return count, err
	})
}

// GetTotalMovies returns the catalog size from cache or database
func GetTotalMovies() int {
	return cachedCount(CacheKeyMoviesTotal, func() (int64, error) {
		var count int64
		err := database.GetDB().Model(&models.Movie{}).Count(&count).Error
		return count, err
	})
}

// GetTotalSubscribers returns the active subscriber count from cache or database
func GetTotalSubscribers() int {
	return cachedCount(CacheKeySubscribersTotal, func() (int64, error) {
		return repository.GetGlobalRepositories().Subscriber.CountSubscribed()
	})
}

// GetMonthlyRevenue returns the estimated recurring revenue as a decimal string
func GetMonthlyRevenue() string {
	val, err := cache.Get(CacheKeyMonthlyRevenue)
	if err == nil && val != "" {
		return val
	}

	tierCounts, err := repository.GetGlobalRepositories().Subscriber.TierCounts()
	if err != nil {
		log.Printf("Error loading tier counts: %v", err)
		return "0.00"
	}
	revenue := subscriptions.MonthlyRevenue(tierCounts)

	if err := cache.Set(CacheKeyMonthlyRevenue, revenue.StringFixed(2), CacheExpiration); err != nil {
		log.Printf("Error caching monthly revenue: %v", err)
	}
	return revenue.StringFixed(2)
}

func cachedCount(key string, load func() (int64, error)) int {
	val, err := cache.Get(key)
	if err == nil {
		if count, perr := strconv.ParseInt(val, 10, 64); perr == nil {
			return int(count)
		}
	}

	count, err := load()
	if err != nil {
		log.Printf("Error loading statistic %s: %v", key, err)
		return 0
	}

	if err := cache.Set(key, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
		log.Printf("Error caching statistic %s: %v", key, err)
	}
	return int(count)
}
