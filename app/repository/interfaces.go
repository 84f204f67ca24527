package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/watchhubtv/watchhub/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByActivationToken(token string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	Search(query string) ([]models.User, error)
}

// ProfileRepository defines the interface for viewing-profile operations
type ProfileRepository interface {
	Create(profile *models.UserProfile) error
	GetByID(id uint) (*models.UserProfile, error)
	GetByUserID(userID uint) ([]models.UserProfile, error)
	GetMain(userID uint) (*models.UserProfile, error)
	CountByUserID(userID uint) (int64, error)
	Update(profile *models.UserProfile) error
	Delete(id uint, userID uint) error
}

// WatchlistRepository defines the interface for watchlist operations
type WatchlistRepository interface {
	Add(item *models.WatchlistItem) error
	Remove(userID uint, imdbID string) error
	GetByUserID(userID uint) ([]models.WatchlistItem, error)
	Exists(userID uint, imdbID string) (bool, error)
	CountByUserID(userID uint) (int64, error)
}

// ProgressRepository defines the interface for playback-progress operations
type ProgressRepository interface {
	Upsert(progress *models.VideoProgress) error
	Get(userID, profileID uint, videoID string) (*models.VideoProgress, error)
	GetContinueWatching(userID, profileID uint, limit int) ([]models.VideoProgress, error)
	Delete(userID, profileID uint, videoID string) error
}

// MovieRepository defines the interface for catalog operations
type MovieRepository interface {
	Create(movie *models.Movie) error
	GetByID(id uint) (*models.Movie, error)
	GetByImdbID(imdbID string) (*models.Movie, error)
	GetPublished(offset, limit int) ([]models.Movie, error)
	GetTopViewed(limit int) ([]models.Movie, error)
	Search(query string) ([]models.Movie, error)
	Update(movie *models.Movie) error
	Delete(id uint) error
	Count() (int64, error)
	IncrementViews(id uint) error
}

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	Create(notification *models.Notification) error
	GetByUserID(userID uint, limit int) ([]models.Notification, error)
	CountUnread(userID uint) (int64, error)
	MarkAsRead(id uint, userID uint) error
	MarkAllAsRead(userID uint) error
	Delete(id uint, userID uint) error
}

// PaymentMethodRepository defines the interface for stored payment methods
type PaymentMethodRepository interface {
	Create(method *models.PaymentMethod) error
	GetByUserID(userID uint) ([]models.PaymentMethod, error)
	GetDefault(userID uint) (*models.PaymentMethod, error)
	SetDefault(id uint, userID uint) error
	Delete(id uint, userID uint) error
}

// SubscriberRepository defines the interface for entitlement rows
type SubscriberRepository interface {
	GetByUserID(userID uint) (*models.Subscriber, error)
	Upsert(subscriber *models.Subscriber) error
	CountSubscribed() (int64, error)
	TierCounts() (map[string]int64, error)
	ExpireLapsed(now time.Time) (int64, error)
}

// SubscriptionRepository exposes provider-subscription rows for queries
// outside the lifecycle itself (account pages, admin views).
type SubscriptionRepository interface {
	GetByUserID(userID uint) ([]models.PayPalSubscription, error)
	List(offset, limit int) ([]models.PayPalSubscription, error)
	Count() (int64, error)
	CountByStatus(status string) (int64, error)
}

// QueueRepository defines the interface for cache/queue inspection
type QueueRepository interface {
	GetValue(key string) (string, error)
	GetTTL(key string) (time.Duration, error)
	DeleteKey(key string) (int64, error)
	GetListLength(key string) (int64, error)
	FindKeysByPatterns(patterns []string) ([]string, error)
	DeleteKeys(keys []string) (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User          UserRepository
	Profile       ProfileRepository
	Watchlist     WatchlistRepository
	Progress      ProgressRepository
	Movie         MovieRepository
	Notification  NotificationRepository
	PaymentMethod PaymentMethodRepository
	Subscriber    SubscriberRepository
	Subscription  SubscriptionRepository
	Queue         QueueRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:          NewUserRepository(db),
		Profile:       NewProfileRepository(db),
		Watchlist:     NewWatchlistRepository(db),
		Progress:      NewProgressRepository(db),
		Movie:         NewMovieRepository(db),
		Notification:  NewNotificationRepository(db),
		PaymentMethod: NewPaymentMethodRepository(db),
		Subscriber:    NewSubscriberRepository(db),
		Subscription:  NewSubscriptionRepository(db),
		Queue:         NewQueueRepository(),
	}
}
