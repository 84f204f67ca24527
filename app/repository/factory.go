package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetProfileRepository returns the viewing-profile repository instance
func (f *Factory) GetProfileRepository() ProfileRepository {
	return f.GetRepositories().Profile
}

// GetWatchlistRepository returns the watchlist repository instance
func (f *Factory) GetWatchlistRepository() WatchlistRepository {
	return f.GetRepositories().Watchlist
}

// GetProgressRepository returns the playback-progress repository instance
func (f *Factory) GetProgressRepository() ProgressRepository {
	return f.GetRepositories().Progress
}

// GetMovieRepository returns the catalog repository instance
func (f *Factory) GetMovieRepository() MovieRepository {
	return f.GetRepositories().Movie
}

// GetNotificationRepository returns the notification repository instance
func (f *Factory) GetNotificationRepository() NotificationRepository {
	return f.GetRepositories().Notification
}

// GetPaymentMethodRepository returns the payment method repository instance
func (f *Factory) GetPaymentMethodRepository() PaymentMethodRepository {
	return f.GetRepositories().PaymentMethod
}

// GetSubscriberRepository returns the subscriber repository instance
func (f *Factory) GetSubscriberRepository() SubscriberRepository {
	return f.GetRepositories().Subscriber
}

// GetSubscriptionRepository returns the subscription repository instance
func (f *Factory) GetSubscriptionRepository() SubscriptionRepository {
	return f.GetRepositories().Subscription
}

// GetQueueRepository returns the queue repository instance
func (f *Factory) GetQueueRepository() QueueRepository {
	return f.GetRepositories().Queue
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
