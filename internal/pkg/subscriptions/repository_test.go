package subscriptions

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/watchhubtv/watchhub/app/models"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return NewRepository(db), mock
}

func TestListActiveByUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "paypal_subscription_id", "user_id", "plan", "status"}).
		AddRow(2, "I-NEWER", 42, "premium", "active").
		AddRow(1, "I-OLDER", 42, "basic", "active")

	mock.ExpectQuery("SELECT \\* FROM `paypal_subscriptions` WHERE user_id = \\? AND status = \\? ORDER BY created_at DESC").
		WithArgs(42, "active").
		WillReturnRows(rows)

	subs, err := repo.ListActiveByUser(42)
	require.NoError(t, err)

	require.Len(t, subs, 2)
	assert.Equal(t, "I-NEWER", subs[0].PayPalSubscriptionID)
	assert.Equal(t, "I-OLDER", subs[1].PayPalSubscriptionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusTouchesOnlyTheRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE `paypal_subscriptions` SET").
		WithArgs("suspended", sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(7, models.SubscriptionStatusSuspended))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkCancelledMatchesProviderIDAndUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE `paypal_subscriptions` SET").
		WithArgs("cancelled", sqlmock.AnyArg(), "I-LIVE", 42).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkCancelled("I-LIVE", 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetSubscriberEntitlementClearsTier(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE `subscribers` SET").
		WithArgs(false, nil, nil, sqlmock.AnyArg(), 42).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetSubscriberEntitlement(42, false, nil, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetSubscriberEntitlementGrantsTier(t *testing.T) {
	repo, mock := newMockRepo(t)

	tier := "standard"
	end := time.Now().Add(30 * 24 * time.Hour)

	mock.ExpectExec("UPDATE `subscribers` SET").
		WithArgs(true, sqlmock.AnyArg(), tier, sqlmock.AnyArg(), 42).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetSubscriberEntitlement(42, true, &tier, &end))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertNotification(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO `notifications`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.InsertNotification(42, models.NotificationTypeSubscriptionCancelled,
		"Suscripción cancelada", "Tu suscripción de PayPal ha sido cancelada exitosamente.")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
