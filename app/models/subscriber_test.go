package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubscriberHasActiveEntitlement(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)
	past := time.Now().Add(-24 * time.Hour)

	assert.False(t, (&Subscriber{Subscribed: false}).HasActiveEntitlement())
	assert.True(t, (&Subscriber{Subscribed: true}).HasActiveEntitlement())
	assert.True(t, (&Subscriber{Subscribed: true, SubscriptionEnd: &future}).HasActiveEntitlement())
	assert.False(t, (&Subscriber{Subscribed: true, SubscriptionEnd: &past}).HasActiveEntitlement())
}
