package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg, err := decode(v)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "mongo", cfg.StoreDriver)
	assert.Equal(t, 5*time.Minute, cfg.ProviderCacheTTL)
	assert.Equal(t, 10*time.Minute, cfg.ExpirySweepInterval)
	assert.Equal(t, []int{24, 2}, cfg.ReminderHours)
	assert.Equal(t, []string{"push"}, cfg.NotificationChannels)
}

func TestBookingPolicyFromDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg, err := decode(v)
	require.NoError(t, err)

	p := cfg.BookingPolicy()
	assert.Equal(t, 24, p.AutoCancelHours)
	assert.Equal(t, 2*time.Hour, p.MinCancelLeadTime)
	assert.Equal(t, 15*time.Minute, p.PreparationBuffer)
	assert.Equal(t, []time.Duration{24 * time.Hour, 2 * time.Hour}, p.ReminderOffsets)
}

func TestBookingPolicyOverrides(t *testing.T) {
	cfg := Config{
		AutoCancelPendingHours:   48,
		MinCancelLeadHours:       6,
		PreparationBufferMinutes: 30,
		ReminderHours:            []int{1, 0, -2},
		NotificationChannels:     []string{"push", "sms"},
		AdminIDs:                 []string{"admin-1"},
	}

	p := cfg.BookingPolicy()
	assert.Equal(t, 48, p.AutoCancelHours)
	assert.Equal(t, 6*time.Hour, p.MinCancelLeadTime)
	assert.Equal(t, 30*time.Minute, p.PreparationBuffer)
	assert.Equal(t, []time.Duration{time.Hour}, p.ReminderOffsets)
	assert.Equal(t, []string{"push", "sms"}, p.Channels)
	assert.True(t, p.IsAdmin("admin-1"))
}
