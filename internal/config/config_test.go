package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Success(t *testing.T) {
	os.Clearenv()
	// Set minimal required fields
	os.Setenv("JWT_ACCESS_SECRET", "12345678901234567890123456789012")

	// Set specific overrides
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("ENABLE_METRICS", "false")
	os.Setenv("DB_MAX_OPEN_CONNS", "50")
	os.Setenv("CORS_ALLOWED_ORIGINS", "http://foo.com,http://bar.com")
	os.Setenv("ABSENCE_THRESHOLD_MINUTES", "45")

	defer os.Clearenv()

	cfg, err := Load()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, []string{"http://foo.com", "http://bar.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 45, cfg.Scheduler.ThresholdMinutes)
	assert.Equal(t, 9, cfg.Scheduler.WeekdayStartHour)
	assert.Equal(t, 18, cfg.Scheduler.WeekdayEndHour)
	assert.Equal(t, 5*time.Minute, cfg.Scheduler.MisfireGrace)
}

func TestLoad_ValidationFailure(t *testing.T) {
	os.Clearenv()

	// Case 1: Missing secret completely
	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_ACCESS_SECRET is required")

	// Case 2: Short secret
	os.Setenv("JWT_ACCESS_SECRET", "short")
	defer os.Clearenv()

	_, err = Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must be at least 32 characters")
}

func TestValidateScheduler(t *testing.T) {
	base := func() *Config {
		return &Config{
			Scheduler: SchedulerConfig{
				Enabled:          true,
				ThresholdMinutes: 30,
				WeekdayStartHour: 9,
				WeekdayEndHour:   18,
				MisfireGrace:     5 * time.Minute,
				StoreTZOffsetMin: 420,
				APIBaseURL:       "https://api.example.com",
				AuthUsername:     "scheduler",
				AuthPassword:     "secret",
			},
			Push: PushConfig{
				Endpoint: "https://push.example.com/send",
				Timeout:  30 * time.Second,
			},
		}
	}

	require.NoError(t, base().ValidateScheduler())

	// Equal start and end hours is a valid always-closed window
	cfg := base()
	cfg.Scheduler.WeekdayStartHour = 10
	cfg.Scheduler.WeekdayEndHour = 10
	assert.NoError(t, cfg.ValidateScheduler())

	cfg = base()
	cfg.Scheduler.ThresholdMinutes = 0
	assert.Error(t, cfg.ValidateScheduler())

	cfg = base()
	cfg.Scheduler.WeekdayStartHour = 24
	assert.Error(t, cfg.ValidateScheduler())

	cfg = base()
	cfg.Scheduler.WeekdayStartHour = 18
	cfg.Scheduler.WeekdayEndHour = 9
	assert.Error(t, cfg.ValidateScheduler())

	cfg = base()
	cfg.Scheduler.APIBaseURL = ""
	assert.Error(t, cfg.ValidateScheduler())

	cfg = base()
	cfg.Push.Endpoint = ""
	assert.Error(t, cfg.ValidateScheduler())
}

func TestStoreLocation(t *testing.T) {
	cfg := &Config{Scheduler: SchedulerConfig{StoreTZOffsetMin: 420}}
	loc := cfg.StoreLocation()

	// 00:00 UTC should map to 07:00 in a UTC+7 store
	utcMidnight := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 7, utcMidnight.In(loc).Hour())
}

func TestGetEnvHelpers(t *testing.T) {
	os.Setenv("TEST_INT", "abc")
	os.Setenv("TEST_BOOL", "not_bool")
	os.Setenv("TEST_DUR", "invalid_dur")
	defer os.Clearenv()

	assert.Equal(t, 10, getEnvAsInt("TEST_INT", 10))
	assert.Equal(t, true, getEnvAsBool("TEST_BOOL", true))
	assert.Equal(t, time.Second, getEnvAsDuration("TEST_DUR", time.Second))

	os.Setenv("TEST_SLICE", "")
	assert.Equal(t, []string{"default"}, getEnvAsSlice("TEST_SLICE", []string{"default"}))
}
