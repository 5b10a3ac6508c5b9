// Package config loads the economy configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rbrabson/economy/pkg/store"
	log "github.com/sirupsen/logrus"
)

// Config is the configuration for the storage engine and the defaults used by every guild
// that has not overridden a setting.
type Config struct {
	StoreType     string
	StoragePath   string
	CheckStorage  bool
	CheckInterval time.Duration
	MongoURI      string
	MongoDatabase string
	LogLevel      string
	LogFile       string
	MetricsAddr   string
	Defaults      Defaults
}

// Defaults are the global values for the per-guild settings.
type Defaults struct {
	DailyAmount          float64
	WorkAmount           float64
	WeeklyAmount         float64
	DailyCooldown        time.Duration
	WorkCooldown         time.Duration
	WeeklyCooldown       time.Duration
	SellingItemPercent   float64
	DateLocale           string
	CurrencyName         string
	CurrencySymbol       string
	MinBankAmount        float64
	MaxBankAmount        float64
	SavePurchasesHistory bool
}

// Default returns the configuration used when nothing is set in the environment.
func Default() *Config {
	return &Config{
		StoreType:     store.TypeFile,
		StoragePath:   "storage.json",
		CheckStorage:  true,
		CheckInterval: 1000 * time.Millisecond,
		MongoDatabase: "economy",
		LogLevel:      "info",
		Defaults: Defaults{
			DailyAmount:          100,
			WorkAmount:           10,
			WeeklyAmount:         1000,
			DailyCooldown:        24 * time.Hour,
			WorkCooldown:         time.Hour,
			WeeklyCooldown:       7 * 24 * time.Hour,
			SellingItemPercent:   75,
			DateLocale:           "en",
			CurrencyName:         "coins",
			CurrencySymbol:       "",
			MinBankAmount:        0,
			MaxBankAmount:        0,
			SavePurchasesHistory: true,
		},
	}
}

// Load reads the configuration from the environment, after loading any `.env` file.
func Load() (*Config, error) {
	log.Trace("--> config.Load")
	defer log.Trace("<-- config.Load")

	godotenv.Load()

	cfg := Default()
	cfg.StoreType = getString("ECONOMY_STORE", cfg.StoreType)
	cfg.StoragePath = getString("ECONOMY_STORAGE_PATH", cfg.StoragePath)
	cfg.MongoURI = getString("MONGODB_URI", cfg.MongoURI)
	cfg.MongoDatabase = getString("MONGODB_DATABASE", cfg.MongoDatabase)
	cfg.LogLevel = getString("ECONOMY_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getString("ECONOMY_LOG_FILE", cfg.LogFile)
	cfg.MetricsAddr = getString("ECONOMY_METRICS_ADDR", cfg.MetricsAddr)

	var err error
	if cfg.CheckStorage, err = getBool("ECONOMY_CHECK_STORAGE", cfg.CheckStorage); err != nil {
		return nil, err
	}
	var interval float64
	if interval, err = getFloat("ECONOMY_CHECK_INTERVAL", float64(cfg.CheckInterval/time.Millisecond)); err != nil {
		return nil, err
	}
	cfg.CheckInterval = time.Duration(interval) * time.Millisecond

	d := &cfg.Defaults
	floats := []struct {
		name  string
		value *float64
	}{
		{"ECONOMY_DAILY_AMOUNT", &d.DailyAmount},
		{"ECONOMY_WORK_AMOUNT", &d.WorkAmount},
		{"ECONOMY_WEEKLY_AMOUNT", &d.WeeklyAmount},
		{"ECONOMY_SELL_PERCENT", &d.SellingItemPercent},
		{"ECONOMY_MIN_BANK_AMOUNT", &d.MinBankAmount},
		{"ECONOMY_MAX_BANK_AMOUNT", &d.MaxBankAmount},
	}
	for _, f := range floats {
		if *f.value, err = getFloat(f.name, *f.value); err != nil {
			return nil, err
		}
	}
	durations := []struct {
		name  string
		value *time.Duration
	}{
		{"ECONOMY_DAILY_COOLDOWN", &d.DailyCooldown},
		{"ECONOMY_WORK_COOLDOWN", &d.WorkCooldown},
		{"ECONOMY_WEEKLY_COOLDOWN", &d.WeeklyCooldown},
	}
	for _, f := range durations {
		if *f.value, err = getDuration(f.name, *f.value); err != nil {
			return nil, err
		}
	}
	if d.SavePurchasesHistory, err = getBool("ECONOMY_SAVE_HISTORY", d.SavePurchasesHistory); err != nil {
		return nil, err
	}
	d.DateLocale = getString("ECONOMY_DATE_LOCALE", d.DateLocale)
	d.CurrencyName = getString("ECONOMY_CURRENCY_NAME", d.CurrencyName)
	d.CurrencySymbol = getString("ECONOMY_CURRENCY_SYMBOL", d.CurrencySymbol)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the storage engine cannot run without.
func (c *Config) Validate() error {
	if err := store.ValidatePath(c.StoragePath); err != nil {
		return err
	}
	if c.CheckInterval <= 0 {
		return errors.Errorf("the storage check interval must be positive, got %s", c.CheckInterval)
	}
	if c.Defaults.SellingItemPercent < 0 || c.Defaults.SellingItemPercent > 100 {
		return errors.Errorf("the selling percentage must be between 0 and 100, got %v", c.Defaults.SellingItemPercent)
	}
	return nil
}

// StoreOptions returns the options used to create the Store.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Type:          c.StoreType,
		Path:          c.StoragePath,
		MongoURI:      c.MongoURI,
		MongoDatabase: c.MongoDatabase,
	}
}

func getString(name string, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func getBool(name string, def bool) (bool, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, errors.Wrapf(err, "invalid value for %s", name)
	}
	return b, nil
}

func getFloat(name string, def float64) (float64, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, errors.Wrapf(err, "invalid value for %s", name)
	}
	return f, nil
}

func getDuration(name string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	// If the duration is just a number, default to hours
	if _, err := strconv.Atoi(v); err == nil {
		v += "h"
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, errors.Wrapf(err, "invalid value for %s", name)
	}
	return d, nil
}
