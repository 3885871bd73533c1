// Package config holds the static settings that the filter engine, the sync
// manager and the presentation layers are constructed with.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultSourceURL        = "https://raw.githubusercontent.com/KelvinTegelaar/CIPP/main/src/data/standards.json"
	DefaultNewStandardsDays = 30
	DefaultSyncTimeout      = 30 * time.Second
	DefaultRetryMax         = 3
	DefaultDBPath           = "protek.sqlite"
)

// Config is passed explicitly to every component that needs it.
type Config struct {
	BrandName       string `json:"brandName"`
	BrandSubtitle   string `json:"brandSubtitle"`
	PageTitle       string `json:"pageTitle"`
	PageSubtitle    string `json:"pageSubtitle"`
	MetaTitle       string `json:"metaTitle"`
	MetaDescription string `json:"metaDescription"`

	// NewStandardsDays is the inclusive freshness window, in calendar days.
	NewStandardsDays int `json:"newStandardsDays"`

	SourceURL   string        `json:"sourceUrl"`
	SyncTimeout time.Duration `json:"-"`
	RetryMax    int           `json:"-"`
	DBPath      string        `json:"-"`
}

func Default() Config {
	return Config{
		BrandName:        "Protek",
		BrandSubtitle:    "",
		PageTitle:        "Protek Standards",
		PageSubtitle:     "Comprehensive standards and best practices for Microsoft 365 and Azure environments.",
		MetaTitle:        "Protek - M365 Standards",
		MetaDescription:  "Browse and explore Microsoft 365 security and compliance standards with detailed configuration guidance.",
		NewStandardsDays: DefaultNewStandardsDays,
		SourceURL:        DefaultSourceURL,
		SyncTimeout:      DefaultSyncTimeout,
		RetryMax:         DefaultRetryMax,
		DBPath:           DefaultDBPath,
	}
}

// SetDefaults registers every key with viper so a freshly written config file
// lists them all.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("brand.name", d.BrandName)
	v.SetDefault("brand.subtitle", d.BrandSubtitle)
	v.SetDefault("page.title", d.PageTitle)
	v.SetDefault("page.subtitle", d.PageSubtitle)
	v.SetDefault("meta.title", d.MetaTitle)
	v.SetDefault("meta.description", d.MetaDescription)
	v.SetDefault("standards.new_days", d.NewStandardsDays)
	v.SetDefault("sync.url", d.SourceURL)
	v.SetDefault("sync.timeout", d.SyncTimeout.String())
	v.SetDefault("sync.retry_max", d.RetryMax)
	v.SetDefault("db.path", d.DBPath)
}

// FromViper overlays whatever v holds on top of Default. Invalid or
// non-positive numeric values keep the default.
func FromViper(v *viper.Viper) Config {
	c := Default()
	if v == nil {
		return c
	}

	setString := func(dst *string, key string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	setString(&c.BrandName, "brand.name")
	setString(&c.BrandSubtitle, "brand.subtitle")
	setString(&c.PageTitle, "page.title")
	setString(&c.PageSubtitle, "page.subtitle")
	setString(&c.MetaTitle, "meta.title")
	setString(&c.MetaDescription, "meta.description")

	if u := strings.TrimSpace(v.GetString("sync.url")); u != "" {
		c.SourceURL = u
	}
	if p := strings.TrimSpace(v.GetString("db.path")); p != "" {
		c.DBPath = p
	}
	if n := v.GetInt("standards.new_days"); n > 0 {
		c.NewStandardsDays = n
	}
	if v.IsSet("sync.retry_max") {
		if n := v.GetInt("sync.retry_max"); n >= 0 {
			c.RetryMax = n
		}
	}
	if d := v.GetDuration("sync.timeout"); d > 0 {
		c.SyncTimeout = d
	}
	return c
}
