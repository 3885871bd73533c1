package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.NewStandardsDays != 30 {
		t.Fatalf("NewStandardsDays = %d, want 30", c.NewStandardsDays)
	}
	if c.SourceURL != DefaultSourceURL {
		t.Errorf("SourceURL = %q", c.SourceURL)
	}
	if c.PageTitle != "Protek Standards" {
		t.Errorf("PageTitle = %q", c.PageTitle)
	}
}

func TestFromViper(t *testing.T) {
	tests := []struct {
		name  string
		setup func(v *viper.Viper)
		check func(t *testing.T, c Config)
	}{
		{
			name:  "nil viper gives defaults",
			setup: nil,
			check: func(t *testing.T, c Config) {
				if c != Default() {
					t.Errorf("got %+v, want defaults", c)
				}
			},
		},
		{
			name: "overrides",
			setup: func(v *viper.Viper) {
				v.Set("brand.name", "Acme")
				v.Set("standards.new_days", 7)
				v.Set("sync.url", "https://example.com/standards.json")
				v.Set("sync.timeout", "5s")
				v.Set("sync.retry_max", 0)
			},
			check: func(t *testing.T, c Config) {
				if c.BrandName != "Acme" {
					t.Errorf("BrandName = %q", c.BrandName)
				}
				if c.NewStandardsDays != 7 {
					t.Errorf("NewStandardsDays = %d", c.NewStandardsDays)
				}
				if c.SourceURL != "https://example.com/standards.json" {
					t.Errorf("SourceURL = %q", c.SourceURL)
				}
				if c.SyncTimeout != 5*time.Second {
					t.Errorf("SyncTimeout = %v", c.SyncTimeout)
				}
				if c.RetryMax != 0 {
					t.Errorf("RetryMax = %d", c.RetryMax)
				}
			},
		},
		{
			name: "non-positive window keeps default",
			setup: func(v *viper.Viper) {
				v.Set("standards.new_days", -3)
				v.Set("sync.url", "   ")
			},
			check: func(t *testing.T, c Config) {
				if c.NewStandardsDays != DefaultNewStandardsDays {
					t.Errorf("NewStandardsDays = %d", c.NewStandardsDays)
				}
				if c.SourceURL != DefaultSourceURL {
					t.Errorf("SourceURL = %q", c.SourceURL)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v *viper.Viper
			if tt.setup != nil {
				v = viper.New()
				tt.setup(v)
			}
			tt.check(t, FromViper(v))
		})
	}
}

func TestSetDefaultsRoundTrip(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	if got := FromViper(v); got != Default() {
		t.Errorf("FromViper(defaults) = %+v, want %+v", got, Default())
	}
}
