package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return v
}

func TestDefaults(t *testing.T) {
	c, err := Load(newViper(t), "")
	if err != nil {
		t.Fatal(err)
	}
	if c.ContentDir != "content/projects" || c.Recent != 3 || c.Net != "tcp" {
		t.Errorf("defaults = %+v", c)
	}
	if c.Log.Level != "info" || c.Log.Format != "console" {
		t.Errorf("log defaults = %+v", c.Log)
	}
}

func TestBookingURLFromEnv(t *testing.T) {
	t.Setenv("NEXT_PUBLIC_BOOKING_URL", "https://cal.com/someone")
	c, err := Load(newViper(t), "")
	if err != nil {
		t.Fatal(err)
	}
	if c.BookingURL != "https://cal.com/someone" {
		t.Errorf("BookingURL = %q", c.BookingURL)
	}
}

func TestPrefixedEnv(t *testing.T) {
	t.Setenv("SHOWCASE_SITETITLE", "Jane Doe")
	t.Setenv("SHOWCASE_LOG_LEVEL", "debug")
	c, err := Load(newViper(t), "")
	if err != nil {
		t.Fatal(err)
	}
	if c.SiteTitle != "Jane Doe" || c.Log.Level != "debug" {
		t.Errorf("config = %+v", c)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	fpath := filepath.Join(dir, "site.yaml")
	data := "siteTitle: From File\nrecent: 5\ncorsOrigins: [\"https://a.example\"]\n"
	if err := os.WriteFile(fpath, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(newViper(t), fpath)
	if err != nil {
		t.Fatal(err)
	}
	if c.SiteTitle != "From File" || c.Recent != 5 || len(c.CORSOrigins) != 1 {
		t.Errorf("config = %+v", c)
	}

	if _, err := Load(newViper(t), filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load accepted a missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	v := newViper(t)
	v.Set("net", "carrier-pigeon")
	if _, err := Load(v, ""); err == nil {
		t.Error("Load accepted an unknown network")
	}

	v = newViper(t)
	v.Set("recent", -1)
	if _, err := Load(v, ""); err == nil {
		t.Error("Load accepted a negative recent count")
	}
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, ".env.local")
	shared := filepath.Join(dir, ".env")
	os.WriteFile(local, []byte("SHOWCASE_TEST_A=local\n"), 0644)
	os.WriteFile(shared, []byte("SHOWCASE_TEST_A=shared\nSHOWCASE_TEST_B=shared\n"), 0644)
	t.Cleanup(func() {
		os.Unsetenv("SHOWCASE_TEST_A")
		os.Unsetenv("SHOWCASE_TEST_B")
	})

	if err := LoadEnvFiles(local, filepath.Join(dir, "absent"), shared); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("SHOWCASE_TEST_A"); got != "local" {
		t.Errorf("SHOWCASE_TEST_A = %q, want local", got)
	}
	if got := os.Getenv("SHOWCASE_TEST_B"); got != "shared" {
		t.Errorf("SHOWCASE_TEST_B = %q, want shared", got)
	}
}
