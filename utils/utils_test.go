package utils

import (
	"net/url"
	"reflect"
	"testing"
)

func TestResolveURL(t *testing.T) {
	base, _ := url.Parse("https://www.acme.com/pricing/")

	tests := []struct {
		ref  string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"data:image/png;base64,iVBOR", ""},
		{"/img/logo.png", "https://www.acme.com/img/logo.png"},
		{"banner.jpg", "https://www.acme.com/pricing/banner.jpg"},
		{"https://cdn.acme.com/a.png", "https://cdn.acme.com/a.png"},
		{"//cdn.acme.com/b.png", "https://cdn.acme.com/b.png"},
	}

	for _, tt := range tests {
		if got := ResolveURL(tt.ref, base); got != tt.want {
			t.Errorf("ResolveURL(%q): expected %q, got %q", tt.ref, tt.want, got)
		}
	}
}

func TestIsTracker(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.google-analytics.com/collect", true},
		{"https://tags.tealiumiq.com/utag.js", true},
		{"https://connect.facebook.net/en_US/fbevents.js", true},
		{"https://www.acme.com/img/logo.png", false},
		{"https://cdn.acme.com/hero.jpg", false},
	}

	for _, tt := range tests {
		if got := IsTracker(tt.url); got != tt.want {
			t.Errorf("IsTracker(%q): expected %v, got %v", tt.url, tt.want, got)
		}
	}
}

func TestSameDomain(t *testing.T) {
	base, _ := url.Parse("https://www.acme.com/")

	tests := []struct {
		url  string
		want bool
	}{
		{"https://acme.com/logo.png", true},
		{"https://www.acme.com/logo.png", true},
		{"https://cdn.acme.com/logo.png", true},
		{"/relative/logo.png", true},
		{"https://badges.example.org/award.png", false},
	}

	for _, tt := range tests {
		if got := SameDomain(tt.url, base); got != tt.want {
			t.Errorf("SameDomain(%q): expected %v, got %v", tt.url, tt.want, got)
		}
	}
}

func TestDedupe(t *testing.T) {
	in := []string{"a", "", "b", "a", "  ", "c", "b"}
	want := []string{"a", "b", "c"}

	got := Dedupe(in)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestDedupeEmptyInputStaysNonNil(t *testing.T) {
	got := Dedupe(nil)
	if got == nil {
		t.Fatal("expected non-nil slice for nil input")
	}
	if len(got) != 0 {
		t.Fatalf("expected empty slice, got %v", got)
	}
}

func TestHostSlug(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.acme.com/pricing", "acme.com"},
		{"https://acme.com", "acme.com"},
		{"https://sub.acme.co.uk/x", "sub.acme.co.uk"},
	}

	for _, tt := range tests {
		if got := HostSlug(tt.url); got != tt.want {
			t.Errorf("HostSlug(%q): expected %q, got %q", tt.url, tt.want, got)
		}
	}
}

func TestBrandHint(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.acme.com/", "acme"},
		{"https://shop.globex.io/", "shop"},
	}

	for _, tt := range tests {
		base, _ := url.Parse(tt.url)
		if got := BrandHint(base); got != tt.want {
			t.Errorf("BrandHint(%q): expected %q, got %q", tt.url, tt.want, got)
		}
	}
}
