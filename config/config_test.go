package config

import (
	"testing"
	"time"

	"godial/internal/resolve"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid numeric port", Config{Host: "example.com", Port: "6667"}, false},
		{"valid service name", Config{Host: "example.com", Port: "ircd"}, false},
		{"missing host", Config{Port: "6667"}, true},
		{"missing port", Config{Host: "example.com"}, true},
		{"port too large", Config{Host: "example.com", Port: "70000"}, true},
		{"port zero", Config{Host: "example.com", Port: "0"}, true},
		{"bad family", Config{Host: "example.com", Port: "80", Family: "ipx"}, true},
		{"family ipv6", Config{Host: "example.com", Port: "80", Family: "ipv6"}, false},
		{"family dual", Config{Host: "example.com", Port: "80", Family: "dual"}, false},
		{"negative source port", Config{Host: "example.com", Port: "80", LocalPort: -1}, true},
		{"negative timeout", Config{Host: "example.com", Port: "80", Timeout: -time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFamilyPolicy(t *testing.T) {
	tests := []struct {
		family string
		want   resolve.Policy
	}{
		{"", resolve.IPv4Only},
		{"ipv4", resolve.IPv4Only},
		{"ipv6", resolve.IPv6Only},
		{"dual", resolve.DualStack},
	}
	for _, tt := range tests {
		c := Config{Family: tt.family}
		if got := c.FamilyPolicy(); got != tt.want {
			t.Errorf("FamilyPolicy(%q) = %v, want %v", tt.family, got, tt.want)
		}
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %q, want %q", cfg.Port, DefaultPort)
	}
	if cfg.Family != DefaultFamily {
		t.Errorf("Family = %q, want %q", cfg.Family, DefaultFamily)
	}
	if cfg.Timeout != DefaultConnTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultConnTimeout)
	}
}

func TestAddr(t *testing.T) {
	c := Config{Host: "irc.example.com", Port: "6667"}
	if got := c.Addr(); got != "irc.example.com:6667" {
		t.Errorf("Addr() = %q", got)
	}

	c = Config{Host: "::1", Port: "80"}
	if got := c.Addr(); got != "[::1]:80" {
		t.Errorf("Addr() = %q", got)
	}
}
