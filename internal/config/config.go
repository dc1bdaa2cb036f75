package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/smppctl/internal/protocol/pdu"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

// File is the on-disk client configuration. Durations are Go duration
// strings ("5s", "250ms").
type File struct {
	Address             string     `toml:"address" yaml:"address"`
	Bind                string     `toml:"bind" yaml:"bind"`
	SystemID            string     `toml:"system_id" yaml:"system_id"`
	Password            string     `toml:"password" yaml:"password"`
	SystemType          string     `toml:"system_type" yaml:"system_type"`
	AddressRange        string     `toml:"address_range" yaml:"address_range"`
	AddrTON             uint8      `toml:"addr_ton" yaml:"addr_ton"`
	AddrNPI             uint8      `toml:"addr_npi" yaml:"addr_npi"`
	TLVMode             string     `toml:"tlv_mode" yaml:"tlv_mode"`
	ConnectTimeout      string     `toml:"connect_timeout" yaml:"connect_timeout"`
	ReadTimeout         string     `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout        string     `toml:"write_timeout" yaml:"write_timeout"`
	ResponseTimeout     string     `toml:"response_timeout" yaml:"response_timeout"`
	EnquireLinkInterval string     `toml:"enquire_link_interval" yaml:"enquire_link_interval"`
	AutoEnquireLink     bool       `toml:"auto_enquire_link" yaml:"auto_enquire_link"`
	LogLevel            string     `toml:"log_level" yaml:"log_level"`
	MetricsAddr         string     `toml:"metrics_addr" yaml:"metrics_addr"`
	StatusToken         string     `toml:"status_token" yaml:"status_token"`
	Source              SourceFile `toml:"source" yaml:"source"`
	TLS                 TLSFile    `toml:"tls" yaml:"tls"`
}

// SourceFile is the default originator for submitted messages.
type SourceFile struct {
	Addr string `toml:"addr" yaml:"addr"`
	TON  uint8  `toml:"ton" yaml:"ton"`
	NPI  uint8  `toml:"npi" yaml:"npi"`
}

type TLSFile struct {
	Enabled            bool   `toml:"enabled" yaml:"enabled"`
	Mutual             bool   `toml:"mutual" yaml:"mutual"`
	CAFile             string `toml:"ca_file" yaml:"ca_file"`
	CertFile           string `toml:"cert_file" yaml:"cert_file"`
	KeyFile            string `toml:"key_file" yaml:"key_file"`
	ServerName         string `toml:"server_name" yaml:"server_name"`
	InsecureSkipVerify bool   `toml:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

var bindModes = map[string]bool{
	"transmitter": true,
	"receiver":    true,
	"transceiver": true,
}

func Default() File {
	return File{
		Bind:                "transceiver",
		TLVMode:             pdu.TLVPermissive.String(),
		ConnectTimeout:      "5s",
		ReadTimeout:         "30s",
		WriteTimeout:        "10s",
		ResponseTimeout:     "10s",
		EnquireLinkInterval: "30s",
		AutoEnquireLink:     true,
		LogLevel:            "info",
	}
}

// Load reads a TOML or YAML file, by extension, over Default. Unknown keys
// are rejected.
func Load(path string) (File, error) {
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := loadToml(path, &cfg); err != nil {
			return File{}, err
		}
	case ".yaml", ".yml":
		if err := loadYaml(path, &cfg); err != nil {
			return File{}, err
		}
	default:
		return File{}, fmt.Errorf("config load failed (%s): unsupported extension", path)
	}
	if err := Validate(cfg); err != nil {
		return File{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func loadToml(path string, out *File) error {
	meta, err := toml.DecodeFile(path, out)
	if err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("config parse failed (%s): unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func loadYaml(path string, out *File) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func Validate(cfg File) error {
	if strings.TrimSpace(cfg.Address) == "" {
		return fmt.Errorf("config missing address")
	}
	if !bindModes[cfg.Bind] {
		return fmt.Errorf("bind must be transmitter, receiver or transceiver, got %q", cfg.Bind)
	}
	if strings.TrimSpace(cfg.SystemID) == "" {
		return fmt.Errorf("config missing system_id")
	}
	if _, err := pdu.ParseTLVMode(cfg.TLVMode); err != nil {
		return fmt.Errorf("tlv_mode: %w", err)
	}
	durations := map[string]string{
		"connect_timeout":       cfg.ConnectTimeout,
		"read_timeout":          cfg.ReadTimeout,
		"write_timeout":         cfg.WriteTimeout,
		"response_timeout":      cfg.ResponseTimeout,
		"enquire_link_interval": cfg.EnquireLinkInterval,
	}
	for _, key := range sortedKeys(durations) {
		if _, err := parseDuration(durations[key]); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.LogLevel))); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// parseDuration treats an empty string as zero.
func parseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", raw)
	}
	return d, nil
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
