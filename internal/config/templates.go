package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v2"
)

// Template returns an example config in the given format ("toml" or "yaml").
func Template(format string) (string, error) {
	switch normalizeFormat(format) {
	case "toml":
		return tomlTemplate, nil
	case "yaml":
		return yamlTemplate, nil
	default:
		return "", fmt.Errorf("unknown config format: %s", format)
	}
}

func WriteTemplate(path, format string, overwrite bool) error {
	template, err := Template(format)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

// Render serializes cfg with secrets masked.
func Render(cfg File, format string) ([]byte, error) {
	if cfg.Password != "" {
		cfg.Password = "********"
	}
	if cfg.StatusToken != "" {
		cfg.StatusToken = "********"
	}
	switch normalizeFormat(format) {
	case "toml":
		return toml.Marshal(cfg)
	case "yaml":
		return yaml.Marshal(cfg)
	default:
		return nil, fmt.Errorf("unknown config format: %s", format)
	}
}

func normalizeFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "yml" {
		return "yaml"
	}
	return format
}

const tomlTemplate = `address = "localhost:2775"
bind = "transceiver"
system_id = "smppclient1"
password = "password"
system_type = ""
tlv_mode = "permissive"
connect_timeout = "5s"
read_timeout = "30s"
write_timeout = "10s"
response_timeout = "10s"
enquire_link_interval = "30s"
auto_enquire_link = true
log_level = "info"
metrics_addr = ":9108"

[source]
addr = "smppctl"
ton = 5
npi = 0

[tls]
enabled = false
ca_file = ""
server_name = ""
`

const yamlTemplate = `address: localhost:2775
bind: transceiver
system_id: smppclient1
password: password
tlv_mode: permissive
connect_timeout: 5s
read_timeout: 30s
write_timeout: 10s
response_timeout: 10s
enquire_link_interval: 30s
auto_enquire_link: true
log_level: info
metrics_addr: ":9108"
source:
  addr: smppctl
  ton: 5
  npi: 0
tls:
  enabled: false
`
