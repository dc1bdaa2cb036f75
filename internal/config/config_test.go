package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/smppctl/internal/protocol"
	"github.com/danmuck/smppctl/internal/protocol/pdu"
	"github.com/danmuck/smppctl/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadTomlOverlaysDefaults(t *testing.T) {
	testlog.Start(t)
	path := write(t, "smppctl.toml", `
address = "smsc:2775"
system_id = "esme"
password = "pw"
bind = "transmitter"
tlv_mode = "strict"
response_timeout = "2s"

[tls]
enabled = true
insecure_skip_verify = true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "smsc:2775", cfg.Address)
	assert.Equal(t, "transmitter", cfg.Bind)
	assert.Equal(t, "30s", cfg.ReadTimeout)
	assert.True(t, cfg.AutoEnquireLink)
	assert.True(t, cfg.TLS.Enabled)

	cc, err := cfg.ClientConfig()
	require.NoError(t, err)
	assert.Equal(t, pdu.TLVStrict, cc.Session.TLVMode)
	assert.Equal(t, 2*time.Second, cc.Session.ResponseTimeout)
	assert.Equal(t, 30*time.Second, cc.Transport.ReadTimeout)
	assert.True(t, cc.Transport.TLS.InsecureSkipVerify)
	assert.Equal(t, protocol.BindTransmitter, cfg.BindCommand())
	assert.Equal(t, "pw", cfg.BindParams().Password)
}

func TestLoadYaml(t *testing.T) {
	testlog.Start(t)
	path := write(t, "smppctl.yml", `
address: smsc:2775
system_id: esme
bind: receiver
source:
  addr: "447700900000"
  ton: 1
  npi: 1
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, protocol.BindReceiver, cfg.BindCommand())
	assert.Equal(t, "permissive", cfg.TLVMode)
	src := cfg.SourceAddress()
	assert.Equal(t, "447700900000", src.Addr)
	assert.Equal(t, uint8(1), src.TON)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	testlog.Start(t)
	_, err := Load(write(t, "bad.toml", "address = \"a:1\"\nsystem_id = \"x\"\nsystem_idd = \"typo\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "system_idd")

	_, err = Load(write(t, "bad.yaml", "address: a:1\nsystem_id: x\nbogus: 1\n"))
	assert.Error(t, err)

	_, err = Load(write(t, "bad.json", "{}"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	testlog.Start(t)
	base := Default()
	base.Address = "smsc:2775"
	base.SystemID = "esme"
	require.NoError(t, Validate(base))

	cases := map[string]func(*File){
		"address":  func(f *File) { f.Address = " " },
		"bind":     func(f *File) { f.Bind = "both" },
		"system":   func(f *File) { f.SystemID = "" },
		"tlv mode": func(f *File) { f.TLVMode = "lenient" },
		"duration": func(f *File) { f.ReadTimeout = "soon" },
		"negative": func(f *File) { f.WriteTimeout = "-1s" },
		"level":    func(f *File) { f.LogLevel = "loud" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base
			mutate(&cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestClientConfigChecksTransport(t *testing.T) {
	testlog.Start(t)
	cfg := Default()
	cfg.Address = "smsc:2775"
	cfg.SystemID = "esme"
	cfg.TLS.Enabled = true
	_, err := cfg.ClientConfig()
	assert.Error(t, err)
}

func TestTemplatesLoad(t *testing.T) {
	testlog.Start(t)
	for _, format := range []string{"toml", "yaml"} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "smppctl."+format)
			require.NoError(t, WriteTemplate(path, format, false))
			assert.Error(t, WriteTemplate(path, format, false))
			require.NoError(t, WriteTemplate(path, format, true))

			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, "localhost:2775", cfg.Address)
			assert.Equal(t, "smppctl", cfg.Source.Addr)
		})
	}
	_, err := Template("ini")
	assert.Error(t, err)
}

func TestRenderMasksPassword(t *testing.T) {
	testlog.Start(t)
	cfg := Default()
	cfg.Address = "smsc:2775"
	cfg.SystemID = "esme"
	cfg.Password = "hunter2"

	out, err := Render(cfg, "toml")
	require.NoError(t, err)
	assert.NotContains(t, string(out), "hunter2")
	var back File
	_, err = toml.Decode(string(out), &back)
	require.NoError(t, err)
	assert.Equal(t, "esme", back.SystemID)

	out, err = Render(cfg, "yml")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(out), "system_id: esme"))
	var fromYaml File
	require.NoError(t, yaml.Unmarshal(out, &fromYaml))
	assert.Equal(t, "********", fromYaml.Password)
}
