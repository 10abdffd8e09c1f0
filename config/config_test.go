package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moffa90/go-ntrcard/blowfish"
	"github.com/moffa90/go-ntrcard/keytable"
	"github.com/moffa90/go-ntrcard/ntrcard"
	"github.com/moffa90/go-ntrcard/simcard"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "slot.yaml")
	writeFile(t, path, []byte(body))
	return path
}

func TestLoadValidConfigAndResolveRelativePaths(t *testing.T) {
	tmp := t.TempDir()
	blob := keytable.MarshalTable(simcard.SyntheticTable(1))
	keyPath := filepath.Join(tmp, "keys", "ntr.bin")
	require.NoError(t, os.MkdirAll(filepath.Dir(keyPath), 0o755))
	writeFile(t, keyPath, blob)

	cfgPath := writeConfig(t, tmp, `
platform:
  hardware_key2: true
  can_reset: false
  initial_status: key1
keys:
  - selector: ntr
    file: "keys/ntr.bin"
    blake2b: "`+keytable.Digest(blob)+`"
handshake:
  selector: ntr
  boot_delay: 1024
logging:
  level: debug
  format: json
trace:
  archive: "traces.db"
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Keys[0].File != keyPath {
		t.Fatalf("expected resolved key path %q, got %q", keyPath, cfg.Keys[0].File)
	}
	assert.Equal(t, filepath.Join(tmp, "traces.db"), cfg.Trace.Archive)

	assert.Equal(t, ntrcard.Capabilities{
		HardwareKey2:  true,
		CanReset:      false,
		InitialStatus: ntrcard.StatusKey1,
	}, cfg.Capabilities())
	assert.Equal(t, blowfish.KeyNTR, cfg.Selector())

	store, err := cfg.KeyStore()
	require.NoError(t, err)
	var got blowfish.Table
	require.NoError(t, store.InitTable(&got, blowfish.KeyNTR))
	assert.Equal(t, *simcard.SyntheticTable(1), got)

	logger := cfg.Logger()
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	assert.Len(t, cfg.Options(logger), 2)
}

func TestLoadEmptyConfigUsesDefaults(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir(), "{}\n")

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, ntrcard.Capabilities{
		HardwareKey2:  true,
		CanReset:      true,
		InitialStatus: ntrcard.StatusRaw,
	}, cfg.Capabilities())
	assert.Equal(t, blowfish.KeyNTR, cfg.Selector())
	assert.Equal(t, logrus.InfoLevel, cfg.Logger().GetLevel())
	assert.Len(t, cfg.Options(cfg.Logger()), 1)

	store, err := cfg.KeyStore()
	require.NoError(t, err)
	assert.Empty(t, store.Selectors())
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir(), `
platform:
  hardware_key3: true
`)

	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	if !strings.Contains(err.Error(), "parse config yaml") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	tmp := t.TempDir()
	keyPath := filepath.Join(tmp, "ntr.bin")
	writeFile(t, keyPath, keytable.MarshalTable(simcard.SyntheticTable(2)))

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "bad initial status",
			body:    "platform:\n  initial_status: key3\n",
			wantErr: "config.platform.initial_status",
		},
		{
			name:    "bad selector",
			body:    "keys:\n  - selector: twl\n    file: ntr.bin\n",
			wantErr: "config.keys[0].selector",
		},
		{
			name:    "duplicate selector",
			body:    "keys:\n  - selector: ntr\n    file: ntr.bin\n  - selector: ntr\n    file: ntr.bin\n",
			wantErr: "duplicate selector",
		},
		{
			name:    "missing file field",
			body:    "keys:\n  - selector: ntr\n",
			wantErr: "config.keys[0].file is required",
		},
		{
			name:    "missing file",
			body:    "keys:\n  - selector: ntr\n    file: nope.bin\n",
			wantErr: "config.keys[0].file",
		},
		{
			name:    "directory instead of file",
			body:    "keys:\n  - selector: ntr\n    file: .\n",
			wantErr: "must point to a file",
		},
		{
			name:    "short digest",
			body:    "keys:\n  - selector: ntr\n    file: ntr.bin\n    blake2b: abcd\n",
			wantErr: "64 hex digits",
		},
		{
			name:    "handshake selector without table",
			body:    "keys:\n  - selector: ntr\n    file: ntr.bin\nhandshake:\n  selector: b9-dev\n",
			wantErr: "no key table configured for b9-dev",
		},
		{
			name:    "bad log level",
			body:    "logging:\n  level: loud\n",
			wantErr: "config.logging.level",
		},
		{
			name:    "bad log format",
			body:    "logging:\n  format: xml\n",
			wantErr: "config.logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgPath := writeConfig(t, tmp, tt.body)

			_, err := Load(cfgPath)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestKeyStoreDigestMismatch(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "ntr.bin"), keytable.MarshalTable(simcard.SyntheticTable(3)))
	cfgPath := writeConfig(t, tmp, `
keys:
  - selector: ntr
    file: ntr.bin
    blake2b: "`+strings.Repeat("0", 64)+`"
`)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	_, err = cfg.KeyStore()
	var mismatch *keytable.DigestMismatchError
	assert.ErrorAs(t, err, &mismatch)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Fatalf("unexpected error: %v", err)
	}
}
