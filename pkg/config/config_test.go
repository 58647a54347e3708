package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"lexvault/pkg/blob/memory"
)

type ConfigTestSuite struct {
	suite.Suite
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := Load("")
	s.Require().NoError(err)

	s.Equal(":8080", cfg.Server.Addr)
	s.Equal(10*time.Second, cfg.Server.ShutdownTimeout)
	s.Equal("info", cfg.Logging.Level)
	s.Equal("console", cfg.Logging.Format)
	s.Equal("memory", cfg.Storage.Type)
	s.Equal(15*time.Minute, cfg.Download.URLTTL)
	s.Equal(10000, cfg.Search.MaxScan)
	s.Equal(5*time.Minute, cfg.Search.CatalogTTL)
}

func (s *ConfigTestSuite) TestLoadFromFile() {
	path := filepath.Join(s.T().TempDir(), "lexvault.yaml")
	content := []byte(`
server:
  addr: ":9090"
logging:
  level: debug
  format: json
storage:
  type: s3
  options:
    region: eu-west-1
    bucket: legal-docs
search:
  max_scan: 500
`)
	s.Require().NoError(os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	s.Require().NoError(err)
	s.Equal(":9090", cfg.Server.Addr)
	s.Equal("debug", cfg.Logging.Level)
	s.Equal("json", cfg.Logging.Format)
	s.Equal("s3", cfg.Storage.Type)
	s.Equal("legal-docs", cfg.Storage.Options["bucket"])
	s.Equal(500, cfg.Search.MaxScan)
	// Untouched keys keep their defaults.
	s.Equal(15*time.Minute, cfg.Download.URLTTL)
}

func (s *ConfigTestSuite) TestRejectsUnknownStorageType() {
	path := filepath.Join(s.T().TempDir(), "lexvault.yaml")
	s.Require().NoError(os.WriteFile(path, []byte("storage:\n  type: ftp\n"), 0o600))

	_, err := Load(path)
	s.Error(err)
}

func (s *ConfigTestSuite) TestRejectsBadLogLevel() {
	path := filepath.Join(s.T().TempDir(), "lexvault.yaml")
	s.Require().NoError(os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0o600))

	_, err := Load(path)
	s.Error(err)
}

func (s *ConfigTestSuite) TestMissingFile() {
	_, err := Load(filepath.Join(s.T().TempDir(), "nope.yaml"))
	s.Error(err)
}

func (s *ConfigTestSuite) TestNewBlobClientMemory() {
	cfg, err := Load("")
	s.Require().NoError(err)

	client, err := NewBlobClient(context.Background(), cfg.Storage)
	s.Require().NoError(err)
	s.IsType(&memory.Client{}, client)
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}
