package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	"lexvault/pkg/blob/memory"
	"lexvault/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Addr: ":0", ShutdownTimeout: time.Second},
		Logging:  config.LoggingConfig{Level: "info", Format: "console"},
		Storage:  config.StorageConfig{Type: "memory"},
		Download: config.DownloadConfig{URLTTL: 15 * time.Minute},
		Search:   config.SearchConfig{MaxScan: 1000, CatalogTTL: time.Minute},
	}
}

// ServerTestSuite carries the shared HTTP helpers for the handler suites.
type ServerTestSuite struct {
	suite.Suite
	server *Server
	blobs  *memory.Client
}

func (s *ServerTestSuite) SetupTest() {
	s.blobs = memory.New()
	s.server = New(testConfig(), s.blobs, "test-v0.0.0")
	s.server.setupRoutes()
}

func (s *ServerTestSuite) do(method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	s.server.echo.ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) doJSON(method, target string, payload any) *httptest.ResponseRecorder {
	data, err := json.Marshal(payload)
	s.Require().NoError(err)
	return s.do(method, target, bytes.NewReader(data), "application/json")
}

// uploadFile drives the real multipart endpoint.
func (s *ServerTestSuite) uploadFile(targetPath, content, metadata string) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	fw, err := mw.CreateFormFile("file", "upload.bin")
	s.Require().NoError(err)
	_, err = fw.Write([]byte(content))
	s.Require().NoError(err)

	s.Require().NoError(mw.WriteField("targetPath", targetPath))
	if metadata != "" {
		s.Require().NoError(mw.WriteField("metadata", metadata))
	}
	s.Require().NoError(mw.Close())

	return s.do(http.MethodPost, "/api/upload", body, mw.FormDataContentType())
}

func (s *ServerTestSuite) decode(rec *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

type HealthTestSuite struct {
	ServerTestSuite
}

func (s *HealthTestSuite) TestHealthz() {
	rec := s.do(http.MethodGet, "/healthz", nil, "")
	s.Equal(http.StatusOK, rec.Code)

	body := s.decode(rec)
	s.Equal("ok", body["status"])
	s.Equal("test-v0.0.0", body["version"])
}

func TestHealthTestSuite(t *testing.T) {
	suite.Run(t, new(HealthTestSuite))
}
