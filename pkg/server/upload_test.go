package server

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"lexvault/pkg/vault"
)

type UploadTestSuite struct {
	ServerTestSuite
}

func (s *UploadTestSuite) TestUploadWithMetadata() {
	rec := s.uploadFile(
		"south_africa/national/constitution/en/report.pdf",
		"%PDF-1.4 fake",
		`{"documentType":"report","country":"South Africa","tags":["constitution","human rights"]}`,
	)
	s.Equal(http.StatusOK, rec.Code)

	body := s.decode(rec)
	s.Equal("south_africa/national/constitution/en/report.pdf", body["filePath"])
	s.NotEmpty(body["documentId"])
	s.Empty(body["warning"])

	// The blob carries the flattened metadata.
	rec2, err := s.blobs.Head(context.Background(), "south_africa/national/constitution/en/report.pdf")
	s.Require().NoError(err)
	s.Equal("report", rec2.Metadata["documenttype"])
	s.Equal("constitution,human rights", rec2.Metadata["tags"])

	// And the directory index exposes it on the next listing.
	list := s.do(http.MethodGet, "/api/list?path=south_africa/national/constitution/en", nil, "")
	s.Equal(http.StatusOK, list.Code)

	var items []vault.ListItem
	s.Require().NoError(json.Unmarshal(list.Body.Bytes(), &items))
	s.Require().Len(items, 1)
	s.Equal("report.pdf", items[0].Name)
	s.False(items[0].IsDirectory)
	s.Require().NotNil(items[0].Metadata)
	s.Equal("report", items[0].Metadata.DocumentType)
	s.Equal([]string{"constitution", "human rights"}, items[0].Metadata.Tags)
}

func (s *UploadTestSuite) TestUploadDefaultsToFilename() {
	rec := s.uploadFile("", "hello", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("upload.bin", s.decode(rec)["filePath"])
}

func (s *UploadTestSuite) TestUploadRejectsInvalidMetadata() {
	rec := s.uploadFile("docs/a.txt", "hello", `{"documentId":"not-a-uuid"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *UploadTestSuite) TestUploadRejectsDirectoryPath() {
	rec := s.uploadFile("docs/folder/", "hello", "")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *UploadTestSuite) TestUploadMissingFilePart() {
	rec := s.do(http.MethodPost, "/api/upload", nil, "multipart/form-data; boundary=x")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func TestUploadTestSuite(t *testing.T) {
	suite.Run(t, new(UploadTestSuite))
}
