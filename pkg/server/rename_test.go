package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

type RenameTestSuite struct {
	ServerTestSuite
}

func (s *RenameTestSuite) TestRenameFile() {
	s.uploadFile("docs/old.txt", "body", `{"documentType":"act"}`)

	rec := s.doJSON(http.MethodPost, "/api/rename", renameRequest{
		OriginalPath: "docs/old.txt",
		NewPath:      "docs/new.txt",
	})
	s.Equal(http.StatusOK, rec.Code)

	_, err := s.blobs.Head(context.Background(), "docs/old.txt")
	s.Error(err)

	renamed, err := s.blobs.Head(context.Background(), "docs/new.txt")
	s.Require().NoError(err)
	s.Equal("act", renamed.Metadata["documenttype"])
}

func (s *RenameTestSuite) TestRenameCollision() {
	s.uploadFile("docs/a.txt", "a", "")
	s.uploadFile("docs/b.txt", "b", "")

	rec := s.doJSON(http.MethodPost, "/api/rename", renameRequest{
		OriginalPath: "docs/a.txt",
		NewPath:      "docs/b.txt",
	})
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *RenameTestSuite) TestRenameMissingSource() {
	rec := s.doJSON(http.MethodPost, "/api/rename", renameRequest{
		OriginalPath: "docs/ghost.txt",
		NewPath:      "docs/real.txt",
	})
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *RenameTestSuite) TestRenameAcrossFolders() {
	s.uploadFile("docs/a.txt", "a", "")

	rec := s.doJSON(http.MethodPost, "/api/rename", renameRequest{
		OriginalPath: "docs/a.txt",
		NewPath:      "other/a.txt",
	})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func TestRenameTestSuite(t *testing.T) {
	suite.Run(t, new(RenameTestSuite))
}
