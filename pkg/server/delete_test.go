package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DeleteTestSuite struct {
	ServerTestSuite
}

func (s *DeleteTestSuite) TestDeleteFile() {
	s.uploadFile("docs/gone.txt", "x", "")

	rec := s.do(http.MethodDelete, "/api/delete?path=docs/gone.txt", nil, "")
	s.Equal(http.StatusOK, rec.Code)

	body := s.decode(rec)
	s.Equal(float64(1), body["deletedCount"])

	_, err := s.blobs.Head(context.Background(), "docs/gone.txt")
	s.Error(err)
}

func (s *DeleteTestSuite) TestDeleteDirectory() {
	s.uploadFile("dir/a.txt", "a", "")
	s.uploadFile("dir/sub/b.txt", "b", "")

	rec := s.do(http.MethodDelete, "/api/delete?path=dir", nil, "")
	s.Equal(http.StatusOK, rec.Code)

	page, err := s.blobs.List(context.Background(), "dir/", false, "", 100)
	s.Require().NoError(err)
	s.Empty(page.Records)
}

func (s *DeleteTestSuite) TestDeleteMissingPath() {
	rec := s.do(http.MethodDelete, "/api/delete?path=nope.txt", nil, "")
	s.Equal(http.StatusNotFound, rec.Code)
}

func TestDeleteTestSuite(t *testing.T) {
	suite.Run(t, new(DeleteTestSuite))
}
