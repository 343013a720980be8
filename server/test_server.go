package server

import (
	"net/http/httptest"
)

// TestServer starts the handler on a local httptest server.
func (s *Server) TestServer() *httptest.Server {
	server := httptest.NewServer(s.Handler)
	s.httpServer = server.Config
	return server
}
