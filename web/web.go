// Package web provides the static file server helper run on the sender host
// during an experiment. It serves the page that the timed fetches download,
// and is one of the helper processes cleanup tears down.
package web

import (
	"log"
	"net"
	"net/http"
)

type Config struct {
	Addr string // listen host/port (e.g. :80)
	Dir  string // root directory to serve
	Log  bool   // if true, request logging is enabled
}

type Server struct {
	Config
}

func NewServer(cfg Config) *Server {
	return &Server{cfg}
}

func (s *Server) ListenAndServe() error {
	h := http.Handler(http.FileServer(http.Dir(s.Dir)))
	if s.Log {
		h = &logHandler{h}
	}
	log.Printf("web serving %s on %s", s.Dir, s.Addr)
	return http.ListenAndServe(s.Addr, h)
}

// logHandler logs requests with the bare client IP. No reverse DNS lookup
// happens on the request path.
type logHandler struct {
	next http.Handler
}

func (l *logHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	log.Printf("web %s %s %s", ip, r.Method, r.URL.Path)
	l.next.ServeHTTP(w, r)
}
