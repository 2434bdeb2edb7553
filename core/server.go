package core

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	alog "github.com/jigsaw-addv/coordinator/log"
)

// Server is the HTTP facade: it adapts Service's operations to the
// routes reporters and operators actually hit. It follows the
// predecessor's HttpServer shape (a bare http.Server behind a
// mux.Router, start/stop only) rather than anything heavier.
type Server struct {
	svc *Service
	srv *http.Server
	tpl *pageTemplate
}

type queueBatchRequest struct {
	Domains []string `json:"domains"`
}

// NewServer wires svc's operations behind the routes served at addr.
func NewServer(svc *Service, addr string) *Server {
	s := &Server{svc: svc, tpl: newPageTemplate()}

	r := mux.NewRouter()
	r.HandleFunc("/addv/{key}", s.handleBanner).Methods("GET")
	r.HandleFunc("/opt-out", s.handleOptOut).Methods("GET")
	r.HandleFunc("/addv/{key}/queue-batch", s.handleQueueBatch).Methods("POST")
	r.HandleFunc("/addv/{key}/queue", s.handleQueueOne).Methods("GET")
	r.HandleFunc("/addv/{key}/val/join", s.handleJoin).Methods("GET")
	r.HandleFunc("/addv/{key}/val/answer", s.handleAnswer).Methods("GET")

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	return s
}

// Start runs the server in the background, the same fire-and-forget
// style as the predecessor's HttpServer.Start.
func (s *Server) Start() {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			alog.Error("server: %v", err)
		}
	}()
}

// Close shuts down the underlying listener immediately.
func (s *Server) Close() error {
	return s.srv.Close()
}

func reporterIP(r *http.Request) string {
	return r.Header.Get("X-Real-IP")
}

func writeText(w http.ResponseWriter, line string) {
	w.Header().Set("content-type", "text/plain")
	w.Write([]byte(line))
}

func (s *Server) handleBanner(w http.ResponseWriter, r *http.Request) {
	writeText(w, "ADDV Server\n")
}

func (s *Server) handleOptOut(w http.ResponseWriter, r *http.Request) {
	s.svc.SignalOptOut(reporterIP(r))
	writeText(w, "OK\n")
}

func (s *Server) handleQueueBatch(w http.ResponseWriter, r *http.Request) {
	var body queueBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeText(w, "ERROR\n")
		return
	}
	writeText(w, s.svc.QueueBatch(body.Domains))
}

func (s *Server) handleQueueOne(w http.ResponseWriter, r *http.Request) {
	domain := r.URL.Query().Get("domain")
	if domain == "" {
		writeText(w, "ERROR\n")
		return
	}
	writeText(w, s.svc.QueueDomain(domain))
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	assignments, issuedAt := s.svc.Join(reporterIP(r))

	w.Header().Set("content-type", "text/html; charset=utf-8")
	if err := s.tpl.Render(w, key, issuedAt, assignments); err != nil {
		alog.Error("server: rendering validator page: %v", err)
	}
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	domain := q.Get("domain")
	sig := q.Get("sig")
	answer := q.Get("answer")
	if answer == "" {
		answer = "error"
	}

	authtime, err := strconv.ParseInt(q.Get("authtime"), 10, 64)
	if err != nil || domain == "" || sig == "" {
		writeText(w, "ERROR\n")
		return
	}
	reportedAtMillis, err := ParseMillis(q.Get("time"))
	if err != nil {
		writeText(w, "ERROR\n")
		return
	}

	if !s.svc.Answer(reporterIP(r), domain, authtime, sig, answer, reportedAtMillis) {
		writeText(w, "ERROR\n")
		return
	}
	writeText(w, "OK\n")
}
