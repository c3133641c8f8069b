package server

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/aeronauty/DataVisualiser/internal/capture"
)

// SessionState is the JSON snapshot of one recording session
type SessionState struct {
	ID        string    `json:"id"`
	Progress  int       `json:"progress"`
	Status    string    `json:"status"`
	Done      bool      `json:"done"`
	Error     string    `json:"error,omitempty"`
	Filename  string    `json:"filename,omitempty"`
	MimeType  string    `json:"mime_type,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

// RecordingSession tracks one in-flight export. It doubles as the pipeline's
// status sink; every update is pushed to subscribed websocket clients.
type RecordingSession struct {
	id        string
	startedAt time.Time

	mu          sync.Mutex
	progress    int
	status      string
	done        bool
	errText     string
	artifact    *capture.Artifact
	subscribers []*websocket.Conn
}

// Progress implements capture.StatusSink
func (s *RecordingSession) Progress(percent int) {
	s.mu.Lock()
	s.progress = percent
	s.mu.Unlock()
	s.broadcast()
}

// Status implements capture.StatusSink
func (s *RecordingSession) Status(message string) {
	s.mu.Lock()
	s.status = message
	s.mu.Unlock()
	s.broadcast()
}

// finish records the outcome and notifies subscribers one last time
func (s *RecordingSession) finish(artifact *capture.Artifact, err error) {
	s.mu.Lock()
	s.done = true
	s.artifact = artifact
	if err != nil {
		s.errText = err.Error()
	} else {
		s.progress = 100
	}
	s.mu.Unlock()
	s.broadcast()
	s.closeSubscribers()
}

// State returns a consistent snapshot of the session
func (s *RecordingSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := SessionState{
		ID:        s.id,
		Progress:  s.progress,
		Status:    s.status,
		Done:      s.done,
		Error:     s.errText,
		StartedAt: s.startedAt,
	}
	if s.artifact != nil {
		state.Filename = s.artifact.Filename
		state.MimeType = s.artifact.MimeType
	}
	return state
}

// Subscribe attaches a websocket client that receives every state change.
// The connection is closed when the session finishes.
func (s *RecordingSession) Subscribe(conn *websocket.Conn) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, conn)
	s.mu.Unlock()
	// Send the current state immediately so late joiners are not blind
	// until the next transition.
	if err := conn.WriteJSON(s.State()); err != nil {
		log.Printf("Failed to send initial session state: %v", err)
	}
}

func (s *RecordingSession) broadcast() {
	state := s.State()
	s.mu.Lock()
	subs := append([]*websocket.Conn(nil), s.subscribers...)
	s.mu.Unlock()
	for _, conn := range subs {
		if err := conn.WriteJSON(state); err != nil {
			log.Printf("Dropping websocket subscriber: %v", err)
		}
	}
}

func (s *RecordingSession) closeSubscribers() {
	s.mu.Lock()
	subs := s.subscribers
	s.subscribers = nil
	s.mu.Unlock()
	for _, conn := range subs {
		conn.Close()
	}
}

// sessionRegistry holds recording sessions and their finished artifacts,
// keyed by session ID and by artifact filename for downloads.
type sessionRegistry struct {
	mu        sync.RWMutex
	sessions  map[string]*RecordingSession
	artifacts map[string]*capture.Artifact
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{
		sessions:  make(map[string]*RecordingSession),
		artifacts: make(map[string]*capture.Artifact),
	}
}

// NewSession creates and registers a session
func (r *sessionRegistry) NewSession() *RecordingSession {
	session := &RecordingSession{
		id:        uuid.NewString(),
		startedAt: time.Now().UTC(),
		status:    "starting",
	}
	r.mu.Lock()
	r.sessions[session.id] = session
	r.mu.Unlock()
	return session
}

// Get looks up a session by ID
func (r *sessionRegistry) Get(id string) (*RecordingSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// StoreArtifact keeps a finished artifact available for download
func (r *sessionRegistry) StoreArtifact(a *capture.Artifact) {
	if a == nil {
		return
	}
	r.mu.Lock()
	r.artifacts[a.Filename] = a
	r.mu.Unlock()
}

// Artifact looks up a finished artifact by filename
func (r *sessionRegistry) Artifact(filename string) (*capture.Artifact, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.artifacts[filename]
	return a, ok
}
