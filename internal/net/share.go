package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"FlipCards/internal/state"

	"github.com/gorilla/websocket"
	"github.com/rs/cors"
)

// LinkScheme prefixes share links handed to other devices.
const LinkScheme = "flipcards://"

// SharedProject is the message sent to peers: the project's persisted card
// record plus enough metadata to file it in a library.
type SharedProject struct {
	PublicID string          `json:"public_id"`
	Name     string          `json:"name"`
	Cards    json.RawMessage `json:"cards"`
}

// Snapshot supplies the encoded cards of the shared project.
type Snapshot func() ([]byte, error)

// ShareServer publishes one project over HTTP and websockets.
type ShareServer struct {
	mu       sync.RWMutex
	publicID string
	name     string

	snapshot Snapshot
	peers    *PeerManager
	upgrader websocket.Upgrader
	handler  http.Handler
}

// NewShareServer serves the project identified by publicID. allowedOrigins
// applies to both CORS and websocket upgrades; "*" allows any origin.
func NewShareServer(publicID, name string, snapshot Snapshot, allowedOrigins []string) *ShareServer {
	s := &ShareServer{
		publicID: publicID,
		name:     name,
		snapshot: snapshot,
		peers:    NewPeerManager(),
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /projects/{publicID}", s.getProject)
	mux.HandleFunc("GET /ws/{publicID}", s.subscribe)

	s.handler = cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		MaxAge:         86400,
	}).Handler(mux)
	return s
}

// SetProject points the server at another project. Peers subscribed to the
// previous one are disconnected.
func (s *ShareServer) SetProject(publicID, name string) {
	s.mu.Lock()
	changed := s.publicID != publicID
	s.publicID = publicID
	s.name = name
	s.mu.Unlock()
	if changed {
		s.peers.CloseAll()
	}
	log.Printf("[SHARE] Now sharing %q", name)
}

func (s *ShareServer) current() (publicID, name string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.publicID, s.name
}

// Handler returns the HTTP handler of the server.
func (s *ShareServer) Handler() http.Handler { return s.handler }

// Peers returns the number of connected websocket peers.
func (s *ShareServer) Peers() int { return s.peers.Len() }

func (s *ShareServer) message() (SharedProject, error) {
	cards, err := s.snapshot()
	if err != nil {
		return SharedProject{}, err
	}
	publicID, name := s.current()
	return SharedProject{PublicID: publicID, Name: name, Cards: cards}, nil
}

func (s *ShareServer) getProject(w http.ResponseWriter, r *http.Request) {
	if publicID, _ := s.current(); r.PathValue("publicID") != publicID {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}
	msg, err := s.message()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Printf("[SHARE] Error writing project: %v", err)
	}
}

func (s *ShareServer) subscribe(w http.ResponseWriter, r *http.Request) {
	if publicID, _ := s.current(); r.PathValue("publicID") != publicID {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[SHARE] Upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}
	p := s.peers.Add(conn)
	defer s.peers.Remove(p)

	msg, err := s.message()
	if err != nil {
		log.Printf("[SHARE] Snapshot failed: %v", err)
		return
	}
	if err := p.send(msg); err != nil {
		log.Printf("[SHARE] Error sending to %s: %v", p.addr, err)
		return
	}

	// Peers only listen; reading detects when they go away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Publish pushes the current snapshot to every connected peer.
func (s *ShareServer) Publish() error {
	msg, err := s.message()
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	s.peers.Broadcast(msg)
	return nil
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *ShareServer) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	_, name := s.current()
	log.Printf("[SHARE] Sharing %q on %s", name, addr)

	select {
	case err := <-errc:
		return fmt.Errorf("share server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.peers.CloseAll()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("share server shutdown: %w", err)
		}
		return nil
	}
}

// Link builds the share link for a project served at host:port.
func Link(host string, port int, publicID string) string {
	return fmt.Sprintf("%s%s:%d/%s", LinkScheme, host, port, publicID)
}

// ParseLink splits a share link into the host address and public id.
func ParseLink(link string) (addr, publicID string, err error) {
	rest, ok := strings.CutPrefix(link, LinkScheme)
	if !ok {
		return "", "", fmt.Errorf("not a share link: %q", link)
	}
	addr, publicID, _ = strings.Cut(strings.TrimSuffix(rest, "/"), "/")
	if addr == "" || publicID == "" {
		return "", "", fmt.Errorf("incomplete share link: %q", link)
	}
	return addr, publicID, nil
}

// FetchProject connects to a share link and returns the first snapshot as a
// new local project. The copy gets its own identity.
func FetchProject(ctx context.Context, link string) (*state.Project, error) {
	addr, publicID, err := ParseLink(link)
	if err != nil {
		return nil, err
	}
	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws/" + publicID}
	return fetch(ctx, u.String())
}

func fetch(ctx context.Context, wsURL string) (*state.Project, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", wsURL, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetReadDeadline(deadline)
	}
	var msg SharedProject
	if err := conn.ReadJSON(&msg); err != nil {
		return nil, fmt.Errorf("read shared project: %w", err)
	}
	if msg.Name == "" && msg.Cards == nil {
		return nil, errors.New("read shared project: empty message")
	}

	p := state.NewProject(msg.Name)
	p.SetCards(state.DecodeCards(msg.Cards))
	log.Printf("[SHARE] Imported %q with %d cards", p.Name, p.Len())
	return p, nil
}

// PeerManager tracks the websocket peers of a share server.
type PeerManager struct {
	peers map[*Peer]bool
	mu    sync.RWMutex
}

// Peer is one connected websocket client. Writes are serialised because a
// websocket connection supports a single concurrent writer.
type Peer struct {
	conn *websocket.Conn
	addr string
	mu   sync.Mutex
}

func (p *Peer) send(v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return p.conn.WriteJSON(v)
}

func NewPeerManager() *PeerManager {
	return &PeerManager{peers: make(map[*Peer]bool)}
}

func (pm *PeerManager) Add(conn *websocket.Conn) *Peer {
	p := &Peer{conn: conn, addr: conn.RemoteAddr().String()}
	pm.mu.Lock()
	pm.peers[p] = true
	pm.mu.Unlock()
	log.Printf("[SHARE] Peer connected from %s", p.addr)
	return p
}

func (pm *PeerManager) Remove(p *Peer) {
	pm.mu.Lock()
	delete(pm.peers, p)
	pm.mu.Unlock()
	p.conn.Close()
	log.Printf("[SHARE] Peer %s disconnected", p.addr)
}

func (pm *PeerManager) Len() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.peers)
}

// Broadcast sends v to every peer. Failed peers are logged and left for
// their read loop to remove.
func (pm *PeerManager) Broadcast(v any) {
	pm.mu.RLock()
	peers := make([]*Peer, 0, len(pm.peers))
	for p := range pm.peers {
		peers = append(peers, p)
	}
	pm.mu.RUnlock()

	for _, p := range peers {
		if err := p.send(v); err != nil {
			log.Printf("[SHARE] Error sending to %s: %v", p.addr, err)
		}
	}
}

// CloseAll disconnects every peer.
func (pm *PeerManager) CloseAll() {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	for p := range pm.peers {
		p.conn.Close()
	}
}
