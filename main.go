package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"FlipCards/internal/config"
	"FlipCards/internal/net"
	"FlipCards/internal/session"
	"FlipCards/internal/state"
	"FlipCards/internal/store"
	"FlipCards/internal/ui"

	"github.com/hashicorp/mdns"
)

const importTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	state.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open library: %v", err)
	}
	defer st.Close()

	project, err := openProject(st, os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to open project: %v", err)
	}
	log.Printf("Opened %q with %d cards", project.Name, project.Len())

	editor := session.NewEditor(project, session.Config{
		Color:       cfg.DrawColor,
		LineWidth:   cfg.LineWidth,
		EraserWidth: cfg.EraserWidth,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	share := net.NewShareServer(project.PublicID, project.Name, editor.Snapshot, cfg.AllowedOrigins)
	go func() {
		if err := share.ListenAndServe(ctx, fmt.Sprintf(":%d", cfg.SharePort)); err != nil {
			log.Printf("[SHARE] %v", err)
		}
	}()
	lan := &advertiser{port: cfg.SharePort}
	lan.advertise(project.Name, project.PublicID)
	defer lan.stop()

	changes := make(chan struct{}, 1)
	editor.OnChange = func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		syncChanges(ctx, st, editor, share, changes)
	}()

	shareLink := func() string {
		var publicID string
		editor.WithProject(func(p *state.Project) { publicID = p.PublicID })
		return net.Link(net.OutgoingIP(), cfg.SharePort, publicID)
	}
	log.Printf("Share link: %s", shareLink())

	ui.RunApp(editor, ui.Options{
		ShareLink: shareLink,
		Library:   st,
		Import: func(ctx context.Context, link string) (*state.Project, error) {
			return importProject(ctx, st, link)
		},
		OnOpen: func(p *state.Project) {
			save(st, editor)
			editor.Open(p)
			share.SetProject(p.PublicID, p.Name)
			lan.advertise(p.Name, p.PublicID)
		},
		OnClose: func() {
			cancel()
			<-done
			save(st, editor)
		},
	})
}

// advertiser keeps one mDNS announcement for the shared project.
type advertiser struct {
	port   int
	mu     sync.Mutex
	server *mdns.Server
}

func (a *advertiser) advertise(name, publicID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
	server, err := net.Advertise(a.port, name, publicID)
	if err != nil {
		log.Printf("[SHARE] Could not advertise on the LAN: %v", err)
		return
	}
	a.server = server
}

func (a *advertiser) stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}

// openProject imports the project behind a share link argument, or reopens
// the most recent project in the library.
func openProject(st *store.Store, args []string) (*state.Project, error) {
	if len(args) > 0 && strings.HasPrefix(args[0], net.LinkScheme) {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()
		return importProject(ctx, st, args[0])
	}
	return st.Latest()
}

// importProject fetches a shared deck into the library. A link to a deck
// this library already shares opens the local copy.
func importProject(ctx context.Context, st *store.Store, link string) (*state.Project, error) {
	_, publicID, err := net.ParseLink(link)
	if err != nil {
		return nil, err
	}
	if rec, err := st.GetByPublicID(publicID); err == nil {
		log.Printf("Link points at local project %q", rec.Name)
		return store.ProjectFromRecord(rec), nil
	} else if !errors.Is(err, store.ErrProjectNotFound) {
		return nil, err
	}

	p, err := net.FetchProject(ctx, link)
	if err != nil {
		return nil, err
	}
	if err := st.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// syncChanges saves and publishes the project after edits until ctx is done.
// Bursts of edits collapse into one save.
func syncChanges(ctx context.Context, st *store.Store, e *session.Editor, share *net.ShareServer, changes <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-changes:
			if e.State() != session.Idle {
				continue
			}
			save(st, e)
			if share.Peers() > 0 {
				if err := share.Publish(); err != nil {
					log.Printf("[SHARE] %v", err)
				}
			}
		}
	}
}

func save(st *store.Store, e *session.Editor) {
	var err error
	e.WithProject(func(p *state.Project) {
		err = st.Save(p)
	})
	if err != nil {
		log.Printf("[STORE] Save failed: %v", err)
	}
}
