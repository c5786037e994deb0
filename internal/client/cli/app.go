package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/csemanager/internal/client/client"
	"github.com/dmitrijs2005/csemanager/internal/client/config"
	"github.com/dmitrijs2005/csemanager/internal/client/repositories/session"
	"github.com/dmitrijs2005/csemanager/internal/client/services"
	"github.com/dmitrijs2005/csemanager/internal/common"
	"github.com/dmitrijs2005/csemanager/internal/filex"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const onlineCheckInterval = 10 * time.Second

type App struct {
	config  *config.Config
	db      *sql.DB
	auth    *services.AuthService
	records *services.RecordService
	reader  *bufio.Reader
	out     io.Writer

	mu      sync.Mutex
	session *session.Session
	mode    Mode
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, filepath.Join(dir, "session.db"))
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	api := client.NewAPIClient(c.ServerURL, c.RequestTimeout)

	app := newApp(c, api, session.NewSQLiteRepository(db), os.Stdin, os.Stdout)
	app.db = db
	return app, nil
}

func newApp(c *config.Config, api services.API, repo session.Repository, in io.Reader, out io.Writer) *App {
	auth := services.NewAuthService(api, repo)
	return &App{
		config:  c,
		auth:    auth,
		records: services.NewRecordService(api, auth),
		reader:  bufio.NewReader(in),
		out:     &syncWriter{w: out},
	}
}

// syncWriter serializes writes from the REPL and the status watcher.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Run restores the cached session, starts the connectivity watcher and
// blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.db != nil {
		defer a.db.Close()
	}

	fmt.Fprintln(a.out, "CSE Manager CLI (type 'help' for commands)")

	sess, err := a.auth.Restore(ctx)
	switch {
	case err == nil:
		a.setSession(sess)
		fmt.Fprintf(a.out, "Restored session for %s\n", sess.Email)
	case !errors.Is(err, common.ErrNotFound):
		fmt.Fprintf(a.out, "Could not restore session: %v\n", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.StartOnlineStatusWatcher(ctx, onlineCheckInterval)
	}()

	runREPL(ctx, a, a.status, a.reader, a.out)

	cancel()
	wg.Wait()
	return nil
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session != nil
}

func (a *App) setSession(s *session.Session) {
	a.mu.Lock()
	a.session = s
	a.mu.Unlock()
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != mode {
		a.mode = mode
		fmt.Fprintf(a.out, "\nSwitched to %s mode\n", mode)
	}
}

func (a *App) status() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := ""
	if a.session != nil {
		s = a.session.Email + " "
	}
	s += string(a.mode)
	if s == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", strings.TrimSpace(s))
}

// StartOnlineStatusWatcher pings the server every interval and flips the
// mode shown in the prompt.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	check := func() {
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := a.auth.Ping(pctx); err != nil {
			a.setMode(ModeOffline)
		} else {
			a.setMode(ModeOnline)
		}
	}

	check()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			check()
		case <-ctx.Done():
			return
		}
	}
}

// report prints a command failure in user terms.
func (a *App) report(err error) error {
	var verr *common.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &verr):
		fmt.Fprintln(a.out, "Invalid input:")
		for _, field := range sortedKeys(verr.Fields) {
			fmt.Fprintf(a.out, "  %s: %s\n", field, verr.Fields[field])
		}
	case errors.Is(err, client.ErrUnauthorized):
		a.setSession(nil)
		fmt.Fprintln(a.out, "Session expired, please login again")
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(a.out, "Server unavailable, try again later")
	default:
		fmt.Fprintf(a.out, "Error: %v\n", err)
	}
	return err
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
