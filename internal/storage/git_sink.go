package storage

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"git.home.luguber.info/inful/gtmdocs/internal/config"
	ferrors "git.home.luguber.info/inful/gtmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/gtmdocs/internal/logfields"
	"git.home.luguber.info/inful/gtmdocs/internal/workspace"
)

// GitSink writes documents into a clone of a documentation repository.
// Save only touches the worktree; Close commits the staged documents and
// pushes when configured.
type GitSink struct {
	cfg  config.GitConfig
	ws   *workspace.Manager
	repo *git.Repository
	auth transport.AuthMethod

	mu    sync.Mutex
	saved []string
}

// NewGitSink clones (or, for a persistent work dir, updates) the repository.
func NewGitSink(ctx context.Context, cfg config.GitConfig) (*GitSink, error) {
	if cfg.URL == "" {
		return nil, ferrors.ConfigError("git storage requires a repository url").Build()
	}

	ws := workspace.NewManager("")
	if cfg.WorkDir != "" {
		ws = workspace.NewPersistentManager(cfg.WorkDir)
	}
	if err := ws.Create(); err != nil {
		return nil, ferrors.StorageError("create git workspace").WithCause(err).Build()
	}

	s := &GitSink{cfg: cfg, ws: ws, auth: gitAuth(cfg.Token)}
	repo, err := s.open(ctx)
	if err != nil {
		_ = ws.Cleanup()
		return nil, err
	}
	s.repo = repo
	return s, nil
}

func gitAuth(token string) transport.AuthMethod {
	if token == "" {
		return nil
	}
	return &http.BasicAuth{
		Username: "token", // GitHub/GitLab use "token" as username
		Password: token,
	}
}

func (s *GitSink) open(ctx context.Context) (*git.Repository, error) {
	dir := s.Dir()
	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		return s.update(ctx, dir)
	}

	opts := &git.CloneOptions{URL: s.cfg.URL, Auth: s.auth}
	if s.cfg.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(s.cfg.Branch)
		opts.SingleBranch = true
	}
	slog.Debug("Cloning docs repository", logfields.URL(s.cfg.URL), logfields.Path(dir))
	repo, err := git.PlainCloneContext(ctx, dir, false, opts)
	if err != nil {
		return nil, ferrors.StorageError("clone docs repository").WithCause(err).
			WithRetry(ferrors.RetryBackoff).
			WithContext("url", s.cfg.URL).
			Build()
	}
	return repo, nil
}

func (s *GitSink) update(ctx context.Context, dir string) (*git.Repository, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, ferrors.StorageError("open docs repository").WithCause(err).
			WithContext("path", dir).
			Build()
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, ferrors.StorageError("open worktree").WithCause(err).Build()
	}
	err = wt.PullContext(ctx, &git.PullOptions{RemoteName: "origin", Auth: s.auth})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil, ferrors.StorageError("pull docs repository").WithCause(err).
			WithRetry(ferrors.RetryBackoff).
			WithContext("url", s.cfg.URL).
			Build()
	}
	return repo, nil
}

// Dir returns the local clone path.
func (s *GitSink) Dir() string {
	return filepath.Join(s.ws.Path(), "repo")
}

func (s *GitSink) Save(ctx context.Context, name string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	rel := filepath.ToSlash(filepath.Join(s.cfg.Path, filepath.FromSlash(name)))
	target := filepath.Join(s.Dir(), filepath.FromSlash(rel))

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return storageErr(err, "create document directory", target)
	}
	if err := os.WriteFile(target, body, 0o644); err != nil {
		return storageErr(err, "write document", target)
	}
	s.saved = append(s.saved, rel)
	return nil
}

// Close commits saved documents and pushes when enabled. A run that
// changed nothing produces no commit.
func (s *GitSink) Close() error {
	defer func() {
		if err := s.ws.Cleanup(); err != nil {
			slog.Warn("Failed to clean up git workspace", logfields.Error(err))
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.saved) == 0 {
		return nil
	}

	wt, err := s.repo.Worktree()
	if err != nil {
		return ferrors.StorageError("open worktree").WithCause(err).Build()
	}
	for _, rel := range s.saved {
		if _, err := wt.Add(rel); err != nil {
			return ferrors.StorageError("stage document").WithCause(err).
				WithContext("document", rel).
				Build()
		}
	}
	status, err := wt.Status()
	if err != nil {
		return ferrors.StorageError("read worktree status").WithCause(err).Build()
	}
	if status.IsClean() {
		slog.Info("Docs repository unchanged, nothing to commit", logfields.URL(s.cfg.URL))
		return nil
	}

	hash, err := wt.Commit("Update GTM container documentation", &git.CommitOptions{
		Author: &object.Signature{Name: s.cfg.AuthorName, Email: s.cfg.AuthorEmail, When: time.Now()},
	})
	if err != nil {
		return ferrors.StorageError("commit documents").WithCause(err).Build()
	}
	slog.Info("Committed documentation", slog.String("commit", hash.String()[:8]), logfields.Count(len(s.saved)))

	if !s.cfg.Push {
		return nil
	}
	err = s.repo.Push(&git.PushOptions{RemoteName: "origin", Auth: s.auth})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return ferrors.StorageError("push documents").WithCause(err).
			WithRetry(ferrors.RetryBackoff).
			WithContext("url", s.cfg.URL).
			Build()
	}
	slog.Info("Pushed documentation", logfields.URL(s.cfg.URL))
	return nil
}
