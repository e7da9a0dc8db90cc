// Package vcs commits and pushes the files a normalization run rewrote.
package vcs

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"iconci/internal/fault"
)

// Signature identifies a commit author.
type Signature struct {
	Name  string
	Email string
}

// Auth holds push credentials.
type Auth struct {
	Username string
	Token    string
}

// Client is the subset of version control CommitChanges needs.
type Client interface {
	// Modified lists tracked paths whose content differs from HEAD.
	Modified() ([]string, error)
	Add(paths []string) error
	// Commit records the index and returns the new commit hash.
	Commit(message string, author Signature) (string, error)
	Push(ctx context.Context, remote string, auth Auth) error
}

// Repo is a Client backed by a go-git repository.
type Repo struct {
	repo *git.Repository
	wt   *git.Worktree
	now  func() time.Time
}

// Open opens the repository containing dir.
func Open(dir string) (*Repo, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fault.Tool(dir, "git open", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fault.Tool(dir, "git worktree", err)
	}
	return &Repo{repo: repo, wt: wt, now: time.Now}, nil
}

func (r *Repo) Modified() ([]string, error) {
	status, err := r.wt.Status()
	if err != nil {
		return nil, fault.Tool("", "git status", err)
	}
	var paths []string
	for path, st := range status {
		if st.Worktree == git.Modified || st.Staging == git.Modified {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (r *Repo) Add(paths []string) error {
	for _, path := range paths {
		if _, err := r.wt.Add(path); err != nil {
			return fault.Tool(path, "git add", err)
		}
	}
	return nil
}

func (r *Repo) Commit(message string, author Signature) (string, error) {
	hash, err := r.wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: author.Name, Email: author.Email, When: r.now()},
	})
	if err != nil {
		return "", fault.Tool("", "git commit", err)
	}
	return hash.String(), nil
}

func (r *Repo) Push(ctx context.Context, remote string, auth Auth) error {
	err := r.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remote,
		Auth:       &http.BasicAuth{Username: auth.Username, Password: auth.Token},
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fault.Tool(remote, "git push", err)
	}
	return nil
}
