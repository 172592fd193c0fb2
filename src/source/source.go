// Package source manages the engine source tree: cloning, updating, and
// resolving the revision that names cache entries and artifacts.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Tree is a local checkout of the engine repository.
type Tree struct {
	URL string
	Dir string
}

// Sync ensures the tree exists and is up to date. If Dir is not yet a
// clone, the repository is cloned from URL; otherwise origin is fetched.
// When rev is non-empty, the worktree is force-checked-out at that
// revision, discarding local modifications.
func (t *Tree) Sync(ctx context.Context, rev string) error {
	repo, err := t.open(ctx)
	if err != nil {
		return err
	}

	if err := repo.FetchContext(ctx, &git.FetchOptions{RemoteName: "origin"}); err != nil &&
		!errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("fetching %s: %w", t.URL, err)
	}

	if rev == "" {
		return nil
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return fmt.Errorf("resolving revision %q: %w", rev, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return err
	}
	if err := wt.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		return fmt.Errorf("checking out %s: %w", rev, err)
	}
	return nil
}

// Rev returns the short hash of the tree's HEAD, used as the revision
// component in shell names.
func (t *Tree) Rev() (string, error) {
	repo, err := git.PlainOpen(t.Dir)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", t.Dir, err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}
	return head.Hash().String()[:12], nil
}

// open returns the repository at Dir, cloning it first if needed.
func (t *Tree) open(ctx context.Context) (*git.Repository, error) {
	if _, err := os.Stat(filepath.Join(t.Dir, ".git")); err == nil {
		repo, oerr := git.PlainOpen(t.Dir)
		if oerr != nil {
			return nil, fmt.Errorf("opening %s: %w", t.Dir, oerr)
		}
		return repo, nil
	}

	if t.URL == "" {
		return nil, fmt.Errorf("source tree %s does not exist and no URL is configured", t.Dir)
	}
	repo, err := git.PlainCloneContext(ctx, t.Dir, false, &git.CloneOptions{
		URL:      t.URL,
		Progress: os.Stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("cloning %s: %w", t.URL, err)
	}
	return repo, nil
}
