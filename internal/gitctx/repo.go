package gitctx

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// RepoMeta contains git repository metadata.
type RepoMeta struct {
	Root   string `json:"root"`
	Head   string `json:"head,omitempty"`
	Branch string `json:"branch,omitempty"`
	// FullName is "owner/repo" taken from the first parsable remote.
	FullName string `json:"fullName,omitempty"`
}

func openRepo(dir string) (*git.Repository, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		dir = wd
	}
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotRepository
		}
		return nil, fmt.Errorf("failed to open repository at %s: %w", dir, err)
	}
	return repo, nil
}

// GetRepoMeta collects repository metadata for the repository containing dir.
func GetRepoMeta(dir string) (RepoMeta, error) {
	repo, err := openRepo(dir)
	if err != nil {
		return RepoMeta{}, err
	}

	var meta RepoMeta
	wt, err := repo.Worktree()
	if err != nil {
		return RepoMeta{}, fmt.Errorf("worktree: %w", err)
	}
	meta.Root = wt.Filesystem.Root()

	if ref, err := repo.Head(); err == nil {
		meta.Head = ref.Hash().String()
		if ref.Name().IsBranch() {
			meta.Branch = ref.Name().Short()
		}
	} else if sym, err := repo.Reference(plumbing.HEAD, false); err == nil && sym.Type() == plumbing.SymbolicReference {
		// No commits yet: HEAD still names the unborn branch.
		meta.Branch = sym.Target().Short()
	}

	if remotes, err := repo.Remotes(); err == nil {
		for _, r := range remotes {
			if len(r.Config().URLs) == 0 {
				continue
			}
			if name, ok := parseRemoteURL(r.Config().URLs[0]); ok {
				meta.FullName = name
				break
			}
		}
	}

	return meta, nil
}

// HooksDir returns the directory git runs hooks from, honouring
// core.hooksPath.
func HooksDir(dir string) (string, error) {
	repo, err := openRepo(dir)
	if err != nil {
		return "", err
	}

	if cfg, err := repo.Config(); err == nil {
		if p := cfg.Raw.Section("core").Option("hooksPath"); p != "" {
			if filepath.IsAbs(p) {
				return p, nil
			}
			wt, err := repo.Worktree()
			if err != nil {
				return "", fmt.Errorf("worktree: %w", err)
			}
			return filepath.Join(wt.Filesystem.Root(), p), nil
		}
	}

	fs, ok := repo.Storer.(*filesystem.Storage)
	if !ok {
		return "", fmt.Errorf("repository has no on-disk git directory")
	}
	return filepath.Join(fs.Filesystem().Root(), "hooks"), nil
}

// parseRemoteURL extracts "owner/repo" from an HTTPS or SSH remote URL.
func parseRemoteURL(raw string) (string, bool) {
	if u, err := url.Parse(raw); err == nil && (u.Scheme == "http" || u.Scheme == "https" || u.Scheme == "ssh") && u.Host != "" {
		name := strings.TrimSuffix(strings.TrimPrefix(u.Path, "/"), ".git")
		return name, name != ""
	}
	// git@github.com:owner/repo.git
	if strings.Contains(raw, "@") && strings.Contains(raw, ":") {
		_, path, _ := strings.Cut(raw, ":")
		name := strings.TrimSuffix(path, ".git")
		return name, name != ""
	}
	return "", false
}
