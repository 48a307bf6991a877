package vault

import (
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"notegpt/internal/utils"
)

// Snapshot commits the current vault state when the vault root is a git
// repository. Callers use it before destructive operations; a clean
// worktree or a non-repo vault is not an error.
func Snapshot(root, message string) error {
	if !utils.HasGitRepo(root) {
		return nil
	}

	repo, err := git.PlainOpen(root)
	if err != nil {
		return err
	}
	w, err := repo.Worktree()
	if err != nil {
		return err
	}

	status, err := w.Status()
	if err != nil {
		return err
	}
	if status.IsClean() {
		return nil
	}

	if err := w.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return err
	}
	_, err = w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "NoteGPT",
			Email: "notegpt@local",
			When:  time.Now(),
		},
	})
	return err
}
