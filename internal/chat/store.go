// Package chat owns the on-disk conversation format: one folder per
// conversation under the chat folder, holding a single append-only
// transcript file that is the source of truth for the whole exchange.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"notegpt/internal/vault"
)

// TranscriptName is the transcript file inside every conversation folder.
const TranscriptName = "chat.md"

const folderTimeLayout = "2006-01-02-15-04-05"

// Speaker labels a turn. The marker written to the transcript is derived
// from it and is the canonical record of who spoke.
type Speaker string

const (
	SpeakerUser      Speaker = "You"
	SpeakerAssistant Speaker = "Assistant"
)

// Marker returns the transcript prefix for the speaker, e.g. "**You:**".
func (s Speaker) Marker() string {
	return "**" + string(s) + ":**"
}

// StorageError is an unexpected I/O failure in the store. "Already exists"
// on the chat folder is not one.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("chat store: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Conversation identifies one conversation by its folder path; display
// names are not unique, folders are.
type Conversation struct {
	Folder string `json:"folder"`
	Name   string `json:"name"`
}

// TranscriptPath returns the vault-relative transcript location.
func (c Conversation) TranscriptPath() string {
	return path.Join(c.Folder, TranscriptName)
}

// Summary is one row of the conversation list.
type Summary struct {
	Folder       string    `json:"folder"`
	Name         string    `json:"name"`
	LastModified time.Time `json:"lastModified"`
}

type Store struct {
	vault      vault.Adapter
	chatFolder string
}

func NewStore(v vault.Adapter, chatFolder string) *Store {
	return &Store{vault: v, chatFolder: chatFolder}
}

var unsafeNameChars = strings.NewReplacer(
	`\`, "-", "/", "-", ":", "-", "*", "-", "?", "-",
	`"`, "-", "<", "-", ">", "-", "|", "-",
)

// Sanitize replaces folder-unsafe characters in a display name with "-".
func Sanitize(name string) string {
	return unsafeNameChars.Replace(name)
}

var timestampPrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-\d{2}-\d{2}-\d{2}-`)

// displayName strips the creation-timestamp prefix from a folder name.
func displayName(folder string) string {
	return timestampPrefix.ReplaceAllString(path.Base(folder), "")
}

// List enumerates conversations, most recently modified first. A missing
// or empty chat folder yields an empty list, not an error.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	transcripts, err := s.vault.Glob(path.Join(s.chatFolder, "*", TranscriptName))
	if err != nil {
		return nil, &StorageError{Op: "list", Path: s.chatFolder, Err: err}
	}

	summaries := make([]Summary, 0, len(transcripts))
	for _, t := range transcripts {
		folder := path.Dir(t)
		entry, err := s.vault.Stat(t)
		if err != nil {
			continue
		}
		summaries = append(summaries, Summary{
			Folder:       folder,
			Name:         displayName(folder),
			LastModified: entry.ModTime,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LastModified.After(summaries[j].LastModified)
	})
	return summaries, nil
}

// Create makes a new conversation folder named from the current time and
// the sanitized display name, and writes the initial transcript header.
// The chat folder itself is created on demand; only its "already exists"
// is swallowed.
func (s *Store) Create(ctx context.Context, displayName string) (Conversation, error) {
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = "Untitled"
	}

	if err := s.vault.Mkdir(s.chatFolder); err != nil && !errors.Is(err, fs.ErrExist) {
		return Conversation{}, &StorageError{Op: "mkdir", Path: s.chatFolder, Err: err}
	}

	base := time.Now().Format(folderTimeLayout) + "-" + Sanitize(name)
	folder := path.Join(s.chatFolder, base)
	// Same name within the same second: suffix rather than overwrite.
	for n := 2; s.vault.Exists(folder); n++ {
		folder = path.Join(s.chatFolder, fmt.Sprintf("%s-%d", base, n))
	}
	if err := s.vault.Mkdir(folder); err != nil {
		return Conversation{}, &StorageError{Op: "mkdir", Path: folder, Err: err}
	}

	conv := Conversation{Folder: folder, Name: name}
	header := fmt.Sprintf("# %s\n\nCreated: %s\n\n---", name, time.Now().Format(time.RFC1123))
	if err := s.vault.Write(conv.TranscriptPath(), header); err != nil {
		return Conversation{}, &StorageError{Op: "write", Path: conv.TranscriptPath(), Err: err}
	}
	return conv, nil
}

// AppendTurn adds one turn block to the transcript. Existing content is
// never rewritten; sequencing relative to the completion call is the
// caller's responsibility.
func (s *Store) AppendTurn(ctx context.Context, conv Conversation, speaker Speaker, text string) error {
	block := "\n\n" + speaker.Marker() + " " + text
	if err := s.vault.Append(conv.TranscriptPath(), block); err != nil {
		return &StorageError{Op: "append", Path: conv.TranscriptPath(), Err: err}
	}
	return nil
}

// ReadTranscript returns the raw transcript contents.
func (s *Store) ReadTranscript(ctx context.Context, conv Conversation) (string, error) {
	data, err := s.vault.Read(conv.TranscriptPath())
	if err != nil {
		return "", &StorageError{Op: "read", Path: conv.TranscriptPath(), Err: err}
	}
	return data, nil
}

// Delete removes the conversation folder and everything in it.
// Confirmation is a UI concern; the store does not ask.
func (s *Store) Delete(ctx context.Context, conv Conversation) error {
	if err := s.vault.RemoveAll(conv.Folder); err != nil {
		return &StorageError{Op: "delete", Path: conv.Folder, Err: err}
	}
	return nil
}

// Open resolves a conversation from its folder path.
func (s *Store) Open(folder string) Conversation {
	return Conversation{Folder: folder, Name: displayName(folder)}
}
