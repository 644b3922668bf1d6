package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gamestore/models"
)

// Asset kinds map to fixed subdirectory names inside a game's asset folder.
const (
	AssetHeader      = "header"
	AssetCapsule     = "capsule"
	AssetScreenshots = "screenshots"
	AssetTrailers    = "trailers"
)

// SingleFileKind reports whether the kind holds exactly one file (header and
// capsule art) as opposed to a replaceable set (screenshots, trailers).
func SingleFileKind(kind string) bool {
	return kind == AssetHeader || kind == AssetCapsule
}

// AssetService owns the directory-per-game file tree. A game's Directory token
// names its folder under the root; asset kinds are subfolders created lazily on
// first upload. Writes go through a temp file and a rename so concurrent
// readers never observe a truncated file.
type AssetService struct {
	root string
}

func NewAssetService(root string) *AssetService {
	return &AssetService{root: root}
}

// CreateGameDir provisions the (initially empty) asset folder for a new game.
func (s *AssetService) CreateGameDir(directory string) error {
	return os.MkdirAll(filepath.Join(s.root, directory), 0o755)
}

// RemoveGameDir deletes a game's asset folder. Used to compensate a failed
// game creation, never during normal flow.
func (s *AssetService) RemoveGameDir(directory string) error {
	return os.RemoveAll(filepath.Join(s.root, directory))
}

func (s *AssetService) kindDir(directory, kind string) string {
	return filepath.Join(s.root, directory, kind)
}

// SingleFile resolves the one file of a single-file kind. Zero files is a
// not-found, more than one violates the invariant and reports a conflict.
func (s *AssetService) SingleFile(directory, kind string) (path, name string, err error) {
	names, err := s.ListFiles(directory, kind)
	if err != nil {
		return "", "", err
	}
	if len(names) == 0 {
		return "", "", models.ErrAssetNotFound
	}
	if len(names) > 1 {
		return "", "", models.ErrAssetConflict
	}
	return filepath.Join(s.kindDir(directory, kind), names[0]), names[0], nil
}

// ListFiles returns the stored filenames for a kind, sorted. A missing kind
// subdirectory means no uploads happened yet and yields an empty list.
func (s *AssetService) ListFiles(directory, kind string) ([]string, error) {
	entries, err := os.ReadDir(s.kindDir(directory, kind))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		// skip in-flight temp files
		if entry.Type().IsRegular() && !strings.HasPrefix(entry.Name(), ".") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// FilePath resolves a stored file by name, refusing names that escape the
// kind subdirectory.
func (s *AssetService) FilePath(directory, kind, name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", models.ErrAssetNotFound
	}
	path := filepath.Join(s.kindDir(directory, kind), name)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", models.ErrAssetNotFound
	}
	return path, nil
}

// SaveFile stores one file for a single-file kind, replacing whatever was
// there before. The new file lands atomically; stale files are removed after
// the rename, so the worst concurrent outcome is last-write-wins.
func (s *AssetService) SaveFile(directory, kind, name string, src io.Reader) error {
	if !SingleFileKind(kind) {
		return fmt.Errorf("asset kind %q holds multiple files", kind)
	}
	dir := s.kindDir(directory, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := s.writeAtomic(dir, filepath.Base(name), src); err != nil {
		return err
	}

	return s.removeOthers(dir, filepath.Base(name))
}

type AssetUpload struct {
	Name   string
	Reader io.Reader
}

// SaveFiles replaces the whole file set of a multi-file kind.
func (s *AssetService) SaveFiles(directory, kind string, uploads []AssetUpload) error {
	if SingleFileKind(kind) {
		return fmt.Errorf("asset kind %q holds a single file", kind)
	}
	dir := s.kindDir(directory, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	kept := make(map[string]bool, len(uploads))
	for _, upload := range uploads {
		name := filepath.Base(upload.Name)
		if err := s.writeAtomic(dir, name, upload.Reader); err != nil {
			return err
		}
		kept[name] = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !kept[entry.Name()] {
			if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *AssetService) writeAtomic(dir, name string, src io.Reader) error {
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(dir, name))
}

func (s *AssetService) removeOthers(dir, keep string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.Name() != keep {
			if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}
