package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"culiflow/internal/domain"
)

const fileName = "cache.json"

// Cache is the fast-boot blob: a handful of non-done tasks read optimistically
// before the full store is ready. It is never authoritative and is simply
// overwritten on each write.
type Cache struct {
	Tasks      []domain.Task `json:"tasks"`
	LastUpdate string        `json:"last_update"`
}

func path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, ".culiflow", fileName)
}

// Write stores up to limit non-done tasks. The write is atomic (temp file +
// rename) so a crash never leaves a torn snapshot.
func Write(workspace string, tasks []domain.Task, limit int) error {
	if limit <= 0 {
		limit = 20
	}
	c := Cache{
		Tasks:      make([]domain.Task, 0, limit),
		LastUpdate: time.Now().UTC().Format(time.RFC3339),
	}
	for _, t := range tasks {
		if t.Status == domain.StatusDone {
			continue
		}
		c.Tasks = append(c.Tasks, t)
		if len(c.Tasks) == limit {
			break
		}
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	target := path(workspace)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), fileName+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, target)
}

// Read loads the snapshot if present. A missing or unreadable snapshot yields
// nil; callers fall back to the store.
func Read(workspace string) *Cache {
	data, err := os.ReadFile(path(workspace))
	if err != nil {
		return nil
	}
	var c Cache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil
	}
	return &c
}
