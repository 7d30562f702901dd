/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"panelcanvas/internal/domain"
)

// BackupsDirName is created next to every saved document.
const BackupsDirName = ".panelcanvas-backups"

const stampLayout = "20060102-150405.000"

// DocumentHandle tracks a document loaded from or saved to disk.
type DocumentHandle struct {
	Path     string
	Document domain.Document
}

// BackupDir returns the backup directory used for the document at path.
func BackupDir(path string) string {
	return filepath.Join(filepath.Dir(path), BackupsDirName)
}

// Create writes doc to path, creating parent directories, and returns its handle.
func Create(path string, doc domain.Document) (*DocumentHandle, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("document path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create document dir: %w", err)
	}
	h := &DocumentHandle{Path: path, Document: doc}
	if err := Save(h); err != nil {
		return nil, err
	}
	return h, nil
}

// Open loads the document at path.
// If the file cannot be read or parsed, it will attempt the latest backup.
func Open(path string) (*DocumentHandle, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		doc, berr := openFromLatestBackup(path)
		if berr != nil {
			return nil, fmt.Errorf("open document: %w; backup attempt: %v", err, berr)
		}
		return &DocumentHandle{Path: path, Document: *doc}, nil
	}
	doc, derr := DecodeDocument(b)
	if derr != nil {
		bdoc, berr := openFromLatestBackup(path)
		if berr != nil {
			return nil, fmt.Errorf("parse document: %w; backup attempt: %v", derr, berr)
		}
		return &DocumentHandle{Path: path, Document: *bdoc}, nil
	}
	return &DocumentHandle{Path: path, Document: doc}, nil
}

// Save writes h.Document with transactional semantics and a timestamped
// backup of the previous file (if present).
func Save(h *DocumentHandle) error {
	if h == nil {
		return errors.New("nil DocumentHandle")
	}
	if h.Path == "" {
		return errors.New("invalid DocumentHandle: missing path")
	}
	data, err := EncodeDocument(h.Document)
	if err != nil {
		return err
	}

	bdir := BackupDir(h.Path)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}
	if _, statErr := os.Stat(h.Path); statErr == nil {
		bname := fmt.Sprintf("%s.%s.bak", filepath.Base(h.Path), time.Now().Format(stampLayout))
		if cerr := copyFile(h.Path, filepath.Join(bdir, bname)); cerr != nil {
			return fmt.Errorf("backup current document: %w", cerr)
		}
	}

	// Transactional write: to temp file in same directory, then rename over target
	dir := filepath.Dir(h.Path)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(h.Path), os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp document: %w", werr)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(h.Path); err == nil {
		_ = os.Remove(h.Path)
	}
	if rerr := os.Rename(temp, h.Path); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace document: %w", rerr)
	}
	return nil
}

// SaveAs writes the document to a new path and updates the handle.
func SaveAs(h *DocumentHandle, path string) error {
	if h == nil {
		return errors.New("nil DocumentHandle")
	}
	if path == "" {
		return errors.New("new path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create document dir: %w", err)
	}
	h.Path = path
	return Save(h)
}

// AutosaveCrashSnapshot writes the handle's document next to the backups as
// <name>.crash-<stamp>.json and returns the file path. The live file is untouched.
func AutosaveCrashSnapshot(h *DocumentHandle) (string, error) {
	if h == nil || h.Path == "" {
		return "", errors.New("invalid DocumentHandle")
	}
	data, err := EncodeDocument(h.Document)
	if err != nil {
		return "", err
	}
	bdir := BackupDir(h.Path)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(h.Path), filepath.Ext(h.Path))
	out := filepath.Join(bdir, fmt.Sprintf("%s.crash-%s.json", name, time.Now().Format(stampLayout)))
	if err := writeFileSync(out, data); err != nil {
		return "", fmt.Errorf("write crash snapshot: %w", err)
	}
	return out, nil
}

// writeFileSync writes data to a file, ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}

// openFromLatestBackup tries the newest readable backup of the document at path.
func openFromLatestBackup(path string) (*domain.Document, error) {
	bdir := BackupDir(path)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	prefix := filepath.Base(path) + "."
	var candidates []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".bak") {
			candidates = append(candidates, filepath.Join(bdir, name))
		}
	}
	if len(candidates) == 0 {
		return nil, errors.New("no backups found")
	}
	sort.Strings(candidates) // timestamp in name yields lexicographic order
	latest := candidates[len(candidates)-1]
	b, err := os.ReadFile(latest)
	if err != nil {
		return nil, fmt.Errorf("read latest backup: %w", err)
	}
	doc, err := DecodeDocument(b)
	if err != nil {
		return nil, fmt.Errorf("parse latest backup: %w", err)
	}
	return &doc, nil
}
