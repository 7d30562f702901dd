/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package stylepack

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	applog "panelcanvas/internal/log"
)

// ManifestName is the human readable file at the root of every pack archive.
const ManifestName = "stylepack.manifest.txt"

func isStyleFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// LoadDir parses every .yaml/.yml file under dir in lexical order.
func LoadDir(dir string) (Pack, error) {
	var p Pack
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isStyleFile(path) {
			return nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		st, err := Parse(b)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		p.add(st)
		return nil
	})
	if err != nil {
		return Pack{}, fmt.Errorf("load styles: %w", err)
	}
	return p, nil
}

// LoadArchive parses the style files inside a pack archive without installing it.
func LoadArchive(zipPath string) (Pack, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return Pack{}, fmt.Errorf("open pack: %w", err)
	}
	defer func() { _ = r.Close() }()

	var p Pack
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !isStyleFile(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return Pack{}, fmt.Errorf("open %s: %w", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return Pack{}, fmt.Errorf("read %s: %w", f.Name, err)
		}
		st, err := Parse(b)
		if err != nil {
			return Pack{}, fmt.Errorf("%s: %w", f.Name, err)
		}
		p.add(st)
	}
	return p, nil
}

// ExportPack zips stylesDir into destZipPath with a manifest at the root.
// A missing or empty stylesDir still yields an archive holding the manifest.
func ExportPack(stylesDir, destZipPath string) error {
	l := applog.WithOperation(applog.WithComponent("stylepack"), "export").With(slog.String("dir", stylesDir))
	if strings.TrimSpace(stylesDir) == "" {
		return errors.New("stylesDir is required")
	}
	if strings.TrimSpace(destZipPath) == "" {
		return errors.New("destZipPath is required")
	}
	if err := os.MkdirAll(filepath.Dir(destZipPath), 0o755); err != nil {
		return fmt.Errorf("ensure zip dir: %w", err)
	}
	_ = os.Remove(destZipPath)

	zf, err := os.Create(destZipPath)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}
	defer func() { _ = zf.Close() }()
	zw := zip.NewWriter(zf)

	manifest := fmt.Sprintf("panelcanvas style pack\nCreated: %s\n", time.Now().Format(time.RFC3339))
	w, err := zw.Create(ManifestName)
	if err != nil {
		return fmt.Errorf("add manifest: %w", err)
	}
	if _, err := io.WriteString(w, manifest); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	added := 0
	if _, statErr := os.Stat(stylesDir); statErr == nil {
		err = filepath.WalkDir(stylesDir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(stylesDir, p)
			if err != nil {
				return err
			}
			fw, err := zw.Create(filepath.ToSlash(rel))
			if err != nil {
				return err
			}
			f, err := os.Open(p)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			if _, err := io.Copy(fw, f); err != nil {
				return err
			}
			added++
			return nil
		})
		if err != nil {
			l.Error("zip build failed", slog.Any("err", err))
			return fmt.Errorf("build zip: %w", err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish zip: %w", err)
	}
	l.Info("style pack exported", slog.Int("files", added), slog.String("zip", destZipPath))
	return nil
}

// InstallPack extracts packZipPath into stylesDir. Existing files are kept
// and entries that would land outside stylesDir are rejected. It returns the
// number of files written.
func InstallPack(stylesDir, packZipPath string) (int, error) {
	l := applog.WithOperation(applog.WithComponent("stylepack"), "install").With(slog.String("dir", stylesDir))
	if strings.TrimSpace(stylesDir) == "" {
		return 0, errors.New("stylesDir is required")
	}
	if err := os.MkdirAll(stylesDir, 0o755); err != nil {
		return 0, fmt.Errorf("ensure styles dir: %w", err)
	}
	r, err := zip.OpenReader(packZipPath)
	if err != nil {
		return 0, fmt.Errorf("open pack: %w", err)
	}
	defer func() { _ = r.Close() }()

	installed := 0
	for _, f := range r.File {
		if f.Name == ManifestName {
			continue
		}
		clean := path.Clean(f.Name)
		if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
			return installed, fmt.Errorf("pack entry %q escapes the styles dir", f.Name)
		}
		target := filepath.Join(stylesDir, filepath.FromSlash(clean))
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return installed, err
			}
			continue
		}
		if _, err := os.Stat(target); err == nil {
			l.Warn("skip existing file", slog.String("path", target))
			continue
		}
		if err := extract(f, target); err != nil {
			return installed, err
		}
		installed++
	}
	l.Info("style pack installed", slog.Int("files", installed))
	return installed, nil
}

func extract(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
