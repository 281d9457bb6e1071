package provider

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/cloud-bulldozer/fontperf/pkg/config"
	log "github.com/cloud-bulldozer/fontperf/pkg/logging"
	"golang.org/x/sync/errgroup"
)

// fontExtensions are the file suffixes scanned by FontDir.
var fontExtensions = map[string]bool{
	".ttf": true,
	".otf": true,
	".ttc": true,
	".otc": true,
}

// scanWorkers bounds concurrent directory walks during discovery.
const scanWorkers = 4

// tableBlob holds the bytes of one table.
type tableBlob []byte

func (b tableBlob) Size() int64 { return int64(len(b)) }

// fontFace is one face of a font file.
type fontFace struct {
	path       string
	index      int
	offset     uint32
	collection bool
}

func (f *fontFace) Name() string {
	if f.collection {
		return fmt.Sprintf("%s#%d", f.path, f.index)
	}
	return f.path
}

// GetTables reads the table directory of the face and every table it lists.
func (f *fontFace) GetTables(ctx context.Context) (TableSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fp, err := os.Open(f.path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	st, err := fp.Stat()
	if err != nil {
		return nil, err
	}
	records, err := readTableDirectory(fp, int64(f.offset))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name(), err)
	}
	if err := checkBounds(records, st.Size()); err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name(), err)
	}
	ts := make(TableSet, len(records))
	for _, rec := range records {
		data := make([]byte, rec.length)
		if _, err := fp.ReadAt(data, int64(rec.offset)); err != nil {
			return nil, fmt.Errorf("%s: reading table %q: %w", f.Name(), rec.tag, err)
		}
		ts[rec.tag] = tableBlob(data)
	}
	return ts, nil
}

// FontDir enumerates the font faces found below a set of directories.
type FontDir struct {
	roots []string
}

// NewFontDir returns a FontDir scanning roots recursively.
func NewFontDir(roots []string) *FontDir {
	return &FontDir{roots: roots}
}

// Name of the provider
func (d *FontDir) Name() string { return config.ProviderFontDir }

// Available requires at least one readable root directory.
func (d *FontDir) Available() error {
	for _, root := range d.roots {
		if st, err := os.Stat(root); err == nil && st.IsDir() {
			return nil
		}
	}
	return fmt.Errorf("%w: none of %v is a directory", ErrUnavailable, d.roots)
}

// Query walks the roots and returns the font files sorted by path. Faces of
// collections are expanded lazily while the sequence is consumed.
func (d *FontDir) Query(ctx context.Context) (Sequence, error) {
	var (
		mu    sync.Mutex
		paths []string
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(scanWorkers)
	for _, root := range d.roots {
		g.Go(func() error {
			found, err := scanRoot(ctx, root)
			if err != nil {
				return err
			}
			mu.Lock()
			paths = append(paths, found...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(paths)
	paths = dedup(paths)
	log.Debugf("Found %d font files under %v", len(paths), d.roots)
	return &fontSequence{paths: paths}, nil
}

func scanRoot(ctx context.Context, root string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			if path == root && errors.Is(err, fs.ErrNotExist) {
				log.Debugf("Skipping missing font directory %s", root)
				return filepath.SkipDir
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if de.Type().IsRegular() && fontExtensions[strings.ToLower(filepath.Ext(path))] {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	return found, nil
}

// dedup removes neighbouring duplicates from a sorted slice.
func dedup(paths []string) []string {
	out := paths[:0]
	for i, p := range paths {
		if i > 0 && p == paths[i-1] {
			continue
		}
		out = append(out, p)
	}
	return out
}

// fontSequence yields one entry per face, file by file.
type fontSequence struct {
	paths   []string
	pos     int
	pending []Entry
}

func (s *fontSequence) Next(ctx context.Context) (Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	for len(s.pending) == 0 {
		if s.pos >= len(s.paths) {
			return nil, false, nil
		}
		path := s.paths[s.pos]
		s.pos++
		faces, err := openFaces(path)
		if errors.Is(err, errMalformed) {
			log.Warnf("Skipping %v", err)
			continue
		}
		if err != nil {
			return nil, false, err
		}
		s.pending = faces
	}
	e := s.pending[0]
	s.pending = s.pending[1:]
	return e, true, nil
}

// openFaces returns the faces of path whose table directory parses and fits
// in the file. Broken faces of a collection are skipped with a warning; a
// file without any usable face is reported as malformed.
func openFaces(path string) ([]Entry, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	st, err := fp.Stat()
	if err != nil {
		return nil, err
	}
	offsets, err := readFaceOffsets(fp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	collection := len(offsets) > 1 || offsets[0] != 0
	faces := make([]Entry, 0, len(offsets))
	for i, off := range offsets {
		face := &fontFace{
			path:       path,
			index:      i,
			offset:     off,
			collection: collection,
		}
		records, err := readTableDirectory(fp, int64(off))
		if err == nil {
			err = checkBounds(records, st.Size())
		}
		if errors.Is(err, errMalformed) {
			if !collection {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			log.Warnf("Skipping %s: %v", face.Name(), err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", face.Name(), err)
		}
		faces = append(faces, face)
	}
	if len(faces) == 0 {
		return nil, fmt.Errorf("%s: %w: no usable face", path, errMalformed)
	}
	return faces, nil
}
