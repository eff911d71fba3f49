package imageset

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Resolution failures surfaced to callers. All are fatal; nothing is retried.
var (
	// ErrNotFound indicates the root input path does not exist.
	ErrNotFound = errors.New("input path not found")

	// ErrNoImages indicates a directory yielded no recognized image files.
	ErrNoImages = errors.New("no image files found")

	// ErrInsufficientImages indicates exact-batch truncation would leave
	// zero usable images.
	ErrInsufficientImages = errors.New("not enough images for a full batch")
)

// SupportedExtensions lists the recognized raster image extensions,
// matched case-insensitively against directory entries.
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".bmp"}

// IsImageFile reports whether the path has a supported image extension.
func IsImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Options controls image set resolution.
type Options struct {
	// Shuffle applies a random permutation to the discovered set.
	Shuffle bool

	// Rand is the randomness source used for shuffling. When nil the
	// ambient math/rand source is used, which makes shuffle order
	// non-reproducible; tests inject a seeded source here.
	Rand *rand.Rand
}

// Resolve discovers the ordered set of source images under root.
//
// A single file resolves to a one-element list with no extension
// filtering. A directory resolves to its direct regular-file entries with
// supported extensions, sorted lexicographically by path. Shuffling, when
// requested, permutes the sorted list.
func Resolve(root string, opts Options) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, root)
		}
		return nil, fmt.Errorf("cannot access %s: %w", root, err)
	}

	var images []string
	if info.IsDir() {
		images, err = listImages(root)
		if err != nil {
			return nil, err
		}
		if len(images) == 0 {
			return nil, fmt.Errorf("%w in %s", ErrNoImages, root)
		}
	} else {
		images = []string{root}
	}

	if opts.Shuffle {
		shuffle(images, opts.Rand)
	}

	return images, nil
}

// Truncate shortens images to the largest exact multiple of batchSize,
// keeping the prefix of the current order.
func Truncate(images []string, batchSize int) ([]string, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("invalid batch size %d", batchSize)
	}
	n := batchSize * (len(images) / batchSize)
	if n < 1 {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientImages, len(images), batchSize)
	}
	return images[:n], nil
}

// listImages returns the supported image files directly under dir, sorted
// lexicographically by path. Subdirectories are not descended into.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %s: %w", dir, err)
	}

	var images []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if IsImageFile(path) {
			images = append(images, path)
		}
	}
	sort.Strings(images)
	return images, nil
}

func shuffle(images []string, r *rand.Rand) {
	swap := func(i, j int) { images[i], images[j] = images[j], images[i] }
	if r != nil {
		r.Shuffle(len(images), swap)
		return
	}
	rand.Shuffle(len(images), swap)
}
