package processor

import (
	"fmt"
	"path/filepath"
	"strings"
)

// maxCollisionSuffix bounds the numbered alternatives tried for one stem.
const maxCollisionSuffix = 99

// destinations hands out output paths for one batch. Names claimed by an
// earlier file are never reused; files already on disk from a previous run
// are overwritten.
type destinations struct {
	dir     string
	ext     string
	claimed map[string]struct{}
}

func newDestinations(dir, ext string) *destinations {
	return &destinations{dir: dir, ext: ext, claimed: make(map[string]struct{})}
}

// claim reserves an output path for the input file name.
func (d *destinations) claim(name string) (string, error) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	for i := 0; i <= maxCollisionSuffix; i++ {
		candidate := stem + d.ext
		if i > 0 {
			candidate = fmt.Sprintf("%s_%d%s", stem, i, d.ext)
		}
		key := strings.ToLower(candidate)
		if _, taken := d.claimed[key]; taken {
			continue
		}
		d.claimed[key] = struct{}{}
		return filepath.Join(d.dir, candidate), nil
	}
	return "", fmt.Errorf("%w: %s%s and %d numbered alternatives are taken", ErrDestinationCollision, stem, d.ext, maxCollisionSuffix)
}
