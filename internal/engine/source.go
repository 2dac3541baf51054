package engine

import (
	"context"
	"image"
	"sync"

	"github.com/MeKo-Tech/scanbridge/internal/utils"
)

// FrameSource produces camera frames.
type FrameSource interface {
	Next(ctx context.Context) (image.Image, error)
}

// DirSource cycles over the images of a directory, standing in for a camera.
// The directory is listed lazily on the first frame.
type DirSource struct {
	dir string

	mu    sync.Mutex
	paths []string
	next  int
}

// NewDirSource creates a source over the images in dir.
func NewDirSource(dir string) *DirSource { return &DirSource{dir: dir} }

// Next loads the next image, wrapping around at the end of the directory.
func (s *DirSource) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	if s.paths == nil {
		paths, err := utils.ListImages(s.dir)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		s.paths = paths
	}
	if len(s.paths) == 0 {
		s.mu.Unlock()
		return nil, ErrNoFrame
	}
	path := s.paths[s.next%len(s.paths)]
	s.next++
	s.mu.Unlock()

	img, _, err := utils.LoadImage(path)
	return img, err
}

// StaticSource replays a fixed list of frames in a loop.
type StaticSource struct {
	mu     sync.Mutex
	frames []image.Image
	next   int
}

// NewStaticSource creates a source over frames.
func NewStaticSource(frames ...image.Image) *StaticSource {
	return &StaticSource{frames: frames}
}

func (s *StaticSource) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return nil, ErrNoFrame
	}
	img := s.frames[s.next%len(s.frames)]
	s.next++
	return img, nil
}
