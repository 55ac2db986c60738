package models

import "slices"

// Bundle is the attachment set of a note: exactly one of MediaBundle,
// FilesBundle or AudioBundle. A note without attachments has a nil Bundle.
type Bundle interface {
	// Len is the number of attachments in the bundle.
	Len() int
	isBundle()
}

// MediaBundle interleaves images and videos by their Order values.
type MediaBundle struct {
	Images []Image
	Videos []Video
}

// FilesBundle holds documents in a fixed grid.
type FilesBundle struct {
	Files []File
}

// AudioBundle holds a recording. The engine only ever creates one item.
type AudioBundle struct {
	Items []Audio
}

func (MediaBundle) isBundle() {}
func (FilesBundle) isBundle() {}
func (AudioBundle) isBundle() {}

func (b MediaBundle) Len() int { return len(b.Images) + len(b.Videos) }
func (b FilesBundle) Len() int { return len(b.Files) }
func (b AudioBundle) Len() int { return len(b.Items) }

// NewMediaBundle copies images and videos into a bundle and gives every
// item an explicit order: images first, then videos, each in input order.
func NewMediaBundle(images []Image, videos []Video) MediaBundle {
	b := MediaBundle{Images: slices.Clone(images), Videos: slices.Clone(videos)}
	for i := range b.Images {
		b.Images[i].Order = Order(i)
	}
	for i := range b.Videos {
		b.Videos[i].Order = Order(len(b.Images) + i)
	}
	return b
}

// NewFilesBundle copies files into a bundle.
func NewFilesBundle(files []File) FilesBundle {
	return FilesBundle{Files: slices.Clone(files)}
}

// NewAudioBundle wraps a single recording.
func NewAudioBundle(a Audio) AudioBundle {
	return AudioBundle{Items: []Audio{a}}
}
