// Package ordering keeps the images and videos of one note in a single,
// stable display order.
//
// Each image and video may carry an explicit Order. Items without one fall
// back to their position in their own slice, with videos numbered after all
// images. After any structural change the whole bundle is renumbered
// 0..n-1 in display order, so orders are always contiguous and unique.
package ordering

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/common"
)

// Slot addresses one item of a MediaBundle by kind and index within its
// kind's slice.
type Slot struct {
	Kind  models.Kind
	Index int
}

type keyed struct {
	slot Slot
	key  int
	rank int
}

// Merge returns the display sequence of b. Items sort by order key; equal
// keys put images before videos, then lower index first.
func Merge(b models.MediaBundle) []Slot {
	items := make([]keyed, 0, b.Len())
	for i, img := range b.Images {
		key := i
		if img.Order != nil {
			key = *img.Order
		}
		items = append(items, keyed{slot: Slot{models.KindImage, i}, key: key})
	}
	for i, v := range b.Videos {
		key := len(b.Images) + i
		if v.Order != nil {
			key = *v.Order
		}
		items = append(items, keyed{slot: Slot{models.KindVideo, i}, key: key, rank: 1})
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		if c := cmp.Compare(a.key, b.key); c != 0 {
			return c
		}
		if c := cmp.Compare(a.rank, b.rank); c != 0 {
			return c
		}
		return cmp.Compare(a.slot.Index, b.slot.Index)
	})

	out := make([]Slot, len(items))
	for i, it := range items {
		out[i] = it.slot
	}
	return out
}

// Reindex returns a copy of b whose items carry orders 0..n-1 following
// the current display sequence.
func Reindex(b models.MediaBundle) models.MediaBundle {
	return renumber(b, Merge(b))
}

func renumber(b models.MediaBundle, seq []Slot) models.MediaBundle {
	out := models.MediaBundle{
		Images: slices.Clone(b.Images),
		Videos: slices.Clone(b.Videos),
	}
	for pos, s := range seq {
		switch s.Kind {
		case models.KindImage:
			out.Images[s.Index].Order = models.Order(pos)
		case models.KindVideo:
			out.Videos[s.Index].Order = models.Order(pos)
		}
	}
	return out
}

// Remove drops the item at index within kind and renumbers what is left.
// An emptied bundle is returned as is; deciding what happens to the owning
// note is up to the caller.
func Remove(b models.MediaBundle, kind models.Kind, index int) (models.MediaBundle, error) {
	switch kind {
	case models.KindImage:
		if index < 0 || index >= len(b.Images) {
			return b, outOfRange(kind, index)
		}
		b.Images = slices.Delete(slices.Clone(b.Images), index, index+1)
	case models.KindVideo:
		if index < 0 || index >= len(b.Videos) {
			return b, outOfRange(kind, index)
		}
		b.Videos = slices.Delete(slices.Clone(b.Videos), index, index+1)
	default:
		return b, fmt.Errorf("%w: %s is not a media kind", common.ErrInvalidKind, kind)
	}
	return Reindex(b), nil
}

// Append adds images and videos after everything already displayed, in
// the given order (images first), and renumbers the bundle.
func Append(b models.MediaBundle, images []models.Image, videos []models.Video) models.MediaBundle {
	b = Reindex(b)
	next := b.Len()
	for _, img := range images {
		img.Order = models.Order(next)
		b.Images = append(b.Images, img)
		next++
	}
	for _, v := range videos {
		v.Order = models.Order(next)
		b.Videos = append(b.Videos, v)
		next++
	}
	return b
}

// Move shifts the item displayed at position from to position to. The
// other items keep their relative order.
func Move(b models.MediaBundle, from, to int) (models.MediaBundle, error) {
	seq := Merge(b)
	if from < 0 || from >= len(seq) || to < 0 || to >= len(seq) {
		return b, fmt.Errorf("%w: move %d -> %d of %d", common.ErrAttachmentNotFound, from, to, len(seq))
	}
	s := seq[from]
	seq = slices.Delete(seq, from, from+1)
	seq = slices.Insert(seq, to, s)
	return renumber(b, seq), nil
}

func outOfRange(kind models.Kind, index int) error {
	return fmt.Errorf("%w: %s #%d", common.ErrAttachmentNotFound, kind, index)
}
