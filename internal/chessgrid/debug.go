package chessgrid

import (
	"fmt"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"
)

// DebugSink receives the intermediate artifacts a detection pass can
// optionally emit: the scaled/preprocessed input image, the response field
// as a viewable image, and the final point list as a plottable dump. The
// original detector wrote these to hard-coded /tmp paths; callers now
// choose where (or whether) they land.
type DebugSink interface {
	// WriteScaledImage receives the pyramid-scaled, preprocessed 8-bit
	// image actually fed to the response operator at this level, tagged
	// with the pyramid level and pass name ("find" or "refine") that used
	// it.
	WriteScaledImage(level int, pass string, img Image) error
	// WriteResponseImage receives the signed-16 response field, normalized
	// by the caller to a displayable 8-bit image, tagged with the pyramid
	// level and pass name ("find"/"refine" for the raw signed-range
	// rendering, "find-positive"/"refine-positive" for the
	// candidates-only rendering) that produced it.
	WriteResponseImage(level int, pass string, img Image) error
	// WritePoints receives the accepted points of one pass, tagged the
	// same way.
	WritePoints(level int, pass string, points []PointF) error
}

// NullSink discards every artifact. It is the default when a caller passes
// no sink.
type NullSink struct{}

func (NullSink) WriteScaledImage(level int, pass string, img Image) error   { return nil }
func (NullSink) WriteResponseImage(level int, pass string, img Image) error { return nil }
func (NullSink) WritePoints(level int, pass string, points []PointF) error  { return nil }

// FileDebugSink writes each artifact under Dir, named by level and pass.
type FileDebugSink struct {
	Dir string
}

func (s FileDebugSink) WriteScaledImage(level int, pass string, img Image) error {
	name := filepath.Join(s.Dir, fmt.Sprintf("scaled-level%d-%s.png", level, pass))
	return s.writePNG(name, img)
}

func (s FileDebugSink) WriteResponseImage(level int, pass string, img Image) error {
	name := filepath.Join(s.Dir, fmt.Sprintf("response-level%d-%s.png", level, pass))
	return s.writePNG(name, img)
}

func (s FileDebugSink) writePNG(name string, img Image) error {
	mat, err := img.ToMat()
	if err != nil {
		return fmt.Errorf("%w: encoding debug image: %v", ErrInvalidInput, err)
	}
	defer mat.Close()

	if ok := gocv.IMWrite(name, mat); !ok {
		return fmt.Errorf("chessgrid: could not write debug image %q", name)
	}
	return nil
}

// WritePoints writes a feedgnuplot-friendly text dump: a shebang line so
// the file is directly executable as a plot command, followed by one "x y"
// pair per accepted point.
func (s FileDebugSink) WritePoints(level int, pass string, points []PointF) error {
	name := filepath.Join(s.Dir, fmt.Sprintf("corners-level%d-%s.gp", level, pass))
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("chessgrid: could not open debug dump %q: %w", name, err)
	}
	defer f.Close()

	fmt.Fprintln(f, "#!/usr/bin/feedgnuplot --domain --square --points")
	for _, p := range points {
		fmt.Fprintf(f, "%.3f %.3f\n", p.X, p.Y)
	}
	return nil
}

// normalizeResponsePositiveForDisplay rescales a signed-16 response field
// into an 8-bit image suitable for WriteResponseImage, clamping negative
// values to zero and scaling the positive (candidate) range to fill 0-255 —
// the "positive-only" debug variant showing just what the tracker could
// have grown a component from.
func normalizeResponsePositiveForDisplay(resp []int16, width, height int) Image {
	out := NewImage(width, height)
	var max int16
	for _, v := range resp {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		return out
	}
	for i, v := range resp {
		if v <= 0 {
			continue
		}
		out.Pix[i] = uint8(int32(v) * 255 / int32(max))
	}
	return out
}

// normalizeResponseRawForDisplay rescales a signed-16 response field into an
// 8-bit image spanning its full signed range (min maps to 0, max to 255),
// the "raw" debug variant that also shows negative (edge/flat) territory
// the positive-only rendering clips away entirely.
func normalizeResponseRawForDisplay(resp []int16, width, height int) Image {
	out := NewImage(width, height)
	if len(resp) == 0 {
		return out
	}
	min, max := resp[0], resp[0]
	for _, v := range resp {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	span := int32(max) - int32(min)
	if span == 0 {
		return out
	}
	for i, v := range resp {
		out.Pix[i] = uint8((int32(v) - int32(min)) * 255 / span)
	}
	return out
}
