// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package safezone

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/pdiddy/fetchsub/internal/errors"
)

func TestParsePlatform(t *testing.T) {
	tests := map[string]Platform{
		"tiktok":    TikTok,
		"":          TikTok,
		"Reels":     Instagram,
		"instagram": Instagram,
		"shorts":    YouTube,
		" YouTube ": YouTube,
	}
	for in, want := range tests {
		got, err := ParsePlatform(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParsePlatform("snapchat")
	assert.ErrorIs(t, err, ferrors.ErrInvalidConfig)
}

func TestPlatformTitle(t *testing.T) {
	assert.Equal(t, "Instagram Reels", Instagram.Title())
	assert.Equal(t, "YouTube Shorts", YouTube.Title())
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "clip-safezone-tiktok.png", OutputName("clip.mp4", TikTok))
	assert.Equal(t, "clip-safezone-youtube.png", OutputName("/v/clip.mov", YouTube))
	assert.Equal(t, "frame-safezone-instagram.png", OutputName("", Instagram))
}

func TestZones_ReferenceAndScaled(t *testing.T) {
	for _, p := range Platforms() {
		ref := Zones(p, RefWidth, RefHeight)
		assert.Equal(t, layouts[p], ref, p)

		big := Zones(p, 3*RefWidth, 3*RefHeight)
		require.Len(t, big, len(ref))
		for i := range ref {
			assert.Equal(t, ref[i].Rect.Min.Mul(3), big[i].Rect.Min, p)
			assert.Equal(t, ref[i].Rect.Max.Mul(3), big[i].Rect.Max, p)
		}
	}
}

func TestSafeArea(t *testing.T) {
	assert.Equal(t, image.Rect(0, 64, 304, 520), SafeArea(TikTok, RefWidth, RefHeight))
	assert.Equal(t, image.Rect(0, 64, 304, 512), SafeArea(Instagram, RefWidth, RefHeight))
	assert.Equal(t, image.Rect(0, 56, 304, 552), SafeArea(YouTube, RefWidth, RefHeight))
	assert.Equal(t, image.Rect(0, 192, 912, 1560), SafeArea(TikTok, 1080, 1920))

	for _, p := range Platforms() {
		safe := SafeArea(p, 1080, 1920)
		for _, z := range Zones(p, 1080, 1920) {
			if z.Kind == KindCaption {
				continue
			}
			assert.True(t, safe.Intersect(z.Rect).Empty(), "%s %s", p, z.Kind)
		}
	}
}

func TestCheck(t *testing.T) {
	boxes := []image.Rectangle{
		image.Rect(40, 200, 200, 300), // clear
		image.Rect(0, 0, 100, 40),     // status bar and header
		image.Rect(280, 500, 340, 560),
	}
	got := Check(TikTok, RefWidth, RefHeight, boxes)

	var summary []string
	for _, c := range got {
		summary = append(summary, c.String())
	}
	require.Len(t, got, 4, strings.Join(summary, "\n"))

	assert.Equal(t, 1, got[0].Box)
	assert.Equal(t, KindStatusBar, got[0].Zone.Kind)
	assert.Equal(t, 100*32, got[0].Area)
	assert.Equal(t, KindHeader, got[1].Zone.Kind)
	assert.Equal(t, image.Rect(0, 32, 100, 40), got[1].Overlap)

	assert.Equal(t, 2, got[2].Box)
	assert.Equal(t, KindRail, got[2].Zone.Kind)
	assert.Equal(t, image.Rect(304, 500, 340, 544), got[2].Overlap)
	assert.Equal(t, KindCaption, got[3].Zone.Kind)
	assert.Equal(t, 16*40, got[3].Area)

	assert.Empty(t, Check(TikTok, RefWidth, RefHeight, boxes[:1]))
}

func TestParseBox(t *testing.T) {
	r, err := ParseBox("10, 20,30,40")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(10, 20, 40, 60), r)

	for _, bad := range []string{"1,2,3", "a,b,c,d", "0,0,0,5"} {
		_, err := ParseBox(bad)
		assert.ErrorIs(t, err, ferrors.ErrInvalidConfig, bad)
	}
}

func TestRender_Overlay(t *testing.T) {
	img := Render(nil, TikTok, RenderOptions{Width: 360, Height: 640})
	assert.Equal(t, image.Rect(0, 0, 360, 640), img.Bounds())

	// Middle of the safe area stays transparent.
	assert.Equal(t, color.RGBA{}, img.RGBAAt(150, 300))
	// Chrome zones are shaded.
	_, _, _, a := img.At(180, 10).RGBA()
	assert.NotZero(t, a)
	r, g, _, _ := img.At(320, 400).RGBA()
	assert.Greater(t, r, g)
	// Safe-area outline is drawn on its top edge.
	assert.Equal(t, uint8(255), img.RGBAAt(150, 64).A)
	assert.Equal(t, uint8(220), img.RGBAAt(150, 64).G)
}

func TestRender_FrameAndPreviewWidth(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 720, 1280))
	out := Render(frame, YouTube, RenderOptions{PreviewWidth: 360})
	assert.Equal(t, image.Rect(0, 0, 360, 640), out.Bounds())

	same := Render(frame, YouTube, RenderOptions{PreviewWidth: 2000})
	assert.Equal(t, frame.Bounds(), same.Bounds())
}

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool
	runFunc       func(name string, args []string, stdout, stderr io.Writer) error
	calls         [][]string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Run(_ context.Context, name string, args []string, stdout, stderr io.Writer) error {
	m.calls = append(m.calls, append([]string{name}, args...))
	if m.runFunc != nil {
		return m.runFunc(name, args, stdout, stderr)
	}
	return nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

var fakeMP4 = append([]byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom"), make([]byte, 64)...)

func TestFrame_ImageDecodedDirectly(t *testing.T) {
	exec := &mockExecutor{}
	src := newFrameSource("", exec)

	img, err := src.Frame(context.Background(), pngBytes(t, 9, 16), time.Second)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 9, 16), img.Bounds())
	assert.Empty(t, exec.calls)
}

func TestFrame_VideoThroughFFmpeg(t *testing.T) {
	frame := pngBytes(t, 18, 32)
	exec := &mockExecutor{
		availableBins: map[string]bool{"ffmpeg": true},
		runFunc: func(_ string, _ []string, stdout, _ io.Writer) error {
			_, err := stdout.Write(frame)
			return err
		},
	}
	src := newFrameSource("", exec)

	img, err := src.Frame(context.Background(), fakeMP4, 1500*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 18, 32), img.Bounds())

	require.Len(t, exec.calls, 1)
	args := strings.Join(exec.calls[0], " ")
	assert.True(t, strings.HasPrefix(args, "ffmpeg "))
	assert.Contains(t, args, "-ss 1.500 -i ")
	assert.Contains(t, args, "-frames:v 1")
}

func TestFrame_Errors(t *testing.T) {
	t.Run("ffmpeg missing", func(t *testing.T) {
		src := newFrameSource("", &mockExecutor{})
		_, err := src.Frame(context.Background(), fakeMP4, 0)
		assert.ErrorIs(t, err, ferrors.ErrFrameExtraction)
	})

	t.Run("ffmpeg fails", func(t *testing.T) {
		exec := &mockExecutor{
			availableBins: map[string]bool{"/opt/ffmpeg": true},
			runFunc: func(_ string, _ []string, _, stderr io.Writer) error {
				_, _ = stderr.Write([]byte("moov atom not found"))
				return errors.New("exit status 1")
			},
		}
		_, err := newFrameSource("/opt/ffmpeg", exec).Frame(context.Background(), fakeMP4, 0)
		require.ErrorIs(t, err, ferrors.ErrFrameExtraction)
		assert.Contains(t, err.Error(), "moov atom not found")
	})

	t.Run("no output", func(t *testing.T) {
		exec := &mockExecutor{availableBins: map[string]bool{"ffmpeg": true}}
		_, err := newFrameSource("", exec).Frame(context.Background(), fakeMP4, 99*time.Second)
		assert.ErrorIs(t, err, ferrors.ErrFrameExtraction)
	})
}

func TestPreview(t *testing.T) {
	src := newFrameSource("", &mockExecutor{})
	out, rep, err := Preview(context.Background(), src, pngBytes(t, 360, 640), Options{
		Platform: Instagram,
		Boxes:    []image.Rectangle{image.Rect(300, 400, 350, 420)},
	})
	require.NoError(t, err)

	assert.Equal(t, 360, rep.Width)
	assert.Equal(t, image.Rect(0, 64, 304, 512), rep.SafeArea)
	require.Len(t, rep.Conflicts, 1)
	assert.Equal(t, map[string]int{"conflicts": 1}, rep.Changes())

	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 360, cfg.Width)
}
