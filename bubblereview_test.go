package bubblereview

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/scantools/bubble-review/internal/config"
	"github.com/scantools/bubble-review/pkg/analytics"
	"github.com/scantools/bubble-review/pkg/geometry"
	"github.com/scantools/bubble-review/pkg/page"
)

// createTestPage builds a page with a known image size so the pipeline
// never has to touch the filesystem.
func createTestPage(boxes []geometry.Box) *page.PageData {
	pd := page.New("page_0001.png", "", "originals/page_0001.jpg", 1.0, boxes)
	pd.SetImageSize(geometry.Size{W: 800, H: 600})
	return pd
}

// createTestImageFile writes a small PNG for file based tests.
func createTestImageFile(t *testing.T, dir string, width, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{255, 255, 255, 255})
		}
	}

	path := filepath.Join(dir, "page_0001.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return path
}

func sortedBoxes(boxes []geometry.Box) []geometry.Box {
	out := append([]geometry.Box(nil), boxes...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].X1 != out[j].X1 {
			return out[i].X1 < out[j].X1
		}
		return out[i].Y1 < out[j].Y1
	})
	return out
}

func TestNew(t *testing.T) {
	engine := New()
	if engine == nil {
		t.Fatal("New() returned nil")
	}

	if engine.config == nil {
		t.Error("config component is nil")
	}

	if engine.logger == nil {
		t.Error("logger component is nil")
	}
}

func TestNewWithConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Boxes.OverlapThreshold = 50

	engine := NewWithConfig(cfg)
	if engine == nil {
		t.Fatal("NewWithConfig() returned nil")
	}

	if engine.config.Boxes.OverlapThreshold != 50 {
		t.Errorf("Expected threshold 50, got %f", engine.config.Boxes.OverlapThreshold)
	}
}

func TestProcessPage(t *testing.T) {
	engine := New()
	pd := createTestPage([]geometry.Box{
		geometry.NewBox(10, 10, 110, 60),
		geometry.NewBox(40, 30, 150, 90),
		geometry.NewBox(300, 300, 340, 330),
	})

	if err := engine.ProcessPage(pd); err != nil {
		t.Fatalf("ProcessPage failed: %v", err)
	}

	// The first two detections are the same bubble reported twice. After
	// deduplication both tight boxes carry the initial padding plus the
	// extra padding on the right.
	expectedTight := []geometry.Box{
		geometry.NewBox(8, 8, 155, 92),
		geometry.NewBox(298, 298, 345, 332),
	}
	if len(pd.Boxes) != 2 {
		t.Fatalf("Expected 2 tight boxes, got %d", len(pd.Boxes))
	}
	for i, expected := range expectedTight {
		if pd.Boxes[i] != expected {
			t.Errorf("Expected tight box %v, got %v", expected, pd.Boxes[i])
		}
	}

	expectedExtended := []geometry.Box{
		geometry.NewBox(3, 3, 160, 97),
		geometry.NewBox(293, 293, 350, 337),
	}
	for i, expected := range expectedExtended {
		if pd.ExtendedBoxes[i] != expected {
			t.Errorf("Expected extended box %v, got %v", expected, pd.ExtendedBoxes[i])
		}
	}

	merged := sortedBoxes(pd.MergedExtendedBoxes)
	for i, expected := range expectedExtended {
		if merged[i] != expected {
			t.Errorf("Expected merged box %v, got %v", expected, merged[i])
		}
	}

	expectedReference := []geometry.Box{
		geometry.NewBox(0, 0, 180, 117),
		geometry.NewBox(273, 273, 370, 357),
	}
	reference := sortedBoxes(pd.ReferenceBoxes)
	if len(reference) != 2 {
		t.Fatalf("Expected 2 reference boxes, got %d", len(reference))
	}
	for i, expected := range expectedReference {
		if reference[i] != expected {
			t.Errorf("Expected reference box %v, got %v", expected, reference[i])
		}
	}
}

func TestProcessPageWithoutImage(t *testing.T) {
	engine := New()
	pd := page.New("missing/page.png", "", "", 1.0, []geometry.Box{
		geometry.NewBox(10, 10, 110, 60),
	})

	if err := engine.ProcessPage(pd); err == nil {
		t.Error("Expected error when the image size cannot be determined")
	}
}

func TestProcessPageFile(t *testing.T) {
	engine := New()
	dir := t.TempDir()

	imagePath := createTestImageFile(t, dir, 400, 300)
	pd := page.New(imagePath, "", "", 1.0, []geometry.Box{
		{X1: 10, Y1: 10, X2: 110, Y2: 60},
		{X1: 40, Y1: 30, X2: 150, Y2: 90},
	})
	data, err := pd.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	inputPath := filepath.Join(dir, "page_0001.json")
	if err := os.WriteFile(inputPath, data, 0644); err != nil {
		t.Fatalf("Failed to write page file: %v", err)
	}

	outputPath := filepath.Join(dir, "out", "page_0001_boxes.json")
	if err := engine.ProcessPageFile(inputPath, outputPath); err != nil {
		t.Fatalf("ProcessPageFile failed: %v", err)
	}

	out, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	result, err := page.FromJSON(out)
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}

	if len(result.Boxes) != 1 {
		t.Errorf("Expected 1 merged tight box, got %d", len(result.Boxes))
	}
	if len(result.MergedExtendedBoxes) != 1 || len(result.ReferenceBoxes) != 1 {
		t.Error("Expected derived collections in the output")
	}
}

func TestProcessPageFileMissingInput(t *testing.T) {
	engine := New()
	if err := engine.ProcessPageFile("/nonexistent/page.json", "out.json"); err == nil {
		t.Error("Expected error for missing input file")
	}
}

func TestNewReview(t *testing.T) {
	engine := New()
	snaps := []analytics.Snapshot{
		analytics.NewSnapshot(1, []int{600}, []int{600}, []analytics.RemovedBox{
			{Path: "page_0001.png", Text: "Hello!", Box: geometry.NewBox(0, 0, 30, 20)},
		}),
		analytics.NewSnapshot(1, []int{800}, nil, []analytics.RemovedBox{
			{Path: "page_0002.png", Text: "World!", Box: geometry.NewBox(5, 5, 45, 25)},
		}),
	}

	sessions := engine.NewReview(snaps, []string{"page_0001.png", "page_0002.png"})
	if len(sessions) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].Len() != 1 || sessions[0].Record(0).Text != "Hello!" {
		t.Errorf("Expected expanded records, got %+v", sessions[0].Records())
	}
}

func TestNewReviewMinBubbleArea(t *testing.T) {
	cfg := config.Default()
	cfg.Review.MinBubbleArea = 1000

	engine := NewWithConfig(cfg)
	sessions := engine.NewReview([]analytics.Snapshot{{}}, []string{"page_0001.png"})

	// 900 square pixels is fine by the default policy but not this one.
	if _, ok := sessions[0].AddBubble(geometry.NewBox(0, 0, 30, 30)); ok {
		t.Error("Expected bubble below the configured minimum to be discarded")
	}
	if _, ok := sessions[0].AddBubble(geometry.NewBox(0, 0, 40, 40)); !ok {
		t.Error("Expected bubble above the configured minimum to be added")
	}
}

func TestNewReviewCountMismatch(t *testing.T) {
	engine := New()
	engine.logger.SetOutput(io.Discard)
	defer engine.logger.SetOutput(os.Stderr)

	snaps := []analytics.Snapshot{{}, {}}
	sessions := engine.NewReview(snaps, []string{"page_0001.png"})

	if len(sessions) != 2 {
		t.Errorf("Expected review to proceed with 2 sessions, got %d", len(sessions))
	}
}

func TestFinishReview(t *testing.T) {
	engine := New()
	snaps := []analytics.Snapshot{
		analytics.NewSnapshot(2, nil, nil, []analytics.RemovedBox{
			{Path: "page_0001.png", Text: "Hello!", Box: geometry.NewBox(0, 0, 30, 20)},
			{Path: "page_0001.png", Text: "World!", Box: geometry.NewBox(50, 50, 90, 80)},
		}),
	}

	sessions := engine.NewReview(snaps, []string{"page_0001.png"})
	sessions[0].EditText(0, "Changed")
	sessions[0].ToggleDelete(1)

	result := engine.FinishReview(sessions)
	if len(result) != 1 {
		t.Fatalf("Expected 1 snapshot, got %d", len(result))
	}
	if result[0].NumBoxes != 1 {
		t.Errorf("Expected 1 box after review, got %d", result[0].NumBoxes)
	}
	if result[0].RemovedBoxes[0].Text != "Changed" {
		t.Errorf("Expected edited text, got %q", result[0].RemovedBoxes[0].Text)
	}
}

func TestLoadSaveAnalytics(t *testing.T) {
	engine := New()
	path := filepath.Join(t.TempDir(), "analytics.json")

	snaps := []analytics.Snapshot{
		analytics.NewSnapshot(1, []int{600}, nil, []analytics.RemovedBox{
			{Path: "page_0001.png", Text: "Hello!", Box: geometry.NewBox(0, 0, 30, 20)},
		}),
	}
	if err := engine.SaveAnalytics(path, snaps); err != nil {
		t.Fatalf("SaveAnalytics failed: %v", err)
	}

	loaded, err := engine.LoadAnalytics(path)
	if err != nil {
		t.Fatalf("LoadAnalytics failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0].RemovedBoxes[0].Text != "Hello!" {
		t.Errorf("Expected snapshots to round trip, got %+v", loaded)
	}
}

func TestGetVersion(t *testing.T) {
	version := GetVersion()
	if version == "" {
		t.Error("Version should not be empty")
	}

	if version != Version {
		t.Errorf("GetVersion() returned %s, expected %s", version, Version)
	}
}

func TestFilepathDir(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"out/result.json", "out"},
		{"result.json", "."},
		{"a/b/c.json", "a/b"},
		{"C:\\out\\result.json", "C:\\out"},
	}

	for _, test := range tests {
		result := filepathDir(test.input)
		if result != test.expected {
			t.Errorf("filepathDir(%s) = %s, expected %s",
				test.input, result, test.expected)
		}
	}
}

func BenchmarkProcessPage(b *testing.B) {
	engine := New()
	boxes := make([]geometry.Box, 0, 100)
	for i := 0; i < 100; i++ {
		x := (i % 10) * 70
		y := (i / 10) * 50
		boxes = append(boxes, geometry.NewBox(x, y, x+60, y+40))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pd := page.New("page_0001.png", "", "", 1.0, append([]geometry.Box(nil), boxes...))
		pd.SetImageSize(geometry.Size{W: 800, H: 600})
		if err := engine.ProcessPage(pd); err != nil {
			b.Fatal(err)
		}
	}
}
