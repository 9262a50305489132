package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestLocalStorePutWritesFileAndReturnsURL(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "uploads/")

	url, err := store.Put(context.Background(), "projects/20240101-abc.png", []byte("data"), "image/png")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if url != "/uploads/projects/20240101-abc.png" {
		t.Fatalf("unexpected url: %s", url)
	}

	content, err := os.ReadFile(filepath.Join(dir, "projects", "20240101-abc.png"))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(content) != "data" {
		t.Fatalf("unexpected content: %q", content)
	}
}

func TestLocalStoreRejectsExistingKey(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "/uploads")

	if _, err := store.Put(context.Background(), "a.txt", []byte("1"), ""); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if _, err := store.Put(context.Background(), "a.txt", []byte("2"), ""); err == nil {
		t.Fatal("expected second put with same key to fail")
	}
}

func TestLocalStoreKeepsKeysInsideRoot(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(filepath.Join(dir, "root"), "/uploads")

	url, err := store.Put(context.Background(), "../../escape.txt", []byte("x"), "")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if url != "/uploads/escape.txt" {
		t.Fatalf("unexpected url: %s", url)
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.txt")); !os.IsNotExist(err) {
		t.Fatalf("file escaped storage root: %v", err)
	}

	if _, err := store.Put(context.Background(), "  ", []byte("x"), ""); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey for blank key, got %v", err)
	}
}

type fakeS3 struct {
	input *s3.PutObjectInput
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3StorePutSendsObject(t *testing.T) {
	client := &fakeS3{}
	store := newS3Store(client, "media", "https://cdn.example.com/")

	url, err := store.Put(context.Background(), "blogs/cover.jpg", []byte("jpeg"), "image/jpeg")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if url != "https://cdn.example.com/blogs/cover.jpg" {
		t.Fatalf("unexpected url: %s", url)
	}
	if aws.ToString(client.input.Bucket) != "media" || aws.ToString(client.input.Key) != "blogs/cover.jpg" {
		t.Fatalf("unexpected input: bucket=%s key=%s", aws.ToString(client.input.Bucket), aws.ToString(client.input.Key))
	}
	if aws.ToString(client.input.ContentType) != "image/jpeg" {
		t.Fatalf("unexpected content type: %s", aws.ToString(client.input.ContentType))
	}
}

func TestS3StorePutWrapsClientError(t *testing.T) {
	boom := errors.New("boom")
	store := newS3Store(&fakeS3{err: boom}, "media", "https://cdn.example.com")

	if _, err := store.Put(context.Background(), "a.png", []byte("x"), ""); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped client error, got %v", err)
	}
}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestInspectImage(t *testing.T) {
	info, err := InspectImage(encodePNG(t, 40, 20))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if info.Format != "png" || info.Width != 40 || info.Height != 20 {
		t.Fatalf("unexpected info: %+v", info)
	}

	if _, err := InspectImage([]byte("not an image")); err == nil {
		t.Fatal("expected error for non-image payload")
	}
}

func TestFitWidthDownscalesWideImages(t *testing.T) {
	data := encodePNG(t, 400, 200)
	info, _ := InspectImage(data)

	resized, resizedInfo, err := FitWidth(data, info, 100)
	if err != nil {
		t.Fatalf("fit width: %v", err)
	}
	if resizedInfo.Width != 100 || resizedInfo.Height != 50 {
		t.Fatalf("unexpected resized info: %+v", resizedInfo)
	}

	decoded, err := InspectImage(resized)
	if err != nil {
		t.Fatalf("inspect resized: %v", err)
	}
	if decoded.Width != 100 {
		t.Fatalf("expected re-encoded width 100, got %d", decoded.Width)
	}

	same, sameInfo, err := FitWidth(data, info, 0)
	if err != nil || !bytes.Equal(same, data) || sameInfo != info {
		t.Fatalf("expected unchanged payload when limit disabled")
	}
}
