package uploadsvc

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-authoring/core/question"
)

// Upload is an image received by the console uploader.
type Upload struct {
	Ref  string
	Name string
	Size int
}

// ConsoleUploader keeps images in memory and prints what it received. For DEV & TEST.
type ConsoleUploader struct {
	folder        string
	std           *log.Logger
	disableOutput bool

	mu      sync.Mutex
	uploads []Upload
}

var _ question.ImageUploader = (*ConsoleUploader)(nil)

func NewConsoleUploader(folder string, std *log.Logger) *ConsoleUploader {
	return &ConsoleUploader{folder: folder, std: std}
}

func NewConsoleUploaderMock() *ConsoleUploader {
	return &ConsoleUploader{folder: "test", disableOutput: true}
}

func (u *ConsoleUploader) UploadImage(ctx context.Context, file io.Reader, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := ioutil.ReadAll(file)
	if err != nil {
		return "", errors.Wrap(err, "reading image")
	}
	if len(data) == 0 {
		return "", errors.New("empty image")
	}

	id := publicID(name)
	if id == "" {
		id = "image"
	}
	ref := fmt.Sprintf("memory://%s/%s-%s", u.folder, id, uuid.New().String())

	u.mu.Lock()
	u.uploads = append(u.uploads, Upload{Ref: ref, Name: name, Size: len(data)})
	u.mu.Unlock()

	if !u.disableOutput && u.std != nil {
		u.std.Printf("image %q uploaded (%d bytes): %s\n", name, len(data), ref)
	}
	return ref, nil
}

// Uploads returns the images received so far.
func (u *ConsoleUploader) Uploads() []Upload {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]Upload(nil), u.uploads...)
}
