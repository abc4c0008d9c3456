// Package uploadsvc stores question images.
package uploadsvc

import (
	"context"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-authoring/core"
	"github.com/trezcool/masomo-authoring/core/question"
)

// Signature lets a client upload an image straight to Cloudinary.
type Signature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"apiKey"`
	CloudName string `json:"cloudName"`
	Folder    string `json:"folder"`
}

type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
	logger core.Logger
}

var _ question.ImageUploader = (*CloudinaryUploader)(nil)

func NewCloudinaryUploader(conf *core.Config, logger core.Logger) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(conf.Cloudinary.URL)
	if err != nil {
		return nil, errors.Wrap(err, "initializing cloudinary")
	}
	return &CloudinaryUploader{cld: cld, folder: conf.Cloudinary.Folder, logger: logger}, nil
}

// UploadImage uploads file and returns its secure URL, the reference stored on the question.
func (u *CloudinaryUploader) UploadImage(ctx context.Context, file io.Reader, name string) (string, error) {
	res, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   u.folder,
		PublicID: publicID(name),
	})
	if err != nil {
		return "", errors.Wrap(err, "uploading image")
	}
	if res.Error.Message != "" {
		u.logger.Error("cloudinary upload failed", map[string]interface{}{"name": name, "error": res.Error.Message})
		return "", errors.Errorf("uploading image: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}

// Sign returns the signed params of a direct upload into the question images folder.
func (u *CloudinaryUploader) Sign() (Signature, error) {
	params, err := api.StructToParams(uploader.UploadParams{Folder: u.folder})
	if err != nil {
		return Signature{}, errors.Wrap(err, "preparing signature params")
	}
	timestamp := time.Now().Unix()
	params.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(params, u.cld.Config.Cloud.APISecret)
	if err != nil {
		return Signature{}, errors.Wrap(err, "signing upload params")
	}
	return Signature{
		Signature: signature,
		Timestamp: timestamp,
		APIKey:    u.cld.Config.Cloud.APIKey,
		CloudName: u.cld.Config.Cloud.CloudName,
		Folder:    u.folder,
	}, nil
}

// publicID derives a cloudinary public id from a file name: its base name without extension.
func publicID(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "." || base == "/" {
		return ""
	}
	return core.CleanString(base)
}
