package storage

import (
	"context"
	"mime/multipart"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/pkg/errors"
)

const cloudinaryFolder = "gurukul"

// CloudinaryStore keeps uploads in Cloudinary under gurukul/<kind>.
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore(cloudinaryURL string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, errors.Wrap(err, "configure cloudinary")
	}
	return &CloudinaryStore{cld: cld}, nil
}

func (s *CloudinaryStore) Save(ctx context.Context, kind Kind, file *multipart.FileHeader) (string, error) {
	if err := kind.Check(file.Filename); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", errors.Wrap(err, "open upload")
	}
	defer src.Close()

	name := storedName(file.Filename)
	resp, err := s.cld.Upload.Upload(ctx, src, uploader.UploadParams{
		PublicID:     strings.TrimSuffix(name, path.Ext(name)),
		Folder:       cloudinaryFolder + "/" + string(kind),
		ResourceType: "auto",
	})
	if err != nil {
		return "", errors.Wrap(err, "upload to cloudinary")
	}
	if resp.Error.Message != "" {
		return "", errors.New(resp.Error.Message)
	}
	return resp.SecureURL, nil
}

func (s *CloudinaryStore) Remove(ctx context.Context, location string) error {
	if location == "" {
		return nil
	}
	publicID, resourceType, ok := publicIDFromURL(location)
	if !ok {
		return errors.Errorf("not a cloudinary asset url: %q", location)
	}
	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return errors.Wrap(err, "destroy cloudinary asset")
	}
	if resp.Error.Message != "" {
		return errors.New(resp.Error.Message)
	}
	return nil
}

var versionSegment = regexp.MustCompile(`^v\d+$`)

// publicIDFromURL recovers the public id and resource type from a delivery URL such as
// https://res.cloudinary.com/demo/image/upload/v1712/gurukul/profile/1712-me.png.
// Raw assets keep their extension in the public id.
func publicIDFromURL(raw string) (publicID, resourceType string, ok bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", false
	}
	parts := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
	// <cloud>/<resource_type>/upload/[v<version>/]<public id...>
	if len(parts) < 4 || parts[2] != "upload" {
		return "", "", false
	}
	resourceType = parts[1]
	rest := parts[3:]
	if len(rest) > 1 && versionSegment.MatchString(rest[0]) {
		rest = rest[1:]
	}

	publicID = strings.Join(rest, "/")
	if resourceType != "raw" {
		publicID = strings.TrimSuffix(publicID, path.Ext(publicID))
	}
	return publicID, resourceType, publicID != ""
}
