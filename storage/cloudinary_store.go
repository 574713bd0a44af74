package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const uploadTimeout = 2 * time.Minute

type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore(cloudinaryURL string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &CloudinaryStore{cld: cld}, nil
}

func (s *CloudinaryStore) Store(ctx context.Context, file Upload, category Category) (string, error) {
	if err := Validate(category, file.Filename, file.Size); err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	key := ObjectKey(category, file.OwnerID, file.Filename)
	params := uploader.UploadParams{
		PublicID:     strings.TrimSuffix(key, path.Ext(key)),
		ResourceType: "auto",
	}
	result, err := s.cld.Upload.Upload(ctx, file.Reader, params)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if result.Error.Message != "" {
		return "", errors.New("cloudinary upload: " + result.Error.Message)
	}
	return result.SecureURL, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, assetURL string) (bool, error) {
	publicID, resourceType, ok := publicIDFromURL(assetURL)
	if !ok {
		return false, nil
	}
	result, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return false, fmt.Errorf("cloudinary destroy: %w", err)
	}
	return result.Result == "ok", nil
}

// SignedUpload lets a browser post a file straight to Cloudinary.
type SignedUpload struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"api_key"`
	CloudName string `json:"cloud_name"`
	Folder    string `json:"folder"`
}

func (s *CloudinaryStore) SignUpload(category Category, ownerID uint) (*SignedUpload, error) {
	if _, ok := rules[category]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	folder := path.Join(Folder(category), strconv.FormatUint(uint64(ownerID), 10))
	paramsToSign, err := api.StructToParams(uploader.UploadParams{Folder: folder})
	if err != nil {
		return nil, fmt.Errorf("prepare signature params: %w", err)
	}

	timestamp := time.Now().Unix()
	paramsToSign.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(paramsToSign, s.cld.Config.Cloud.APISecret)
	if err != nil {
		return nil, fmt.Errorf("sign upload params: %w", err)
	}
	return &SignedUpload{
		Signature: signature,
		Timestamp: timestamp,
		APIKey:    s.cld.Config.Cloud.APIKey,
		CloudName: s.cld.Config.Cloud.CloudName,
		Folder:    folder,
	}, nil
}

// publicIDFromURL turns a delivery URL such as
// https://res.cloudinary.com/demo/video/upload/v1712/pickleball/review_video/4/abc.mp4
// into its public ID and resource type.
func publicIDFromURL(assetURL string) (publicID, resourceType string, ok bool) {
	u, err := url.Parse(assetURL)
	if err != nil {
		return "", "", false
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 1; i < len(segments)-1; i++ {
		if segments[i] != "upload" {
			continue
		}
		resourceType = segments[i-1]
		rest := segments[i+1:]
		if len(rest) > 0 && strings.HasPrefix(rest[0], "v") {
			if _, err := strconv.ParseInt(rest[0][1:], 10, 64); err == nil {
				rest = rest[1:]
			}
		}
		if len(rest) == 0 {
			return "", "", false
		}
		joined := strings.Join(rest, "/")
		return strings.TrimSuffix(joined, path.Ext(joined)), resourceType, true
	}
	return "", "", false
}
