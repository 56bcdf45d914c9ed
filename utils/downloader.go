package utils

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/raushankrgupta/chicforgeeks-api/config"
	"github.com/raushankrgupta/chicforgeeks-api/models"
)

// AssetUploader is the part of the object store the importer needs.
type AssetUploader interface {
	Upload(ctx context.Context, objectKey string, body io.Reader, size int64, contentType string) error
}

// ImportAssetArchive downloads a zip of 3D models and uploads every .glb and
// .gltf entry under prefix, keeping the archive's folder layout. It returns
// the uploaded objects.
func ImportAssetArchive(ctx context.Context, archiveURL, prefix string, dst AssetUploader) ([]models.StoredObject, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, archiveURL, nil)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	// zip needs random access, so the archive is buffered.
	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 20*config.MaxFileSize))
	if err != nil {
		return nil, err
	}
	archive, err := zip.NewReader(bytes.NewReader(bodyBytes), int64(len(bodyBytes)))
	if err != nil {
		return nil, fmt.Errorf("invalid archive: %v", err)
	}

	var uploaded []models.StoredObject
	for _, entry := range archive.File {
		if entry.FileInfo().IsDir() || !config.IsAllowedExtension(entry.Name) {
			continue
		}
		clean := path.Clean("/" + entry.Name)[1:]
		if clean == "" || strings.HasPrefix(clean, "__MACOSX/") {
			continue
		}
		key := path.Join(prefix, clean)

		rc, err := entry.Open()
		if err != nil {
			return uploaded, err
		}
		err = dst.Upload(ctx, key, rc, int64(entry.UncompressedSize64), ContentTypeFor(entry.Name))
		rc.Close()
		if err != nil {
			return uploaded, err
		}
		uploaded = append(uploaded, models.StoredObject{Key: key, Size: int64(entry.UncompressedSize64)})
	}
	return uploaded, nil
}

// ContentTypeFor returns the media type for a 3D model file name.
func ContentTypeFor(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".glb":
		return "model/gltf-binary"
	case ".gltf":
		return "model/gltf+json"
	}
	return "application/octet-stream"
}
