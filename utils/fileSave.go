package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

func SaveFile(file multipart.File, header *multipart.FileHeader, folder string) (string, error) {
	filename := fmt.Sprintf("%s%s", GenerateRandomString(12), filepath.Ext(header.Filename))
	filePath := filepath.Join(folder, filename)

	out, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err = io.Copy(out, file); err != nil {
		return "", err
	}

	return filename, nil
}

// SaveThumbnail writes a 300px-wide copy of a stored image next to the
// original, under a "thumb" subfolder with the same filename.
func SaveThumbnail(folder, filename string) error {
	img, err := imaging.Open(filepath.Join(folder, filename))
	if err != nil {
		return err
	}

	thumbDir := filepath.Join(folder, "thumb")
	if err := EnsureDir(thumbDir); err != nil {
		return err
	}

	thumb := imaging.Resize(img, 300, 0, imaging.Lanczos)
	return imaging.Save(thumb, filepath.Join(thumbDir, filename))
}
