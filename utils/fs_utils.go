package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// GetFileNameWithoutExtension obtains a filename without the extension. This does not contain any preceding directory
// paths.
func GetFileNameWithoutExtension(filePath string) string {
	return GetFilePathWithoutExtension(filepath.Base(filePath))
}

// GetFilePathWithoutExtension obtains a file path without the extension. This retains all preceding directory paths.
func GetFilePathWithoutExtension(filePath string) string {
	return filePath[:len(filePath)-len(filepath.Ext(filePath))]
}

// MakeDirectory creates a directory at the given path, including any parent directories which do not exist.
// Returns an error, if one occurred.
func MakeDirectory(dirToMake string) error {
	dirInfo, err := os.Stat(dirToMake)
	if err != nil {
		// Directory does not exist, as expected.
		if os.IsNotExist(err) {
			err = os.MkdirAll(dirToMake, 0755)
			if err != nil {
				return errors.WithStack(err)
			}

			// Successfully made the directory
			return nil
		}
		// Some other sort of error, throw it
		return errors.WithStack(err)
	}

	// dirToMake is a file, throw an error accordingly
	if !dirInfo.IsDir() {
		return fmt.Errorf("there is a file with the same name as directory '%s'", dirToMake)
	}

	// Directory already exists, good to go
	return nil
}

// WriteFileAtomic writes data to the given path, creating its parent directories if needed. The data is written to a
// uniquely named temporary file in the same directory and renamed over the target, so readers never observe a partial
// file. Returns an error if one occurred.
func WriteFileAtomic(path string, data []byte) error {
	// Ensure the existence of the directory we wish to write to.
	directory := filepath.Dir(path)
	err := MakeDirectory(directory)
	if err != nil {
		return err
	}

	// Write the temporary file next to the target so the rename stays on one filesystem
	tempPath := filepath.Join(directory, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
	err = os.WriteFile(tempPath, data, 0644)
	if err != nil {
		return errors.WithStack(err)
	}

	// Move the temporary file over the target path
	err = os.Rename(tempPath, path)
	if err != nil {
		_ = os.Remove(tempPath)
		return errors.WithStack(err)
	}
	return nil
}
