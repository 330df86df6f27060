package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// Write serializes the bundle to path as indented UTF-8 JSON, with
// non-ASCII characters preserved literally. The document is written to a
// temporary file and renamed into place, so a failure never leaves a
// truncated export behind.
func Write(bundle *Bundle, path string) error {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(bundle); err != nil {
		return errors.Wrap(err, "encoding bundle")
	}

	temporaryPath := path + ".tmp"
	if err := os.WriteFile(temporaryPath, buffer.Bytes(), 0644); err != nil {
		return errors.Wrap(err, "writing file")
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return errors.Wrap(err, "renaming file")
	}
	return nil
}

// Read decodes a structured document back into a Bundle. A freshly
// written document decodes to a bundle equal to the one that produced it.
func Read(path string) (*Bundle, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}
	bundle := &Bundle{}
	if err := json.Unmarshal(bytes, bundle); err != nil {
		return nil, errors.Wrap(err, "unmarshaling into bundle")
	}
	if bundle.Info == nil {
		return nil, errors.New("document has no export info")
	}
	var selfCount, otherCount int
	for _, participant := range bundle.Info.Participants {
		if participant.IsMe {
			selfCount++
		} else {
			otherCount++
		}
	}
	if selfCount != 1 || otherCount != 1 {
		return nil, errors.New("document must list exactly one participant each way")
	}
	return bundle, nil
}

// DefaultFilename derives the structured document's filename from the
// peer's handle or id plus a generation timestamp.
func DefaultFilename(directory string, other *Participant) string {
	handle := other.Username
	if handle == "" {
		handle = fmt.Sprintf("user_%d", other.UserID)
	}
	name := fmt.Sprintf("dialog_%s_%s.json", handle, time.Now().Format("20060102_150405"))
	return filepath.Join(directory, name)
}
