package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	NewObjectKey(prefix string, ext string) string
	DecodeBase64Image(data string) ([]byte, error)
}

type utils struct{}

func New() IUtils {
	return &utils{}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// NewObjectKey builds a unique key such as "generated/2f1c...e9.png".
func (u *utils) NewObjectKey(prefix string, ext string) string {
	name := uuid.NewString()
	if ext != "" {
		name = fmt.Sprintf("%s.%s", name, strings.TrimPrefix(ext, "."))
	}
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

func (u *utils) DecodeBase64Image(data string) ([]byte, error) {
	if i := strings.Index(data, ","); strings.HasPrefix(data, "data:") && i > 0 {
		data = data[i+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, errors.New("invalid base64 image data")
	}
	if len(raw) == 0 {
		return nil, errors.New("empty image data")
	}

	return raw, nil
}
