package envfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/joho/godotenv"
)

// AppendMissing appends the given keys to the env file at path, leaving the
// existing content untouched. Keys already present are skipped and the file
// is created when it does not exist. It returns the keys that were added.
func AppendMissing(path string, values map[string]string) ([]string, error) {
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	current, err := godotenv.Parse(bytes.NewReader(existing))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	missing := make(map[string]string, len(values))
	added := make([]string, 0, len(values))
	for key, value := range values {
		if _, ok := current[key]; ok {
			continue
		}
		missing[key] = value
		added = append(added, key)
	}

	if len(added) == 0 {
		return added, nil
	}
	sort.Strings(added)

	lines, err := godotenv.Marshal(missing)
	if err != nil {
		return nil, fmt.Errorf("render env values: %w", err)
	}

	var buf bytes.Buffer
	if len(existing) > 0 && !bytes.HasSuffix(existing, []byte("\n")) {
		buf.WriteByte('\n')
	}
	buf.WriteString(lines)
	buf.WriteByte('\n')

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}

	return added, nil
}
