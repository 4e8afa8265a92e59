package envfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendMissingKeepsExistingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("AWS_REGION=sa-east-1\nBUCKET_NAME=already-set\n"), 0o600))

	added, err := AppendMissing(path, map[string]string{
		"BUCKET_NAME":   "new-bucket",
		"VISION_S3_DIR": "myphotos/",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"VISION_S3_DIR"}, added)

	got, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "already-set", got["BUCKET_NAME"])
	assert.Equal(t, "myphotos/", got["VISION_S3_DIR"])
	assert.Equal(t, "sa-east-1", got["AWS_REGION"])
}

func TestAppendMissingCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	added, err := AppendMissing(path, map[string]string{"BUCKET_NAME": "vision-images"})
	require.NoError(t, err)
	assert.Equal(t, []string{"BUCKET_NAME"}, added)

	got, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "vision-images", got["BUCKET_NAME"])
}

func TestAppendMissingNoChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BUCKET_NAME=x\n"), 0o600))

	added, err := AppendMissing(path, map[string]string{"BUCKET_NAME": "y"})
	require.NoError(t, err)
	assert.Empty(t, added)
}

func TestAppendMissingPreservesExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	original := "# AWS settings\nAWS_REGION=us-east-1\n\n# secrets below\nGEMINI_API_KEY=abc\n"
	require.NoError(t, os.WriteFile(path, []byte(original), 0o600))

	added, err := AppendMissing(path, map[string]string{"BUCKET_NAME": "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"BUCKET_NAME"}, added)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original+"BUCKET_NAME=\"b\"\n", string(raw))
}

func TestAppendMissingAddsNewlineBeforeAppending(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("AWS_REGION=us-east-1"), 0o600))

	_, err := AppendMissing(path, map[string]string{"VISION_S3_DIR": "myphotos/", "BUCKET_NAME": "b"})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "AWS_REGION=us-east-1\nBUCKET_NAME=\"b\"\nVISION_S3_DIR=\"myphotos/\"\n", string(raw))
}
