package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslatePath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	t.Run("Home", func(t *testing.T) {
		path, err := TranslatePath("~/box-reports")
		assert.Nil(t, err)
		assert.Equal(t, filepath.Join(home, "box-reports"), path)
	})
	t.Run("Relative", func(t *testing.T) {
		wd, _ := os.Getwd()
		path, err := TranslatePath("reports")
		assert.Nil(t, err)
		assert.Equal(t, filepath.Join(wd, "reports"), path)
	})
	t.Run("Scheme", func(t *testing.T) {
		path, err := TranslatePath("s3://bucket/reports")
		assert.Nil(t, err)
		assert.Equal(t, "s3://bucket/reports", path)
	})
	t.Run("Empty", func(t *testing.T) {
		path, err := TranslatePath("")
		assert.Nil(t, err)
		assert.Equal(t, "", path)
	})
}

func TestScheme(t *testing.T) {
	assert.Equal(t, "s3", Scheme("S3://bucket/key"))
	assert.Equal(t, "es", Scheme("es://box-reports"))
	assert.Equal(t, "", Scheme("/tmp/reports"))
	assert.Equal(t, "", Scheme("://nothing"))
	assert.True(t, HasScheme("s3://bucket"))
	assert.False(t, HasScheme("~/reports"))
}

func TestSplitLocation(t *testing.T) {
	bucket, key := SplitLocation("s3://bucket/some/key.csv")
	assert.Equal(t, "bucket", bucket)
	assert.Equal(t, "some/key.csv", key)
	bucket, key = SplitLocation("s3://bucket")
	assert.Equal(t, "bucket", bucket)
	assert.Equal(t, "", key)
}
