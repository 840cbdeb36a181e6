package input

import (
	"context"
	"io"
	"io/ioutil"
	"strings"
	"testing"

	"github.com/funktionslust/boxbulk"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMux_Open(t *testing.T) {
	// ARRANGE
	local := &inputMock{content: "local"}
	s3 := &inputMock{content: "s3"}
	mux := NewMux(local, map[string]boxbulk.Input{S3Scheme: s3})
	if err := boxbulk.InitStorage(context.Background(), mux, "run", zap.NewNop()); err != nil {
		t.Fatalf("init mux error: %v", err)
	}
	t.Run("Local", func(t *testing.T) {
		// ACT
		content, err := read(mux, "/tmp/folders.csv")
		// ASSERT
		assert.Nil(t, err)
		assert.Equal(t, "local", content)
	})
	t.Run("Scheme", func(t *testing.T) {
		content, err := read(mux, "s3://bucket/folders.csv")
		assert.Nil(t, err)
		assert.Equal(t, "s3", content)
	})
	t.Run("UnknownScheme", func(t *testing.T) {
		_, err := read(mux, "ftp://host/folders.csv")
		if assert.NotNil(t, err) {
			assert.Contains(t, err.Error(), `no input for scheme "ftp"`)
		}
	})
	mux.Shutdown()
	assert.Equalf(t, []string{"/tmp/folders.csv"}, local.opened, "local opens mismatch")
	assert.Equalf(t, []string{"s3://bucket/folders.csv"}, s3.opened, "s3 opens mismatch")
	assert.Truef(t, local.setUp && s3.setUp, "routed inputs must be set up")
	assert.Truef(t, local.isShutDown && s3.isShutDown, "routed inputs must be shut down")
}

func TestMux_Open_NoDefault(t *testing.T) {
	mux := NewMux(nil, nil)

	_, err := mux.Open(context.Background(), "folders.csv")

	assert.NotNil(t, err)
}

func read(mux *Mux, path string) (string, error) {
	rc, err := mux.Open(context.Background(), path)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	data, err := ioutil.ReadAll(rc)
	return string(data), err
}

// ======= inputMock =======

type inputMock struct {
	boxbulk.BaseStorage
	content    string
	opened     []string
	setUp      bool
	isShutDown bool
}

func (i *inputMock) Setup() error {
	i.setUp = true
	return nil
}

func (i *inputMock) Shutdown() {
	i.isShutDown = true
}

func (i *inputMock) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	i.opened = append(i.opened, path)
	return ioutil.NopCloser(strings.NewReader(i.content)), nil
}
