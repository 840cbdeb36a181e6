package utils

import (
	"bytes"
	"compress/gzip"
	"io"
	"io/ioutil"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGunzip(t *testing.T) {
	t.Run("Simple", func(t *testing.T) {
		buf := &bytes.Buffer{}
		w := gzip.NewWriter(buf)
		w.Write([]byte("name,parent_id\n"))
		w.Close()
		source := &closerSpy{Reader: buf}

		reader, err := Gunzip(source)
		assert.Nil(t, err)
		data, err := ioutil.ReadAll(reader)
		assert.Nil(t, err)
		assert.Equal(t, "name,parent_id\n", string(data))
		assert.Nil(t, reader.Close())
		assert.Truef(t, source.closed, "the source must be closed with the gzip reader")
	})
	t.Run("NotGzipped", func(t *testing.T) {
		source := &closerSpy{Reader: bytes.NewBufferString("name,parent_id\n")}
		_, err := Gunzip(source)
		assert.NotNil(t, err)
		assert.True(t, source.closed)
	})
}

func TestIsGzipped(t *testing.T) {
	assert.True(t, IsGzipped("folders.csv.GZ"))
	assert.False(t, IsGzipped("folders.csv"))
}

// ======= closerSpy =======

type closerSpy struct {
	io.Reader
	closed bool
}

func (c *closerSpy) Close() error {
	c.closed = true
	return nil
}
