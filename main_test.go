package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInputFlags(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "clip.MP4")
	require.NoError(t, os.WriteFile(video, []byte("x"), 0o644))
	text := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(text, []byte("x"), 0o644))

	in, err := validateInputFlags("", "", 2)
	require.NoError(t, err)
	assert.Equal(t, InputCamera, in.Type)
	assert.Equal(t, "camera:2", in.String())

	in, err = validateInputFlags(video, "", 0)
	require.NoError(t, err)
	assert.Equal(t, InputVideo, in.Type)

	in, err = validateInputFlags("", dir, 0)
	require.NoError(t, err)
	assert.Equal(t, InputFrames, in.Type)
	assert.Equal(t, "frames:"+dir, in.String())

	_, err = validateInputFlags(video, dir, 0)
	assert.Error(t, err)
	_, err = validateInputFlags(text, "", 0)
	assert.Error(t, err)
	_, err = validateInputFlags(filepath.Join(dir, "missing.mp4"), "", 0)
	assert.Error(t, err)
	_, err = validateInputFlags("", video, 0)
	assert.Error(t, err, "frames must be a directory")
}

func TestExitStatus(t *testing.T) {
	assert.Equal(t, 0, exitStatus(nil))
	assert.Equal(t, 0, exitStatus(context.Canceled))
	assert.Equal(t, 0, exitStatus(errors.Wrap(context.Canceled, "frame loop")))
	assert.Equal(t, 1, exitStatus(errors.New("setting capture size")))
	assert.Equal(t, 1, exitStatus(context.DeadlineExceeded))
}
