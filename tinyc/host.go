package tinyc

import (
	"io"
	"os"
	"path/filepath"
)

// File is an open file as seen by the standard library.
type File interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer
}

// FileSystem is the filesystem capability behind fopen, rename and remove.
type FileSystem interface {
	OpenFile(name string, flag int, perm os.FileMode) (File, error)
	Rename(oldpath, newpath string) error
	Remove(name string) error
}

// Host bundles the capabilities a program run may use. Nil fields fall back
// to the process console streams and the OS filesystem.
type Host struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	FS     FileSystem
}

func (h Host) withDefaults() Host {
	if h.Stdin == nil {
		h.Stdin = os.Stdin
	}
	if h.Stdout == nil {
		h.Stdout = os.Stdout
	}
	if h.Stderr == nil {
		h.Stderr = os.Stderr
	}
	if h.FS == nil {
		h.FS = OSFileSystem{}
	}
	return h
}

// OSFileSystem resolves relative paths against Root, or against the process
// working directory when Root is empty.
type OSFileSystem struct {
	Root string
}

func (fsys OSFileSystem) resolve(name string) string {
	if fsys.Root == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(fsys.Root, name)
}

func (fsys OSFileSystem) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	f, err := os.OpenFile(fsys.resolve(name), flag, perm)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (fsys OSFileSystem) Rename(oldpath, newpath string) error {
	return os.Rename(fsys.resolve(oldpath), fsys.resolve(newpath))
}

func (fsys OSFileSystem) Remove(name string) error {
	return os.Remove(fsys.resolve(name))
}
