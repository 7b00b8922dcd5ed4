// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

import (
	"os"
	"time"

	"github.com/gufolabs/gufoagent/internal/config"
)

// filePollInterval is how often a file-backed, repeatable config
// source is re-read for changes.
const filePollInterval = 30 * time.Second

// File resolves a config from a local path. Repeatable (the
// supervisor re-reads it periodically, picking up edits), not
// failable (a missing or malformed local file is a bootstrap error).
type File struct {
	path string
}

// NewFile builds a File resolver for path.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) IsRepeatable() bool { return true }
func (f *File) IsFailable() bool   { return false }

func (f *File) Sleep(succeeded bool) {
	time.Sleep(filePollInterval)
}

func (f *File) GetConfig() (*config.Config, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}
	return config.Parse(data)
}
